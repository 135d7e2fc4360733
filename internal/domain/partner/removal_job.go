package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RemovalStatus tracks a customer removal cascade
type RemovalStatus string

const (
	RemovalRunning   RemovalStatus = "running"
	RemovalCompleted RemovalStatus = "completed"
)

// RemovalJob persists the progress of a customer removal so an interrupted
// cascade resumes after the last report it finished
type RemovalJob struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	CustomerID      uuid.UUID
	RequestedBy     uuid.UUID
	DeleteCustomer  bool // false for a references-only purge
	Status          RemovalStatus
	LastProcessedID uuid.UUID
	PlansUpdated    int
	ReportsUpdated  int
	ReportsDeleted  int
	StartedAt       time.Time
	LastBatchAt     time.Time
	CompletedAt     *time.Time
}

// NewRemovalJob starts a job with an empty cursor
func NewRemovalJob(tenantID, customerID, requestedBy uuid.UUID, deleteCustomer bool, now time.Time) *RemovalJob {
	return &RemovalJob{
		ID:             uuid.New(),
		TenantID:       tenantID,
		CustomerID:     customerID,
		RequestedBy:    requestedBy,
		DeleteCustomer: deleteCustomer,
		Status:         RemovalRunning,
		StartedAt:      now,
		LastBatchAt:    now,
	}
}

// Advance moves the cursor past a finished batch
func (j *RemovalJob) Advance(lastID uuid.UUID, updated, deleted int, now time.Time) {
	j.LastProcessedID = lastID
	j.ReportsUpdated += updated
	j.ReportsDeleted += deleted
	j.LastBatchAt = now
}

// Complete marks the cascade finished
func (j *RemovalJob) Complete(now time.Time) {
	j.Status = RemovalCompleted
	j.LastBatchAt = now
	j.CompletedAt = &now
}

// RemovalJobRepository persists removal cursors
type RemovalJobRepository interface {
	// FindActive returns shared.ErrNotFound when no running job exists
	FindActive(ctx context.Context, tenantID, customerID uuid.UUID) (*RemovalJob, error)

	// FindStale returns running jobs whose last batch ran before the cutoff, oldest first
	FindStale(ctx context.Context, before time.Time, limit int) ([]RemovalJob, error)

	Save(ctx context.Context, job *RemovalJob) error
}

package report

import (
	"context"
	"time"

	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReportFilter narrows report listings
type ReportFilter struct {
	shared.Filter
	RepID    *uuid.UUID
	DateFrom string
	DateTo   string
}

// DayStats aggregates all reports submitted for one date
type DayStats struct {
	Reports    int64 `json:"reports"`
	Visits     int64 `json:"visits"`
	Visited    int64 `json:"visited"`
	NotVisited int64 `json:"not_visited"`
	Extra      int64 `json:"extra"`
}

// DailyReportRepository defines the interface for daily report persistence
type DailyReportRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*DailyReport, error)

	// FindByRepAndDate returns shared.ErrNotFound when the rep has no report that day
	FindByRepAndDate(ctx context.Context, tenantID, repID uuid.UUID, date string) (*DailyReport, error)

	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ReportFilter) ([]DailyReport, int64, error)

	// FindReferencingCustomer returns up to limit reports with a visit to
	// customerID and an ID greater than afterID, ordered by ID
	FindReferencingCustomer(ctx context.Context, tenantID, customerID, afterID uuid.UUID, limit int) ([]DailyReport, error)

	StatsForDate(ctx context.Context, tenantID uuid.UUID, date string) (*DayStats, error)

	// Create inserts a new report with its visits. A second report for the
	// same (rep, date) fails with shared.ErrAlreadyExists.
	Create(ctx context.Context, report *DailyReport) error

	// Save updates a stored report and replaces its visits. The row must
	// still be at report.Version, otherwise shared.ErrConcurrencyConflict is
	// returned. On success report.Version is incremented.
	Save(ctx context.Context, report *DailyReport) error

	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// SampleRepository defines the interface for sample persistence
type SampleRepository interface {
	FindByReport(ctx context.Context, tenantID, reportID uuid.UUID) ([]Sample, error)

	// Save inserts a new sample or overwrites an existing one
	Save(ctx context.Context, sample *Sample) error

	DeleteByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) error

	DeleteByReport(ctx context.Context, tenantID, reportID uuid.UUID) error

	// SumCustomerSamplesSince totals customer-directed samples of a product per rep
	SumCustomerSamplesSince(ctx context.Context, tenantID, productID uuid.UUID, since time.Time) (map[uuid.UUID]int64, error)
}

package report

import (
	"context"
	"time"

	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrRepBusy is returned when another write for the same rep holds the lock
var ErrRepBusy = shared.NewDomainError("REP_BUSY", "Another update for this rep is in progress, please retry")

// AttachmentStore removes uploaded files that a report no longer references
type AttachmentStore interface {
	Delete(ctx context.Context, ref string) error
}

// RepLocker serializes writes per (tenant, rep). Implementations return
// ErrRepBusy when the lock cannot be taken in time.
type RepLocker interface {
	Lock(ctx context.Context, tenantID, repID uuid.UUID) (unlock func(), err error)
}

// Recorder receives reconciliation outcomes for metrics
type Recorder interface {
	RecordReconciliation(ctx context.Context, operation string, outcome string, duration time.Duration)
	RecordRetry(ctx context.Context, operation string, attempt int)
}

// Outcome labels passed to Recorder
const (
	OutcomeSuccess      = "success"
	OutcomeInsufficient = "insufficient_stock"
	OutcomeConflict     = "stock_changed"
	OutcomeInvalid      = "invalid"
	OutcomeFailed       = "failed"
)

type noopLocker struct{}

func (noopLocker) Lock(context.Context, uuid.UUID, uuid.UUID) (func(), error) {
	return func() {}, nil
}

type noopAttachmentStore struct{}

func (noopAttachmentStore) Delete(context.Context, string) error { return nil }

package stock

import (
	"context"
	"time"

	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BalanceRepository stores the materialized balances.
// Balances change only through ApplyDelta.
type BalanceRepository interface {
	// FindByKey returns shared.ErrNotFound if the balance was never created
	FindByKey(ctx context.Context, key Key) (*Balance, error)

	// FindForRep returns the rep's balances, limited to productIDs when non-empty
	FindForRep(ctx context.Context, tenantID, repID uuid.UUID, productIDs []uuid.UUID) ([]Balance, error)

	// FindForProduct returns every rep's balance of a product
	FindForProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]Balance, error)

	// ApplyDelta adds delta in a single conditional update, creating the row
	// at zero first when absent. Returns ErrBalanceWouldGoNegative instead of
	// writing when the result would be below zero.
	ApplyDelta(ctx context.Context, key Key, delta int64) (*Balance, error)
}

// LedgerRepository stores ledger entries. It is append-only.
type LedgerRepository interface {
	Append(ctx context.Context, entry *LedgerEntry) error

	// FindByKey lists entries newest first
	FindByKey(ctx context.Context, key Key, filter shared.Filter) ([]LedgerEntry, int64, error)

	// FindForRep lists every entry of a rep created at or before until, in
	// append order
	FindForRep(ctx context.Context, tenantID, repID uuid.UUID, until time.Time) ([]LedgerEntry, error)

	// SumUntil replays the key up to and including at
	SumUntil(ctx context.Context, key Key, at time.Time) (int64, error)

	// SumAnalysisSince totals includeInAnalysis entries per rep for a product
	SumAnalysisSince(ctx context.Context, tenantID, productID uuid.UUID, since time.Time) (map[uuid.UUID]int64, error)
}

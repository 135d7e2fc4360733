package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/Mandoobi/jaber-backend/internal/domain/stock"
)

// AdjustmentRecorder receives one call per applied or rejected adjustment
type AdjustmentRecorder interface {
	RecordAdjustment(ctx context.Context, adj stock.Adjustment)
	RecordRejectedAdjustment(ctx context.Context, adj stock.Adjustment)
}

// Adjuster is the single write path for rep stock. Every balance change goes
// through Adjust, which pairs it with exactly one ledger entry.
type Adjuster struct {
	clock    shared.Clock
	recorder AdjustmentRecorder
}

// NewAdjuster creates an Adjuster
func NewAdjuster(clock shared.Clock) *Adjuster {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &Adjuster{clock: clock}
}

// SetRecorder attaches metrics
func (a *Adjuster) SetRecorder(r AdjustmentRecorder) {
	a.recorder = r
}

// Adjust applies adj.Delta to the balance with a conditional update and then
// appends the ledger entry. When the update is rejected no ledger entry is
// written and stock.ErrBalanceWouldGoNegative is returned. A failure to append
// after the balance moved is returned as-is; inside a transaction scope the
// caller's rollback undoes the balance change.
func (a *Adjuster) Adjust(ctx context.Context, repos Repositories, adj stock.Adjustment) (*stock.Balance, error) {
	entry, err := stock.NewLedgerEntry(adj, a.clock.Now())
	if err != nil {
		return nil, err
	}

	balance, err := repos.BalanceRepo().ApplyDelta(ctx, adj.Key, adj.Delta)
	if err != nil {
		if errors.Is(err, stock.ErrBalanceWouldGoNegative) && a.recorder != nil {
			a.recorder.RecordRejectedAdjustment(ctx, adj)
		}
		return nil, err
	}

	if err := repos.LedgerRepo().Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append ledger entry for %s: %w", adj.Key, err)
	}

	if a.recorder != nil {
		a.recorder.RecordAdjustment(ctx, adj)
	}
	return balance, nil
}

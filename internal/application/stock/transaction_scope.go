package stock

import (
	"context"

	"github.com/Mandoobi/jaber-backend/internal/domain/stock"
)

// TransactionScope runs fn with stock repositories bound to one transaction.
// If fn returns an error the transaction is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories exposes the ledger and balance stores inside a scope
type Repositories interface {
	BalanceRepo() stock.BalanceRepository
	LedgerRepo() stock.LedgerRepository
}

// NoOpTransactionScope runs fn directly against the given repositories
type NoOpTransactionScope struct {
	balanceRepo stock.BalanceRepository
	ledgerRepo  stock.LedgerRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(balanceRepo stock.BalanceRepository, ledgerRepo stock.LedgerRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{balanceRepo: balanceRepo, ledgerRepo: ledgerRepo}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos Repositories) error) error {
	return fn(s)
}

// BalanceRepo returns the balance repository
func (s *NoOpTransactionScope) BalanceRepo() stock.BalanceRepository { return s.balanceRepo }

// LedgerRepo returns the ledger repository
func (s *NoOpTransactionScope) LedgerRepo() stock.LedgerRepository { return s.ledgerRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)

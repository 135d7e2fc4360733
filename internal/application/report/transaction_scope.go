package report

import (
	"context"

	"github.com/Mandoobi/jaber-backend/internal/domain/report"
	"github.com/Mandoobi/jaber-backend/internal/domain/stock"
)

// TransactionScope runs one reconciliation pass with every store it writes
// bound to the same transaction. Returning an error from fn rolls back all of
// them, which is what makes a conflict retry safe.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories is the set of stores a reconciliation writes.
// It satisfies the stock application's Repositories so the same scope feeds
// the adjuster.
type TransactionalRepositories interface {
	BalanceRepo() stock.BalanceRepository
	LedgerRepo() stock.LedgerRepository
	SampleRepo() report.SampleRepository
	ReportRepo() report.DailyReportRepository
}

// NoOpTransactionScope runs fn directly. Writes made before a failure are not
// undone, so it only suits single-writer setups and tests.
type NoOpTransactionScope struct {
	balanceRepo stock.BalanceRepository
	ledgerRepo  stock.LedgerRepository
	sampleRepo  report.SampleRepository
	reportRepo  report.DailyReportRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(
	balanceRepo stock.BalanceRepository,
	ledgerRepo stock.LedgerRepository,
	sampleRepo report.SampleRepository,
	reportRepo report.DailyReportRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		balanceRepo: balanceRepo,
		ledgerRepo:  ledgerRepo,
		sampleRepo:  sampleRepo,
		reportRepo:  reportRepo,
	}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) BalanceRepo() stock.BalanceRepository     { return s.balanceRepo }
func (s *NoOpTransactionScope) LedgerRepo() stock.LedgerRepository       { return s.ledgerRepo }
func (s *NoOpTransactionScope) SampleRepo() report.SampleRepository      { return s.sampleRepo }
func (s *NoOpTransactionScope) ReportRepo() report.DailyReportRepository { return s.reportRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)

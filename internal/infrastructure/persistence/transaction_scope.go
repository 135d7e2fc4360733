package persistence

import (
	"context"

	appreport "github.com/Mandoobi/jaber-backend/internal/application/report"
	appstock "github.com/Mandoobi/jaber-backend/internal/application/stock"
	"github.com/Mandoobi/jaber-backend/internal/domain/report"
	"github.com/Mandoobi/jaber-backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormTransactionScope runs reconciliation passes inside a database
// transaction. If fn returns an error, every write made through the scoped
// repositories is rolled back.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appreport.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// GormStockTransactionScope is the stock-only view used by admin adjustments.
type GormStockTransactionScope struct {
	db *gorm.DB
}

// NewGormStockTransactionScope creates a new GormStockTransactionScope.
func NewGormStockTransactionScope(db *gorm.DB) *GormStockTransactionScope {
	return &GormStockTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
func (s *GormStockTransactionScope) Execute(ctx context.Context, fn func(repos appstock.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// BalanceRepo returns the balance repository scoped to the current transaction.
func (r *gormTransactionalRepositories) BalanceRepo() stock.BalanceRepository {
	return NewGormBalanceRepository(r.tx)
}

// LedgerRepo returns the ledger repository scoped to the current transaction.
func (r *gormTransactionalRepositories) LedgerRepo() stock.LedgerRepository {
	return NewGormLedgerRepository(r.tx)
}

// SampleRepo returns the sample repository scoped to the current transaction.
func (r *gormTransactionalRepositories) SampleRepo() report.SampleRepository {
	return NewGormSampleRepository(r.tx)
}

// ReportRepo returns the daily report repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ReportRepo() report.DailyReportRepository {
	return NewGormDailyReportRepository(r.tx)
}

var (
	_ appreport.TransactionScope          = (*GormTransactionScope)(nil)
	_ appstock.TransactionScope           = (*GormStockTransactionScope)(nil)
	_ appreport.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
	_ appstock.Repositories               = (*gormTransactionalRepositories)(nil)
)

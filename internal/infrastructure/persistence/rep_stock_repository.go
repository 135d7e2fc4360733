package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/Mandoobi/jaber-backend/internal/domain/stock"
	"github.com/Mandoobi/jaber-backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBalanceRepository implements stock.BalanceRepository using GORM
type GormBalanceRepository struct {
	db *gorm.DB
}

// NewGormBalanceRepository creates a new GormBalanceRepository
func NewGormBalanceRepository(db *gorm.DB) *GormBalanceRepository {
	return &GormBalanceRepository{db: db}
}

func whereKey(db *gorm.DB, key stock.Key) *gorm.DB {
	return db.Where("tenant_id = ? AND rep_id = ? AND product_id = ?", key.TenantID, key.RepID, key.ProductID)
}

// FindByKey finds the balance of one (rep, product)
func (r *GormBalanceRepository) FindByKey(ctx context.Context, key stock.Key) (*stock.Balance, error) {
	var model models.RepStockModel
	if err := whereKey(r.db.WithContext(ctx), key).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindForRep lists a rep's balances, optionally limited to productIDs
func (r *GormBalanceRepository) FindForRep(ctx context.Context, tenantID, repID uuid.UUID, productIDs []uuid.UUID) ([]stock.Balance, error) {
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND rep_id = ?", tenantID, repID)
	if len(productIDs) > 0 {
		query = query.Where("product_id IN ?", productIDs)
	}
	var rows []models.RepStockModel
	if err := query.Order("product_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return balancesToDomain(rows), nil
}

// FindForProduct lists every rep's balance of a product
func (r *GormBalanceRepository) FindForProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]stock.Balance, error) {
	var rows []models.RepStockModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Order("rep_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return balancesToDomain(rows), nil
}

// ApplyDelta adds delta with a conditional update that only matches when the
// result stays non-negative. A missing row is inserted at zero and the
// update retried once.
func (r *GormBalanceRepository) ApplyDelta(ctx context.Context, key stock.Key, delta int64) (*stock.Balance, error) {
	db := r.db.WithContext(ctx)

	affected, err := r.increment(db, key, delta)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		seed := models.RepStockModelFromDomain(stock.NewBalance(key))
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "rep_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).Create(seed).Error; err != nil {
			return nil, err
		}
		if affected, err = r.increment(db, key, delta); err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, stock.ErrBalanceWouldGoNegative
		}
	}

	var model models.RepStockModel
	if err := whereKey(db, key).First(&model).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormBalanceRepository) increment(db *gorm.DB, key stock.Key, delta int64) (int64, error) {
	result := whereKey(db.Model(&models.RepStockModel{}), key).
		Where("quantity + ? >= 0", delta).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func balancesToDomain(rows []models.RepStockModel) []stock.Balance {
	out := make([]stock.Balance, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// GormLedgerRepository implements stock.LedgerRepository using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Append inserts a ledger entry
func (r *GormLedgerRepository) Append(ctx context.Context, entry *stock.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(models.StockLedgerModelFromDomain(entry)).Error
}

// FindByKey lists entries of one (rep, product), newest first
func (r *GormLedgerRepository) FindByKey(ctx context.Context, key stock.Key, filter shared.Filter) ([]stock.LedgerEntry, int64, error) {
	filter = filter.Normalize()
	query := whereKey(r.db.WithContext(ctx).Model(&models.StockLedgerModel{}), key).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.StockLedgerModel
	if err := query.
		Order("created_at DESC, id DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	entries := make([]stock.LedgerEntry, len(rows))
	for i := range rows {
		entries[i] = *rows[i].ToDomain()
	}
	return entries, total, nil
}

// FindForRep lists a rep's entries up to until, oldest first
func (r *GormLedgerRepository) FindForRep(ctx context.Context, tenantID, repID uuid.UUID, until time.Time) ([]stock.LedgerEntry, error) {
	var rows []models.StockLedgerModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND rep_id = ? AND created_at <= ?", tenantID, repID, until).
		Order("created_at, id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]stock.LedgerEntry, len(rows))
	for i := range rows {
		entries[i] = *rows[i].ToDomain()
	}
	return entries, nil
}

// SumUntil totals the key's entries created at or before at
func (r *GormLedgerRepository) SumUntil(ctx context.Context, key stock.Key, at time.Time) (int64, error) {
	var sum int64
	err := whereKey(r.db.WithContext(ctx).Model(&models.StockLedgerModel{}), key).
		Where("created_at <= ?", at).
		Select("COALESCE(SUM(quantity_change), 0)").
		Scan(&sum).Error
	return sum, err
}

type repTotal struct {
	RepID uuid.UUID
	Total int64
}

// SumAnalysisSince totals analysis entries of a product per rep
func (r *GormLedgerRepository) SumAnalysisSince(ctx context.Context, tenantID, productID uuid.UUID, since time.Time) (map[uuid.UUID]int64, error) {
	var rows []repTotal
	if err := r.db.WithContext(ctx).Model(&models.StockLedgerModel{}).
		Select("rep_id, SUM(quantity_change) AS total").
		Where("tenant_id = ? AND product_id = ? AND include_in_analysis = ? AND created_at >= ?", tenantID, productID, true, since).
		Group("rep_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return repTotals(rows), nil
}

func repTotals(rows []repTotal) map[uuid.UUID]int64 {
	out := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		out[row.RepID] = row.Total
	}
	return out
}

var (
	_ stock.BalanceRepository = (*GormBalanceRepository)(nil)
	_ stock.LedgerRepository  = (*GormLedgerRepository)(nil)
)

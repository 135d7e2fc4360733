package persistence

import (
	"context"
	"time"

	"github.com/Mandoobi/jaber-backend/internal/domain/report"
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/Mandoobi/jaber-backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDailyReportRepository implements report.DailyReportRepository using GORM
type GormDailyReportRepository struct {
	db *gorm.DB
}

// NewGormDailyReportRepository creates a new GormDailyReportRepository
func NewGormDailyReportRepository(db *gorm.DB) *GormDailyReportRepository {
	return &GormDailyReportRepository{db: db}
}

func preloadVisits(db *gorm.DB) *gorm.DB {
	return db.Preload("Visits", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position")
	})
}

// FindByIDForTenant finds a report by ID within a tenant
func (r *GormDailyReportRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*report.DailyReport, error) {
	var model models.DailyReportModel
	if err := preloadVisits(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByRepAndDate finds the rep's report for a calendar date
func (r *GormDailyReportRepository) FindByRepAndDate(ctx context.Context, tenantID, repID uuid.UUID, date string) (*report.DailyReport, error) {
	var model models.DailyReportModel
	if err := preloadVisits(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND rep_id = ? AND report_date = ?", tenantID, repID, date).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists reports newest date first
func (r *GormDailyReportRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter report.ReportFilter) ([]report.DailyReport, int64, error) {
	page := filter.Filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.DailyReportModel{}).
		Where("tenant_id = ?", tenantID)
	if filter.RepID != nil {
		query = query.Where("rep_id = ?", *filter.RepID)
	}
	if filter.DateFrom != "" {
		query = query.Where("report_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query = query.Where("report_date <= ?", filter.DateTo)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.DailyReportModel
	if err := preloadVisits(query).
		Order("report_date DESC, id ASC").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return reportsToDomain(rows), total, nil
}

// FindReferencingCustomer pages through reports that visit customerID using
// the report ID as a keyset cursor
func (r *GormDailyReportRepository) FindReferencingCustomer(ctx context.Context, tenantID, customerID, afterID uuid.UUID, limit int) ([]report.DailyReport, error) {
	visits := r.db.Model(&models.DailyReportVisitModel{}).
		Select("report_id").
		Where("customer_id = ?", customerID)

	var rows []models.DailyReportModel
	if err := preloadVisits(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND id > ? AND id IN (?)", tenantID, afterID, visits).
		Order("id").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return reportsToDomain(rows), nil
}

// StatsForDate sums the stored visit stats of every report on date
func (r *GormDailyReportRepository) StatsForDate(ctx context.Context, tenantID uuid.UUID, date string) (*report.DayStats, error) {
	var stats report.DayStats
	if err := r.db.WithContext(ctx).Model(&models.DailyReportModel{}).
		Select(`COUNT(*) AS reports,
			COALESCE(SUM(total_visits), 0) AS visits,
			COALESCE(SUM(total_visited), 0) AS visited,
			COALESCE(SUM(total_not_visited), 0) AS not_visited,
			COALESCE(SUM(total_extra), 0) AS extra`).
		Where("tenant_id = ? AND report_date = ?", tenantID, date).
		Scan(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// Create inserts the report row and its visits. A second report for the
// same (rep, date) fails with shared.ErrAlreadyExists.
func (r *GormDailyReportRepository) Create(ctx context.Context, rep *report.DailyReport) error {
	model := models.DailyReportModelFromDomain(rep)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return translateError(err)
		}
		return replaceVisits(tx, model)
	})
}

// Save updates the report with optimistic locking and rewrites its visits
func (r *GormDailyReportRepository) Save(ctx context.Context, rep *report.DailyReport) error {
	model := models.DailyReportModelFromDomain(rep)
	next := *model
	next.Version = model.Version + 1

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&next).
			Select("*").
			Omit(clause.Associations, "created_at").
			Where("tenant_id = ? AND version = ?", model.TenantID, model.Version).
			Updates(&next)
		if result.Error != nil {
			return translateError(result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict.WithMessage("Daily report was modified by another request")
		}
		return replaceVisits(tx, model)
	})
	if err != nil {
		return err
	}
	rep.IncrementVersion()
	return nil
}

func replaceVisits(tx *gorm.DB, model *models.DailyReportModel) error {
	if err := tx.Where("report_id = ?", model.ID).Delete(&models.DailyReportVisitModel{}).Error; err != nil {
		return err
	}
	if len(model.Visits) == 0 {
		return nil
	}
	return tx.Create(&model.Visits).Error
}

// DeleteForTenant removes a report and its visits
func (r *GormDailyReportRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.DailyReportModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("report_id = ?", id).Delete(&models.DailyReportVisitModel{}).Error
	})
}

func reportsToDomain(rows []models.DailyReportModel) []report.DailyReport {
	out := make([]report.DailyReport, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// GormSampleRepository implements report.SampleRepository using GORM
type GormSampleRepository struct {
	db *gorm.DB
}

// NewGormSampleRepository creates a new GormSampleRepository
func NewGormSampleRepository(db *gorm.DB) *GormSampleRepository {
	return &GormSampleRepository{db: db}
}

// FindByReport lists a report's samples in creation order
func (r *GormSampleRepository) FindByReport(ctx context.Context, tenantID, reportID uuid.UUID) ([]report.Sample, error) {
	var rows []models.SampleModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND report_id = ?", tenantID, reportID).
		Order("created_at, id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]report.Sample, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save inserts or overwrites a sample
func (r *GormSampleRepository) Save(ctx context.Context, sample *report.Sample) error {
	return translateError(r.db.WithContext(ctx).Save(models.SampleModelFromDomain(sample)).Error)
}

// DeleteByIDs removes the given samples
func (r *GormSampleRepository) DeleteByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Delete(&models.SampleModel{}).Error
}

// DeleteByReport removes every sample of a report
func (r *GormSampleRepository) DeleteByReport(ctx context.Context, tenantID, reportID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND report_id = ?", tenantID, reportID).
		Delete(&models.SampleModel{}).Error
}

// SumCustomerSamplesSince totals customer samples of a product per rep
func (r *GormSampleRepository) SumCustomerSamplesSince(ctx context.Context, tenantID, productID uuid.UUID, since time.Time) (map[uuid.UUID]int64, error) {
	var rows []repTotal
	if err := r.db.WithContext(ctx).Model(&models.SampleModel{}).
		Select("taken_by AS rep_id, SUM(quantity) AS total").
		Where("tenant_id = ? AND product_id = ? AND kind = ? AND created_at >= ?",
			tenantID, productID, report.SampleKindCustomer, since).
		Group("taken_by").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return repTotals(rows), nil
}

var (
	_ report.DailyReportRepository = (*GormDailyReportRepository)(nil)
	_ report.SampleRepository      = (*GormSampleRepository)(nil)
)

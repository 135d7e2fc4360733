package persistence

import (
	"context"

	"github.com/Mandoobi/jaber-backend/internal/domain/visitplan"
	"github.com/Mandoobi/jaber-backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormVisitPlanRepository implements visitplan.VisitPlanRepository using GORM
type GormVisitPlanRepository struct {
	db *gorm.DB
}

// NewGormVisitPlanRepository creates a new GormVisitPlanRepository
func NewGormVisitPlanRepository(db *gorm.DB) *GormVisitPlanRepository {
	return &GormVisitPlanRepository{db: db}
}

func preloadEntries(db *gorm.DB) *gorm.DB {
	return db.Preload("Entries", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("day_order, position")
	})
}

// FindByRep returns the rep's plan
func (r *GormVisitPlanRepository) FindByRep(ctx context.Context, tenantID, repID uuid.UUID) (*visitplan.VisitPlan, error) {
	var model models.VisitPlanModel
	if err := preloadEntries(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND rep_id = ?", tenantID, repID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindReferencingCustomer lists plans that schedule customerID on any day
func (r *GormVisitPlanRepository) FindReferencingCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]visitplan.VisitPlan, error) {
	entries := r.db.Model(&models.VisitPlanEntryModel{}).
		Select("plan_id").
		Where("customer_id = ?", customerID)

	var rows []models.VisitPlanModel
	if err := preloadEntries(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND id IN (?)", tenantID, entries).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	plans := make([]visitplan.VisitPlan, len(rows))
	for i := range rows {
		plans[i] = *rows[i].ToDomain()
	}
	return plans, nil
}

// Save upserts the plan and rewrites its entries
func (r *GormVisitPlanRepository) Save(ctx context.Context, plan *visitplan.VisitPlan) error {
	model := models.VisitPlanModelFromDomain(plan)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return translateError(err)
		}
		if err := tx.Where("plan_id = ?", model.ID).Delete(&models.VisitPlanEntryModel{}).Error; err != nil {
			return err
		}
		if len(model.Entries) == 0 {
			return nil
		}
		return tx.Create(&model.Entries).Error
	})
}

var _ visitplan.VisitPlanRepository = (*GormVisitPlanRepository)(nil)

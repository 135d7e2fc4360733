package persistence

import (
	"context"
	"time"

	"github.com/Mandoobi/jaber-backend/internal/domain/partner"
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/Mandoobi/jaber-backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByIDForTenant finds a customer by ID within a tenant
func (r *GormCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the customers among ids that exist in the tenant
func (r *GormCustomerRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]partner.Customer, error) {
	if len(ids) == 0 {
		return []partner.Customer{}, nil
	}
	var rows []models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	customers := make([]partner.Customer, len(rows))
	for i := range rows {
		customers[i] = *rows[i].ToDomain()
	}
	return customers, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	model := &models.CustomerModel{}
	model.FromDomain(customer)
	return translateError(r.db.WithContext(ctx).Save(model).Error)
}

// DeleteForTenant permanently removes a customer
func (r *GormCustomerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.CustomerModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormRemovalJobRepository implements partner.RemovalJobRepository using GORM
type GormRemovalJobRepository struct {
	db *gorm.DB
}

// NewGormRemovalJobRepository creates a new GormRemovalJobRepository
func NewGormRemovalJobRepository(db *gorm.DB) *GormRemovalJobRepository {
	return &GormRemovalJobRepository{db: db}
}

// FindActive returns the running job for a customer, if any
func (r *GormRemovalJobRepository) FindActive(ctx context.Context, tenantID, customerID uuid.UUID) (*partner.RemovalJob, error) {
	var model models.CustomerRemovalJobModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND customer_id = ? AND status = ?", tenantID, customerID, partner.RemovalRunning).
		Order("started_at DESC").
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindStale returns running jobs whose last batch finished before the cutoff
func (r *GormRemovalJobRepository) FindStale(ctx context.Context, before time.Time, limit int) ([]partner.RemovalJob, error) {
	var rows []models.CustomerRemovalJobModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND last_batch_at < ?", partner.RemovalRunning, before).
		Order("last_batch_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	jobs := make([]partner.RemovalJob, 0, len(rows))
	for i := range rows {
		jobs = append(jobs, *rows[i].ToDomain())
	}
	return jobs, nil
}

// Save creates or updates a removal job
func (r *GormRemovalJobRepository) Save(ctx context.Context, job *partner.RemovalJob) error {
	model := &models.CustomerRemovalJobModel{}
	model.FromDomain(job)
	if model.LastBatchAt.IsZero() {
		model.LastBatchAt = time.Now()
	}
	return r.db.WithContext(ctx).Save(model).Error
}

var (
	_ partner.CustomerRepository   = (*GormCustomerRepository)(nil)
	_ partner.RemovalJobRepository = (*GormRemovalJobRepository)(nil)
)

package models

import (
	"time"

	"github.com/Mandoobi/jaber-backend/internal/domain/partner"
	"github.com/google/uuid"
)

// CustomerModel is the persistence model for partner.Customer
type CustomerModel struct {
	TenantAggregateModel
	FullName string `gorm:"type:varchar(200);not null"`
	Code     string `gorm:"type:varchar(20);index"`
	Phone    string `gorm:"type:varchar(50)"`
	City     string `gorm:"type:varchar(100)"`
	IsActive bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the model to a domain Customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		FullName:            m.FullName,
		Code:                m.Code,
		Phone:               m.Phone,
		City:                m.City,
		IsActive:            m.IsActive,
	}
}

// FromDomain populates the model from a domain Customer
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.FullName = c.FullName
	m.Code = c.Code
	m.Phone = c.Phone
	m.City = c.City
	m.IsActive = c.IsActive
}

// CustomerRemovalJobModel persists the cursor of a customer removal cascade
type CustomerRemovalJobModel struct {
	ID              uuid.UUID             `gorm:"type:uuid;primary_key"`
	TenantID        uuid.UUID             `gorm:"type:uuid;not null;index:idx_removal_job_customer,priority:1"`
	CustomerID      uuid.UUID             `gorm:"type:uuid;not null;index:idx_removal_job_customer,priority:2"`
	RequestedBy     uuid.UUID             `gorm:"type:uuid;not null"`
	DeleteCustomer  bool                  `gorm:"not null;default:false"`
	Status          partner.RemovalStatus `gorm:"type:varchar(20);not null"`
	LastProcessedID uuid.UUID             `gorm:"type:uuid;not null"`
	PlansUpdated    int                   `gorm:"not null;default:0"`
	ReportsUpdated  int                   `gorm:"not null;default:0"`
	ReportsDeleted  int                   `gorm:"not null;default:0"`
	StartedAt       time.Time             `gorm:"not null"`
	LastBatchAt     time.Time             `gorm:"not null"`
	CompletedAt     *time.Time
}

// TableName returns the table name for GORM
func (CustomerRemovalJobModel) TableName() string {
	return "customer_removal_jobs"
}

// ToDomain converts the model to a domain RemovalJob
func (m *CustomerRemovalJobModel) ToDomain() *partner.RemovalJob {
	return &partner.RemovalJob{
		ID:              m.ID,
		TenantID:        m.TenantID,
		CustomerID:      m.CustomerID,
		RequestedBy:     m.RequestedBy,
		DeleteCustomer:  m.DeleteCustomer,
		Status:          m.Status,
		LastProcessedID: m.LastProcessedID,
		PlansUpdated:    m.PlansUpdated,
		ReportsUpdated:  m.ReportsUpdated,
		ReportsDeleted:  m.ReportsDeleted,
		StartedAt:       m.StartedAt,
		LastBatchAt:     m.LastBatchAt,
		CompletedAt:     m.CompletedAt,
	}
}

// FromDomain populates the model from a domain RemovalJob
func (m *CustomerRemovalJobModel) FromDomain(j *partner.RemovalJob) {
	m.ID = j.ID
	m.TenantID = j.TenantID
	m.CustomerID = j.CustomerID
	m.RequestedBy = j.RequestedBy
	m.DeleteCustomer = j.DeleteCustomer
	m.Status = j.Status
	m.LastProcessedID = j.LastProcessedID
	m.PlansUpdated = j.PlansUpdated
	m.ReportsUpdated = j.ReportsUpdated
	m.ReportsDeleted = j.ReportsDeleted
	m.StartedAt = j.StartedAt
	m.LastBatchAt = j.LastBatchAt
	m.CompletedAt = j.CompletedAt
}

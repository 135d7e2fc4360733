package models

import (
	"github.com/Mandoobi/jaber-backend/internal/domain/catalog"
)

// ProductModel is the persistence model for catalog.Product
type ProductModel struct {
	TenantAggregateModel
	Name        string           `gorm:"type:varchar(200);not null"`
	Description string           `gorm:"type:text"`
	UnitType    catalog.UnitType `gorm:"type:varchar(20);not null"`
	IsActive    bool             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		Name:                m.Name,
		Description:         m.Description,
		UnitType:            m.UnitType,
		IsActive:            m.IsActive,
	}
}

// FromDomain populates the model from a domain Product
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Name = p.Name
	m.Description = p.Description
	m.UnitType = p.UnitType
	m.IsActive = p.IsActive
}

package models

import (
	"github.com/Mandoobi/jaber-backend/internal/domain/identity"
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
)

// UserModel is the persistence model for identity.User
type UserModel struct {
	TenantAggregateModel
	FullName string      `gorm:"type:varchar(200);not null"`
	Role     shared.Role `gorm:"type:varchar(20);not null;index"`
	IsActive bool        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		FullName:            m.FullName,
		Role:                m.Role,
		IsActive:            m.IsActive,
	}
}

// FromDomain populates the model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	m.FullName = u.FullName
	m.Role = u.Role
	m.IsActive = u.IsActive
}

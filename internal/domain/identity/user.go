package identity

import (
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// User is the minimal view of an account the field-sales core needs:
// who is a rep, who is an admin, and who should be notified.
type User struct {
	shared.TenantAggregateRoot
	FullName string
	Role     shared.Role
	IsActive bool
}

// NewUser creates an active user with the given role
func NewUser(tenantID uuid.UUID, fullName string, role shared.Role) (*User, error) {
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "User name cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}
	return &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		FullName:            fullName,
		Role:                role,
		IsActive:            true,
	}, nil
}

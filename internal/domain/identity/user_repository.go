package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)

	// FindActiveAdminIDs lists notification targets for rep activity
	FindActiveAdminIDs(ctx context.Context, tenantID uuid.UUID) ([]uuid.UUID, error)

	Save(ctx context.Context, user *User) error
}

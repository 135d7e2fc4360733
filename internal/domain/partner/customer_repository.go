package partner

import (
	"context"

	"github.com/google/uuid"
)

// CustomerReader validates customer references held by reports and plans
type CustomerReader interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)

	// FindByIDs returns the subset of ids that exist in the tenant
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Customer, error)
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	CustomerReader

	Save(ctx context.Context, customer *Customer) error

	// DeleteForTenant permanently removes the customer record
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

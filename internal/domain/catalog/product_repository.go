package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductReader is the lookup surface the reconciliation engine depends on
type ProductReader interface {
	// FindByIDForTenant returns shared.ErrNotFound when the product is
	// missing or belongs to another tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// FindByIDs returns the subset of ids that exist in the tenant
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Product, error)
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	ProductReader

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}

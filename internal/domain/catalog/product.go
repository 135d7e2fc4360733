package catalog

import (
	"strings"

	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UnitType is the packaging unit a product is counted in
type UnitType string

const (
	UnitCarton UnitType = "carton"
	UnitBox    UnitType = "box"
	UnitPiece  UnitType = "piece"
	UnitBundle UnitType = "bundle"
)

// IsValid reports whether u is a known unit type
func (u UnitType) IsValid() bool {
	switch u {
	case UnitCarton, UnitBox, UnitPiece, UnitBundle:
		return true
	}
	return false
}

// Product is a tenant-scoped catalog entry. Reps carry stock of products and
// hand them out as samples; the reconciliation engine only ever reads them.
type Product struct {
	shared.TenantAggregateRoot
	Name        string
	Description string
	UnitType    UnitType
	IsActive    bool
}

// NewProduct creates an active product
func NewProduct(tenantID uuid.UUID, name string, unit UnitType) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	if !unit.IsValid() {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unknown unit type")
	}
	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		UnitType:            unit,
		IsActive:            true,
	}, nil
}

// Deactivate hides the product from new sample lines
func (p *Product) Deactivate() {
	p.IsActive = false
	p.Touch()
	p.IncrementVersion()
}

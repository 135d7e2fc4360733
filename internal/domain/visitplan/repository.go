package visitplan

import (
	"context"
	"errors"

	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// VisitPlanRepository defines the interface for visit plan persistence
type VisitPlanRepository interface {
	// FindByRep returns shared.ErrNotFound when the rep has no plan
	FindByRep(ctx context.Context, tenantID, repID uuid.UUID) (*VisitPlan, error)

	// FindReferencingCustomer lists plans with customerID on any day
	FindReferencingCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]VisitPlan, error)

	Save(ctx context.Context, plan *VisitPlan) error
}

// PlannedCustomers resolves the customers a rep is expected to visit on a
// weekday. A rep with no plan has an empty set.
func PlannedCustomers(ctx context.Context, repo VisitPlanRepository, tenantID, repID uuid.UUID, day shared.Weekday) (map[uuid.UUID]struct{}, error) {
	plan, err := repo.FindByRep(ctx, tenantID, repID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return map[uuid.UUID]struct{}{}, nil
		}
		return nil, err
	}
	return plan.PlannedFor(day), nil
}

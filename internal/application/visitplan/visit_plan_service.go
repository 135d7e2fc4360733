package visitplan

import (
	"context"
	"errors"

	"github.com/Mandoobi/jaber-backend/internal/domain/identity"
	"github.com/Mandoobi/jaber-backend/internal/domain/partner"
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/Mandoobi/jaber-backend/internal/domain/visitplan"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DayInput is one weekday of a plan as submitted
type DayInput struct {
	Day         string      `json:"day" binding:"required"`
	CustomerIDs []uuid.UUID `json:"customer_ids"`
}

// SavePlanCommand replaces a rep's weekly plan
type SavePlanCommand struct {
	TenantID uuid.UUID
	Actor    shared.Actor
	RepID    uuid.UUID
	Days     []DayInput
}

// PlannedCustomerResponse is a customer on a plan day
type PlannedCustomerResponse struct {
	CustomerID uuid.UUID `json:"customer_id"`
	FullName   string    `json:"full_name"`
}

// DayResponse is one plan day
type DayResponse struct {
	Day       string                    `json:"day"`
	Customers []PlannedCustomerResponse `json:"customers"`
}

// PlanResponse is a rep's weekly plan
type PlanResponse struct {
	ID      uuid.UUID     `json:"id"`
	RepID   uuid.UUID     `json:"rep_id"`
	Days    []DayResponse `json:"days"`
	Version int           `json:"version"`
}

// VisitPlanService manages the weekly schedules that decide which visits
// count as planned
type VisitPlanService struct {
	planRepo     visitplan.VisitPlanRepository
	customerRepo partner.CustomerReader
	userRepo     identity.UserRepository
	logger       *zap.Logger
}

// NewVisitPlanService creates a new VisitPlanService
func NewVisitPlanService(planRepo visitplan.VisitPlanRepository, customerRepo partner.CustomerReader, userRepo identity.UserRepository, logger *zap.Logger) *VisitPlanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VisitPlanService{
		planRepo:     planRepo,
		customerRepo: customerRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// SavePlan validates every customer against the directory and stores the
// plan, creating it on first save
func (s *VisitPlanService) SavePlan(ctx context.Context, cmd SavePlanCommand) (*PlanResponse, error) {
	if !cmd.Actor.IsAdmin() {
		return nil, shared.ErrForbidden.WithMessage("Only admins can edit visit plans")
	}
	rep, err := s.userRepo.FindByIDForTenant(ctx, cmd.TenantID, cmd.RepID)
	if err != nil {
		return nil, err
	}
	if rep.Role != shared.RoleSalesRep {
		return nil, shared.NewDomainError("INVALID_REP", "Visit plans can only be assigned to sales reps")
	}

	days, err := s.resolveDays(ctx, cmd.TenantID, cmd.Days)
	if err != nil {
		return nil, err
	}

	plan, err := s.planRepo.FindByRep(ctx, cmd.TenantID, cmd.RepID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		plan, err = visitplan.NewVisitPlan(cmd.TenantID, cmd.RepID, days)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := plan.ReplaceDays(days); err != nil {
			return nil, err
		}
	}

	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}
	s.logger.Info("Visit plan saved",
		zap.String("tenant_id", cmd.TenantID.String()),
		zap.String("rep_id", cmd.RepID.String()),
		zap.Int("days", len(days)),
	)
	return toPlanResponse(plan), nil
}

// GetPlan returns a rep's plan. A rep without one gets an empty plan.
func (s *VisitPlanService) GetPlan(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, repID uuid.UUID) (*PlanResponse, error) {
	if !actor.CanActFor(repID) {
		return nil, shared.ErrForbidden
	}
	plan, err := s.planRepo.FindByRep(ctx, tenantID, repID)
	if errors.Is(err, shared.ErrNotFound) {
		return &PlanResponse{RepID: repID, Days: []DayResponse{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return toPlanResponse(plan), nil
}

func (s *VisitPlanService) resolveDays(ctx context.Context, tenantID uuid.UUID, in []DayInput) ([]visitplan.Day, error) {
	var ids []uuid.UUID
	for _, d := range in {
		ids = append(ids, d.CustomerIDs...)
	}
	names := make(map[uuid.UUID]string)
	if len(ids) > 0 {
		found, err := s.customerRepo.FindByIDs(ctx, tenantID, ids)
		if err != nil {
			return nil, err
		}
		for _, c := range found {
			names[c.ID] = c.FullName
		}
	}

	days := make([]visitplan.Day, 0, len(in))
	for _, d := range in {
		day := visitplan.Day{Day: shared.Weekday(d.Day), Customers: make([]visitplan.PlannedCustomer, 0, len(d.CustomerIDs))}
		for _, id := range d.CustomerIDs {
			name, ok := names[id]
			if !ok {
				return nil, shared.NewDomainError("INVALID_CUSTOMER", "Visit plan references an unknown customer").
					WithDetails(map[string]any{"customer_id": id})
			}
			day.Customers = append(day.Customers, visitplan.PlannedCustomer{CustomerID: id, FullName: name})
		}
		days = append(days, day)
	}
	return days, nil
}

func toPlanResponse(p *visitplan.VisitPlan) *PlanResponse {
	days := make([]DayResponse, 0, len(p.Days))
	for _, d := range p.Days {
		customers := make([]PlannedCustomerResponse, 0, len(d.Customers))
		for _, c := range d.Customers {
			customers = append(customers, PlannedCustomerResponse{CustomerID: c.CustomerID, FullName: c.FullName})
		}
		days = append(days, DayResponse{Day: string(d.Day), Customers: customers})
	}
	return &PlanResponse{ID: p.ID, RepID: p.RepID, Days: days, Version: p.Version}
}

package handler

import (
	"context"

	appvisitplan "github.com/Mandoobi/jaber-backend/internal/application/visitplan"
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// VisitPlanService reads and replaces weekly visit plans
type VisitPlanService interface {
	SavePlan(ctx context.Context, cmd appvisitplan.SavePlanCommand) (*appvisitplan.PlanResponse, error)
	GetPlan(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, repID uuid.UUID) (*appvisitplan.PlanResponse, error)
}

// VisitPlanHandler serves visit plans
type VisitPlanHandler struct {
	BaseHandler
	plans VisitPlanService
}

// NewVisitPlanHandler creates a new VisitPlanHandler
func NewVisitPlanHandler(plans VisitPlanService) *VisitPlanHandler {
	return &VisitPlanHandler{plans: plans}
}

// SavePlanRequest replaces every day of a plan
type SavePlanRequest struct {
	Days []appvisitplan.DayInput `json:"days" binding:"required,max=7,dive"`
}

// Get returns a rep's weekly plan; a rep with no plan gets an empty one
// @Router /visit-plans/{repId} [get]
func (h *VisitPlanHandler) Get(c *gin.Context) {
	tenantID, actor, ok := h.caller(c)
	if !ok {
		return
	}
	repID, ok := h.uuidParam(c, "repId")
	if !ok {
		return
	}
	plan, err := h.plans.GetPlan(c.Request.Context(), tenantID, actor, repID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}

// Save replaces a rep's weekly plan
// @Router /visit-plans/{repId} [put]
func (h *VisitPlanHandler) Save(c *gin.Context) {
	tenantID, actor, ok := h.caller(c)
	if !ok {
		return
	}
	repID, ok := h.uuidParam(c, "repId")
	if !ok {
		return
	}
	var req SavePlanRequest
	if !h.bind(c, &req) {
		return
	}
	plan, err := h.plans.SavePlan(c.Request.Context(), appvisitplan.SavePlanCommand{
		TenantID: tenantID,
		Actor:    actor,
		RepID:    repID,
		Days:     req.Days,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}

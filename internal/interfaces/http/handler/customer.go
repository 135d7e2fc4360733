package handler

import (
	"context"

	apppartner "github.com/Mandoobi/jaber-backend/internal/application/partner"
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CustomerRemover runs the customer removal cascade
type CustomerRemover interface {
	RemoveCustomer(ctx context.Context, tenantID, customerID uuid.UUID, actor shared.Actor) (*apppartner.RemovalResult, error)
	PurgeCustomerReferences(ctx context.Context, tenantID, customerID uuid.UUID, actor shared.Actor) (*apppartner.RemovalResult, error)
}

// CustomerHandler serves customer removal
type CustomerHandler struct {
	BaseHandler
	remover CustomerRemover
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(remover CustomerRemover) *CustomerHandler {
	return &CustomerHandler{remover: remover}
}

// Delete removes the customer from every visit plan and report, then deletes
// it. A report left without visits is deleted and its samples restocked.
// Repeating the call after a failure resumes where the last run stopped.
// @Router /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	h.run(c, h.remover.RemoveCustomer)
}

// Purge cleans plans and reports without deleting the customer
// @Router /customers/{id}/purge [post]
func (h *CustomerHandler) Purge(c *gin.Context) {
	h.run(c, h.remover.PurgeCustomerReferences)
}

func (h *CustomerHandler) run(c *gin.Context, op func(context.Context, uuid.UUID, uuid.UUID, shared.Actor) (*apppartner.RemovalResult, error)) {
	tenantID, actor, ok := h.caller(c)
	if !ok {
		return
	}
	customerID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	result, err := op(c.Request.Context(), tenantID, customerID, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

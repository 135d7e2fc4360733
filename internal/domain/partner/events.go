package partner

import (
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	AggregateTypeCustomer = "Customer"

	EventTypeCustomerRemoved = "CustomerRemoved"
)

// CustomerRemovedEvent is published once a customer and every reference to
// it have been removed
type CustomerRemovedEvent struct {
	shared.BaseDomainEvent
	CustomerID     uuid.UUID   `json:"customer_id"`
	FullName       string      `json:"full_name"`
	ActorID        uuid.UUID   `json:"actor_id"`
	PlansUpdated   int         `json:"plans_updated"`
	ReportsUpdated int         `json:"reports_updated"`
	ReportsDeleted int         `json:"reports_deleted"`
	TargetUserIDs  []uuid.UUID `json:"target_user_ids"`
}

// NewCustomerRemovedEvent builds the event
func NewCustomerRemovedEvent(c *Customer, actorID uuid.UUID, plans, updated, deleted int, targets []uuid.UUID) *CustomerRemovedEvent {
	return &CustomerRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerRemoved, AggregateTypeCustomer, c.ID, c.TenantID),
		CustomerID:      c.ID,
		FullName:        c.FullName,
		ActorID:         actorID,
		PlansUpdated:    plans,
		ReportsUpdated:  updated,
		ReportsDeleted:  deleted,
		TargetUserIDs:   targets,
	}
}

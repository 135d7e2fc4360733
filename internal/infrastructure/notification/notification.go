// Package notification turns committed domain events into user-facing
// notifications and publishes them on a per-tenant Redis channel. Delivery
// to devices is handled by a separate service subscribed to that channel.
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Level is the severity shown to the user
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
)

// ActionType identifies what happened
type ActionType string

const (
	ActionSendDailyReport   ActionType = "send_daily_report"
	ActionUpdateDailyReport ActionType = "update_daily_report"
	ActionDeleteReport      ActionType = "delete_report"
	ActionDeleteCustomer    ActionType = "delete_customer"
)

// RelatedEntity points at the record the notification is about
type RelatedEntity struct {
	EntityType string    `json:"entityType"`
	EntityID   uuid.UUID `json:"entityId"`
}

// Notification is the message published to subscribers
type Notification struct {
	ID            uuid.UUID      `json:"id"`
	TenantID      uuid.UUID      `json:"tenantId"`
	ActorID       uuid.UUID      `json:"userId"`
	TargetUserIDs []uuid.UUID    `json:"targetUsers"`
	Level         Level          `json:"level"`
	ActionType    ActionType     `json:"actionType"`
	Description   string         `json:"description"`
	RelatedEntity RelatedEntity  `json:"relatedEntity"`
	Data          map[string]any `json:"data,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// Emitter publishes a notification. Implementations must be safe for
// concurrent use.
type Emitter interface {
	Emit(ctx context.Context, n *Notification) error
}

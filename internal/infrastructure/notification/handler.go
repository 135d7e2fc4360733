package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/Mandoobi/jaber-backend/internal/domain/partner"
	"github.com/Mandoobi/jaber-backend/internal/domain/report"
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EventHandler builds notifications for report and customer events and
// hands them to an Emitter
type EventHandler struct {
	emitter Emitter
	now     func() time.Time
}

// NewEventHandler creates a handler emitting through emitter
func NewEventHandler(emitter Emitter) *EventHandler {
	return &EventHandler{emitter: emitter, now: time.Now}
}

// EventTypes implements shared.EventHandler
func (h *EventHandler) EventTypes() []string {
	return []string{
		report.EventTypeDailyReportSubmitted,
		report.EventTypeDailyReportDeleted,
		partner.EventTypeCustomerRemoved,
	}
}

// Handle implements shared.EventHandler
func (h *EventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	n := h.build(event)
	if n == nil {
		return nil
	}
	return h.emitter.Emit(ctx, n)
}

func (h *EventHandler) build(event shared.DomainEvent) *Notification {
	switch e := event.(type) {
	case *report.DailyReportSubmittedEvent:
		return h.reportSubmitted(e)
	case *report.DailyReportDeletedEvent:
		return h.reportDeleted(e)
	case *partner.CustomerRemovedEvent:
		return h.customerRemoved(e)
	default:
		return nil
	}
}

func (h *EventHandler) reportSubmitted(e *report.DailyReportSubmittedEvent) *Notification {
	action, desc := ActionUpdateDailyReport, "Daily report for %s was updated"
	if e.Created {
		action, desc = ActionSendDailyReport, "Daily report for %s was submitted"
	}
	return h.newNotification(e, e.ActorID, e.TargetUserIDs, LevelSuccess, action,
		fmt.Sprintf(desc, e.Date),
		RelatedEntity{EntityType: report.AggregateTypeDailyReport, EntityID: e.ReportID},
		map[string]any{
			"date":            e.Date,
			"repId":           e.RepID,
			"visitsCount":     e.Stats.TotalVisits,
			"completedVisits": e.Stats.TotalVisited,
			"samplesCount":    e.SampleCount,
		})
}

func (h *EventHandler) reportDeleted(e *report.DailyReportDeletedEvent) *Notification {
	return h.newNotification(e, e.ActorID, e.TargetUserIDs, LevelWarning, ActionDeleteReport,
		fmt.Sprintf("Your daily report for %s was deleted (%d samples restored)", e.Date, e.RestoredSamples),
		RelatedEntity{EntityType: report.AggregateTypeDailyReport, EntityID: e.ReportID},
		map[string]any{
			"date":            e.Date,
			"samplesRestored": e.RestoredSamples,
		})
}

func (h *EventHandler) customerRemoved(e *partner.CustomerRemovedEvent) *Notification {
	return h.newNotification(e, e.ActorID, e.TargetUserIDs, LevelWarning, ActionDeleteCustomer,
		fmt.Sprintf("Customer %s was deleted", e.FullName),
		RelatedEntity{EntityType: partner.AggregateTypeCustomer, EntityID: e.CustomerID},
		map[string]any{
			"plansUpdated":   e.PlansUpdated,
			"reportsUpdated": e.ReportsUpdated,
			"reportsDeleted": e.ReportsDeleted,
		})
}

func (h *EventHandler) newNotification(
	event shared.DomainEvent,
	actorID uuid.UUID,
	targets []uuid.UUID,
	level Level,
	action ActionType,
	description string,
	related RelatedEntity,
	data map[string]any,
) *Notification {
	return &Notification{
		ID:            uuid.New(),
		TenantID:      event.TenantID(),
		ActorID:       actorID,
		TargetUserIDs: targets,
		Level:         level,
		ActionType:    action,
		Description:   description,
		RelatedEntity: related,
		Data:          data,
		CreatedAt:     h.now(),
	}
}

var _ shared.EventHandler = (*EventHandler)(nil)

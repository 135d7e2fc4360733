package report

import (
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	AggregateTypeDailyReport = "DailyReport"

	EventTypeDailyReportSubmitted = "DailyReportSubmitted"
	EventTypeDailyReportDeleted   = "DailyReportDeleted"
)

// DailyReportSubmittedEvent is published after a report create or update commits
type DailyReportSubmittedEvent struct {
	shared.BaseDomainEvent
	ReportID      uuid.UUID   `json:"report_id"`
	RepID         uuid.UUID   `json:"rep_id"`
	ActorID       uuid.UUID   `json:"actor_id"`
	Date          string      `json:"date"`
	Created       bool        `json:"created"`
	Stats         VisitStats  `json:"stats"`
	SampleCount   int         `json:"sample_count"`
	TargetUserIDs []uuid.UUID `json:"target_user_ids"`
}

// NewDailyReportSubmittedEvent builds the event from a saved report
func NewDailyReportSubmittedEvent(r *DailyReport, actorID uuid.UUID, created bool, sampleCount int, targets []uuid.UUID) *DailyReportSubmittedEvent {
	return &DailyReportSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDailyReportSubmitted, AggregateTypeDailyReport, r.ID, r.TenantID),
		ReportID:        r.ID,
		RepID:           r.RepID,
		ActorID:         actorID,
		Date:            r.Date,
		Created:         created,
		Stats:           r.Stats,
		SampleCount:     sampleCount,
		TargetUserIDs:   targets,
	}
}

// DailyReportDeletedEvent is published after a report and its samples are removed
type DailyReportDeletedEvent struct {
	shared.BaseDomainEvent
	ReportID        uuid.UUID   `json:"report_id"`
	RepID           uuid.UUID   `json:"rep_id"`
	ActorID         uuid.UUID   `json:"actor_id"`
	Date            string      `json:"date"`
	RestoredSamples int         `json:"restored_samples"`
	TargetUserIDs   []uuid.UUID `json:"target_user_ids"`
}

// NewDailyReportDeletedEvent notifies the report owner
func NewDailyReportDeletedEvent(r *DailyReport, actorID uuid.UUID, restored int) *DailyReportDeletedEvent {
	return &DailyReportDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDailyReportDeleted, AggregateTypeDailyReport, r.ID, r.TenantID),
		ReportID:        r.ID,
		RepID:           r.RepID,
		ActorID:         actorID,
		Date:            r.Date,
		RestoredSamples: restored,
		TargetUserIDs:   []uuid.UUID{r.RepID},
	}
}

package report

import (
	"time"

	"github.com/Mandoobi/jaber-backend/internal/domain/report"
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SubmitReportCommand creates or replaces a daily report together with its
// sample lines. Reps leave ReportID empty and may omit RepID and Date, which
// default to themselves and today. Admins editing a rep's report set ReportID.
type SubmitReportCommand struct {
	TenantID         uuid.UUID
	Actor            shared.Actor
	ReportID         *uuid.UUID
	RepID            *uuid.UUID
	Date             string
	Notes            string
	Attachments      []string
	Visits           []report.Visit
	Samples          []report.SampleLine
	DeletedSampleIDs []uuid.UUID
}

// DeleteReportCommand removes a report and returns its samples to stock
type DeleteReportCommand struct {
	TenantID uuid.UUID
	Actor    shared.Actor
	ReportID uuid.UUID
}

// ListReportsQuery filters report listings
type ListReportsQuery struct {
	TenantID uuid.UUID
	Actor    shared.Actor
	RepID    *uuid.UUID
	DateFrom string
	DateTo   string
	shared.Filter
}

// VisitResponse is one visit in a report response
type VisitResponse struct {
	CustomerID      uuid.UUID `json:"customer_id"`
	CustomerCode    string    `json:"customer_code,omitempty"`
	Status          string    `json:"status"`
	Reason          string    `json:"reason,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	IsExtra         bool      `json:"is_extra"`
}

// SampleResponse is one sample in a report response
type SampleResponse struct {
	ID         uuid.UUID  `json:"id"`
	ProductID  uuid.UUID  `json:"product_id"`
	Quantity   int64      `json:"quantity"`
	Type       string     `json:"type"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	TakenBy    uuid.UUID  `json:"taken_by"`
}

// ReportResponse is a daily report with its samples
type ReportResponse struct {
	ID          uuid.UUID         `json:"id"`
	RepID       uuid.UUID         `json:"rep_id"`
	Date        string            `json:"date"`
	Day         string            `json:"day"`
	Notes       string            `json:"notes,omitempty"`
	Attachments []string          `json:"attachments"`
	Visits      []VisitResponse   `json:"visits"`
	Stats       report.VisitStats `json:"stats"`
	Samples     []SampleResponse  `json:"samples"`
	Created     bool              `json:"created,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ReportListItem is a report without samples
type ReportListItem struct {
	ID        uuid.UUID         `json:"id"`
	RepID     uuid.UUID         `json:"rep_id"`
	Date      string            `json:"date"`
	Day       string            `json:"day"`
	Stats     report.VisitStats `json:"stats"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// DeleteReportResult reports how many samples were returned to stock
type DeleteReportResult struct {
	ReportID        uuid.UUID `json:"report_id"`
	RestoredSamples int       `json:"restored_samples"`
}

// CustomerBatchResult is the outcome of removing a customer from one batch
// of reports
type CustomerBatchResult struct {
	Processed int
	Updated   int
	Deleted   int
	LastID    uuid.UUID
	Done      bool
}

// ToReportResponse converts a report and its samples
func ToReportResponse(r *report.DailyReport, samples []report.Sample) ReportResponse {
	resp := ReportResponse{
		ID:          r.ID,
		RepID:       r.RepID,
		Date:        r.Date,
		Day:         string(r.Day),
		Notes:       r.Notes,
		Attachments: append([]string{}, r.Attachments...),
		Visits:      make([]VisitResponse, 0, len(r.Visits)),
		Stats:       r.Stats,
		Samples:     make([]SampleResponse, 0, len(samples)),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	for _, v := range r.Visits {
		resp.Visits = append(resp.Visits, VisitResponse{
			CustomerID:      v.CustomerID,
			CustomerCode:    v.CustomerCode,
			Status:          string(v.Status),
			Reason:          v.Reason,
			Notes:           v.Notes,
			DurationMinutes: v.DurationMinutes,
			IsExtra:         v.IsExtra,
		})
	}
	for i := range samples {
		s := &samples[i]
		resp.Samples = append(resp.Samples, SampleResponse{
			ID:         s.ID,
			ProductID:  s.ProductID,
			Quantity:   s.Quantity,
			Type:       string(s.Kind),
			CustomerID: s.CustomerID,
			Notes:      s.Notes,
			TakenBy:    s.TakenBy,
		})
	}
	return resp
}

func toReportListItem(r *report.DailyReport) ReportListItem {
	return ReportListItem{
		ID:        r.ID,
		RepID:     r.RepID,
		Date:      r.Date,
		Day:       string(r.Day),
		Stats:     r.Stats,
		UpdatedAt: r.UpdatedAt,
	}
}

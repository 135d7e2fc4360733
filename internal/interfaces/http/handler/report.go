package handler

import (
	"context"

	appreport "github.com/Mandoobi/jaber-backend/internal/application/report"
	"github.com/Mandoobi/jaber-backend/internal/domain/report"
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/Mandoobi/jaber-backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportService is the part of the reconciliation service the report
// endpoints need
type ReportService interface {
	SubmitReport(ctx context.Context, cmd appreport.SubmitReportCommand) (*appreport.ReportResponse, error)
	DeleteReport(ctx context.Context, cmd appreport.DeleteReportCommand) (*appreport.DeleteReportResult, error)
	GetReport(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, reportID uuid.UUID) (*appreport.ReportResponse, error)
	GetReportForDate(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, repID uuid.UUID, date string) (*appreport.ReportResponse, error)
	ListReports(ctx context.Context, q appreport.ListReportsQuery) ([]appreport.ReportListItem, int64, error)
	StatsForDate(ctx context.Context, tenantID uuid.UUID, date string) (*report.DayStats, error)
}

// ReportHandler serves daily reports
type ReportHandler struct {
	BaseHandler
	reports ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// VisitRequest is one visit in a submitted report
type VisitRequest struct {
	CustomerID      uuid.UUID `json:"customer_id"`
	Status          string    `json:"status" binding:"required,oneof=visited not_visited"`
	Reason          string    `json:"reason" binding:"max=500"`
	Notes           string    `json:"notes" binding:"max=2000"`
	DurationMinutes *int      `json:"duration_minutes" binding:"omitempty,gte=0"`
}

// SampleRequest is one desired sample line. ID is set for lines that
// already exist on the report.
type SampleRequest struct {
	ID         *uuid.UUID `json:"id"`
	ProductID  uuid.UUID  `json:"product_id"`
	Quantity   int64      `json:"quantity" binding:"gt=0"`
	Type       string     `json:"type" binding:"required,oneof=customer personal"`
	CustomerID *uuid.UUID `json:"customer_id"`
	Notes      string     `json:"notes" binding:"max=1000"`
}

// SubmitReportRequest is the body of POST /reports and PUT /reports/:id.
// Reps may omit rep_id and date; they default to the caller and today.
type SubmitReportRequest struct {
	RepID            *uuid.UUID      `json:"rep_id"`
	Date             string          `json:"date" binding:"omitempty,reportdate"`
	Notes            string          `json:"notes" binding:"max=5000"`
	Attachments      []string        `json:"attachments" binding:"max=3"`
	Visits           []VisitRequest  `json:"visits" binding:"required,min=1,dive"`
	Samples          []SampleRequest `json:"samples" binding:"dive"`
	DeletedSampleIDs []uuid.UUID     `json:"deleted_sample_ids"`
}

func (r *SubmitReportRequest) command(tenantID uuid.UUID, actor shared.Actor) appreport.SubmitReportCommand {
	cmd := appreport.SubmitReportCommand{
		TenantID:         tenantID,
		Actor:            actor,
		RepID:            r.RepID,
		Date:             r.Date,
		Notes:            r.Notes,
		Attachments:      r.Attachments,
		Visits:           make([]report.Visit, 0, len(r.Visits)),
		Samples:          make([]report.SampleLine, 0, len(r.Samples)),
		DeletedSampleIDs: r.DeletedSampleIDs,
	}
	for _, v := range r.Visits {
		cmd.Visits = append(cmd.Visits, report.Visit{
			CustomerID:      v.CustomerID,
			Status:          report.VisitStatus(v.Status),
			Reason:          v.Reason,
			Notes:           v.Notes,
			DurationMinutes: v.DurationMinutes,
		})
	}
	for _, s := range r.Samples {
		cmd.Samples = append(cmd.Samples, report.SampleLine{
			ID:         s.ID,
			ProductID:  s.ProductID,
			Quantity:   s.Quantity,
			Kind:       report.SampleKind(s.Type),
			CustomerID: s.CustomerID,
			Notes:      s.Notes,
		})
	}
	return cmd
}

// Submit creates or replaces the report for (rep, date) and reconciles its
// samples against the rep's stock
// @Summary  Submit a daily report
// @Tags     reports
// @Success  201 {object} dto.Response
// @Failure  409 {object} dto.Response "INSUFFICIENT_STOCK, STOCK_CHANGED or REP_BUSY"
// @Router   /reports [post]
func (h *ReportHandler) Submit(c *gin.Context) {
	tenantID, actor, ok := h.caller(c)
	if !ok {
		return
	}
	var req SubmitReportRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.reports.SubmitReport(c.Request.Context(), req.command(tenantID, actor))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if resp.Created {
		h.Created(c, resp)
		return
	}
	h.Success(c, resp)
}

// Update edits an existing report by id
// @Router /reports/{id} [put]
func (h *ReportHandler) Update(c *gin.Context) {
	tenantID, actor, ok := h.caller(c)
	if !ok {
		return
	}
	reportID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req SubmitReportRequest
	if !h.bind(c, &req) {
		return
	}

	cmd := req.command(tenantID, actor)
	cmd.ReportID = &reportID
	resp, err := h.reports.SubmitReport(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get returns a report with its samples
// @Router /reports/{id} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	tenantID, actor, ok := h.caller(c)
	if !ok {
		return
	}
	reportID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.reports.GetReport(c.Request.Context(), tenantID, actor, reportID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ReportForDateQuery selects another rep's report; reps omit it
type ReportForDateQuery struct {
	RepID string `form:"repId" binding:"omitempty,uuid"`
}

// GetForDate returns the report a rep filed on a date
// @Router /reports/date/{date} [get]
func (h *ReportHandler) GetForDate(c *gin.Context) {
	tenantID, actor, ok := h.caller(c)
	if !ok {
		return
	}
	var q ReportForDateQuery
	if !h.bindQuery(c, &q) {
		return
	}
	repID := actor.UserID
	if q.RepID != "" {
		repID = uuid.MustParse(q.RepID)
	}

	resp, err := h.reports.GetReportForDate(c.Request.Context(), tenantID, actor, repID, c.Param("date"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListReportsRequest filters the report list
type ListReportsRequest struct {
	dto.PageRequest
	RepID string `form:"repId" binding:"omitempty,uuid"`
	From  string `form:"from" binding:"omitempty,reportdate"`
	To    string `form:"to" binding:"omitempty,reportdate"`
}

// List pages through reports, newest date first. Reps only see their own.
// @Router /reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	tenantID, actor, ok := h.caller(c)
	if !ok {
		return
	}
	var req ListReportsRequest
	if !h.bindQuery(c, &req) {
		return
	}

	q := appreport.ListReportsQuery{
		TenantID: tenantID,
		Actor:    actor,
		DateFrom: req.From,
		DateTo:   req.To,
		Filter:   pageFilter(req.PageRequest),
	}
	if req.RepID != "" {
		id := uuid.MustParse(req.RepID)
		q.RepID = &id
	}

	items, total, err := h.reports.ListReports(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, q.Filter.Page, q.Filter.PageSize)
}

// StatsRequest picks the day to aggregate; empty means today
type StatsRequest struct {
	Date string `form:"date" binding:"omitempty,reportdate"`
}

// Stats aggregates visit outcomes across all reports on a date
// @Router /reports/stats [get]
func (h *ReportHandler) Stats(c *gin.Context) {
	tenantID, _, ok := h.caller(c)
	if !ok {
		return
	}
	var req StatsRequest
	if !h.bindQuery(c, &req) {
		return
	}
	stats, err := h.reports.StatsForDate(c.Request.Context(), tenantID, req.Date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Delete removes a report and returns its samples to the rep's stock
// @Router /reports/{id} [delete]
func (h *ReportHandler) Delete(c *gin.Context) {
	tenantID, actor, ok := h.caller(c)
	if !ok {
		return
	}
	reportID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	result, err := h.reports.DeleteReport(c.Request.Context(), appreport.DeleteReportCommand{
		TenantID: tenantID,
		Actor:    actor,
		ReportID: reportID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

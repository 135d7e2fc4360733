package report

import (
	"context"

	"github.com/Mandoobi/jaber-backend/internal/domain/report"
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// GetReport returns a report with its samples. Reps only see their own.
func (s *ReconciliationService) GetReport(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, reportID uuid.UUID) (*ReportResponse, error) {
	r, err := s.reportRepo.FindByIDForTenant(ctx, tenantID, reportID)
	if err != nil {
		return nil, err
	}
	if !actor.CanActFor(r.RepID) {
		return nil, shared.ErrNotFound
	}
	samples, err := s.sampleRepo.FindByReport(ctx, tenantID, r.ID)
	if err != nil {
		return nil, err
	}
	resp := ToReportResponse(r, samples)
	return &resp, nil
}

// GetReportForDate returns the rep's report for date, or today when empty
func (s *ReconciliationService) GetReportForDate(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, repID uuid.UUID, date string) (*ReportResponse, error) {
	if !actor.CanActFor(repID) {
		return nil, shared.ErrForbidden
	}
	d := report.ReportDateOf(s.clock.Now(), s.location)
	if date != "" {
		parsed, err := report.ParseReportDate(date)
		if err != nil {
			return nil, err
		}
		d = parsed
	}
	r, err := s.reportRepo.FindByRepAndDate(ctx, tenantID, repID, d.String())
	if err != nil {
		return nil, err
	}
	samples, err := s.sampleRepo.FindByReport(ctx, tenantID, r.ID)
	if err != nil {
		return nil, err
	}
	resp := ToReportResponse(r, samples)
	return &resp, nil
}

// ListReports pages through reports. Reps are pinned to their own.
func (s *ReconciliationService) ListReports(ctx context.Context, q ListReportsQuery) ([]ReportListItem, int64, error) {
	filter := report.ReportFilter{
		Filter:   q.Filter.Normalize(),
		RepID:    q.RepID,
		DateFrom: q.DateFrom,
		DateTo:   q.DateTo,
	}
	if !q.Actor.IsAdmin() {
		self := q.Actor.UserID
		filter.RepID = &self
	}
	for _, d := range []string{q.DateFrom, q.DateTo} {
		if d == "" {
			continue
		}
		if _, err := report.ParseReportDate(d); err != nil {
			return nil, 0, err
		}
	}

	reports, total, err := s.reportRepo.FindAllForTenant(ctx, q.TenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ReportListItem, 0, len(reports))
	for i := range reports {
		out = append(out, toReportListItem(&reports[i]))
	}
	return out, total, nil
}

// StatsForDate aggregates visit outcomes across every report on date
func (s *ReconciliationService) StatsForDate(ctx context.Context, tenantID uuid.UUID, date string) (*report.DayStats, error) {
	d := report.ReportDateOf(s.clock.Now(), s.location)
	if date != "" {
		parsed, err := report.ParseReportDate(date)
		if err != nil {
			return nil, err
		}
		d = parsed
	}
	return s.reportRepo.StatsForDate(ctx, tenantID, d.String())
}

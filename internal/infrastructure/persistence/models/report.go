package models

import (
	"github.com/Mandoobi/jaber-backend/internal/domain/report"
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DailyReportModel is the persistence model for report.DailyReport.
// Visits live in daily_report_visits; stats are stored denormalized so that
// day rollups are a single aggregate query.
type DailyReportModel struct {
	BaseModel
	TenantID        uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_report_rep_date,priority:1"`
	RepID           uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_report_rep_date,priority:2"`
	Date            string                  `gorm:"column:report_date;type:varchar(10);not null;uniqueIndex:idx_report_rep_date,priority:3;index"`
	Version         int                     `gorm:"not null;default:1"`
	Day             shared.Weekday          `gorm:"type:varchar(10);not null"`
	Notes           string                  `gorm:"type:text"`
	Attachments     []string                `gorm:"type:text;serializer:json"`
	TotalVisits     int                     `gorm:"not null;default:0"`
	TotalVisited    int                     `gorm:"not null;default:0"`
	TotalNotVisited int                     `gorm:"not null;default:0"`
	TotalExtra      int                     `gorm:"not null;default:0"`
	Visits          []DailyReportVisitModel `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (DailyReportModel) TableName() string {
	return "daily_reports"
}

// ToDomain converts the model to a domain DailyReport. Visits must have been
// preloaded in position order.
func (m *DailyReportModel) ToDomain() *report.DailyReport {
	visits := make([]report.Visit, len(m.Visits))
	for i := range m.Visits {
		visits[i] = m.Visits[i].ToDomain()
	}
	root := TenantAggregateModel{BaseModel: m.BaseModel, TenantID: m.TenantID, Version: m.Version}
	return &report.DailyReport{
		TenantAggregateRoot: root.TenantAggregateRoot(),
		RepID:               m.RepID,
		Date:                m.Date,
		Day:                 m.Day,
		Notes:               m.Notes,
		Attachments:         append([]string(nil), m.Attachments...),
		Visits:              visits,
		Stats: report.VisitStats{
			TotalVisits:     m.TotalVisits,
			TotalVisited:    m.TotalVisited,
			TotalNotVisited: m.TotalNotVisited,
			TotalExtra:      m.TotalExtra,
		},
	}
}

// DailyReportModelFromDomain creates a model from a domain DailyReport
func DailyReportModelFromDomain(r *report.DailyReport) *DailyReportModel {
	m := &DailyReportModel{
		TenantID:        r.TenantID,
		RepID:           r.RepID,
		Version:         r.Version,
		Date:            r.Date,
		Day:             r.Day,
		Notes:           r.Notes,
		Attachments:     append([]string{}, r.Attachments...),
		TotalVisits:     r.Stats.TotalVisits,
		TotalVisited:    r.Stats.TotalVisited,
		TotalNotVisited: r.Stats.TotalNotVisited,
		TotalExtra:      r.Stats.TotalExtra,
		Visits:          make([]DailyReportVisitModel, len(r.Visits)),
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	for i, v := range r.Visits {
		m.Visits[i] = DailyReportVisitModelFromDomain(r.ID, i, v)
	}
	return m
}

// DailyReportVisitModel is one visit row of a daily report
type DailyReportVisitModel struct {
	ID              uint               `gorm:"primaryKey;autoIncrement"`
	ReportID        uuid.UUID          `gorm:"type:uuid;not null;index"`
	Position        int                `gorm:"not null"`
	CustomerID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	CustomerCode    string             `gorm:"type:varchar(20)"`
	Status          report.VisitStatus `gorm:"type:varchar(20);not null"`
	Reason          string             `gorm:"type:text"`
	Notes           string             `gorm:"type:text"`
	DurationMinutes *int
	IsExtra         bool `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (DailyReportVisitModel) TableName() string {
	return "daily_report_visits"
}

// ToDomain converts the row to a domain Visit
func (m *DailyReportVisitModel) ToDomain() report.Visit {
	return report.Visit{
		CustomerID:      m.CustomerID,
		CustomerCode:    m.CustomerCode,
		Status:          m.Status,
		Reason:          m.Reason,
		Notes:           m.Notes,
		DurationMinutes: m.DurationMinutes,
		IsExtra:         m.IsExtra,
	}
}

// DailyReportVisitModelFromDomain creates a visit row at position
func DailyReportVisitModelFromDomain(reportID uuid.UUID, position int, v report.Visit) DailyReportVisitModel {
	return DailyReportVisitModel{
		ReportID:        reportID,
		Position:        position,
		CustomerID:      v.CustomerID,
		CustomerCode:    v.CustomerCode,
		Status:          v.Status,
		Reason:          v.Reason,
		Notes:           v.Notes,
		DurationMinutes: v.DurationMinutes,
		IsExtra:         v.IsExtra,
	}
}

// SampleModel is the persistence model for report.Sample
type SampleModel struct {
	BaseModel
	TenantID   uuid.UUID         `gorm:"type:uuid;not null;index:idx_sample_product,priority:1"`
	ReportID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	TakenBy    uuid.UUID         `gorm:"type:uuid;not null"`
	ProductID  uuid.UUID         `gorm:"type:uuid;not null;index:idx_sample_product,priority:2"`
	Quantity   int64             `gorm:"not null"`
	Kind       report.SampleKind `gorm:"type:varchar(20);not null"`
	CustomerID *uuid.UUID        `gorm:"type:uuid"`
	Notes      string            `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SampleModel) TableName() string {
	return "samples"
}

// ToDomain converts the model to a domain Sample
func (m *SampleModel) ToDomain() *report.Sample {
	return &report.Sample{
		BaseEntity: m.BaseModel.ToDomain(),
		TenantID:   m.TenantID,
		TakenBy:    m.TakenBy,
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
		Kind:       m.Kind,
		CustomerID: m.CustomerID,
		ReportID:   m.ReportID,
		Notes:      m.Notes,
	}
}

// SampleModelFromDomain creates a model from a domain Sample
func SampleModelFromDomain(s *report.Sample) *SampleModel {
	m := &SampleModel{
		TenantID:   s.TenantID,
		ReportID:   s.ReportID,
		TakenBy:    s.TakenBy,
		ProductID:  s.ProductID,
		Quantity:   s.Quantity,
		Kind:       s.Kind,
		CustomerID: s.CustomerID,
		Notes:      s.Notes,
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}

package models

import (
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/Mandoobi/jaber-backend/internal/domain/visitplan"
	"github.com/google/uuid"
)

// VisitPlanModel is the persistence model for visitplan.VisitPlan. Each
// planned customer is a row in visit_plan_entries.
type VisitPlanModel struct {
	BaseModel
	TenantID uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_visit_plan_rep,priority:1"`
	RepID    uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_visit_plan_rep,priority:2"`
	Version  int                   `gorm:"not null;default:1"`
	Entries  []VisitPlanEntryModel `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (VisitPlanModel) TableName() string {
	return "visit_plans"
}

// VisitPlanEntryModel places one customer on one weekday of a plan.
// Days with no customers are stored as a single entry with a nil customer.
type VisitPlanEntryModel struct {
	ID         uint           `gorm:"primaryKey;autoIncrement"`
	PlanID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	Day        shared.Weekday `gorm:"type:varchar(10);not null"`
	DayOrder   int            `gorm:"not null"`
	Position   int            `gorm:"not null"`
	CustomerID *uuid.UUID     `gorm:"type:uuid;index"`
	FullName   string         `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (VisitPlanEntryModel) TableName() string {
	return "visit_plan_entries"
}

// ToDomain rebuilds the plan. Entries must be ordered by day order then position.
func (m *VisitPlanModel) ToDomain() *visitplan.VisitPlan {
	root := TenantAggregateModel{BaseModel: m.BaseModel, TenantID: m.TenantID, Version: m.Version}
	var days []visitplan.Day
	for _, e := range m.Entries {
		if len(days) == 0 || days[len(days)-1].Day != e.Day {
			days = append(days, visitplan.Day{Day: e.Day, Customers: []visitplan.PlannedCustomer{}})
		}
		if e.CustomerID == nil {
			continue
		}
		last := &days[len(days)-1]
		last.Customers = append(last.Customers, visitplan.PlannedCustomer{CustomerID: *e.CustomerID, FullName: e.FullName})
	}
	return &visitplan.VisitPlan{
		TenantAggregateRoot: root.TenantAggregateRoot(),
		RepID:               m.RepID,
		Days:                days,
	}
}

// VisitPlanModelFromDomain flattens a plan into entry rows
func VisitPlanModelFromDomain(p *visitplan.VisitPlan) *VisitPlanModel {
	m := &VisitPlanModel{TenantID: p.TenantID, RepID: p.RepID, Version: p.Version}
	m.FromDomainBaseEntity(p.BaseEntity)
	for dayOrder, d := range p.Days {
		if len(d.Customers) == 0 {
			m.Entries = append(m.Entries, VisitPlanEntryModel{PlanID: p.ID, Day: d.Day, DayOrder: dayOrder})
			continue
		}
		for pos, c := range d.Customers {
			id := c.CustomerID
			m.Entries = append(m.Entries, VisitPlanEntryModel{
				PlanID:     p.ID,
				Day:        d.Day,
				DayOrder:   dayOrder,
				Position:   pos,
				CustomerID: &id,
				FullName:   c.FullName,
			})
		}
	}
	return m
}

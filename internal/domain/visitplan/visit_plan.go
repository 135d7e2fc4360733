package visitplan

import (
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PlannedCustomer is a customer scheduled on a plan day
type PlannedCustomer struct {
	CustomerID uuid.UUID
	FullName   string
}

// Day lists the customers a rep should visit on one weekday
type Day struct {
	Day       shared.Weekday
	Customers []PlannedCustomer
}

// VisitPlan is a rep's weekly schedule. There is one plan per rep.
type VisitPlan struct {
	shared.TenantAggregateRoot
	RepID uuid.UUID
	Days  []Day
}

// NewVisitPlan creates a plan after validating days
func NewVisitPlan(tenantID, repID uuid.UUID, days []Day) (*VisitPlan, error) {
	if repID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REP", "Visit plan must belong to a rep")
	}
	if err := ValidateDays(days); err != nil {
		return nil, err
	}
	return &VisitPlan{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		RepID:               repID,
		Days:                days,
	}, nil
}

// ValidateDays rejects unknown or repeated day labels
func ValidateDays(days []Day) error {
	seen := make(map[shared.Weekday]struct{}, len(days))
	for _, d := range days {
		if !d.Day.IsValid() {
			return shared.NewDomainError("INVALID_DAY", "Visit plan days must be Sunday through Saturday")
		}
		if _, dup := seen[d.Day]; dup {
			return shared.NewDomainError("DUPLICATE_DAY", "Visit plan cannot list the same day twice")
		}
		seen[d.Day] = struct{}{}
		customers := make(map[uuid.UUID]struct{}, len(d.Customers))
		for _, c := range d.Customers {
			if c.CustomerID == uuid.Nil {
				return shared.NewDomainError("INVALID_CUSTOMER", "Planned customer is required")
			}
			if _, dup := customers[c.CustomerID]; dup {
				return shared.NewDomainError("DUPLICATE_CUSTOMER", "A customer can only be planned once per day")
			}
			customers[c.CustomerID] = struct{}{}
		}
	}
	return nil
}

// ReplaceDays swaps the whole schedule
func (p *VisitPlan) ReplaceDays(days []Day) error {
	if err := ValidateDays(days); err != nil {
		return err
	}
	p.Days = days
	p.Touch()
	p.IncrementVersion()
	return nil
}

// PlannedFor returns the set of customers planned on day
func (p *VisitPlan) PlannedFor(day shared.Weekday) map[uuid.UUID]struct{} {
	out := make(map[uuid.UUID]struct{})
	for _, d := range p.Days {
		if d.Day != day {
			continue
		}
		for _, c := range d.Customers {
			out[c.CustomerID] = struct{}{}
		}
	}
	return out
}

// CustomerIDs returns every customer planned on any day, deduplicated
func (p *VisitPlan) CustomerIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, d := range p.Days {
		for _, c := range d.Customers {
			if _, ok := seen[c.CustomerID]; ok {
				continue
			}
			seen[c.CustomerID] = struct{}{}
			ids = append(ids, c.CustomerID)
		}
	}
	return ids
}

// RemoveCustomer drops customerID from every day. Returns whether anything changed.
func (p *VisitPlan) RemoveCustomer(customerID uuid.UUID) bool {
	changed := false
	for i := range p.Days {
		kept := p.Days[i].Customers[:0:0]
		for _, c := range p.Days[i].Customers {
			if c.CustomerID == customerID {
				changed = true
				continue
			}
			kept = append(kept, c)
		}
		p.Days[i].Customers = kept
	}
	if changed {
		p.Touch()
		p.IncrementVersion()
	}
	return changed
}

package report

import (
	"strings"

	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxAttachments is the number of attachment references a report may hold
const MaxAttachments = 3

// DailyReport is one rep's activity for one calendar date. Visits are
// embedded; samples live in their own records keyed by report ID.
type DailyReport struct {
	shared.TenantAggregateRoot
	RepID       uuid.UUID
	Date        string
	Day         shared.Weekday
	Notes       string
	Attachments []string
	Visits      []Visit
	Stats       VisitStats
}

// NewDailyReport starts an empty report for (repID, date)
func NewDailyReport(tenantID, repID uuid.UUID, date ReportDate) (*DailyReport, error) {
	if repID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REP", "Report must belong to a rep")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Report date is required")
	}
	return &DailyReport{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		RepID:               repID,
		Date:                date.String(),
		Day:                 date.Weekday(),
	}, nil
}

// ValidateAttachments checks the attachment list
func ValidateAttachments(refs []string) error {
	if len(refs) > MaxAttachments {
		return shared.NewDomainError("TOO_MANY_ATTACHMENTS", "A report can hold at most 3 attachments")
	}
	for _, ref := range refs {
		if strings.TrimSpace(ref) == "" {
			return shared.NewDomainError("INVALID_ATTACHMENT", "Attachment reference cannot be empty")
		}
	}
	return nil
}

// Revise replaces the report content. isExtra is recomputed for every visit
// from the planned customer set of the report's weekday, then stats are
// recomputed. The caller's visits slice is not modified.
func (r *DailyReport) Revise(notes string, attachments []string, visits []Visit, planned map[uuid.UUID]struct{}) error {
	if err := ValidateVisits(visits); err != nil {
		return err
	}
	if err := ValidateAttachments(attachments); err != nil {
		return err
	}

	next := make([]Visit, len(visits))
	for i, v := range visits {
		_, isPlanned := planned[v.CustomerID]
		v.IsExtra = !isPlanned
		next[i] = v
	}

	r.Notes = notes
	r.Attachments = append([]string(nil), attachments...)
	r.Visits = next
	r.Stats = CalculateStats(next)
	r.Touch()
	return nil
}

// RemoveCustomer drops every visit to customerID and recomputes stats.
// Returns false when the report did not reference the customer.
func (r *DailyReport) RemoveCustomer(customerID uuid.UUID) bool {
	kept := r.Visits[:0:0]
	for _, v := range r.Visits {
		if v.CustomerID != customerID {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(r.Visits) {
		return false
	}
	r.Visits = kept
	r.Stats = CalculateStats(kept)
	r.Touch()
	return true
}

// IsEmpty reports whether the report has no visits left
func (r *DailyReport) IsEmpty() bool {
	return len(r.Visits) == 0
}

// DroppedAttachments returns the current references absent from next
func (r *DailyReport) DroppedAttachments(next []string) []string {
	keep := make(map[string]struct{}, len(next))
	for _, ref := range next {
		keep[ref] = struct{}{}
	}
	var dropped []string
	for _, ref := range r.Attachments {
		if _, ok := keep[ref]; !ok {
			dropped = append(dropped, ref)
		}
	}
	return dropped
}

package report

import (
	"strings"

	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// VisitStatus is the outcome of a planned or extra visit
type VisitStatus string

const (
	VisitStatusVisited    VisitStatus = "visited"
	VisitStatusNotVisited VisitStatus = "not_visited"
)

// IsValid reports whether s is a known status
func (s VisitStatus) IsValid() bool {
	return s == VisitStatusVisited || s == VisitStatusNotVisited
}

// Visit is one customer entry inside a daily report
type Visit struct {
	CustomerID      uuid.UUID
	CustomerCode    string
	Status          VisitStatus
	Reason          string
	Notes           string
	DurationMinutes *int
	IsExtra         bool
}

// Validate checks a single visit
func (v Visit) Validate() error {
	if v.CustomerID == uuid.Nil {
		return shared.NewDomainError("INVALID_VISIT", "Each visit must reference a customer")
	}
	if !v.Status.IsValid() {
		return shared.NewDomainError("INVALID_VISIT", "Visit status must be visited or not_visited")
	}
	if v.Status == VisitStatusNotVisited && strings.TrimSpace(v.Reason) == "" {
		return shared.NewDomainError("INVALID_VISIT", "A reason is required when the customer was not visited")
	}
	if v.DurationMinutes != nil && *v.DurationMinutes < 0 {
		return shared.NewDomainError("INVALID_VISIT", "Visit duration cannot be negative")
	}
	return nil
}

// ValidateVisits checks a report's visit list: non-empty, each visit
// valid, and no customer listed twice
func ValidateVisits(visits []Visit) error {
	if len(visits) == 0 {
		return shared.NewDomainError("INVALID_VISIT", "A report must contain at least one visit")
	}
	seen := make(map[uuid.UUID]struct{}, len(visits))
	for _, v := range visits {
		if err := v.Validate(); err != nil {
			return err
		}
		if _, dup := seen[v.CustomerID]; dup {
			return shared.NewDomainError("INVALID_VISIT", "A customer can only appear once per report")
		}
		seen[v.CustomerID] = struct{}{}
	}
	return nil
}

// VisitStats is derived from the visit list on every save
type VisitStats struct {
	TotalVisits     int `json:"total_visits"`
	TotalVisited    int `json:"total_visited"`
	TotalNotVisited int `json:"total_not_visited"`
	TotalExtra      int `json:"total_extra"`
}

// CalculateStats counts outcomes in one pass
func CalculateStats(visits []Visit) VisitStats {
	stats := VisitStats{TotalVisits: len(visits)}
	for _, v := range visits {
		switch v.Status {
		case VisitStatusVisited:
			stats.TotalVisited++
		case VisitStatusNotVisited:
			stats.TotalNotVisited++
		}
		if v.IsExtra {
			stats.TotalExtra++
		}
	}
	return stats
}

// CustomerIDs returns the customers referenced by visits, in order
func CustomerIDs(visits []Visit) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(visits))
	for _, v := range visits {
		ids = append(ids, v.CustomerID)
	}
	return ids
}

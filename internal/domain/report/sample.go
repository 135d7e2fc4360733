package report

import (
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SampleKind tells whether a sample went to a customer or was used by the rep
type SampleKind string

const (
	SampleKindCustomer SampleKind = "customer"
	SampleKindPersonal SampleKind = "personal"
)

// IsValid reports whether k is a known kind
func (k SampleKind) IsValid() bool {
	return k == SampleKindCustomer || k == SampleKindPersonal
}

// SampleLine is one desired sample in a report submission. ID is set when
// the line edits a sample that already exists on the report.
type SampleLine struct {
	ID         *uuid.UUID
	ProductID  uuid.UUID
	Quantity   int64
	Kind       SampleKind
	CustomerID *uuid.UUID
	Notes      string
}

// Validate checks quantity, kind and the customer/kind pairing
func (l SampleLine) Validate() error {
	if l.ProductID == uuid.Nil {
		return shared.NewDomainError("INVALID_SAMPLE", "Sample must reference a product")
	}
	if l.Quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Sample quantity must be at least 1")
	}
	if !l.Kind.IsValid() {
		return shared.NewDomainError("INVALID_SAMPLE", "Sample type must be customer or personal")
	}
	hasCustomer := l.CustomerID != nil && *l.CustomerID != uuid.Nil
	if l.Kind == SampleKindCustomer && !hasCustomer {
		return shared.NewDomainError("INVALID_SAMPLE", "Customer samples must reference a customer")
	}
	if l.Kind == SampleKindPersonal && hasCustomer {
		return shared.NewDomainError("INVALID_SAMPLE", "Personal samples cannot reference a customer")
	}
	return nil
}

// Sample is a quantity of product handed out or used, owned by one report
type Sample struct {
	shared.BaseEntity
	TenantID   uuid.UUID
	TakenBy    uuid.UUID
	ProductID  uuid.UUID
	Quantity   int64
	Kind       SampleKind
	CustomerID *uuid.UUID
	ReportID   uuid.UUID
	Notes      string
}

// NewSample creates a sample for the report owner
func NewSample(tenantID, repID, reportID uuid.UUID, line SampleLine) (*Sample, error) {
	if err := line.Validate(); err != nil {
		return nil, err
	}
	s := &Sample{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		TakenBy:    repID,
		ReportID:   reportID,
	}
	s.apply(line)
	return s, nil
}

// Revise overwrites product, quantity, kind, customer and notes
func (s *Sample) Revise(line SampleLine) error {
	if err := line.Validate(); err != nil {
		return err
	}
	s.apply(line)
	s.Touch()
	return nil
}

func (s *Sample) apply(line SampleLine) {
	s.ProductID = line.ProductID
	s.Quantity = line.Quantity
	s.Kind = line.Kind
	s.Notes = line.Notes
	s.CustomerID = nil
	if line.Kind == SampleKindCustomer && line.CustomerID != nil {
		id := *line.CustomerID
		s.CustomerID = &id
	}
}

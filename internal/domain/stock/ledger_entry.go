package stock

import (
	"fmt"
	"time"

	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Reason explains a ledger entry. The constants cover every movement the
// engine writes itself; admin corrections carry free text.
type Reason string

const (
	ReasonSampleAdded     Reason = "New sample added to report"
	ReasonSampleIncreased Reason = "Sample quantity increased in report"
	ReasonSampleDecreased Reason = "Sample quantity decreased in report"
	ReasonSampleDeleted   Reason = "Sample deleted from report"
	ReasonSampleReplaced  Reason = "Sample product changed in report"
	ReasonReportDeleted   Reason = "Admin deleted sample from report"
	ReasonCustomerRemoved Reason = "Report removed with deleted customer"
)

// AdminSetReason builds the reason written when an admin sets a rep's stock
func AdminSetReason(delta int64) Reason {
	if delta > 0 {
		return Reason(fmt.Sprintf("Added %d units by admin", delta))
	}
	return Reason(fmt.Sprintf("Removed %d units by admin", -delta))
}

// Key identifies one stock balance: a product carried by a rep in a tenant
type Key struct {
	TenantID  uuid.UUID
	RepID     uuid.UUID
	ProductID uuid.UUID
}

// String renders the key for logs
func (k Key) String() string {
	return k.TenantID.String() + "/" + k.RepID.String() + "/" + k.ProductID.String()
}

// Adjustment is a request to move a balance by Delta and record why
type Adjustment struct {
	Key
	Delta             int64
	Reason            Reason
	ActorID           uuid.UUID
	IncludeInAnalysis bool
	ReportID          *uuid.UUID
}

// Validate checks the adjustment is well formed. Zero deltas are rejected:
// callers skip them instead of writing ledger noise.
func (a Adjustment) Validate() error {
	if a.TenantID == uuid.Nil || a.RepID == uuid.Nil || a.ProductID == uuid.Nil {
		return shared.NewDomainError("INVALID_STOCK_KEY", "Tenant, rep and product are required")
	}
	if a.Delta == 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Adjustment delta cannot be zero")
	}
	if a.Reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Adjustment reason is required")
	}
	if a.ActorID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACTOR", "Adjustment actor is required")
	}
	return nil
}

// LedgerEntry is an immutable record of one signed quantity change.
// Entries are never updated or deleted; the balance is a cache of their sum.
type LedgerEntry struct {
	ID                uuid.UUID
	TenantID          uuid.UUID
	RepID             uuid.UUID
	ProductID         uuid.UUID
	QuantityChange    int64
	Reason            Reason
	ActorID           uuid.UUID
	IncludeInAnalysis bool
	ReportID          *uuid.UUID
	CreatedAt         time.Time
}

// NewLedgerEntry records adj at the given time
func NewLedgerEntry(adj Adjustment, at time.Time) (*LedgerEntry, error) {
	if err := adj.Validate(); err != nil {
		return nil, err
	}
	return &LedgerEntry{
		ID:                uuid.New(),
		TenantID:          adj.TenantID,
		RepID:             adj.RepID,
		ProductID:         adj.ProductID,
		QuantityChange:    adj.Delta,
		Reason:            adj.Reason,
		ActorID:           adj.ActorID,
		IncludeInAnalysis: adj.IncludeInAnalysis,
		ReportID:          adj.ReportID,
		CreatedAt:         at,
	}, nil
}

// Key returns the balance key this entry belongs to
func (e *LedgerEntry) Key() Key {
	return Key{TenantID: e.TenantID, RepID: e.RepID, ProductID: e.ProductID}
}

package stock

import (
	"time"

	"github.com/Mandoobi/jaber-backend/internal/domain/catalog"
	"github.com/Mandoobi/jaber-backend/internal/domain/stock"
	"github.com/google/uuid"
)

// RepStockResponse is one product a rep carries
type RepStockResponse struct {
	RepID       uuid.UUID `json:"rep_id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	UnitType    string    `json:"unit_type"`
	Quantity    int64     `json:"quantity"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SetRepStockRequest sets a rep's quantity of a product to an absolute value
type SetRepStockRequest struct {
	RepID             uuid.UUID
	ProductID         uuid.UUID
	Quantity          int64
	IncludeInAnalysis *bool
}

// LedgerEntryResponse is one ledger line
type LedgerEntryResponse struct {
	ID                uuid.UUID  `json:"id"`
	QuantityChange    int64      `json:"quantity_change"`
	Reason            string     `json:"reason"`
	ActorID           uuid.UUID  `json:"actor_id"`
	IncludeInAnalysis bool       `json:"include_in_analysis"`
	ReportID          *uuid.UUID `json:"report_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// AuditResponse compares the cached balance with a ledger replay
type AuditResponse struct {
	RepID      uuid.UUID `json:"rep_id"`
	ProductID  uuid.UUID `json:"product_id"`
	At         time.Time `json:"at"`
	Replayed   int64     `json:"replayed"`
	Cached     int64     `json:"cached"`
	Consistent bool      `json:"consistent"`
}

// ProductAnalysisResponse is one rep's month-to-date view of a product
type ProductAnalysisResponse struct {
	RepID                   uuid.UUID `json:"rep_id"`
	RepName                 string    `json:"rep_name"`
	ProductID               uuid.UUID `json:"product_id"`
	ProductName             string    `json:"product_name"`
	UnitType                string    `json:"unit_type"`
	Quantity                int64     `json:"quantity"`
	TotalTakenFromLedger    int64     `json:"total_taken_from_ledger"`
	TotalSamplesDistributed int64     `json:"total_samples_distributed"`
}

func toRepStockResponse(b *stock.Balance, p *catalog.Product) RepStockResponse {
	resp := RepStockResponse{
		RepID:     b.RepID,
		ProductID: b.ProductID,
		Quantity:  b.Quantity,
		UpdatedAt: b.UpdatedAt,
	}
	if p != nil {
		resp.ProductName = p.Name
		resp.UnitType = string(p.UnitType)
	}
	return resp
}

func toLedgerEntryResponse(e *stock.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:                e.ID,
		QuantityChange:    e.QuantityChange,
		Reason:            string(e.Reason),
		ActorID:           e.ActorID,
		IncludeInAnalysis: e.IncludeInAnalysis,
		ReportID:          e.ReportID,
		CreatedAt:         e.CreatedAt,
	}
}

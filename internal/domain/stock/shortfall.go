package stock

import (
	"sort"

	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrBalanceWouldGoNegative is returned by the balance store when a
// conditional update is rejected. Callers treat it as a concurrency
// conflict: the balance moved after their sufficiency check.
var ErrBalanceWouldGoNegative = shared.NewDomainError("BALANCE_WOULD_GO_NEGATIVE", "Stock balance would become negative")

// Shortfall describes one product a request needs more of than the rep holds
type Shortfall struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	Available   int64     `json:"available"`
	Required    int64     `json:"required"`
}

// NewInsufficientStockError wraps shortfalls for the client
func NewInsufficientStockError(shortfalls []Shortfall) *shared.DomainError {
	return shared.ErrInsufficientStock.WithDetails(shortfalls)
}

// CheckSufficiency compares the net withdrawal per product against the
// available quantities. net maps a product to what the request takes out
// (positive) or puts back (negative). Products with net <= 0 always pass.
// Shortfalls are returned ordered by product ID.
func CheckSufficiency(available map[uuid.UUID]int64, net map[uuid.UUID]int64) []Shortfall {
	var out []Shortfall
	for productID, required := range net {
		if required <= 0 {
			continue
		}
		have := available[productID]
		if have < required {
			out = append(out, Shortfall{ProductID: productID, Available: have, Required: required})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ProductID.String() < out[j].ProductID.String()
	})
	return out
}

package stock

import (
	"time"

	"github.com/google/uuid"
)

// Balance is the materialized quantity a rep holds of a product.
// It is created lazily at zero on first adjustment and never deleted.
type Balance struct {
	ID uuid.UUID
	Key
	Quantity  int64
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBalance returns an empty balance for key
func NewBalance(key Key) *Balance {
	now := time.Now()
	return &Balance{
		ID:        uuid.New(),
		Key:       key,
		Quantity:  0,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CanApply reports whether delta keeps the quantity non-negative
func (b *Balance) CanApply(delta int64) bool {
	return b.Quantity+delta >= 0
}

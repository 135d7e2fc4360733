package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesOnCode(t *testing.T) {
	detailed := ErrInsufficientStock.WithDetails([]string{"x"})

	assert.ErrorIs(t, detailed, ErrInsufficientStock)
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", detailed), ErrInsufficientStock)
	assert.NotErrorIs(t, detailed, ErrStockChanged)
	assert.Nil(t, ErrInsufficientStock.Details, "sentinel is not mutated")
}

func TestDomainError_WithCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := ErrReconciliationFailed.WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrReconciliationFailed)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestAsDomainError(t *testing.T) {
	de, ok := AsDomainError(fmt.Errorf("ctx: %w", ErrNotFound))
	assert.True(t, ok)
	assert.Equal(t, "NOT_FOUND", de.Code)

	_, ok = AsDomainError(errors.New("plain"))
	assert.False(t, ok)
}

func TestActor_CanActFor(t *testing.T) {
	rep := Actor{UserID: [16]byte{1}, Role: RoleSalesRep}
	admin := Actor{UserID: [16]byte{2}, Role: RoleAdmin}

	assert.True(t, rep.CanActFor(rep.UserID))
	assert.False(t, rep.CanActFor(admin.UserID))
	assert.True(t, admin.CanActFor(rep.UserID))
}

func TestFilter_Normalize(t *testing.T) {
	f := Filter{Page: 0, PageSize: 500}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 100, f.PageSize)
	assert.Equal(t, 0, f.Offset())

	assert.Equal(t, 3, NewPaginated([]int{1}, 41, 1, 20).TotalPages)
}

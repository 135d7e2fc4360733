package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates active product", func(t *testing.T) {
		p, err := NewProduct(tenantID, "  Vitamin C 500mg ", UnitBox)
		require.NoError(t, err)
		assert.Equal(t, "Vitamin C 500mg", p.Name)
		assert.Equal(t, tenantID, p.TenantID)
		assert.True(t, p.IsActive)
		assert.Equal(t, 1, p.Version)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProduct(tenantID, "   ", UnitBox)
		assert.Error(t, err)
	})

	t.Run("rejects unknown unit", func(t *testing.T) {
		_, err := NewProduct(tenantID, "Syrup", UnitType("barrel"))
		assert.Error(t, err)
	})
}

func TestProduct_Deactivate(t *testing.T) {
	p, err := NewProduct(uuid.New(), "Syrup", UnitPiece)
	require.NoError(t, err)

	p.Deactivate()

	assert.False(t, p.IsActive)
	assert.Equal(t, 2, p.Version)
}

package persistence

import (
	"context"
	"testing"

	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/Mandoobi/jaber-backend/internal/domain/visitplan"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormVisitPlanRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormVisitPlanRepository(setupTestDB(t))
	tenantID, repID := uuid.New(), uuid.New()
	c1, c2, c3 := uuid.New(), uuid.New(), uuid.New()

	plan, err := visitplan.NewVisitPlan(tenantID, repID, []visitplan.Day{
		{Day: shared.Sunday, Customers: []visitplan.PlannedCustomer{{CustomerID: c1, FullName: "Abu Ali"}, {CustomerID: c2, FullName: "Nablus Pharmacy"}}},
		{Day: shared.Monday, Customers: []visitplan.PlannedCustomer{}},
		{Day: shared.Tuesday, Customers: []visitplan.PlannedCustomer{{CustomerID: c2, FullName: "Nablus Pharmacy"}}},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, plan))

	t.Run("round trips days in order", func(t *testing.T) {
		got, err := repo.FindByRep(ctx, tenantID, repID)
		require.NoError(t, err)
		require.Len(t, got.Days, 3)
		assert.Equal(t, shared.Sunday, got.Days[0].Day)
		assert.Equal(t, []uuid.UUID{c1, c2}, []uuid.UUID{got.Days[0].Customers[0].CustomerID, got.Days[0].Customers[1].CustomerID})
		assert.Equal(t, "Abu Ali", got.Days[0].Customers[0].FullName)
		assert.Empty(t, got.Days[1].Customers)
		assert.Len(t, got.Days[2].Customers, 1)
	})

	t.Run("missing plan", func(t *testing.T) {
		_, err := repo.FindByRep(ctx, tenantID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("finds plans referencing a customer", func(t *testing.T) {
		plans, err := repo.FindReferencingCustomer(ctx, tenantID, c2)
		require.NoError(t, err)
		require.Len(t, plans, 1)
		assert.Equal(t, plan.ID, plans[0].ID)

		plans, err = repo.FindReferencingCustomer(ctx, tenantID, c3)
		require.NoError(t, err)
		assert.Empty(t, plans)
	})

	t.Run("save replaces the schedule", func(t *testing.T) {
		require.NoError(t, plan.ReplaceDays([]visitplan.Day{
			{Day: shared.Thursday, Customers: []visitplan.PlannedCustomer{{CustomerID: c3, FullName: "Jenin Market"}}},
		}))
		require.NoError(t, repo.Save(ctx, plan))

		got, err := repo.FindByRep(ctx, tenantID, repID)
		require.NoError(t, err)
		require.Len(t, got.Days, 1)
		assert.Equal(t, shared.Thursday, got.Days[0].Day)
		assert.Equal(t, plan.Version, got.Version)

		plans, err := repo.FindReferencingCustomer(ctx, tenantID, c2)
		require.NoError(t, err)
		assert.Empty(t, plans)
	})
}

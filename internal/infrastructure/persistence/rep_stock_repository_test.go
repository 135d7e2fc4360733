package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/Mandoobi/jaber-backend/internal/domain/stock"
	"github.com/Mandoobi/jaber-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormBalanceRepository_ApplyDelta(t *testing.T) {
	ctx := context.Background()
	key := stock.Key{TenantID: uuid.New(), RepID: uuid.New(), ProductID: uuid.New()}

	t.Run("creates the balance lazily", func(t *testing.T) {
		repo := NewGormBalanceRepository(setupTestDB(t))

		_, err := repo.FindByKey(ctx, key)
		assert.True(t, errors.Is(err, shared.ErrNotFound))

		b, err := repo.ApplyDelta(ctx, key, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), b.Quantity)
		assert.Equal(t, key, b.Key)

		b, err = repo.ApplyDelta(ctx, key, -3)
		require.NoError(t, err)
		assert.Equal(t, int64(4), b.Quantity)
		assert.Equal(t, 3, b.Version)
	})

	t.Run("refuses to go negative and leaves the quantity untouched", func(t *testing.T) {
		repo := NewGormBalanceRepository(setupTestDB(t))

		_, err := repo.ApplyDelta(ctx, key, 2)
		require.NoError(t, err)

		_, err = repo.ApplyDelta(ctx, key, -3)
		assert.ErrorIs(t, err, stock.ErrBalanceWouldGoNegative)

		b, err := repo.FindByKey(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, int64(2), b.Quantity)
	})

	t.Run("negative delta on an unknown key", func(t *testing.T) {
		repo := NewGormBalanceRepository(setupTestDB(t))

		_, err := repo.ApplyDelta(ctx, key, -1)
		assert.ErrorIs(t, err, stock.ErrBalanceWouldGoNegative)
	})
}

func TestGormBalanceRepository_ApplyDelta_SQL(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	repo := NewGormBalanceRepository(mockDB.DB)
	key := stock.Key{TenantID: uuid.New(), RepID: uuid.New(), ProductID: uuid.New()}

	t.Run("conditional update carries the non-negative guard", func(t *testing.T) {
		mockDB.Mock.ExpectExec(`UPDATE "rep_product_stocks" SET "quantity"=quantity \+ \$1.*WHERE .*quantity \+ \$\d+ >= 0`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mockDB.Mock.ExpectQuery(`SELECT \* FROM "rep_product_stocks" WHERE tenant_id`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "rep_id", "product_id", "quantity", "version"}).
				AddRow(uuid.New(), key.TenantID, key.RepID, key.ProductID, 5, 2))

		b, err := repo.ApplyDelta(context.Background(), key, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(5), b.Quantity)
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("missing row is seeded with ON CONFLICT DO NOTHING", func(t *testing.T) {
		mockDB.Mock.ExpectExec(`UPDATE "rep_product_stocks"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mockDB.Mock.ExpectExec(`INSERT INTO "rep_product_stocks" .* ON CONFLICT \("tenant_id","rep_id","product_id"\) DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mockDB.Mock.ExpectExec(`UPDATE "rep_product_stocks"`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := repo.ApplyDelta(context.Background(), key, -5)
		assert.ErrorIs(t, err, stock.ErrBalanceWouldGoNegative)
		mockDB.ExpectationsWereMet(t)
	})
}

func TestGormBalanceRepository_Find(t *testing.T) {
	ctx := context.Background()
	repo := NewGormBalanceRepository(setupTestDB(t))
	tenantID, rep1, rep2 := uuid.New(), uuid.New(), uuid.New()
	p1, p2 := uuid.New(), uuid.New()

	for _, k := range []stock.Key{
		{TenantID: tenantID, RepID: rep1, ProductID: p1},
		{TenantID: tenantID, RepID: rep1, ProductID: p2},
		{TenantID: tenantID, RepID: rep2, ProductID: p1},
	} {
		_, err := repo.ApplyDelta(ctx, k, 3)
		require.NoError(t, err)
	}

	all, err := repo.FindForRep(ctx, tenantID, rep1, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	some, err := repo.FindForRep(ctx, tenantID, rep1, []uuid.UUID{p2})
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, p2, some[0].ProductID)

	byProduct, err := repo.FindForProduct(ctx, tenantID, p1)
	require.NoError(t, err)
	assert.Len(t, byProduct, 2)

	other, err := repo.FindForRep(ctx, uuid.New(), rep1, nil)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestGormLedgerRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormLedgerRepository(setupTestDB(t))
	key := stock.Key{TenantID: uuid.New(), RepID: uuid.New(), ProductID: uuid.New()}
	actor := uuid.New()

	changes := []struct {
		delta    int64
		analysis bool
	}{{10, false}, {-2, true}, {-3, true}, {4, true}}
	for i, c := range changes {
		entry, err := stock.NewLedgerEntry(stock.Adjustment{
			Key:               key,
			Delta:             c.delta,
			Reason:            stock.AdminSetReason(c.delta),
			ActorID:           actor,
			IncludeInAnalysis: c.analysis,
		}, testEpoch.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
		require.NoError(t, repo.Append(ctx, entry))
	}

	t.Run("lists newest first with paging", func(t *testing.T) {
		entries, total, err := repo.FindByKey(ctx, key, shared.Filter{Page: 1, PageSize: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, entries, 3)
		assert.Equal(t, int64(4), entries[0].QuantityChange)
		assert.Equal(t, int64(-2), entries[2].QuantityChange)

		entries, _, err = repo.FindByKey(ctx, key, shared.Filter{Page: 2, PageSize: 3})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, int64(10), entries[0].QuantityChange)
	})

	t.Run("replays up to a point in time", func(t *testing.T) {
		sum, err := repo.SumUntil(ctx, key, testEpoch.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(8), sum)

		sum, err = repo.SumUntil(ctx, key, testEpoch.Add(-time.Hour))
		require.NoError(t, err)
		assert.Zero(t, sum)
	})

	t.Run("sums analysis entries per rep", func(t *testing.T) {
		totals, err := repo.SumAnalysisSince(ctx, key.TenantID, key.ProductID, testEpoch)
		require.NoError(t, err)
		assert.Equal(t, map[uuid.UUID]int64{key.RepID: -1}, totals)

		totals, err = repo.SumAnalysisSince(ctx, key.TenantID, key.ProductID, testEpoch.Add(3*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(4), totals[key.RepID])
	})
}

package report

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Mandoobi/jaber-backend/internal/domain/report"
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/Mandoobi/jaber-backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteReport(t *testing.T) {
	ctx := context.Background()

	t.Run("returns every sample and leaves no orphans", func(t *testing.T) {
		f := newFixture(t)
		f.give(t, f.p1.ID, 4)
		f.give(t, f.p2.ID, 2)

		cmd := f.submit("2025-06-15", personal(f.p1.ID, 4), personal(f.p2.ID, 2))
		cmd.Attachments = []string{"reports/x.png"}
		created, err := f.svc.SubmitReport(ctx, cmd)
		require.NoError(t, err)
		require.Equal(t, int64(0), f.store.Quantity(f.key(f.p1.ID)))

		result, err := f.svc.DeleteReport(ctx, DeleteReportCommand{TenantID: f.tenantID, Actor: f.admin, ReportID: created.ID})
		require.NoError(t, err)
		assert.Equal(t, 2, result.RestoredSamples)

		assert.Equal(t, int64(4), f.store.Quantity(f.key(f.p1.ID)))
		assert.Equal(t, int64(2), f.store.Quantity(f.key(f.p2.ID)))
		assert.Empty(t, f.store.Samples())
		assert.Zero(t, f.store.ReportCount())
		assert.Equal(t, []string{"reports/x.png"}, f.attachments.deleted)

		var restored []stock.LedgerEntry
		for _, e := range f.store.Ledger() {
			if e.Reason == stock.ReasonReportDeleted {
				restored = append(restored, e)
			}
		}
		require.Len(t, restored, 2)
		for _, e := range restored {
			assert.Equal(t, f.admin.UserID, e.ActorID)
			assert.Equal(t, f.rep.UserID, e.RepID)
		}
		assertLedgerMatchesBalances(t, f.store, f.key(f.p1.ID), f.key(f.p2.ID))

		events := f.publisher.EventsOfType(report.EventTypeDailyReportDeleted)
		require.Len(t, events, 1)
		ev := events[0].(*report.DailyReportDeletedEvent)
		assert.Equal(t, 2, ev.RestoredSamples)
		assert.Equal(t, []uuid.UUID{f.rep.UserID}, ev.TargetUserIDs)
	})

	t.Run("reps cannot delete", func(t *testing.T) {
		f := newFixture(t)
		created, err := f.svc.SubmitReport(ctx, f.submit("2025-06-15"))
		require.NoError(t, err)

		_, err = f.svc.DeleteReport(ctx, DeleteReportCommand{TenantID: f.tenantID, Actor: f.rep, ReportID: created.ID})
		assert.ErrorIs(t, err, shared.ErrForbidden)
		assert.Equal(t, 1, f.store.ReportCount())
	})

	t.Run("unknown report", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.DeleteReport(ctx, DeleteReportCommand{TenantID: f.tenantID, Actor: f.admin, ReportID: uuid.New()})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("report edited since it was read is not deleted", func(t *testing.T) {
		f := newFixture(t)
		f.give(t, f.p1.ID, 6)
		created, err := f.svc.SubmitReport(ctx, f.submit("2025-06-15", personal(f.p1.ID, 3)))
		require.NoError(t, err)

		var once sync.Once
		f.store.BeforeTransaction(func(int) {
			once.Do(func() {
				stored, err := f.store.ReportRepo().FindByIDForTenant(ctx, f.tenantID, created.ID)
				require.NoError(t, err)
				require.NoError(t, f.store.ReportRepo().Save(ctx, stored))
			})
		})

		_, err = f.svc.DeleteReport(ctx, DeleteReportCommand{TenantID: f.tenantID, Actor: f.admin, ReportID: created.ID})

		assert.ErrorIs(t, err, shared.ErrStockChanged)
		assert.Equal(t, int64(3), f.store.Quantity(f.key(f.p1.ID)))
		assert.Len(t, f.store.Samples(), 1)
		assert.Equal(t, 1, f.store.ReportCount())
	})

	t.Run("failure keeps report, samples and balance", func(t *testing.T) {
		f := newFixture(t)
		f.give(t, f.p1.ID, 3)
		created, err := f.svc.SubmitReport(ctx, f.submit("2025-06-15", personal(f.p1.ID, 3)))
		require.NoError(t, err)
		f.store.FailOn("ReportRepo.DeleteForTenant", errors.New("timeout"))

		_, err = f.svc.DeleteReport(ctx, DeleteReportCommand{TenantID: f.tenantID, Actor: f.admin, ReportID: created.ID})

		assert.ErrorIs(t, err, shared.ErrReconciliationFailed)
		assert.Equal(t, int64(0), f.store.Quantity(f.key(f.p1.ID)))
		assert.Len(t, f.store.Samples(), 1)
		assert.Equal(t, 1, f.store.ReportCount())
	})
}

func TestRemoveCustomerFromReports(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.give(t, f.p1.ID, 10)

	// one report keeps another visit, one only visited c1 and carries a sample
	both := f.submit("2025-06-14")
	both.Visits = append(both.Visits, report.Visit{CustomerID: f.c2.ID, Status: report.VisitStatusVisited})
	kept, err := f.svc.SubmitReport(ctx, both)
	require.NoError(t, err)
	emptied, err := f.svc.SubmitReport(ctx, f.submit("2025-06-15", personal(f.p1.ID, 4)))
	require.NoError(t, err)
	require.Equal(t, int64(6), f.store.Quantity(f.key(f.p1.ID)))

	res, err := f.svc.RemoveCustomerFromReports(ctx, f.tenantID, f.c1.ID, uuid.Nil, 10, f.admin)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, res.Deleted)
	assert.True(t, res.Done)

	got, err := f.svc.GetReport(ctx, f.tenantID, f.admin, kept.ID)
	require.NoError(t, err)
	require.Len(t, got.Visits, 1)
	assert.Equal(t, f.c2.ID, got.Visits[0].CustomerID)
	assert.Equal(t, 1, got.Stats.TotalVisits)

	_, err = f.svc.GetReport(ctx, f.tenantID, f.admin, emptied.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, int64(10), f.store.Quantity(f.key(f.p1.ID)))

	again, err := f.svc.RemoveCustomerFromReports(ctx, f.tenantID, f.c1.ID, uuid.Nil, 10, f.admin)
	require.NoError(t, err)
	assert.Zero(t, again.Processed)
	assert.True(t, again.Done)
}

func TestRemoveCustomerFromReports_KeptReportKeepsCustomerSamples(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.give(t, f.p1.ID, 5)

	c1 := f.c1.ID
	cmd := f.submit("2025-06-14", report.SampleLine{ProductID: f.p1.ID, Quantity: 2, Kind: report.SampleKindCustomer, CustomerID: &c1})
	cmd.Visits = append(cmd.Visits, report.Visit{CustomerID: f.c2.ID, Status: report.VisitStatusVisited})
	kept, err := f.svc.SubmitReport(ctx, cmd)
	require.NoError(t, err)

	res, err := f.svc.RemoveCustomerFromReports(ctx, f.tenantID, c1, uuid.Nil, 10, f.admin)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Zero(t, res.Deleted)

	// the visit goes, the sample stays as a record of what was handed out
	samples := f.store.Samples()
	require.Len(t, samples, 1)
	assert.Equal(t, kept.ID, samples[0].ReportID)
	assert.Equal(t, report.SampleKindCustomer, samples[0].Kind)
	require.NotNil(t, samples[0].CustomerID)
	assert.Equal(t, c1, *samples[0].CustomerID)
	assert.Equal(t, int64(3), f.store.Quantity(f.key(f.p1.ID)))
}

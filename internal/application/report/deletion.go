package report

import (
	"context"
	"time"

	"github.com/Mandoobi/jaber-backend/internal/domain/report"
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/Mandoobi/jaber-backend/internal/domain/stock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultCustomerBatchSize is how many reports one cleanup batch touches
const DefaultCustomerBatchSize = 100

// DeleteReport removes a report and every sample on it, returning each
// sample's quantity to the report owner before the records go away
func (s *ReconciliationService) DeleteReport(ctx context.Context, cmd DeleteReportCommand) (result *DeleteReportResult, err error) {
	start := time.Now()
	defer func() { s.record(ctx, opDelete, err, time.Since(start)) }()

	if !cmd.Actor.IsAdmin() {
		return nil, shared.ErrForbidden.WithMessage("Only admins can delete reports")
	}
	r, err := s.reportRepo.FindByIDForTenant(ctx, cmd.TenantID, cmd.ReportID)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, cmd.TenantID, r.RepID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	commitCtx := context.WithoutCancel(ctx)
	var restored int
	err = s.txScope.Execute(commitCtx, func(repos TransactionalRepositories) error {
		var rmErr error
		restored, rmErr = s.removeReport(commitCtx, repos, r, cmd.Actor.UserID, stock.ReasonReportDeleted)
		return rmErr
	})
	if isConflict(err) {
		return nil, shared.ErrStockChanged.WithCause(err)
	}
	if err != nil {
		s.logger.Error("Report deletion failed",
			zap.String("tenant_id", cmd.TenantID.String()),
			zap.String("rep_id", r.RepID.String()),
			zap.String("report_id", r.ID.String()),
			zap.Error(err),
		)
		return nil, shared.ErrReconciliationFailed.WithCause(err)
	}

	s.logger.Info("Daily report deleted",
		zap.String("tenant_id", cmd.TenantID.String()),
		zap.String("report_id", r.ID.String()),
		zap.Int("restored_samples", restored),
	)
	s.deleteAttachments(commitCtx, r.ID, r.Attachments)
	s.publish(commitCtx, report.NewDailyReportDeletedEvent(r, cmd.Actor.UserID, restored))

	return &DeleteReportResult{ReportID: r.ID, RestoredSamples: restored}, nil
}

// RemoveCustomerFromReports strips customerID from the next batch of reports
// after afterID. Reports left without visits are deleted the same way
// DeleteReport does it, so their samples go back to stock. The batch commits
// as one unit; callers persist LastID to resume.
func (s *ReconciliationService) RemoveCustomerFromReports(ctx context.Context, tenantID, customerID, afterID uuid.UUID, limit int, actor shared.Actor) (result *CustomerBatchResult, err error) {
	start := time.Now()
	defer func() { s.record(ctx, opRemoveCustomer, err, time.Since(start)) }()

	if limit <= 0 {
		limit = DefaultCustomerBatchSize
	}
	reports, err := s.reportRepo.FindReferencingCustomer(ctx, tenantID, customerID, afterID, limit)
	if err != nil {
		return nil, err
	}
	result = &CustomerBatchResult{LastID: afterID, Done: len(reports) < limit}
	if len(reports) == 0 {
		return result, nil
	}

	commitCtx := context.WithoutCancel(ctx)
	var removed []*report.DailyReport
	err = s.txScope.Execute(commitCtx, func(repos TransactionalRepositories) error {
		updated, deleted := 0, 0
		removed = removed[:0]
		for i := range reports {
			r := &reports[i]
			if !r.RemoveCustomer(customerID) {
				continue
			}
			if r.IsEmpty() {
				if _, err := s.removeReport(commitCtx, repos, r, actor.UserID, stock.ReasonCustomerRemoved); err != nil {
					return err
				}
				removed = append(removed, r)
				deleted++
				continue
			}
			if err := repos.ReportRepo().Save(commitCtx, r); err != nil {
				return err
			}
			updated++
		}
		result.Updated, result.Deleted = updated, deleted
		return nil
	})
	if isConflict(err) {
		s.logger.Warn("Report changed during customer cleanup, batch rolled back",
			zap.String("tenant_id", tenantID.String()),
			zap.String("customer_id", customerID.String()),
			zap.String("after_id", afterID.String()),
		)
		return nil, shared.ErrStockChanged.WithCause(err)
	}
	if err != nil {
		s.logger.Error("Customer report cleanup failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("customer_id", customerID.String()),
			zap.String("after_id", afterID.String()),
			zap.Error(err),
		)
		return nil, shared.ErrReconciliationFailed.WithCause(err)
	}

	for _, r := range removed {
		s.deleteAttachments(commitCtx, r.ID, r.Attachments)
	}
	result.Processed = len(reports)
	result.LastID = reports[len(reports)-1].ID
	return result, nil
}

// removeReport returns every sample's quantity, then deletes the samples and
// the report. The report is first saved at its loaded version so a
// submission that committed since it was read turns into a conflict instead
// of its samples being missed. Returns the number of samples restored.
func (s *ReconciliationService) removeReport(ctx context.Context, repos TransactionalRepositories, r *report.DailyReport, actorID uuid.UUID, reason stock.Reason) (int, error) {
	if err := repos.ReportRepo().Save(ctx, r); err != nil {
		return 0, err
	}
	samples, err := repos.SampleRepo().FindByReport(ctx, r.TenantID, r.ID)
	if err != nil {
		return 0, err
	}
	for i := range samples {
		if _, err := s.adjuster.Adjust(ctx, repos, deletionAdjustment(&samples[i], r.RepID, actorID, reason)); err != nil {
			return 0, err
		}
	}
	if err := repos.SampleRepo().DeleteByReport(ctx, r.TenantID, r.ID); err != nil {
		return 0, err
	}
	if err := repos.ReportRepo().DeleteForTenant(ctx, r.TenantID, r.ID); err != nil {
		return 0, err
	}
	return len(samples), nil
}

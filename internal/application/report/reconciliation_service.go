package report

import (
	"context"
	"errors"
	"time"

	appstock "github.com/Mandoobi/jaber-backend/internal/application/stock"
	"github.com/Mandoobi/jaber-backend/internal/domain/catalog"
	"github.com/Mandoobi/jaber-backend/internal/domain/identity"
	"github.com/Mandoobi/jaber-backend/internal/domain/partner"
	"github.com/Mandoobi/jaber-backend/internal/domain/report"
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/Mandoobi/jaber-backend/internal/domain/stock"
	"github.com/Mandoobi/jaber-backend/internal/domain/visitplan"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	opSubmit         = "submit_report"
	opDelete         = "delete_report"
	opRemoveCustomer = "remove_customer"
)

// ReconciliationService keeps daily reports, their samples and rep stock
// consistent. Every stock movement it makes goes through the adjuster.
type ReconciliationService struct {
	reportRepo     report.DailyReportRepository
	sampleRepo     report.SampleRepository
	balanceRepo    stock.BalanceRepository
	productRepo    catalog.ProductReader
	customerRepo   partner.CustomerReader
	planRepo       visitplan.VisitPlanRepository
	userRepo       identity.UserRepository
	txScope        TransactionScope
	adjuster       *appstock.Adjuster
	eventPublisher shared.EventPublisher
	attachments    AttachmentStore
	locker         RepLocker
	recorder       Recorder
	clock          shared.Clock
	location       *time.Location
	maxAttempts    int
	logger         *zap.Logger
}

// NewReconciliationService creates a ReconciliationService
func NewReconciliationService(
	reportRepo report.DailyReportRepository,
	sampleRepo report.SampleRepository,
	balanceRepo stock.BalanceRepository,
	productRepo catalog.ProductReader,
	customerRepo partner.CustomerReader,
	planRepo visitplan.VisitPlanRepository,
	userRepo identity.UserRepository,
	txScope TransactionScope,
	adjuster *appstock.Adjuster,
	logger *zap.Logger,
) *ReconciliationService {
	loc, err := time.LoadLocation(report.DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	return &ReconciliationService{
		reportRepo:   reportRepo,
		sampleRepo:   sampleRepo,
		balanceRepo:  balanceRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		planRepo:     planRepo,
		userRepo:     userRepo,
		txScope:      txScope,
		adjuster:     adjuster,
		attachments:  noopAttachmentStore{},
		locker:       noopLocker{},
		clock:        shared.SystemClock{},
		location:     loc,
		maxAttempts:  appstock.DefaultMaxAttempts,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for notifications
func (s *ReconciliationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetAttachmentStore sets where dropped attachments are deleted from
func (s *ReconciliationService) SetAttachmentStore(store AttachmentStore) {
	s.attachments = store
}

// SetLocker sets the per-rep lock
func (s *ReconciliationService) SetLocker(locker RepLocker) {
	s.locker = locker
}

// SetRecorder attaches metrics
func (s *ReconciliationService) SetRecorder(recorder Recorder) {
	s.recorder = recorder
}

// SetClock overrides the clock used for default report dates
func (s *ReconciliationService) SetClock(clock shared.Clock) {
	s.clock = clock
}

// SetLocation sets the tenant timezone
func (s *ReconciliationService) SetLocation(loc *time.Location) {
	s.location = loc
}

// SetMaxAttempts sets the conflict retry bound
func (s *ReconciliationService) SetMaxAttempts(n int) {
	if n > 0 {
		s.maxAttempts = n
	}
}

// target is the report a submission writes to
type target struct {
	repID    uuid.UUID
	reportID *uuid.UUID
	date     report.ReportDate
}

// SubmitReport creates or replaces the report for (rep, date), reconciling
// its samples against the rep's stock. Either every ledger entry, sample and
// the report are written, or none are. A concurrent change that invalidates
// the sufficiency check causes the whole pass to be re-run against fresh
// balances, up to the configured number of attempts.
func (s *ReconciliationService) SubmitReport(ctx context.Context, cmd SubmitReportCommand) (resp *ReportResponse, err error) {
	start := time.Now()
	defer func() { s.record(ctx, opSubmit, err, time.Since(start)) }()

	if err := report.ValidateVisits(cmd.Visits); err != nil {
		return nil, err
	}
	if err := report.ValidateAttachments(cmd.Attachments); err != nil {
		return nil, err
	}
	for _, line := range cmd.Samples {
		if err := line.Validate(); err != nil {
			return nil, err
		}
	}

	tgt, err := s.resolveTarget(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, cmd); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, cmd.TenantID, tgt.repID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		resp, err = s.submitOnce(ctx, cmd, tgt)
		if err == nil {
			return resp, nil
		}
		if !isConflict(err) {
			return nil, err
		}
		if s.recorder != nil {
			s.recorder.RecordRetry(ctx, opSubmit, attempt)
		}
		s.logger.Warn("Stock or report changed during reconciliation, retrying",
			zap.String("tenant_id", cmd.TenantID.String()),
			zap.String("rep_id", tgt.repID.String()),
			zap.String("date", tgt.date.String()),
			zap.Int("attempt", attempt),
		)
	}
	return nil, shared.ErrStockChanged
}

func (s *ReconciliationService) resolveTarget(ctx context.Context, cmd SubmitReportCommand) (target, error) {
	if cmd.ReportID != nil {
		if !cmd.Actor.IsAdmin() {
			return target{}, shared.ErrForbidden.WithMessage("Only admins can edit a report by ID")
		}
		existing, err := s.reportRepo.FindByIDForTenant(ctx, cmd.TenantID, *cmd.ReportID)
		if err != nil {
			return target{}, err
		}
		date, err := report.ParseReportDate(existing.Date)
		if err != nil {
			return target{}, err
		}
		id := existing.ID
		return target{repID: existing.RepID, reportID: &id, date: date}, nil
	}

	repID := cmd.Actor.UserID
	if cmd.RepID != nil && *cmd.RepID != uuid.Nil {
		repID = *cmd.RepID
	}
	if !cmd.Actor.CanActFor(repID) {
		return target{}, shared.ErrForbidden.WithMessage("Reps can only submit their own reports")
	}
	if repID != cmd.Actor.UserID {
		rep, err := s.userRepo.FindByIDForTenant(ctx, cmd.TenantID, repID)
		if err != nil {
			return target{}, err
		}
		if rep.Role != shared.RoleSalesRep {
			return target{}, shared.NewDomainError("INVALID_REP", "Reports can only be filed for sales reps")
		}
	}

	date := report.ReportDateOf(s.clock.Now(), s.location)
	if cmd.Date != "" {
		parsed, err := report.ParseReportDate(cmd.Date)
		if err != nil {
			return target{}, err
		}
		date = parsed
	}
	return target{repID: repID, date: date}, nil
}

// checkReferences verifies every product and customer the submission names
// exists in the tenant
func (s *ReconciliationService) checkReferences(ctx context.Context, cmd SubmitReportCommand) error {
	productIDs := make(map[uuid.UUID]struct{})
	customerIDs := make(map[uuid.UUID]struct{})
	for _, v := range cmd.Visits {
		customerIDs[v.CustomerID] = struct{}{}
	}
	for _, line := range cmd.Samples {
		productIDs[line.ProductID] = struct{}{}
		if line.CustomerID != nil && *line.CustomerID != uuid.Nil {
			customerIDs[*line.CustomerID] = struct{}{}
		}
	}

	if len(productIDs) > 0 {
		products, err := s.productRepo.FindByIDs(ctx, cmd.TenantID, keys(productIDs))
		if err != nil {
			return err
		}
		if len(products) != len(productIDs) {
			return shared.NewDomainError("INVALID_PRODUCT", "One or more products do not exist")
		}
	}
	if len(customerIDs) > 0 {
		customers, err := s.customerRepo.FindByIDs(ctx, cmd.TenantID, keys(customerIDs))
		if err != nil {
			return err
		}
		if len(customers) != len(customerIDs) {
			return shared.NewDomainError("INVALID_CUSTOMER", "One or more customers do not exist")
		}
	}
	return nil
}

// submitOnce reads current state, plans, checks sufficiency and commits.
// It returns a conflict (see isConflict) when the commit lost a race on a
// balance or on the report itself.
func (s *ReconciliationService) submitOnce(ctx context.Context, cmd SubmitReportCommand, tgt target) (*ReportResponse, error) {
	current, created, err := s.loadOrCreate(ctx, cmd.TenantID, tgt)
	if err != nil {
		return nil, err
	}
	var existing []report.Sample
	if !created {
		existing, err = s.sampleRepo.FindByReport(ctx, cmd.TenantID, current.ID)
		if err != nil {
			return nil, err
		}
	}

	planned, err := visitplan.PlannedCustomers(ctx, s.planRepo, cmd.TenantID, tgt.repID, current.Day)
	if err != nil {
		return nil, err
	}
	dropped := current.DroppedAttachments(cmd.Attachments)
	if err := current.Revise(cmd.Notes, cmd.Attachments, cmd.Visits, planned); err != nil {
		return nil, err
	}

	plan, err := buildPlan(planInput{
		tenantID:   cmd.TenantID,
		repID:      tgt.repID,
		reportID:   current.ID,
		actorID:    cmd.Actor.UserID,
		existing:   existing,
		desired:    cmd.Samples,
		deletedIDs: cmd.DeletedSampleIDs,
	})
	if err != nil {
		return nil, err
	}

	if err := s.checkSufficiency(ctx, cmd.TenantID, tgt.repID, plan); err != nil {
		return nil, err
	}

	// The commit must not be abandoned halfway because the client went away.
	commitCtx := context.WithoutCancel(ctx)
	err = s.txScope.Execute(commitCtx, func(repos TransactionalRepositories) error {
		return s.commit(commitCtx, repos, current, created, plan, tgt.repID, cmd.Actor.UserID)
	})
	if err != nil {
		if isConflict(err) {
			return nil, err
		}
		s.logger.Error("Report reconciliation failed",
			zap.String("tenant_id", cmd.TenantID.String()),
			zap.String("rep_id", tgt.repID.String()),
			zap.String("report_id", current.ID.String()),
			zap.String("date", current.Date),
			zap.Any("net_withdrawals", plan.net),
			zap.Error(err),
		)
		return nil, shared.ErrReconciliationFailed.WithCause(err)
	}

	s.logger.Info("Daily report reconciled",
		zap.String("tenant_id", cmd.TenantID.String()),
		zap.String("rep_id", tgt.repID.String()),
		zap.String("report_id", current.ID.String()),
		zap.Bool("created", created),
		zap.Int("samples", plan.sampleCount()),
		zap.Int("deleted_samples", len(plan.deletions)),
	)

	s.deleteAttachments(commitCtx, current.ID, dropped)
	s.publish(commitCtx, report.NewDailyReportSubmittedEvent(current, cmd.Actor.UserID, created, plan.sampleCount(),
		s.submitTargets(commitCtx, cmd.TenantID, cmd.Actor, tgt.repID)))

	resp := ToReportResponse(current, plan.samples())
	resp.Created = created
	return &resp, nil
}

func (s *ReconciliationService) loadOrCreate(ctx context.Context, tenantID uuid.UUID, tgt target) (*report.DailyReport, bool, error) {
	var (
		r   *report.DailyReport
		err error
	)
	if tgt.reportID != nil {
		r, err = s.reportRepo.FindByIDForTenant(ctx, tenantID, *tgt.reportID)
	} else {
		r, err = s.reportRepo.FindByRepAndDate(ctx, tenantID, tgt.repID, tgt.date.String())
	}
	if err == nil {
		return r, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) || tgt.reportID != nil {
		return nil, false, err
	}
	r, err = report.NewDailyReport(tenantID, tgt.repID, tgt.date)
	if err != nil {
		return nil, false, err
	}
	return r, true, nil
}

func (s *ReconciliationService) checkSufficiency(ctx context.Context, tenantID, repID uuid.UUID, plan *reconciliationPlan) error {
	needed := plan.withdrawnProducts()
	if len(needed) == 0 {
		return nil
	}
	balances, err := s.balanceRepo.FindForRep(ctx, tenantID, repID, needed)
	if err != nil {
		return err
	}
	available := make(map[uuid.UUID]int64, len(balances))
	for _, b := range balances {
		available[b.ProductID] = b.Quantity
	}
	shortfalls := stock.CheckSufficiency(available, plan.net)
	if len(shortfalls) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(shortfalls))
	for _, sf := range shortfalls {
		ids = append(ids, sf.ProductID)
	}
	if products, err := s.productRepo.FindByIDs(ctx, tenantID, ids); err == nil {
		names := make(map[uuid.UUID]string, len(products))
		for _, p := range products {
			names[p.ID] = p.Name
		}
		for i := range shortfalls {
			shortfalls[i].ProductName = names[shortfalls[i].ProductID]
		}
	}
	return stock.NewInsufficientStockError(shortfalls)
}

// commit writes in a fixed order: deletions return stock, then returns, then
// withdrawals. Each sample is written after its stock movement.
func (s *ReconciliationService) commit(ctx context.Context, repos TransactionalRepositories, r *report.DailyReport, created bool, plan *reconciliationPlan, repID, actorID uuid.UUID) error {
	for i := range plan.deletions {
		d := &plan.deletions[i]
		if _, err := s.adjuster.Adjust(ctx, repos, deletionAdjustment(d, repID, actorID, stock.ReasonSampleDeleted)); err != nil {
			return err
		}
		if err := repos.SampleRepo().DeleteByIDs(ctx, r.TenantID, []uuid.UUID{d.ID}); err != nil {
			return err
		}
	}

	for _, c := range plan.changes {
		for _, adj := range c.adjustments {
			if _, err := s.adjuster.Adjust(ctx, repos, adj); err != nil {
				return err
			}
		}
		if err := repos.SampleRepo().Save(ctx, c.sample); err != nil {
			return err
		}
	}

	if !created {
		return repos.ReportRepo().Save(ctx, r)
	}
	if err := repos.ReportRepo().Create(ctx, r); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			// another submission created the report for this date first
			return shared.ErrConcurrencyConflict.WithCause(err)
		}
		return err
	}
	return nil
}

// isConflict reports whether err means a concurrent writer won the race and
// the pass should be re-planned against fresh state
func isConflict(err error) bool {
	return errors.Is(err, stock.ErrBalanceWouldGoNegative) || errors.Is(err, shared.ErrConcurrencyConflict)
}

// submitTargets notifies admins when a rep files, and the rep when an admin
// edits on their behalf
func (s *ReconciliationService) submitTargets(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, repID uuid.UUID) []uuid.UUID {
	if actor.UserID != repID {
		return []uuid.UUID{repID}
	}
	admins, err := s.userRepo.FindActiveAdminIDs(ctx, tenantID)
	if err != nil {
		s.logger.Warn("Failed to resolve notification targets",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
		return nil
	}
	return admins
}

func (s *ReconciliationService) deleteAttachments(ctx context.Context, reportID uuid.UUID, refs []string) {
	for _, ref := range refs {
		if err := s.attachments.Delete(ctx, ref); err != nil {
			s.logger.Warn("Failed to delete report attachment",
				zap.String("report_id", reportID.String()),
				zap.String("ref", ref),
				zap.Error(err),
			)
		}
	}
}

func (s *ReconciliationService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish report event", zap.Error(err))
	}
}

func (s *ReconciliationService) record(ctx context.Context, op string, err error, d time.Duration) {
	if s.recorder == nil {
		return
	}
	s.recorder.RecordReconciliation(ctx, op, outcomeOf(err), d)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, shared.ErrInsufficientStock):
		return OutcomeInsufficient
	case errors.Is(err, shared.ErrStockChanged), errors.Is(err, ErrRepBusy):
		return OutcomeConflict
	case errors.Is(err, shared.ErrReconciliationFailed):
		return OutcomeFailed
	default:
		return OutcomeInvalid
	}
}

func keys(m map[uuid.UUID]struct{}) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}

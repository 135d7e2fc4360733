package partner

import (
	"context"
	"errors"
	"time"

	appreport "github.com/Mandoobi/jaber-backend/internal/application/report"
	"github.com/Mandoobi/jaber-backend/internal/domain/identity"
	"github.com/Mandoobi/jaber-backend/internal/domain/partner"
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/Mandoobi/jaber-backend/internal/domain/visitplan"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportCleaner strips a customer from one batch of reports
type ReportCleaner interface {
	RemoveCustomerFromReports(ctx context.Context, tenantID, customerID, afterID uuid.UUID, limit int, actor shared.Actor) (*appreport.CustomerBatchResult, error)
}

// RemovalResult summarizes a finished cascade
type RemovalResult struct {
	CustomerID     uuid.UUID `json:"customer_id"`
	PlansUpdated   int       `json:"plans_updated"`
	ReportsUpdated int       `json:"reports_updated"`
	ReportsDeleted int       `json:"reports_deleted"`
	Completed      bool      `json:"completed"`
}

// CustomerRemovalService removes a customer and cleans every visit plan and
// daily report that references it
type CustomerRemovalService struct {
	customerRepo   partner.CustomerRepository
	jobRepo        partner.RemovalJobRepository
	planRepo       visitplan.VisitPlanRepository
	userRepo       identity.UserRepository
	reports        ReportCleaner
	eventPublisher shared.EventPublisher
	clock          shared.Clock
	batchSize      int
	logger         *zap.Logger
}

// NewCustomerRemovalService creates a new CustomerRemovalService
func NewCustomerRemovalService(
	customerRepo partner.CustomerRepository,
	jobRepo partner.RemovalJobRepository,
	planRepo visitplan.VisitPlanRepository,
	userRepo identity.UserRepository,
	reports ReportCleaner,
	logger *zap.Logger,
) *CustomerRemovalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerRemovalService{
		customerRepo: customerRepo,
		jobRepo:      jobRepo,
		planRepo:     planRepo,
		userRepo:     userRepo,
		reports:      reports,
		clock:        shared.SystemClock{},
		batchSize:    appreport.DefaultCustomerBatchSize,
		logger:       logger,
	}
}

func (s *CustomerRemovalService) SetEventPublisher(p shared.EventPublisher) { s.eventPublisher = p }
func (s *CustomerRemovalService) SetClock(c shared.Clock)                   { s.clock = c }

// SetBatchSize overrides how many reports each batch touches
func (s *CustomerRemovalService) SetBatchSize(n int) {
	if n > 0 {
		s.batchSize = n
	}
}

// RemoveCustomer cleans plans and reports, then deletes the customer record.
// An interrupted run leaves its cursor behind; calling again resumes after
// the last finished batch.
func (s *CustomerRemovalService) RemoveCustomer(ctx context.Context, tenantID, customerID uuid.UUID, actor shared.Actor) (*RemovalResult, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden.WithMessage("Only admins can remove customers")
	}
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	job, err := s.purge(ctx, tenantID, customerID, actor, true)
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.DeleteForTenant(ctx, tenantID, customerID); err != nil {
		return nil, err
	}
	job.Complete(s.clock.Now())
	if err := s.jobRepo.Save(ctx, job); err != nil {
		// the customer is gone; a stale running job only costs an empty rerun
		s.logger.Warn("Failed to mark customer removal completed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("customer_id", customerID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("Customer removed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("customer_id", customerID.String()),
		zap.Int("plans_updated", job.PlansUpdated),
		zap.Int("reports_updated", job.ReportsUpdated),
		zap.Int("reports_deleted", job.ReportsDeleted),
	)
	s.publishRemoved(ctx, customer, actor, job)

	return toRemovalResult(job, true), nil
}

// PurgeCustomerReferences runs the plan and report cleanup without deleting
// the customer. Safe to repeat.
func (s *CustomerRemovalService) PurgeCustomerReferences(ctx context.Context, tenantID, customerID uuid.UUID, actor shared.Actor) (*RemovalResult, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden.WithMessage("Only admins can remove customers")
	}
	job, err := s.purge(ctx, tenantID, customerID, actor, false)
	if err != nil {
		return nil, err
	}
	return toRemovalResult(job, false), nil
}

func (s *CustomerRemovalService) purge(ctx context.Context, tenantID, customerID uuid.UUID, actor shared.Actor, deleteCustomer bool) (*partner.RemovalJob, error) {
	job, err := s.jobRepo.FindActive(ctx, tenantID, customerID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		job = partner.NewRemovalJob(tenantID, customerID, actor.UserID, deleteCustomer, s.clock.Now())
		err = s.jobRepo.Save(ctx, job)
	case err == nil && deleteCustomer && !job.DeleteCustomer:
		// a purge left this job open; it now ends with the customer deleted
		job.DeleteCustomer = true
		job.RequestedBy = actor.UserID
		err = s.jobRepo.Save(ctx, job)
	}
	if err != nil {
		return nil, err
	}

	plans, err := s.removeFromPlans(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	job.PlansUpdated += plans

	for {
		batchStart := time.Now()
		res, err := s.reports.RemoveCustomerFromReports(ctx, tenantID, customerID, job.LastProcessedID, s.batchSize, actor)
		if err != nil {
			s.logger.Error("Customer removal batch failed",
				zap.String("tenant_id", tenantID.String()),
				zap.String("customer_id", customerID.String()),
				zap.String("job_id", job.ID.String()),
				zap.String("after_id", job.LastProcessedID.String()),
				zap.Error(err),
			)
			return nil, err
		}
		job.Advance(res.LastID, res.Updated, res.Deleted, s.clock.Now())
		if err := s.jobRepo.Save(ctx, job); err != nil {
			return nil, err
		}
		s.logger.Debug("Customer removal batch done",
			zap.String("job_id", job.ID.String()),
			zap.Int("processed", res.Processed),
			zap.Duration("duration", time.Since(batchStart)),
		)
		if res.Done {
			return job, nil
		}
	}
}

// ResumeStale finishes removals whose last batch is older than idle. These
// are cascades whose request died mid-way. Jobs opened by a plain purge are
// left for the next explicit call. Returns how many removals completed.
func (s *CustomerRemovalService) ResumeStale(ctx context.Context, idle time.Duration, limit int) (int, error) {
	jobs, err := s.jobRepo.FindStale(ctx, s.clock.Now().Add(-idle), limit)
	if err != nil {
		return 0, err
	}
	completed := 0
	for i := range jobs {
		job := &jobs[i]
		if !job.DeleteCustomer {
			continue
		}
		log := s.logger.With(
			zap.String("tenant_id", job.TenantID.String()),
			zap.String("customer_id", job.CustomerID.String()),
			zap.String("job_id", job.ID.String()),
		)
		actor := shared.Actor{UserID: job.RequestedBy, Role: shared.RoleAdmin}
		_, err := s.RemoveCustomer(ctx, job.TenantID, job.CustomerID, actor)
		if errors.Is(err, shared.ErrNotFound) {
			// customer row went first; only the completion mark was lost
			job.Complete(s.clock.Now())
			err = s.jobRepo.Save(ctx, job)
		}
		if err != nil {
			if ctx.Err() != nil {
				return completed, ctx.Err()
			}
			log.Warn("Resuming customer removal failed", zap.Error(err))
			continue
		}
		log.Info("Resumed customer removal")
		completed++
	}
	return completed, nil
}

// removeFromPlans saves only plans that actually listed the customer
func (s *CustomerRemovalService) removeFromPlans(ctx context.Context, tenantID, customerID uuid.UUID) (int, error) {
	plans, err := s.planRepo.FindReferencingCustomer(ctx, tenantID, customerID)
	if err != nil {
		return 0, err
	}
	updated := 0
	for i := range plans {
		if !plans[i].RemoveCustomer(customerID) {
			continue
		}
		if err := s.planRepo.Save(ctx, &plans[i]); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

func (s *CustomerRemovalService) publishRemoved(ctx context.Context, c *partner.Customer, actor shared.Actor, job *partner.RemovalJob) {
	if s.eventPublisher == nil {
		return
	}
	targets, err := s.userRepo.FindActiveAdminIDs(ctx, c.TenantID)
	if err != nil {
		s.logger.Warn("Failed to resolve notification targets", zap.String("tenant_id", c.TenantID.String()), zap.Error(err))
		return
	}
	event := partner.NewCustomerRemovedEvent(c, actor.UserID, job.PlansUpdated, job.ReportsUpdated, job.ReportsDeleted, targets)
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish customer removed event", zap.String("customer_id", c.ID.String()), zap.Error(err))
	}
}

func toRemovalResult(job *partner.RemovalJob, completed bool) *RemovalResult {
	return &RemovalResult{
		CustomerID:     job.CustomerID,
		PlansUpdated:   job.PlansUpdated,
		ReportsUpdated: job.ReportsUpdated,
		ReportsDeleted: job.ReportsDeleted,
		Completed:      completed,
	}
}

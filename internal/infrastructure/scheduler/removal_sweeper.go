package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RemovalResumer finishes customer removals that were cut off mid-cascade
type RemovalResumer interface {
	ResumeStale(ctx context.Context, idle time.Duration, limit int) (int, error)
}

const defaultSweepLimit = 20

// RemovalSweeper is the task that hands stale removal jobs back to the
// removal service
type RemovalSweeper struct {
	resumer RemovalResumer
	idle    time.Duration
	limit   int
	logger  *zap.Logger
}

// NewRemovalSweeper resumes jobs idle for longer than idle
func NewRemovalSweeper(resumer RemovalResumer, idle time.Duration, logger *zap.Logger) *RemovalSweeper {
	return &RemovalSweeper{resumer: resumer, idle: idle, limit: defaultSweepLimit, logger: logger}
}

// Name implements Task
func (s *RemovalSweeper) Name() string { return "customer_removal_sweep" }

// Run implements Task
func (s *RemovalSweeper) Run(ctx context.Context) error {
	n, err := s.resumer.ResumeStale(ctx, s.idle, s.limit)
	if n > 0 {
		s.logger.Info("Resumed stale customer removals", zap.Int("completed", n))
	}
	return err
}

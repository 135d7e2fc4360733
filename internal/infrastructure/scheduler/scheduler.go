// Package scheduler runs background maintenance tasks on a fixed interval
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is one unit of periodic work
type Task interface {
	Name() string
	Run(ctx context.Context) error
}

// TaskFunc adapts a function to Task
type TaskFunc struct {
	TaskName string
	Fn       func(ctx context.Context) error
}

// Name implements Task
func (f TaskFunc) Name() string { return f.TaskName }

// Run implements Task
func (f TaskFunc) Run(ctx context.Context) error { return f.Fn(ctx) }

// Config holds scheduler configuration
type Config struct {
	Interval   time.Duration
	RunTimeout time.Duration
	// RunOnStart runs every task once right after Start
	RunOnStart bool
}

// Scheduler runs its tasks one after another on every tick. A tick that
// arrives while the previous round is still running is skipped.
type Scheduler struct {
	config Config
	tasks  []Task
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// New creates a scheduler. RunTimeout defaults to the interval.
func New(config Config, logger *zap.Logger, tasks ...Task) (*Scheduler, error) {
	if config.Interval <= 0 {
		return nil, ErrInvalidConfig
	}
	if config.RunTimeout <= 0 {
		config.RunTimeout = config.Interval
	}
	return &Scheduler{config: config, tasks: tasks, logger: logger.Named("scheduler")}, nil
}

// Start begins ticking in the background
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return ErrAlreadyRunning
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Scheduler started",
		zap.Int("tasks", len(s.tasks)),
		zap.Duration("interval", s.config.Interval),
	)
	return nil
}

// Stop cancels the running round and waits for it, bounded by ctx
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	if s.config.RunOnStart {
		s.RunOnce(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce runs every task a single time. Failures are logged and do not
// stop the remaining tasks.
func (s *Scheduler) RunOnce(ctx context.Context) {
	for _, task := range s.tasks {
		if ctx.Err() != nil {
			return
		}
		s.runTask(ctx, task)
	}
}

func (s *Scheduler) runTask(ctx context.Context, task Task) {
	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Task panicked",
				zap.String("task", task.Name()),
				zap.Any("panic", r),
				zap.Stack("stacktrace"),
			)
		}
	}()

	if err := task.Run(runCtx); err != nil {
		s.logger.Error("Task failed",
			zap.String("task", task.Name()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	s.logger.Debug("Task completed",
		zap.String("task", task.Name()),
		zap.Duration("duration", time.Since(start)),
	)
}

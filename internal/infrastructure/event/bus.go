package event

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrQueueFull is logged when an event is dropped because every worker is busy
var ErrQueueFull = errors.New("event queue full")

type envelope struct {
	ctx   context.Context
	event shared.DomainEvent
}

// InMemoryEventBus delivers committed domain events to handlers. Before
// Start it dispatches synchronously on the caller's goroutine; after Start
// events are queued and handled by a fixed worker pool so request latency
// does not depend on handlers. Handler failures are logged and never
// returned to the publisher.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	queue    chan envelope
	workers  int
	running  atomic.Bool
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewInMemoryEventBus creates a bus with the given queue size and worker count
func NewInMemoryEventBus(logger *zap.Logger, queueSize, workers int) *InMemoryEventBus {
	if queueSize <= 0 {
		queueSize = 256
	}
	if workers <= 0 {
		workers = 4
	}
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger.Named("event_bus"),
		queue:    make(chan envelope, queueSize),
		workers:  workers,
	}
}

// Publish hands events to their handlers. The publisher's cancellation does
// not reach handlers; request-scoped values do.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	detached := context.WithoutCancel(ctx)
	for _, event := range events {
		if !b.running.Load() {
			b.dispatch(detached, event)
			continue
		}
		select {
		case b.queue <- envelope{ctx: detached, event: event}:
		default:
			b.logger.Warn("dropping event",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.Error(ErrQueueFull),
			)
		}
	}
	return nil
}

// Subscribe registers handler for eventTypes, or for handler.EventTypes()
// when none are given
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start launches the worker pool
func (b *InMemoryEventBus) Start(context.Context) error {
	if !b.running.CompareAndSwap(false, true) {
		return nil
	}
	for i := 0; i < b.workers; i++ {
		b.wg.Add(1)
		go b.work()
	}
	b.logger.Info("event bus started", zap.Int("workers", b.workers))
	return nil
}

// Stop drains queued events and waits for the workers, or gives up when
// ctx is done
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	if !b.running.Load() {
		return nil
	}
	b.stopOnce.Do(func() {
		b.running.Store(false)
		close(b.queue)
	})

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		b.logger.Warn("event bus stop timed out", zap.Int("pending", len(b.queue)))
		return ctx.Err()
	}
}

func (b *InMemoryEventBus) work() {
	defer b.wg.Done()
	for env := range b.queue {
		b.dispatch(env.ctx, env.event)
	}
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, event shared.DomainEvent) {
	for _, handler := range b.registry.HandlersFor(event.EventType()) {
		if err := b.safeHandle(ctx, handler, event); err != nil {
			b.logger.Error("handler failed to process event",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.String("tenant_id", event.TenantID().String()),
				zap.Error(err),
			)
		}
	}
}

func (b *InMemoryEventBus) safeHandle(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", event.EventType()),
				zap.Any("panic", r),
			)
			err = nil
		}
	}()
	return handler.Handle(ctx, event)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)

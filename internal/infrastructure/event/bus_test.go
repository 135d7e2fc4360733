package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Mandoobi/jaber-backend/internal/domain/report"
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, report.AggregateTypeDailyReport, uuid.New(), uuid.New())}
}

type recordingHandler struct {
	eventTypes []string
	err        error
	panicWith  any

	mu      sync.Mutex
	handled []shared.DomainEvent
	ctxErrs []error
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, event)
	h.ctxErrs = append(h.ctxErrs, ctx.Err())
	h.mu.Unlock()
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.eventTypes }

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestHandlerRegistry(t *testing.T) {
	r := NewHandlerRegistry()
	submitted := &recordingHandler{}
	all := &recordingHandler{}

	r.Register(submitted, report.EventTypeDailyReportSubmitted)
	r.Register(all)

	assert.Equal(t, []shared.EventHandler{submitted, all}, r.HandlersFor(report.EventTypeDailyReportSubmitted))
	assert.Equal(t, []shared.EventHandler{all}, r.HandlersFor(report.EventTypeDailyReportDeleted))

	r.Unregister(submitted)
	assert.Equal(t, []shared.EventHandler{all}, r.HandlersFor(report.EventTypeDailyReportSubmitted))

	r.Unregister(all)
	assert.Empty(t, r.HandlersFor(report.EventTypeDailyReportSubmitted))
}

func TestInMemoryEventBus_SynchronousBeforeStart(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), 0, 0)
	h := &recordingHandler{eventTypes: []string{report.EventTypeDailyReportSubmitted}}
	bus.Subscribe(h)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, bus.Publish(ctx,
		newTestEvent(report.EventTypeDailyReportSubmitted),
		newTestEvent(report.EventTypeDailyReportDeleted),
	))

	assert.Equal(t, 1, h.count())
	assert.NoError(t, h.ctxErrs[0], "handlers must not see the publisher's cancellation")
}

func TestInMemoryEventBus_HandlerFailuresAreIsolated(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), 0, 0)
	failing := &recordingHandler{err: errors.New("redis down")}
	panicking := &recordingHandler{panicWith: "boom"}
	healthy := &recordingHandler{}
	bus.Subscribe(failing, "X")
	bus.Subscribe(panicking, "X")
	bus.Subscribe(healthy, "X")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))

	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, panicking.count())
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_WorkersDrainOnStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), 64, 3)
	h := &recordingHandler{}
	bus.Subscribe(h, "X")
	require.NoError(t, bus.Start(context.Background()))

	for i := 0; i < 50; i++ {
		require.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))
	assert.Equal(t, 50, h.count())

	// stopped bus falls back to synchronous delivery
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))
	assert.Equal(t, 51, h.count())
}

func TestInMemoryEventBus_DropsWhenQueueFull(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), 1, 1)
	release := make(chan struct{})
	blocking := &blockingHandler{started: make(chan struct{}, 1), release: release}
	bus.Subscribe(blocking, "X")
	require.NoError(t, bus.Start(context.Background()))

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))
	<-blocking.started
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X"))) // queued
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X"))) // dropped

	close(release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))
	assert.Equal(t, 2, blocking.calls)
}

type blockingHandler struct {
	started chan struct{}
	release chan struct{}
	mu      sync.Mutex
	calls   int
}

func (h *blockingHandler) Handle(context.Context, shared.DomainEvent) error {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()
	select {
	case h.started <- struct{}{}:
	default:
	}
	<-h.release
	return nil
}

func (h *blockingHandler) EventTypes() []string { return nil }

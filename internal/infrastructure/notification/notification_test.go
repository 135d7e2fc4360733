package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Mandoobi/jaber-backend/internal/domain/partner"
	"github.com/Mandoobi/jaber-backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePublisher struct {
	channel string
	payload []byte
	err     error
}

func (p *fakePublisher) Publish(_ context.Context, channel string, message any) *redis.IntCmd {
	p.channel = channel
	p.payload, _ = message.([]byte)
	return redis.NewIntResult(1, p.err)
}

type captureEmitter struct {
	got []*Notification
}

func (e *captureEmitter) Emit(_ context.Context, n *Notification) error {
	e.got = append(e.got, n)
	return nil
}

func newReport(t *testing.T) *report.DailyReport {
	t.Helper()
	d, err := report.ParseReportDate("2025-06-14")
	require.NoError(t, err)
	r, err := report.NewDailyReport(uuid.New(), uuid.New(), d)
	require.NoError(t, err)
	return r
}

func TestRedisEmitter_Emit(t *testing.T) {
	pub := &fakePublisher{}
	emitter := NewRedisEmitter(pub, "notifications", zap.NewNop())
	n := &Notification{
		TenantID:      uuid.New(),
		TargetUserIDs: []uuid.UUID{uuid.New()},
		Level:         LevelInfo,
		ActionType:    ActionSendDailyReport,
		Description:   "submitted",
	}

	require.NoError(t, emitter.Emit(context.Background(), n))
	assert.Equal(t, "notifications:"+n.TenantID.String(), pub.channel)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(pub.payload, &decoded))
	assert.Equal(t, "send_daily_report", decoded["actionType"])
	assert.Equal(t, "info", decoded["level"])
}

func TestRedisEmitter_SkipsWithoutTargets(t *testing.T) {
	pub := &fakePublisher{}
	emitter := NewRedisEmitter(pub, "notifications", zap.NewNop())

	require.NoError(t, emitter.Emit(context.Background(), &Notification{TenantID: uuid.New()}))
	assert.Empty(t, pub.channel)
}

func TestRedisEmitter_PublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("connection refused")}
	emitter := NewRedisEmitter(pub, "n", zap.NewNop())

	err := emitter.Emit(context.Background(), &Notification{TenantID: uuid.New(), TargetUserIDs: []uuid.UUID{uuid.New()}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestEventHandler_ReportSubmitted(t *testing.T) {
	r := newReport(t)
	admins := []uuid.UUID{uuid.New(), uuid.New()}
	emitter := &captureEmitter{}
	h := NewEventHandler(emitter)

	require.NoError(t, h.Handle(context.Background(), report.NewDailyReportSubmittedEvent(r, r.RepID, true, 2, admins)))
	require.NoError(t, h.Handle(context.Background(), report.NewDailyReportSubmittedEvent(r, r.RepID, false, 2, admins)))

	require.Len(t, emitter.got, 2)
	assert.Equal(t, ActionSendDailyReport, emitter.got[0].ActionType)
	assert.Equal(t, ActionUpdateDailyReport, emitter.got[1].ActionType)
	assert.Equal(t, admins, emitter.got[0].TargetUserIDs)
	assert.Equal(t, r.TenantID, emitter.got[0].TenantID)
	assert.Equal(t, r.ID, emitter.got[0].RelatedEntity.EntityID)
	assert.Equal(t, 2, emitter.got[0].Data["samplesCount"])
}

func TestEventHandler_ReportDeleted(t *testing.T) {
	r := newReport(t)
	admin := uuid.New()
	emitter := &captureEmitter{}
	h := NewEventHandler(emitter)

	require.NoError(t, h.Handle(context.Background(), report.NewDailyReportDeletedEvent(r, admin, 3)))

	require.Len(t, emitter.got, 1)
	n := emitter.got[0]
	assert.Equal(t, ActionDeleteReport, n.ActionType)
	assert.Equal(t, LevelWarning, n.Level)
	assert.Equal(t, []uuid.UUID{r.RepID}, n.TargetUserIDs)
	assert.Equal(t, admin, n.ActorID)
	assert.Contains(t, n.Description, "3 samples restored")
}

func TestEventHandler_CustomerRemoved(t *testing.T) {
	c, err := partner.NewCustomer(uuid.New(), "Al Amal Pharmacy", "C-1", "", "Nablus")
	require.NoError(t, err)
	emitter := &captureEmitter{}
	h := NewEventHandler(emitter)

	require.NoError(t, h.Handle(context.Background(), partner.NewCustomerRemovedEvent(c, uuid.New(), 1, 2, 1, []uuid.UUID{uuid.New()})))

	require.Len(t, emitter.got, 1)
	assert.Equal(t, ActionDeleteCustomer, emitter.got[0].ActionType)
	assert.Contains(t, emitter.got[0].Description, "Al Amal Pharmacy")
	assert.Equal(t, 1, emitter.got[0].Data["reportsDeleted"])
}

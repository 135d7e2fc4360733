package telemetry

import (
	"context"
	"testing"
	"time"

	appreport "github.com/Mandoobi/jaber-backend/internal/application/report"
	"github.com/Mandoobi/jaber-backend/internal/domain/stock"
	"github.com/Mandoobi/jaber-backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSetup_Disabled(t *testing.T) {
	p, err := Setup(context.Background(), config.TelemetryConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Meter())
	l := zap.NewNop()
	assert.Same(t, l, p.BridgeLogger(l))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	assert.Contains(t, sampler(1).Description(), "AlwaysOnSampler")
	assert.Equal(t, "AlwaysOffSampler", sampler(0).Description())
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestMinLevelCore(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	l := zap.New(&minLevelCore{Core: obs, min: zapcore.WarnLevel})

	l.Info("ignored")
	l.With(zap.String("k", "v")).Warn("kept")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					sums[m.Name] += int64(dp.Count)
				}
			}
		}
	}
	return sums
}

func TestReconciliationMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewReconciliationMetrics(mp.Meter("test"))
	require.NoError(t, err)
	ctx := context.Background()

	m.RecordAdjustment(ctx, stock.Adjustment{Delta: -4})
	m.RecordAdjustment(ctx, stock.Adjustment{Delta: 10})
	m.RecordRejectedAdjustment(ctx, stock.Adjustment{Delta: -40})
	m.RecordRetry(ctx, "submit", 1)
	m.RecordReconciliation(ctx, "submit", appreport.OutcomeSuccess, 30*time.Millisecond)

	sums := collect(t, reader)
	assert.Equal(t, int64(2), sums["stock_adjustments_total"])
	assert.Equal(t, int64(14), sums["stock_adjusted_units_total"])
	assert.Equal(t, int64(1), sums["stock_insufficient_total"])
	assert.Equal(t, int64(1), sums["reconciliation_conflicts_total"])
	assert.Equal(t, int64(1), sums["reconciliation_operations_total"])
	assert.Equal(t, int64(1), sums["reconciliation_duration_seconds"])
}

func TestRegisterDBTracing(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	require.NoError(t, RegisterDBTracing(db, "jaber", false))
	assert.NoError(t, db.Exec("SELECT 1").Error)
}

package telemetry

import (
	"context"
	"fmt"
	"time"

	appreport "github.com/Mandoobi/jaber-backend/internal/application/report"
	appstock "github.com/Mandoobi/jaber-backend/internal/application/stock"
	"github.com/Mandoobi/jaber-backend/internal/domain/stock"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ReconciliationMetrics records stock adjustments and reconciliation
// outcomes. Attributes are kept to low-cardinality labels; tenant and rep
// ids stay in logs and traces.
type ReconciliationMetrics struct {
	adjustments  metric.Int64Counter
	units        metric.Int64Counter
	insufficient metric.Int64Counter
	conflicts    metric.Int64Counter
	outcomes     metric.Int64Counter
	duration     metric.Float64Histogram
}

// NewReconciliationMetrics registers the instruments on meter
func NewReconciliationMetrics(meter metric.Meter) (*ReconciliationMetrics, error) {
	m := &ReconciliationMetrics{}
	var err error
	if m.adjustments, err = meter.Int64Counter("stock_adjustments_total",
		metric.WithDescription("Applied rep stock adjustments")); err != nil {
		return nil, fmt.Errorf("stock_adjustments_total: %w", err)
	}
	if m.units, err = meter.Int64Counter("stock_adjusted_units_total",
		metric.WithDescription("Absolute units moved by rep stock adjustments"),
		metric.WithUnit("{unit}")); err != nil {
		return nil, fmt.Errorf("stock_adjusted_units_total: %w", err)
	}
	if m.insufficient, err = meter.Int64Counter("stock_insufficient_total",
		metric.WithDescription("Adjustments refused because the balance would go negative")); err != nil {
		return nil, fmt.Errorf("stock_insufficient_total: %w", err)
	}
	if m.conflicts, err = meter.Int64Counter("reconciliation_conflicts_total",
		metric.WithDescription("Reconciliation passes retried after a concurrent stock change")); err != nil {
		return nil, fmt.Errorf("reconciliation_conflicts_total: %w", err)
	}
	if m.outcomes, err = meter.Int64Counter("reconciliation_operations_total",
		metric.WithDescription("Reconciliation operations by outcome")); err != nil {
		return nil, fmt.Errorf("reconciliation_operations_total: %w", err)
	}
	if m.duration, err = meter.Float64Histogram("reconciliation_duration_seconds",
		metric.WithDescription("Reconciliation operation latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5)); err != nil {
		return nil, fmt.Errorf("reconciliation_duration_seconds: %w", err)
	}
	return m, nil
}

// RecordAdjustment implements appstock.AdjustmentRecorder
func (m *ReconciliationMetrics) RecordAdjustment(ctx context.Context, adj stock.Adjustment) {
	attrs := metric.WithAttributes(attribute.String("direction", direction(adj.Delta)))
	m.adjustments.Add(ctx, 1, attrs)
	units := adj.Delta
	if units < 0 {
		units = -units
	}
	m.units.Add(ctx, units, attrs)
}

// RecordRejectedAdjustment implements appstock.AdjustmentRecorder
func (m *ReconciliationMetrics) RecordRejectedAdjustment(ctx context.Context, adj stock.Adjustment) {
	m.insufficient.Add(ctx, 1, metric.WithAttributes(attribute.String("direction", direction(adj.Delta))))
}

// RecordReconciliation implements appreport.Recorder
func (m *ReconciliationMetrics) RecordReconciliation(ctx context.Context, operation, outcome string, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	)
	m.outcomes.Add(ctx, 1, attrs)
	m.duration.Record(ctx, d.Seconds(), attrs)
}

// RecordRetry implements appreport.Recorder
func (m *ReconciliationMetrics) RecordRetry(ctx context.Context, operation string, attempt int) {
	m.conflicts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.Int("attempt", attempt),
	))
}

func direction(delta int64) string {
	if delta < 0 {
		return "out"
	}
	return "in"
}

var (
	_ appstock.AdjustmentRecorder = (*ReconciliationMetrics)(nil)
	_ appreport.Recorder          = (*ReconciliationMetrics)(nil)
)

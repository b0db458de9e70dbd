package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records authentication attempt metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordAttempt records one attempt with its duration and outcome.
	RecordAttempt(ctx context.Context, meta OperationMeta, duration time.Duration, err error)
}

type metricsImpl struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"auth.attempts.total",
		metric.WithDescription("Total number of authentication attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"auth.attempts.errors",
		metric.WithDescription("Total number of failed authentication attempts"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"auth.attempts.duration_ms",
		metric.WithDescription("Authentication attempt duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
	}, nil
}

func (m *metricsImpl) RecordAttempt(ctx context.Context, meta OperationMeta, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("auth.operation", meta.ID()),
	}
	if meta.Component != "" {
		attrs = append(attrs, attribute.String("auth.component", meta.Component))
	}
	if meta.Method != "" {
		attrs = append(attrs, attribute.String("auth.method", meta.Method))
	}
	opt := metric.WithAttributes(attrs...)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

type noopMetrics struct{}

func (noopMetrics) RecordAttempt(context.Context, OperationMeta, time.Duration, error) {}

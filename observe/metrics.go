package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/healthquery/query"
)

// Metric names.
const (
	MetricQueryTotal    = "healthquery.query.total"
	MetricQueryFailures = "healthquery.query.failures"
	MetricQueryDuration = "healthquery.query.duration_ms"
)

// Metrics records per-query metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordQuery records one finished query.
	RecordQuery(ctx context.Context, meta TargetMeta, res query.Result)
}

type metricsImpl struct {
	meter        metric.Meter
	totalCount   metric.Int64Counter
	failureCount metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates the query instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	return newMetrics(meter)
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		MetricQueryTotal,
		metric.WithDescription("Total number of health queries"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, err
	}

	failureCount, err := meter.Int64Counter(
		MetricQueryFailures,
		metric.WithDescription("Total number of failed health queries"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		MetricQueryDuration,
		metric.WithDescription("Health query duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		totalCount:   totalCount,
		failureCount: failureCount,
		durationHist: durationHist,
	}, nil
}

// RecordQuery records metrics for a finished query.
func (m *metricsImpl) RecordQuery(ctx context.Context, meta TargetMeta, res query.Result) {
	attrs := []attribute.KeyValue{
		attribute.String("target.id", meta.TargetID()),
		attribute.String("query.category", meta.Category),
		attribute.String("query.status", res.Status.String()),
	}
	opt := metric.WithAttributes(attrs...)

	m.totalCount.Add(ctx, 1, opt)

	if !res.OK() {
		kind, detail := "", ""
		if res.Err != nil {
			kind, detail = string(res.Err.Kind), res.Err.Detail
		}
		m.failureCount.Add(ctx, 1, metric.WithAttributes(
			attribute.String("target.id", meta.TargetID()),
			attribute.String("query.category", meta.Category),
			attribute.String("failure.kind", kind),
			attribute.String("failure.detail", detail),
		))
	}

	m.durationHist.Record(ctx, float64(res.Duration.Milliseconds()), opt)
}

type noopMetrics struct{}

func (m *noopMetrics) RecordQuery(ctx context.Context, meta TargetMeta, res query.Result) {}

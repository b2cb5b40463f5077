package observe

import (
	"context"
	"testing"

	"github.com/jonwraymond/healthquery/query"
)

func TestLoggerContract_WithTarget(t *testing.T) {
	logger := &noopLogger{}
	if logger.WithTarget(TargetMeta{Hostname: "noop"}) == nil {
		t.Fatalf("WithTarget should return non-nil logger")
	}
}

func TestMetricsContract_NoPanic(t *testing.T) {
	metrics := &noopMetrics{}
	metrics.RecordQuery(context.Background(), TargetMeta{Hostname: "noop"}, query.Result{})
}

func TestTracerContract_NoPanic(t *testing.T) {
	tracer := NewNoopTracer()
	_, span := tracer.StartSpan(context.Background(), TargetMeta{Hostname: "noop"})
	tracer.EndSpan(span, query.Result{Status: query.StatusFailure})
}

package observe

import (
	"context"
	"time"

	"github.com/jonwraymond/healthquery/query"
)

// Middleware wraps query execution with tracing, metrics, and logging.
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe RunFunc.
//   - Context: the span context is passed to the wrapped function.
//   - Ownership: the Result is returned unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability components.
// Nil components are replaced by no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = NewNoopTracer()
	}
	if metrics == nil {
		metrics = &noopMetrics{}
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps a RunFunc with tracing, metrics, and logging.
func (m *Middleware) Wrap(fn query.RunFunc) query.RunFunc {
	return func(ctx context.Context, req query.Request) query.Result {
		meta := TargetFromRequest(req)
		ctx, span := m.tracer.StartSpan(ctx, meta)

		start := time.Now()
		res := fn(ctx, req)
		if res.Duration == 0 {
			res.Duration = time.Since(start)
		}

		m.tracer.EndSpan(span, res)
		m.metrics.RecordQuery(ctx, meta, res)

		logger := m.logger.WithTarget(meta)
		fields := []Field{
			{Key: "url", Value: res.URL},
			{Key: "request_id", Value: res.RequestID},
			{Key: "duration_ms", Value: float64(res.Duration.Milliseconds())},
		}
		if res.StatusCode != 0 {
			fields = append(fields, Field{Key: "status_code", Value: res.StatusCode})
		}

		if !res.OK() {
			if res.Err != nil {
				fields = append(fields,
					Field{Key: "failure_kind", Value: string(res.Err.Kind)},
					Field{Key: "failure_detail", Value: res.Err.Detail},
				)
			}
			fields = append(fields, Field{Key: "error", Value: res.Message()})
			logger.Error(ctx, "health query failed", fields...)
		} else {
			fields = append(fields, Field{Key: "body_bytes", Value: len(res.Body)})
			logger.Info(ctx, "health query completed", fields...)
		}

		return res
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

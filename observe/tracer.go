package observe

import (
	"context"
	"net"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/healthquery/query"
)

// TargetMeta identifies the host and health check a query addresses.
type TargetMeta struct {
	Hostname string
	Port     int
	Category string
	Name     string
}

// TargetFromRequest derives telemetry metadata from a request, with
// defaults applied.
func TargetFromRequest(req query.Request) TargetMeta {
	n := req.Normalize()
	return TargetMeta{
		Hostname: n.Host(),
		Port:     n.Port,
		Category: n.Category,
		Name:     n.Name,
	}
}

// SpanName returns the deterministic span name for this target.
// Format: healthquery.query.<category>
func (m TargetMeta) SpanName() string {
	if m.Category == "" {
		return "healthquery.query"
	}
	return "healthquery.query." + m.Category
}

// TargetID returns host:port.
func (m TargetMeta) TargetID() string {
	if m.Port == 0 {
		return m.Hostname
	}
	return net.JoinHostPort(m.Hostname, strconv.Itoa(m.Port))
}

// Tracer wraps OpenTelemetry tracing with per-query span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for one query.
	StartSpan(ctx context.Context, meta TargetMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording the outcome of res.
	EndSpan(span trace.Span, res query.Result)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a client span with target metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta TargetMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("target.id", meta.TargetID()),
		attribute.String("server.address", meta.Hostname),
		attribute.Bool("query.failed", false),
	}
	if meta.Port != 0 {
		attrs = append(attrs, attribute.Int("server.port", meta.Port))
	}
	if meta.Category != "" {
		attrs = append(attrs, attribute.String("query.category", meta.Category))
	}
	if meta.Name != "" {
		attrs = append(attrs, attribute.String("query.name", meta.Name))
	}

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// EndSpan ends the span and records the failure if res is one.
func (t *tracerImpl) EndSpan(span trace.Span, res query.Result) {
	if res.StatusCode != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", res.StatusCode))
	}
	if res.RequestID != "" {
		span.SetAttributes(attribute.String("http.request.id", res.RequestID))
	}
	if res.OK() {
		span.SetStatus(codes.Ok, "")
	} else {
		msg := res.Message()
		span.SetStatus(codes.Error, msg)
		span.SetAttributes(attribute.Bool("query.failed", true))
		if res.Err != nil {
			span.SetAttributes(
				attribute.String("failure.kind", string(res.Err.Kind)),
				attribute.String("failure.detail", res.Err.Detail),
			)
			span.RecordError(res.Err)
		}
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

// NewNoopTracer creates a no-op tracer.
func NewNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta TargetMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, _ query.Result) {
	span.End()
}

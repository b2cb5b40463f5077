package observe

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonwraymond/healthquery/query"
)

func newRecordingTracer() (*tracerImpl, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return &tracerImpl{tracer: tp.Tracer("test")}, recorder
}

func spanAttrs(s sdktrace.ReadOnlySpan) map[string]attribute.Value {
	m := make(map[string]attribute.Value)
	for _, a := range s.Attributes() {
		m[string(a.Key)] = a.Value
	}
	return m
}

func TestTargetMeta_SpanName(t *testing.T) {
	tests := []struct {
		meta TargetMeta
		want string
	}{
		{TargetMeta{Category: "Database"}, "healthquery.query.Database"},
		{TargetMeta{Category: "Cache"}, "healthquery.query.Cache"},
		{TargetMeta{}, "healthquery.query"},
	}
	for _, tt := range tests {
		if got := tt.meta.SpanName(); got != tt.want {
			t.Errorf("SpanName() = %q, want %q", got, tt.want)
		}
	}
}

func TestTargetMeta_TargetID(t *testing.T) {
	tests := []struct {
		name string
		meta TargetMeta
		want string
	}{
		{"host and port", TargetMeta{Hostname: "db1.internal", Port: 443}, "db1.internal:443"},
		{"ipv6", TargetMeta{Hostname: "2001:db8::1", Port: 8443}, "[2001:db8::1]:8443"},
		{"no port", TargetMeta{Hostname: "db1.internal"}, "db1.internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.meta.TargetID(); got != tt.want {
				t.Errorf("TargetID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTargetFromRequest_AppliesDefaults(t *testing.T) {
	meta := TargetFromRequest(query.Request{Hostname: " db1.internal "})

	want := TargetMeta{
		Hostname: "db1.internal",
		Port:     443,
		Category: "Database",
		Name:     "Top Table Counts",
	}
	if meta != want {
		t.Errorf("TargetFromRequest() = %+v, want %+v", meta, want)
	}
}

// TestTracer_SpanAttributes verifies target attributes are present on the span.
func TestTracer_SpanAttributes(t *testing.T) {
	tr, recorder := newRecordingTracer()

	_, span := tr.StartSpan(context.Background(), testTarget)
	tr.EndSpan(span, query.Result{Status: query.StatusSuccess, StatusCode: 200, RequestID: "req-1"})

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]

	if s.Name() != "healthquery.query.Database" {
		t.Errorf("span name = %q", s.Name())
	}
	if s.SpanKind() != trace.SpanKindClient {
		t.Errorf("span kind = %v, want client", s.SpanKind())
	}
	if s.Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", s.Status().Code)
	}

	attrs := spanAttrs(s)
	if v := attrs["target.id"]; v.AsString() != "db1.internal:443" {
		t.Errorf("target.id = %v", v.AsString())
	}
	if v := attrs["server.port"]; v.AsInt64() != 443 {
		t.Errorf("server.port = %v", v.AsInt64())
	}
	if v := attrs["query.name"]; v.AsString() != "Top Table Counts" {
		t.Errorf("query.name = %v", v.AsString())
	}
	if v := attrs["http.response.status_code"]; v.AsInt64() != 200 {
		t.Errorf("http.response.status_code = %v", v.AsInt64())
	}
	if v := attrs["http.request.id"]; v.AsString() != "req-1" {
		t.Errorf("http.request.id = %v", v.AsString())
	}
	if v := attrs["query.failed"]; v.AsBool() {
		t.Error("query.failed = true on success")
	}
}

// TestTracer_ErrorRecording verifies failures set error status and attributes.
func TestTracer_ErrorRecording(t *testing.T) {
	tr, recorder := newRecordingTracer()

	_, span := tr.StartSpan(context.Background(), testTarget)
	tr.EndSpan(span, query.Result{
		Status: query.StatusFailure,
		Err: &query.Error{
			Kind:   query.KindTransport,
			Detail: query.DetailConnectionRefused,
		},
	})

	s := recorder.Ended()[0]
	if s.Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", s.Status().Code)
	}
	attrs := spanAttrs(s)
	if !attrs["query.failed"].AsBool() {
		t.Error("query.failed = false on failure")
	}
	if v := attrs["failure.detail"]; v.AsString() != "connection_refused" {
		t.Errorf("failure.detail = %v", v.AsString())
	}
	if len(s.Events()) == 0 {
		t.Error("expected an exception event")
	}
}

// TestTracer_ContextPropagation verifies the returned context carries the span.
func TestTracer_ContextPropagation(t *testing.T) {
	tr, _ := newRecordingTracer()

	ctx, span := tr.StartSpan(context.Background(), testTarget)
	defer tr.EndSpan(span, query.Result{})

	if got := trace.SpanFromContext(ctx); got.SpanContext().SpanID() != span.SpanContext().SpanID() {
		t.Error("context does not carry the started span")
	}
}

package observe_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/healthquery/observe"
	"github.com/jonwraymond/healthquery/query"
)

func ExampleNewObserver() {
	cfg := observe.Config{
		ServiceName: "healthquery",
		Version:     "1.0.0",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     observe.MetricsConfig{Enabled: false},
		Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
	}

	ctx := context.Background()
	obs, err := observe.NewObserver(ctx, cfg)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer func() {
		_ = obs.Shutdown(ctx)
	}()

	fmt.Println("Observer created successfully")
	// Output:
	// Observer created successfully
}

func ExampleNewObserver_validation() {
	_, err := observe.NewObserver(context.Background(), observe.Config{})
	if errors.Is(err, observe.ErrMissingServiceName) {
		fmt.Println("Caught: missing service name")
	}
	// Output:
	// Caught: missing service name
}

func ExampleTargetMeta_SpanName() {
	meta := observe.TargetFromRequest(query.Request{Hostname: "db1.internal"})
	fmt.Println(meta.SpanName())
	fmt.Println(meta.TargetID())
	// Output:
	// healthquery.query.Database
	// db1.internal:443
}

func ExampleLogger_WithTarget() {
	var buf bytes.Buffer
	logger := observe.NewLoggerWithWriter("info", &buf)

	logger.WithTarget(observe.TargetMeta{Hostname: "db1.internal", Port: 443}).
		Info(context.Background(), "probe", observe.Field{Key: "token", Value: "abc"})

	fmt.Println("Contains target.id:", bytes.Contains(buf.Bytes(), []byte(`"target.id":"db1.internal:443"`)))
	fmt.Println("Token redacted:", bytes.Contains(buf.Bytes(), []byte(`"token":"[REDACTED]"`)))
	// Output:
	// Contains target.id: true
	// Token redacted: true
}

func ExampleMiddleware_Wrap() {
	ctx := context.Background()

	obs, _ := observe.NewObserver(ctx, observe.Config{
		ServiceName: "healthquery",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "none"},
	})
	defer func() {
		_ = obs.Shutdown(ctx)
	}()

	mw, _ := observe.MiddlewareFromObserver(obs)

	run := mw.Wrap(func(ctx context.Context, req query.Request) query.Result {
		return query.Result{Status: query.StatusSuccess, Body: []byte(`{"status":"ok"}`)}
	})

	res := run(ctx, query.Request{Hostname: "db1.internal"})
	fmt.Println(res.Status, string(res.Body))
	// Output:
	// success {"status":"ok"}
}

func ExampleParseLogLevel() {
	levels := []string{"debug", "info", "warn", "error", "unknown"}
	for _, s := range levels {
		level := observe.ParseLogLevel(s)
		fmt.Printf("%s -> %s\n", s, level)
	}
	// Output:
	// debug -> debug
	// info -> info
	// warn -> warn
	// error -> error
	// unknown -> info
}

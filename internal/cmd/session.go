package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonwraymond/healthquery/auth"
	"github.com/jonwraymond/healthquery/config"
	"github.com/jonwraymond/healthquery/observe"
	"github.com/jonwraymond/healthquery/query"
	"github.com/jonwraymond/healthquery/secret"
)

const serviceName = "healthquery"

// shutdownTimeout bounds telemetry flushing after a command finishes.
const shutdownTimeout = 5 * time.Second

// session carries the telemetry and secret plumbing shared by the
// commands of one invocation.
type session struct {
	obs      observe.Observer
	mw       *observe.Middleware
	registry *prometheus.Registry
	resolver *secret.Resolver
}

func enabled(exporter string) bool {
	return exporter != "" && exporter != "none"
}

func newSession(ctx context.Context, opts *rootOptions, stderr io.Writer, secrets map[string]map[string]any) (*session, error) {
	registry := prometheus.NewRegistry()

	obs, err := observe.NewObserver(ctx, observe.Config{
		ServiceName: serviceName,
		Version:     query.Version,
		Tracing: observe.TracingConfig{
			Enabled:   enabled(opts.traceExporter),
			Exporter:  opts.traceExporter,
			SamplePct: 1.0,
		},
		Metrics: observe.MetricsConfig{
			Enabled:    enabled(opts.metricsExporter),
			Exporter:   opts.metricsExporter,
			Registerer: registry,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   opts.logLevel,
			Writer:  stderr,
		},
		Output: stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("setup telemetry: %w", err)
	}

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		_ = obs.Shutdown(ctx)
		return nil, fmt.Errorf("setup telemetry: %w", err)
	}

	resolver, err := secret.NewDefaultResolver(secrets)
	if err != nil {
		_ = obs.Shutdown(ctx)
		return nil, fmt.Errorf("setup secrets: %w", err)
	}

	return &session{
		obs:      obs,
		mw:       mw,
		registry: registry,
		resolver: resolver,
	}, nil
}

// logger returns the session logger.
func (s *session) logger() observe.Logger {
	return s.obs.Logger()
}

// runner builds an instrumented query function. Header values are
// resolved through the session's secret resolver.
func (s *session) runner(tokens query.TokenSource, opts ...query.Option) query.RunFunc {
	all := []query.Option{query.WithHeaderResolver(s.resolver)}
	if tokens != nil {
		all = append(all, query.WithTokenSource(tokens))
	}
	all = append(all, opts...)
	return s.mw.Wrap(query.NewExecutor(all...).Run)
}

// close flushes telemetry and releases secret providers.
func (s *session) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Join(s.resolver.Close(), s.obs.Shutdown(ctx))
}

// tokenSource builds the bearer token source described by a. Keys and
// tokens may be secret references.
func (s *session) tokenSource(ctx context.Context, a config.Auth) (query.TokenSource, error) {
	switch {
	case a.JWT != nil:
		key, err := s.resolver.ResolveValue(ctx, a.JWT.Key)
		if err != nil {
			return nil, fmt.Errorf("resolve jwt key: %w", err)
		}
		src, err := auth.NewJWTSource(auth.JWTConfig{
			Issuer:   a.JWT.Issuer,
			Audience: a.JWT.Audience,
			Subject:  a.JWT.Subject,
			KeyID:    a.JWT.KeyID,
			TTL:      a.JWT.TTL,
		}, auth.NewStaticKeyProvider([]byte(key)))
		if err != nil {
			return nil, err
		}
		return src, nil
	case a.Token != "":
		tok, err := s.resolver.ResolveValue(ctx, a.Token)
		if err != nil {
			return nil, fmt.Errorf("resolve token: %w", err)
		}
		return auth.StaticToken(tok), nil
	default:
		return nil, nil
	}
}

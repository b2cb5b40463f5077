package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/healthquery/query"
	"github.com/jonwraymond/healthquery/resilience"
)

// AggregatorConfig configures the health aggregator.
type AggregatorConfig struct {
	// MaxConcurrent is the number of probes in flight at once.
	// Default: resilience.DefaultMaxConcurrent
	MaxConcurrent int

	// Timeout bounds a whole sweep. Zero leaves each probe to its own
	// executor timeout.
	Timeout time.Duration
}

// Aggregator runs many checkers concurrently and collects their results.
type Aggregator struct {
	config   AggregatorConfig
	bulkhead *resilience.Bulkhead
	mu       sync.RWMutex
	checkers map[string]Checker
	order    []string // Maintains registration order
}

// NewAggregator creates a new health aggregator.
func NewAggregator(config ...AggregatorConfig) *Aggregator {
	var cfg AggregatorConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = resilience.DefaultMaxConcurrent
	}

	return &Aggregator{
		config:   cfg,
		bulkhead: resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: cfg.MaxConcurrent}),
		checkers: make(map[string]Checker),
		order:    make([]string, 0),
	}
}

// Register adds a checker under its Name, replacing any checker of the
// same name.
func (a *Aggregator) Register(checker Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()

	name := checker.Name()
	if _, exists := a.checkers[name]; !exists {
		a.order = append(a.order, name)
	}
	a.checkers[name] = checker
}

// CheckerNames returns the names of all registered checkers in
// registration order.
func (a *Aggregator) CheckerNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, len(a.order))
	copy(names, a.order)
	return names
}

// Check runs a single named checker.
func (a *Aggregator) Check(ctx context.Context, name string) (query.Result, error) {
	a.mu.RLock()
	checker, ok := a.checkers[name]
	a.mu.RUnlock()

	if !ok {
		return query.Result{}, fmt.Errorf("%w: %s", ErrCheckerNotFound, name)
	}

	return runCheck(ctx, checker), nil
}

// CheckAll runs every registered checker and returns the results keyed
// by checker name. One result exists per checker; a failing probe never
// affects the others.
func (a *Aggregator) CheckAll(ctx context.Context) map[string]query.Result {
	a.mu.RLock()
	checkers := make(map[string]Checker, len(a.checkers))
	for name, checker := range a.checkers {
		checkers[name] = checker
	}
	a.mu.RUnlock()

	results := make(map[string]query.Result, len(checkers))
	if len(checkers) == 0 {
		return results
	}

	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	for name, checker := range checkers {
		g.Go(func() error {
			var res query.Result
			err := a.bulkhead.Execute(ctx, func(ctx context.Context) error {
				res = runCheck(ctx, checker)
				return nil
			})
			if err != nil {
				res = query.Failed(&query.Error{
					Kind:   query.KindTransport,
					Detail: query.DetailCanceled,
					Cause:  fmt.Errorf("%w: %w", ErrCheckSkipped, err),
				})
			}

			mu.Lock()
			results[name] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Sweep runs every checker and builds a report. It returns
// ErrNoCheckers when nothing is registered.
func (a *Aggregator) Sweep(ctx context.Context) (Report, map[string]query.Result, error) {
	if len(a.CheckerNames()) == 0 {
		return Report{}, nil, ErrNoCheckers
	}
	results := a.CheckAll(ctx)
	return NewReport(results, a.OverallStatus(results)), results, nil
}

// OverallStatus folds per-host results into one status. No results
// counts as healthy.
func (a *Aggregator) OverallStatus(results map[string]query.Result) Status {
	failed := 0
	for _, res := range results {
		if !res.OK() {
			failed++
		}
	}

	switch {
	case failed == 0:
		return StatusHealthy
	case failed == len(results):
		return StatusUnhealthy
	default:
		return StatusDegraded
	}
}

// Stats returns the bulkhead statistics of the last sweeps.
func (a *Aggregator) Stats() resilience.BulkheadStats {
	return a.bulkhead.Stats()
}

func runCheck(ctx context.Context, checker Checker) (res query.Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = query.Failed(&query.Error{
				Kind:   query.KindInternal,
				Detail: "panic",
				Cause:  fmt.Errorf("checker %s panicked: %v", checker.Name(), r),
			})
		}
		if res.Duration == 0 {
			res.Duration = time.Since(start)
		}
	}()

	return checker.Check(ctx)
}

// Package health fans one health query out over many hosts.
//
// A Checker wraps a single query against a single host. The Aggregator
// runs registered checkers concurrently, bounded by a bulkhead, and
// collects their results under one lock. Each probe is independent: a
// failing host never cancels or alters the others.
//
// # Basic Usage
//
//	exec := query.NewExecutor()
//	agg := health.NewAggregator(health.AggregatorConfig{MaxConcurrent: 4})
//	for _, req := range requests {
//	    agg.Register(health.NewQueryChecker(req, exec))
//	}
//
//	results := agg.CheckAll(ctx)
//	report := health.NewReport(results, agg.OverallStatus(results))
//	_ = report.WriteJSON(os.Stdout)
//
// # Overall Status
//
// All hosts Success gives StatusHealthy, a mix gives StatusDegraded, and
// all hosts Failure gives StatusUnhealthy.
package health

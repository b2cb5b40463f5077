// Package resilience bounds how long and how widely health queries run.
//
// Two guards are provided:
//
//   - Timeout: caps the wall-clock time of a single query, including
//     reading the response body. The limit is reported through a
//     *TimeoutError so callers can tell it apart from cancellation.
//
//   - Bulkhead: caps how many queries run at once when many inventory
//     hosts are probed from one process.
//
// Neither guard retries. A query that fails is reported once.
//
// # Usage
//
//	t := resilience.NewTimeout(resilience.TimeoutConfig{Timeout: 10 * time.Minute})
//	err := t.Execute(ctx, func(ctx context.Context) error {
//	    return postHealthQuery(ctx)
//	})
//	if errors.Is(err, resilience.ErrTimeout) {
//	    // the query did not finish in time
//	}
//
//	b := resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: 8})
//	err = b.Execute(ctx, probeHost)
package resilience

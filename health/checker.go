package health

import (
	"context"

	"github.com/jonwraymond/healthquery/query"
)

// Status represents the overall health of a set of hosts.
type Status int

const (
	// StatusHealthy indicates every host answered successfully.
	StatusHealthy Status = iota
	// StatusDegraded indicates some hosts failed.
	StatusDegraded
	// StatusUnhealthy indicates every host failed.
	StatusUnhealthy
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Checker probes one host.
type Checker interface {
	// Name returns the name of this checker.
	Name() string

	// Check performs the probe and returns the query result.
	Check(ctx context.Context) query.Result
}

// CheckerFunc is an adapter to allow ordinary functions to be used as Checkers.
type CheckerFunc struct {
	name string
	fn   func(context.Context) query.Result
}

// NewCheckerFunc creates a new CheckerFunc.
func NewCheckerFunc(name string, fn func(context.Context) query.Result) *CheckerFunc {
	return &CheckerFunc{name: name, fn: fn}
}

// Name returns the name of this checker.
func (f *CheckerFunc) Name() string {
	return f.name
}

// Check performs the health check.
func (f *CheckerFunc) Check(ctx context.Context) query.Result {
	return f.fn(ctx)
}

// QueryChecker runs one health query through a query.Runner.
type QueryChecker struct {
	name string
	req  query.Request
	run  query.Runner
}

// NewQueryChecker creates a checker for req. Its name is the target's
// host:port.
func NewQueryChecker(req query.Request, run query.Runner) *QueryChecker {
	return &QueryChecker{
		name: req.Normalize().Address(),
		req:  req,
		run:  run,
	}
}

// Name returns host:port.
func (c *QueryChecker) Name() string {
	return c.name
}

// Request returns the query this checker sends.
func (c *QueryChecker) Request() query.Request {
	return c.req
}

// Check runs the query.
func (c *QueryChecker) Check(ctx context.Context) query.Result {
	return c.run.Run(ctx, c.req)
}

// Package query executes one parameterized health query against a remote
// health service and maps the outcome to a Result.
//
// The pipeline is linear: normalize and validate the Request, build the
// target URL, serialize the payload to JSON, POST it with a bounded
// timeout, and map the outcome. Run never panics and never returns a Go
// error; every failure is a Result with Status Failure and an *Error
// describing what went wrong.
//
// # Basic Usage
//
//	exec := query.NewExecutor()
//	res := exec.Run(ctx, query.Request{
//	    Hostname: "db1.internal",
//	    Headers:  map[string]string{"Content-Type": "application/json"},
//	})
//	if !res.OK() {
//	    log.Printf("health query failed: %s", res.Message())
//	}
//
// With no overrides the request is
//
//	POST https://db1.internal:443/api/v1/management/health?category=Database&name=Top%20Table%20Counts
//
// # Status Codes
//
// By default any HTTP response counts as Success and its body is returned
// unchanged. WithStatusPolicy(StatusPolicyRequire2xx) turns non-2xx
// responses into Failures of KindProtocol while still attaching the body.
package query

// Package observe provides observability primitives for health queries.
//
// It wraps a query.RunFunc with an OpenTelemetry span, query counters and
// a duration histogram, and a structured log line per query. Logs are
// JSON on stderr so that module output on stdout stays machine-readable.
package observe

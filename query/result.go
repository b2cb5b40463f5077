package query

import (
	"fmt"
	"time"
)

// Status is the outcome of a health query.
type Status int

const (
	// StatusSuccess means a response was received and accepted by the
	// executor's status policy.
	StatusSuccess Status = iota
	// StatusFailure means the query did not produce an accepted response.
	StatusFailure
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Kind classifies a failed query.
type Kind string

const (
	// KindInput means the request was rejected before any network call.
	KindInput Kind = "input"
	// KindTransport means no response was received.
	KindTransport Kind = "transport"
	// KindProtocol means a response arrived with a status the policy rejects.
	KindProtocol Kind = "protocol"
	// KindInternal means the executor recovered from a panic.
	KindInternal Kind = "internal"
)

// Transport failure details.
const (
	DetailTimeout           = "timeout"
	DetailDNS               = "dns_error"
	DetailConnectionRefused = "connection_refused"
	DetailTLS               = "tls_error"
	DetailConnection        = "connection_error"
	DetailCanceled          = "canceled"
)

// Error describes why a query failed.
type Error struct {
	Kind       Kind
	Detail     string
	StatusCode int
	Cause      error
}

// Error returns a human-readable message.
func (e *Error) Error() string {
	switch e.Kind {
	case KindInput:
		if e.Cause != nil {
			return "invalid query: " + e.Cause.Error()
		}
		return "invalid query: " + e.Detail
	case KindTransport:
		return fmt.Sprintf("transport error (%s): %v", e.Detail, e.Cause)
	case KindProtocol:
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	default:
		if e.Cause != nil {
			return fmt.Sprintf("%s error: %v", e.Kind, e.Cause)
		}
		return fmt.Sprintf("%s error: %s", e.Kind, e.Detail)
	}
}

// Unwrap returns the underlying cause for use with errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

func inputError(detail string) *Error {
	return &Error{Kind: KindInput, Detail: detail}
}

// Result is the outcome of one health query.
type Result struct {
	// Status is Success or Failure.
	Status Status

	// Body is the raw response content, byte-identical to what the
	// server sent. Empty when no response was received.
	Body []byte

	// StatusCode is the HTTP status code, or zero without a response.
	StatusCode int

	// Err is set only on Failure.
	Err *Error

	// URL is the target URL, empty when the request failed validation.
	URL string

	// RequestID is the X-Request-Id sent with the query.
	RequestID string

	// Duration is how long the query took.
	Duration time.Duration
}

// OK reports whether the query succeeded.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// Message returns the failure message, or "" on success.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Failed builds a Failure result from err.
func Failed(err *Error) Result {
	return Result{Status: StatusFailure, Err: err}
}

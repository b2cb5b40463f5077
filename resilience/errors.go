package resilience

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for resilience operations.
var (
	// ErrBulkheadFull is returned when the bulkhead is at capacity and
	// configured to fail fast.
	ErrBulkheadFull = errors.New("resilience: bulkhead at capacity")

	// ErrTimeout is matched by every *TimeoutError.
	ErrTimeout = errors.New("resilience: timeout")

	// ErrPanic is matched by every *PanicError.
	ErrPanic = errors.New("resilience: operation panicked")
)

// TimeoutError reports that an operation exceeded its time limit.
type TimeoutError struct {
	// Limit is the configured time limit.
	Limit time.Duration
}

// Error returns a message naming the exceeded limit.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("resilience: timeout after %s exceeded", e.Limit)
}

// Is reports whether target is ErrTimeout.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// Timeout reports true so the error satisfies net.Error-style checks.
func (e *TimeoutError) Timeout() bool { return true }

// PanicError reports a panic recovered from an operation.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("resilience: operation panicked: %v", e.Value)
}

// Is reports whether target is ErrPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrPanic
}

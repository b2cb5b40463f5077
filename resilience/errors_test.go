package resilience

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSentinelErrors(t *testing.T) {
	for _, err := range []error{ErrBulkheadFull, ErrTimeout, ErrPanic} {
		if err == nil || err.Error() == "" {
			t.Errorf("sentinel %v has empty message", err)
		}
	}
}

func TestTimeoutError_MatchesSentinel(t *testing.T) {
	err := error(&TimeoutError{Limit: 10 * time.Minute})

	if !errors.Is(err, ErrTimeout) {
		t.Error("errors.Is(TimeoutError, ErrTimeout) = false, want true")
	}
	if errors.Is(err, ErrBulkheadFull) {
		t.Error("TimeoutError should not match ErrBulkheadFull")
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("Error() = %q, want it to mention timeout", err.Error())
	}
	if !strings.Contains(err.Error(), "10m0s") {
		t.Errorf("Error() = %q, want it to name the limit", err.Error())
	}
}

func TestPanicError_MatchesSentinel(t *testing.T) {
	err := error(&PanicError{Value: "nil map write"})

	if !errors.Is(err, ErrPanic) {
		t.Error("errors.Is(PanicError, ErrPanic) = false, want true")
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("PanicError should not match ErrTimeout")
	}
	if !strings.Contains(err.Error(), "nil map write") {
		t.Errorf("Error() = %q, want it to carry the panic value", err.Error())
	}
}

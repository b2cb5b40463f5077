package health

import "errors"

var (
	// ErrCheckerNotFound indicates a checker was not found.
	ErrCheckerNotFound = errors.New("health: checker not found")

	// ErrNoCheckers indicates no checkers are registered.
	ErrNoCheckers = errors.New("health: no checkers registered")

	// ErrCheckSkipped indicates a check never started because the sweep
	// was cancelled while it waited for a bulkhead slot.
	ErrCheckSkipped = errors.New("health: check skipped")
)

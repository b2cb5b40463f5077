package config

import "errors"

// Sentinel errors for sweep validation.
var (
	// ErrNoHosts is returned when a sweep lists no hosts.
	ErrNoHosts = errors.New("config: at least one host is required")

	// ErrInvalidConcurrency is returned when concurrency is below one.
	ErrInvalidConcurrency = errors.New("config: concurrency must be at least 1")

	// ErrInvalidTimeout is returned for negative timeouts.
	ErrInvalidTimeout = errors.New("config: timeout must not be negative")

	// ErrInvalidHost is returned when a host entry cannot form a request.
	ErrInvalidHost = errors.New("config: invalid host")

	// ErrInvalidAuth is returned for an incomplete auth section.
	ErrInvalidAuth = errors.New("config: invalid auth")
)

package auth

import "errors"

// Sentinel errors for token minting.
var (
	ErrMissingKey   = errors.New("auth: signing key not configured")
	ErrInvalidKey   = errors.New("auth: signing key must be a non-empty []byte")
	ErrKeyNotFound  = errors.New("auth: signing key not found")
	ErrEmptyToken   = errors.New("auth: empty token")
	ErrInvalidClaim = errors.New("auth: invalid claim configuration")
)

// Package auth supplies bearer tokens for health queries.
//
// JWTSource mints short-lived HS256 tokens and caches them until shortly
// before expiry; concurrent callers share one mint. StaticToken wraps a
// fixed token. Both satisfy query.TokenSource.
package auth

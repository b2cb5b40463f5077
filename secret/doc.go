// Package secret resolves credentials referenced from query headers and
// sweep configuration.
//
// It supports:
//   - Strict environment expansion (see ExpandEnvStrict)
//   - Pluggable secret providers (see Provider + Registry), with built-in
//     "env" and "file" providers
//   - Resolving secret references in header values (see Resolver)
//
// References use the prefix "secretref:":
//   - Full value:  secretref:env:STATUS_KEY
//   - Inline use:  Bearer secretref:file:/run/secrets/health-token
//
// A *Resolver satisfies query.HeaderResolver, so it can be handed to
// query.WithHeaderResolver directly. Resolved values must never be logged.
package secret

package query

import (
	"fmt"
	"maps"
	"net"
	"net/http"
	"slices"
	"strings"
)

// Defaults applied by Request.Normalize.
const (
	DefaultPort        = 443
	DefaultScheme      = "https"
	DefaultPath        = "/api/v1/management/health"
	DefaultCategory    = "Database"
	DefaultName        = "Top Table Counts"
	DefaultContentType = "application/json"
)

// DefaultPayload returns the body sent when a Request carries no payload.
func DefaultPayload() map[string]any {
	return map[string]any{"name": DefaultName}
}

// Request describes one health query.
type Request struct {
	// Hostname is the health service host. Required.
	Hostname string

	// Port is the TCP port. Zero means DefaultPort.
	Port int

	// Scheme is "https" or "http". Empty means DefaultScheme.
	Scheme string

	// Path is the health endpoint path. Empty means DefaultPath.
	Path string

	// Category selects the check category. Empty means DefaultCategory.
	Category string

	// Name selects the named check. Empty means DefaultName.
	Name string

	// Payload is serialized as the JSON request body.
	// A nil map means DefaultPayload; an empty map is sent as {}.
	Payload map[string]any

	// Headers are sent with the request. Values may hold secret
	// references that the executor's HeaderResolver expands.
	Headers map[string]string
}

// Normalize returns a copy of r with defaults applied.
// The caller's maps are not modified.
func (r Request) Normalize() Request {
	r.Hostname = strings.TrimSpace(r.Hostname)
	if r.Port == 0 {
		r.Port = DefaultPort
	}
	if r.Scheme == "" {
		r.Scheme = DefaultScheme
	}
	r.Scheme = strings.ToLower(r.Scheme)
	if r.Path == "" {
		r.Path = DefaultPath
	}
	if !strings.HasPrefix(r.Path, "/") {
		r.Path = "/" + r.Path
	}
	if r.Category == "" {
		r.Category = DefaultCategory
	}
	if r.Name == "" {
		r.Name = DefaultName
	}
	if r.Payload == nil {
		r.Payload = DefaultPayload()
	}

	// Keys are canonicalized so case variants of one header collapse
	// into a single entry. Sorted order makes the surviving value stable.
	headers := make(map[string]string, len(r.Headers)+1)
	for _, k := range slices.Sorted(maps.Keys(r.Headers)) {
		headers[http.CanonicalHeaderKey(k)] = r.Headers[k]
	}
	if headerValue(headers, "Content-Type") == "" {
		headers["Content-Type"] = DefaultContentType
	}
	r.Headers = headers
	return r
}

// Validate checks a normalized request. It returns an *Error of KindInput.
func (r Request) Validate() error {
	if err := r.validate(); err != nil {
		return err
	}
	return nil
}

func (r Request) validate() *Error {
	if r.Hostname == "" {
		return inputError("hostname is required")
	}
	if err := ValidateHostname(r.Hostname); err != nil {
		return &Error{Kind: KindInput, Detail: "invalid_hostname", Cause: err}
	}
	if r.Port < 1 || r.Port > 65535 {
		return inputError(fmt.Sprintf("port %d out of range [1, 65535]", r.Port))
	}
	if r.Scheme != "https" && r.Scheme != "http" {
		return inputError(fmt.Sprintf("unsupported scheme %q", r.Scheme))
	}
	if strings.ContainsAny(r.Path, "?# ") {
		return inputError(fmt.Sprintf("path %q must not contain a query, fragment or space", r.Path))
	}
	if headerValue(r.Headers, "Content-Type") == "" {
		return inputError("headers must include a Content-Type")
	}
	return nil
}

// ValidateHostname reports whether host is an IP literal or a DNS name.
func ValidateHostname(host string) error {
	if host == "" {
		return fmt.Errorf("empty hostname")
	}
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		if ip := net.ParseIP(host[1 : len(host)-1]); ip != nil && ip.To4() == nil {
			return nil
		}
		return fmt.Errorf("invalid IPv6 literal %q", host)
	}
	if net.ParseIP(host) != nil {
		return nil
	}
	if strings.Contains(host, "://") {
		return fmt.Errorf("hostname %q must not include a scheme", host)
	}
	if len(host) > 253 {
		return fmt.Errorf("hostname %q longer than 253 characters", host)
	}

	name := strings.TrimSuffix(host, ".")
	for _, label := range strings.Split(name, ".") {
		if err := validateLabel(label); err != nil {
			return fmt.Errorf("hostname %q: %w", host, err)
		}
	}
	return nil
}

func validateLabel(label string) error {
	if label == "" {
		return fmt.Errorf("empty label")
	}
	if len(label) > 63 {
		return fmt.Errorf("label %q longer than 63 characters", label)
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return fmt.Errorf("label %q starts or ends with a hyphen", label)
	}
	for _, c := range label {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return fmt.Errorf("label %q contains invalid character %q", label, c)
		}
	}
	return nil
}

// headerValue looks a header up case-insensitively.
func headerValue(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

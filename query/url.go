package query

import (
	"net"
	"net/url"
	"strconv"
	"strings"
)

// BuildURL returns the target URL for a normalized request:
//
//	{scheme}://{host}:{port}{path}?category={category}&name={name}
//
// Query values are percent-encoded with %20 for spaces.
func BuildURL(r Request) string {
	var b strings.Builder
	b.WriteString(r.Scheme)
	b.WriteString("://")
	b.WriteString(r.Address())
	b.WriteString(r.Path)
	b.WriteString("?category=")
	b.WriteString(escapeQueryValue(r.Category))
	b.WriteString("&name=")
	b.WriteString(escapeQueryValue(r.Name))
	return b.String()
}

func escapeQueryValue(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}

// Host returns the hostname without IPv6 brackets.
func (r Request) Host() string {
	return strings.TrimSuffix(strings.TrimPrefix(r.Hostname, "["), "]")
}

// Address returns host:port, bracketing IPv6 literals.
func (r Request) Address() string {
	return net.JoinHostPort(r.Host(), strconv.Itoa(r.Port))
}

package query

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jonwraymond/healthquery/resilience"
)

// classifyTransport returns the Detail for a fault that prevented a
// response. The chain is: timeouts, DNS, refused, TLS, cancellation,
// then a generic connection error.
func classifyTransport(err error) string {
	if errors.Is(err, resilience.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return DetailTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return DetailTimeout
		}
		return DetailDNS
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return DetailConnectionRefused
	}

	if isTLSError(err) {
		return DetailTLS
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return DetailTimeout
	}

	if errors.Is(err, context.Canceled) {
		return DetailCanceled
	}

	return DetailConnection
}

func isTLSError(err error) bool {
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return true
	}
	var authorityErr x509.UnknownAuthorityError
	if errors.As(err, &authorityErr) {
		return true
	}
	var hostErr x509.HostnameError
	if errors.As(err, &hostErr) {
		return true
	}
	var invalidErr x509.CertificateInvalidError
	if errors.As(err, &invalidErr) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "tls:") ||
		strings.Contains(msg, "x509:") ||
		strings.Contains(msg, "certificate")
}

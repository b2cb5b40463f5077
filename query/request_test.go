package query

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestRequest_NormalizeDefaults(t *testing.T) {
	r := Request{Hostname: " db1.internal "}.Normalize()

	if r.Hostname != "db1.internal" {
		t.Errorf("Hostname = %q, want trimmed", r.Hostname)
	}
	if r.Port != 443 {
		t.Errorf("Port = %d, want 443", r.Port)
	}
	if r.Scheme != "https" {
		t.Errorf("Scheme = %q, want https", r.Scheme)
	}
	if r.Path != "/api/v1/management/health" {
		t.Errorf("Path = %q", r.Path)
	}
	if r.Category != "Database" || r.Name != "Top Table Counts" {
		t.Errorf("Category/Name = %q/%q", r.Category, r.Name)
	}
	if !reflect.DeepEqual(r.Payload, map[string]any{"name": "Top Table Counts"}) {
		t.Errorf("Payload = %v, want default", r.Payload)
	}
	if r.Headers["Content-Type"] != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", r.Headers["Content-Type"])
	}
}

func TestRequest_NormalizeKeepsEmptyPayload(t *testing.T) {
	r := Request{Hostname: "db1.internal", Payload: map[string]any{}}.Normalize()

	if len(r.Payload) != 0 {
		t.Errorf("Payload = %v, want empty map", r.Payload)
	}
}

func TestRequest_NormalizeKeepsCallerContentType(t *testing.T) {
	headers := map[string]string{"content-type": "application/vnd.health+json"}
	r := Request{Hostname: "db1.internal", Headers: headers}.Normalize()

	if len(r.Headers) != 1 {
		t.Errorf("Headers = %v, want the caller's content type only", r.Headers)
	}
	if headerValue(r.Headers, "Content-Type") != "application/vnd.health+json" {
		t.Errorf("Content-Type = %q", headerValue(r.Headers, "Content-Type"))
	}
}

func TestRequest_NormalizeCanonicalizesHeaderKeys(t *testing.T) {
	r := Request{Hostname: "db1.internal", Headers: map[string]string{
		"x-request-id": "",
		"content-type": "",
		"statuskey":    "sekrit",
	}}.Normalize()

	want := map[string]string{
		"X-Request-Id": "",
		"Content-Type": "application/json",
		"Statuskey":    "sekrit",
	}
	if !reflect.DeepEqual(r.Headers, want) {
		t.Errorf("Headers = %v, want %v", r.Headers, want)
	}
}

func TestRequest_NormalizeCollapsesCaseVariants(t *testing.T) {
	headers := map[string]string{"STATUSKEY": "upper", "statuskey": "lower"}

	for range 20 {
		r := Request{Hostname: "db1.internal", Headers: headers}.Normalize()
		if len(r.Headers) != 2 {
			t.Fatalf("Headers = %v, want Statuskey and Content-Type", r.Headers)
		}
		if r.Headers["Statuskey"] != "lower" {
			t.Fatalf("Statuskey = %q, want the last key in sorted order", r.Headers["Statuskey"])
		}
	}
}

func TestRequest_NormalizeDoesNotMutateCaller(t *testing.T) {
	headers := map[string]string{"statuskey": "sekrit"}
	_ = Request{Hostname: "db1.internal", Headers: headers}.Normalize()

	if len(headers) != 1 {
		t.Errorf("caller headers modified: %v", headers)
	}
}

func TestRequest_NormalizePathWithoutSlash(t *testing.T) {
	r := Request{Hostname: "db1.internal", Path: "healthz"}.Normalize()

	if r.Path != "/healthz" {
		t.Errorf("Path = %q, want /healthz", r.Path)
	}
}

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr string
	}{
		{"valid", Request{Hostname: "db1.internal"}, ""},
		{"empty hostname", Request{}, "hostname is required"},
		{"blank hostname", Request{Hostname: "   "}, "hostname is required"},
		{"port too large", Request{Hostname: "db1.internal", Port: 70000}, "out of range"},
		{"negative port", Request{Hostname: "db1.internal", Port: -1}, "out of range"},
		{"bad scheme", Request{Hostname: "db1.internal", Scheme: "ftp"}, "unsupported scheme"},
		{"path with query", Request{Hostname: "db1.internal", Path: "/health?x=1"}, "must not contain"},
		{"scheme in hostname", Request{Hostname: "https://db1.internal"}, "must not include a scheme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Normalize().Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() error = nil, want %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want %q", err, tt.wantErr)
			}
			var qe *Error
			if !errors.As(err, &qe) || qe.Kind != KindInput {
				t.Errorf("Validate() error kind = %v, want KindInput", err)
			}
		})
	}
}

func TestValidateHostname(t *testing.T) {
	valid := []string{
		"db1.internal",
		"localhost",
		"health-api.example.com",
		"health-api.example.com.",
		"10.0.0.12",
		"::1",
		"[2001:db8::1]",
		"svc_health.local",
	}
	for _, h := range valid {
		if err := ValidateHostname(h); err != nil {
			t.Errorf("ValidateHostname(%q) error = %v", h, err)
		}
	}

	invalid := []string{
		"",
		"db1..internal",
		"-db1.internal",
		"db1-.internal",
		"db1.internal/health",
		"db1.internal:443",
		"db 1.internal",
		"[10.0.0.1]",
		strings.Repeat("a", 64) + ".internal",
		strings.Repeat("abcdefgh.", 30) + "com",
	}
	for _, h := range invalid {
		if err := ValidateHostname(h); err == nil {
			t.Errorf("ValidateHostname(%q) = nil, want error", h)
		}
	}
}

package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSweep(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func hostEntry(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	host, port := hostPort(t, srv)
	return fmt.Sprintf("  - hostname: %s\n    port: %s\n", host, port)
}

type sweepReport struct {
	Status string `json:"status"`
	Total  int    `json:"total"`
	Failed int    `json:"failed"`
	Hosts  map[string]struct {
		Status     string `json:"status"`
		StatusCode int    `json:"status_code"`
		Body       any    `json:"body"`
	} `json:"hosts"`
}

func TestSweep_Healthy(t *testing.T) {
	one := httptest.NewServer((&recorder{}).handler(http.StatusOK, `{"rows":1}`))
	defer one.Close()
	two := httptest.NewServer((&recorder{}).handler(http.StatusOK, "plain"))
	defer two.Close()

	path := writeSweep(t, "concurrency: 2\ndefaults:\n  scheme: http\nhosts:\n"+hostEntry(t, one)+hostEntry(t, two))
	textfile := filepath.Join(t.TempDir(), "healthquery.prom")

	stdout, _, err := execute(t, "sweep", "--config", path, "--metrics-textfile", textfile)
	require.NoError(t, err)

	var report sweepReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, "healthy", report.Status)
	assert.Equal(t, 2, report.Total)
	assert.Zero(t, report.Failed)

	oneHost, onePort := hostPort(t, one)
	got := report.Hosts[oneHost+":"+onePort]
	assert.Equal(t, "success", got.Status)
	assert.Equal(t, map[string]any{"rows": float64(1)}, got.Body)

	metrics, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "healthquery_query")
}

func TestSweep_DegradedExitsNonZero(t *testing.T) {
	up := httptest.NewServer((&recorder{}).handler(http.StatusOK, "ok"))
	defer up.Close()
	down := httptest.NewServer(http.NotFoundHandler())
	downEntry := hostEntry(t, down)
	down.Close()

	path := writeSweep(t, "defaults:\n  scheme: http\nhosts:\n"+hostEntry(t, up)+downEntry)

	stdout, stderr, err := execute(t, "sweep", "--config", path)
	require.Error(t, err)
	assert.True(t, IsSilent(err))
	assert.Contains(t, err.Error(), "1 of 2 hosts failed")

	var report sweepReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, "degraded", report.Status)
	assert.Equal(t, 1, report.Failed)
	assert.Contains(t, stderr, `"msg":"sweep finished"`)
}

func TestSweep_JWTAuth(t *testing.T) {
	key := "0123456789abcdef0123456789abcdef"
	t.Setenv("HQ_TEST_JWT_KEY", key)

	rec := &recorder{}
	srv := httptest.NewServer(rec.handler(http.StatusOK, "ok"))
	defer srv.Close()

	path := writeSweep(t, `defaults:
  scheme: http
auth:
  jwt:
    issuer: healthquery
    audience: health-api
    subject: ops
    key: "secretref:env:HQ_TEST_JWT_KEY"
hosts:
`+hostEntry(t, srv))

	_, _, err := execute(t, "sweep", "--config", path)
	require.NoError(t, err)

	header := rec.headers.Get("Authorization")
	require.True(t, strings.HasPrefix(header, "Bearer "), "Authorization = %q", header)

	_, err = jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(*jwt.Token) (any, error) {
		return []byte(key), nil
	}, jwt.WithIssuer("healthquery"), jwt.WithAudience("health-api"), jwt.WithValidMethods([]string{"HS256"}))
	assert.NoError(t, err)
}

func TestSweep_Errors(t *testing.T) {
	tests := []struct {
		name string
		args func(t *testing.T) []string
		want string
	}{
		{"missing config flag", func(*testing.T) []string { return []string{"sweep"} }, `required flag(s) "config" not set`},
		{"missing file", func(t *testing.T) []string {
			return []string{"sweep", "--config", filepath.Join(t.TempDir(), "none.yaml")}
		}, "config: read"},
		{"no hosts", func(t *testing.T) []string {
			return []string{"sweep", "--config", writeSweep(t, "concurrency: 1\n")}
		}, "at least one host"},
		{"textfile with otlp", func(t *testing.T) []string {
			return []string{"sweep", "--config", writeSweep(t, "hosts:\n  - hostname: a\n"),
				"--metrics-textfile", filepath.Join(t.TempDir(), "m.prom"), "--metrics-exporter", "otlp"}
		}, "needs the prometheus metrics exporter"},
		{"missing jwt key", func(t *testing.T) []string {
			return []string{"sweep", "--config", writeSweep(t, "auth:\n  jwt:\n    key: \"secretref:env:HQ_TEST_UNSET_KEY\"\nhosts:\n  - hostname: a\n")}
		}, "resolve jwt key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args(t)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseHeaders(t *testing.T) {
	got, err := parseHeaders([]string{"statuskey: a:b", " X-Trace :  on "})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"statuskey": "a:b", "X-Trace": "on"}, got)

	got, err = parseHeaders(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseHeaders([]string{": value"})
	assert.Error(t, err)
}

func TestParseData(t *testing.T) {
	got, err := parseData("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseData(`{}`)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

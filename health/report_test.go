package health

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/jonwraymond/healthquery/query"
)

func TestNewReport(t *testing.T) {
	ok := success(`{"status":"ok"}`)
	ok.URL = "https://db1.internal:443/api/v1/management/health?category=Database&name=Top%20Table%20Counts"
	ok.Duration = 1500 * time.Millisecond

	plain := success("OK")
	fail := failure(query.DetailTimeout)

	report := NewReport(map[string]query.Result{
		"db1.internal:443": ok,
		"db2.internal:443": plain,
		"db3.internal:443": fail,
	}, StatusDegraded)

	if report.Total != 3 || report.Failed != 1 {
		t.Errorf("Total/Failed = %d/%d, want 3/1", report.Total, report.Failed)
	}

	h1 := report.Hosts["db1.internal:443"]
	if h1.Status != "success" || h1.StatusCode != 200 || h1.Duration != "1.5s" {
		t.Errorf("db1 = %+v", h1)
	}
	if raw, isRaw := h1.Body.(json.RawMessage); !isRaw || string(raw) != `{"status":"ok"}` {
		t.Errorf("db1 body = %#v, want raw JSON", h1.Body)
	}

	if s, isStr := report.Hosts["db2.internal:443"].Body.(string); !isStr || s != "OK" {
		t.Errorf("db2 body = %#v, want string", report.Hosts["db2.internal:443"].Body)
	}

	h3 := report.Hosts["db3.internal:443"]
	if h3.Status != "failure" || h3.FailureKind != "transport" || h3.FailureDetail != "timeout" || h3.Error == "" {
		t.Errorf("db3 = %+v", h3)
	}

	if got := report.FailedHosts(); len(got) != 1 || got[0] != "db3.internal:443" {
		t.Errorf("FailedHosts() = %v", got)
	}
}

func TestReport_WriteJSON(t *testing.T) {
	report := NewReport(map[string]query.Result{
		"db1.internal:443": success(`{"status":"ok"}`),
	}, StatusHealthy)

	var buf bytes.Buffer
	if err := report.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var decoded struct {
		Status string `json:"status"`
		Hosts  map[string]struct {
			Status string         `json:"status"`
			Body   map[string]any `json:"body"`
		} `json:"hosts"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if decoded.Status != "healthy" {
		t.Errorf("status = %q, want healthy", decoded.Status)
	}
	if decoded.Hosts["db1.internal:443"].Body["status"] != "ok" {
		t.Errorf("body not embedded: %s", buf.String())
	}
}

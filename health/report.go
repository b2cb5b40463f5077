package health

import (
	"encoding/json"
	"io"
	"sort"
	"time"

	"github.com/jonwraymond/healthquery/query"
)

// Report is the JSON document produced by a sweep.
type Report struct {
	Status    Status                `json:"status"`
	Timestamp string                `json:"timestamp"`
	Total     int                   `json:"total"`
	Failed    int                   `json:"failed"`
	Hosts     map[string]HostReport `json:"hosts"`
}

// HostReport is the outcome for a single host.
type HostReport struct {
	Status        string `json:"status"`
	StatusCode    int    `json:"status_code,omitempty"`
	URL           string `json:"url,omitempty"`
	RequestID     string `json:"request_id,omitempty"`
	Duration      string `json:"duration"`
	FailureKind   string `json:"failure_kind,omitempty"`
	FailureDetail string `json:"failure_detail,omitempty"`
	Error         string `json:"error,omitempty"`

	// Body is the response body: embedded as JSON when it is valid JSON,
	// otherwise as a string.
	Body any `json:"body,omitempty"`
}

// NewReport builds a report from sweep results.
func NewReport(results map[string]query.Result, status Status) Report {
	report := Report{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Total:     len(results),
		Hosts:     make(map[string]HostReport, len(results)),
	}

	for name, res := range results {
		host := HostReport{
			Status:     res.Status.String(),
			StatusCode: res.StatusCode,
			URL:        res.URL,
			RequestID:  res.RequestID,
			Duration:   res.Duration.String(),
			Body:       bodyValue(res.Body),
		}
		if !res.OK() {
			report.Failed++
			host.Error = res.Message()
			if res.Err != nil {
				host.FailureKind = string(res.Err.Kind)
				host.FailureDetail = res.Err.Detail
			}
		}
		report.Hosts[name] = host
	}

	return report
}

// FailedHosts returns the names of failed hosts, sorted.
func (r Report) FailedHosts() []string {
	var names []string
	for name, host := range r.Hosts {
		if host.Status != query.StatusSuccess.String() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// WriteJSON writes the report as indented JSON.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func bodyValue(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	return string(body)
}

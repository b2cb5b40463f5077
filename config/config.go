package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/healthquery/query"
)

// Defaults applied by Load.
const (
	DefaultConcurrency = 8
	DefaultTimeout     = 600 * time.Second
)

// Sweep is a parsed sweep file.
type Sweep struct {
	// Concurrency bounds how many hosts are queried at once.
	Concurrency int `yaml:"concurrency"`

	// Defaults apply to every host.
	Defaults Target `yaml:"defaults"`

	// Auth configures bearer tokens.
	Auth Auth `yaml:"auth"`

	// Secrets holds per-provider settings, keyed by provider name.
	Secrets map[string]map[string]any `yaml:"secrets"`

	// Hosts lists the health services to query.
	Hosts []Target `yaml:"hosts"`
}

// Target describes one host, or the defaults shared by all hosts.
type Target struct {
	Hostname      string            `yaml:"hostname"`
	Port          int               `yaml:"port"`
	Scheme        string            `yaml:"scheme"`
	Path          string            `yaml:"path"`
	Category      string            `yaml:"category"`
	Name          string            `yaml:"name"`
	Timeout       time.Duration     `yaml:"timeout"`
	FailOnStatus  *bool             `yaml:"fail_on_status"`
	ValidateCerts *bool             `yaml:"validate_certs"`
	Headers       map[string]string `yaml:"headers"`
	Data          map[string]any    `yaml:"data"`
}

// Auth configures how bearer tokens are obtained. At most one of JWT
// and Token may be set.
type Auth struct {
	JWT   *JWT   `yaml:"jwt"`
	Token string `yaml:"token"`
}

// JWT configures minted HS256 tokens. Key may be a secret reference.
type JWT struct {
	Issuer   string        `yaml:"issuer"`
	Audience string        `yaml:"audience"`
	Subject  string        `yaml:"subject"`
	KeyID    string        `yaml:"key_id"`
	Key      string        `yaml:"key"`
	TTL      time.Duration `yaml:"ttl"`
}

// HostQuery is one fully merged host entry.
type HostQuery struct {
	Request       query.Request
	Timeout       time.Duration
	FailOnStatus  bool
	ValidateCerts bool
}

// ExecutorOptions returns the executor options for this host.
func (h HostQuery) ExecutorOptions() []query.Option {
	policy := query.StatusPolicyAcceptAny
	if h.FailOnStatus {
		policy = query.StatusPolicyRequire2xx
	}
	return []query.Option{
		query.WithTimeout(h.Timeout),
		query.WithStatusPolicy(policy),
		query.WithInsecureSkipVerify(!h.ValidateCerts),
	}
}

// Load reads, defaults and validates the sweep file at path.
func Load(path string) (*Sweep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a sweep document. Unknown keys are rejected.
func Parse(data []byte) (*Sweep, error) {
	var s Sweep
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse: %w", err)
	}

	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Sweep) applyDefaults() {
	if s.Concurrency == 0 {
		s.Concurrency = DefaultConcurrency
	}
	if s.Defaults.Timeout == 0 {
		s.Defaults.Timeout = DefaultTimeout
	}
}

// Validate checks the sweep after defaults are applied.
func (s *Sweep) Validate() error {
	if s.Concurrency < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidConcurrency, s.Concurrency)
	}
	if len(s.Hosts) == 0 {
		return ErrNoHosts
	}
	if s.Defaults.Timeout < 0 {
		return fmt.Errorf("%w: defaults", ErrInvalidTimeout)
	}
	if s.Auth.JWT != nil && s.Auth.Token != "" {
		return fmt.Errorf("%w: jwt and token are mutually exclusive", ErrInvalidAuth)
	}
	if s.Auth.JWT != nil && s.Auth.JWT.Key == "" {
		return fmt.Errorf("%w: jwt.key is required", ErrInvalidAuth)
	}

	seen := make(map[string]int, len(s.Hosts))
	for i, h := range s.Hosts {
		if h.Timeout < 0 {
			return fmt.Errorf("%w: hosts[%d]", ErrInvalidTimeout, i)
		}
		req := s.merge(h).Request.Normalize()
		if err := req.Validate(); err != nil {
			return fmt.Errorf("%w: hosts[%d]: %v", ErrInvalidHost, i, err)
		}
		addr := req.Address()
		if j, ok := seen[addr]; ok {
			return fmt.Errorf("%w: hosts[%d] duplicates hosts[%d] (%s)", ErrInvalidHost, i, j, addr)
		}
		seen[addr] = i
	}
	return nil
}

// Requests merges every host over the defaults.
func (s *Sweep) Requests() []HostQuery {
	out := make([]HostQuery, 0, len(s.Hosts))
	for _, h := range s.Hosts {
		out = append(out, s.merge(h))
	}
	return out
}

func (s *Sweep) merge(h Target) HostQuery {
	d := s.Defaults
	req := query.Request{
		Hostname: h.Hostname,
		Port:     pick(h.Port, d.Port),
		Scheme:   pick(h.Scheme, d.Scheme),
		Path:     pick(h.Path, d.Path),
		Category: pick(h.Category, d.Category),
		Name:     pick(h.Name, d.Name),
		Payload:  d.Data,
	}
	if h.Data != nil {
		req.Payload = h.Data
	}
	if len(d.Headers) > 0 || len(h.Headers) > 0 {
		req.Headers = make(map[string]string, len(d.Headers)+len(h.Headers))
		maps.Copy(req.Headers, d.Headers)
		maps.Copy(req.Headers, h.Headers)
	}

	return HostQuery{
		Request:       req,
		Timeout:       pick(h.Timeout, d.Timeout),
		FailOnStatus:  flag(h.FailOnStatus, d.FailOnStatus, false),
		ValidateCerts: flag(h.ValidateCerts, d.ValidateCerts, true),
	}
}

func pick[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}

func flag(v, fallback *bool, def bool) bool {
	switch {
	case v != nil:
		return *v
	case fallback != nil:
		return *fallback
	default:
		return def
	}
}

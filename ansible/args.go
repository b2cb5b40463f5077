package ansible

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jonwraymond/healthquery/query"
)

// ModuleArgsKey wraps the arguments in files written by some Ansible
// versions.
const ModuleArgsKey = "ANSIBLE_MODULE_ARGS"

// internalPrefix marks arguments Ansible passes to every module.
const internalPrefix = "_ansible_"

var supportedArgs = []string{
	"category",
	"data",
	"fail_on_status",
	"headers",
	"hostname",
	"name",
	"path",
	"port",
	"scheme",
	"timeout",
	"validate_certs",
}

// Args are the parsed module arguments.
type Args struct {
	Hostname      string
	Port          int
	Scheme        string
	Path          string
	Category      string
	Name          string
	Data          map[string]any
	Headers       map[string]string
	Timeout       time.Duration
	FailOnStatus  bool
	ValidateCerts bool
}

// ParseArgs decodes an arguments document.
func ParseArgs(data []byte) (Args, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return Args{}, fmt.Errorf("unable to parse module arguments: %w", err)
	}
	if wrapped, ok := raw[ModuleArgsKey].(map[string]any); ok {
		raw = wrapped
	}

	var unsupported []string
	for _, k := range slices.Sorted(maps.Keys(raw)) {
		if strings.HasPrefix(k, internalPrefix) {
			delete(raw, k)
			continue
		}
		if !slices.Contains(supportedArgs, k) {
			unsupported = append(unsupported, k)
		}
	}
	if len(unsupported) > 0 {
		return Args{}, fmt.Errorf("Unsupported parameters for (healthquery) module: %s. Supported parameters include: %s",
			strings.Join(unsupported, ", "), strings.Join(supportedArgs, ", "))
	}

	args := Args{
		Port:          query.DefaultPort,
		Timeout:       600 * time.Second,
		ValidateCerts: true,
	}

	var err error
	if args.Hostname, err = stringArg(raw, "hostname", ""); err != nil {
		return Args{}, err
	}
	if strings.TrimSpace(args.Hostname) == "" {
		return Args{}, fmt.Errorf("missing required arguments: hostname")
	}
	if args.Port, err = intArg(raw, "port", query.DefaultPort); err != nil {
		return Args{}, err
	}
	if args.Scheme, err = stringArg(raw, "scheme", ""); err != nil {
		return Args{}, err
	}
	if args.Path, err = stringArg(raw, "path", ""); err != nil {
		return Args{}, err
	}
	if args.Category, err = stringArg(raw, "category", ""); err != nil {
		return Args{}, err
	}
	if args.Name, err = stringArg(raw, "name", ""); err != nil {
		return Args{}, err
	}
	seconds, err := intArg(raw, "timeout", 600)
	if err != nil {
		return Args{}, err
	}
	if seconds <= 0 {
		return Args{}, fmt.Errorf("argument 'timeout' must be a positive number of seconds, got %d", seconds)
	}
	args.Timeout = time.Duration(seconds) * time.Second
	if args.FailOnStatus, err = boolArg(raw, "fail_on_status", false); err != nil {
		return Args{}, err
	}
	if args.ValidateCerts, err = boolArg(raw, "validate_certs", true); err != nil {
		return Args{}, err
	}
	if args.Data, err = dictArg(raw, "data"); err != nil {
		return Args{}, err
	}
	headers, err := dictArg(raw, "headers")
	if err != nil {
		return Args{}, err
	}
	if headers != nil {
		args.Headers = make(map[string]string, len(headers))
		for k, v := range headers {
			args.Headers[k] = scalarString(v)
		}
	}

	return args, nil
}

// Request returns the health query described by the arguments.
func (a Args) Request() query.Request {
	return query.Request{
		Hostname: a.Hostname,
		Port:     a.Port,
		Scheme:   a.Scheme,
		Path:     a.Path,
		Category: a.Category,
		Name:     a.Name,
		Payload:  a.Data,
		Headers:  a.Headers,
	}
}

// ExecutorOptions returns the executor options selected by the arguments.
func (a Args) ExecutorOptions() []query.Option {
	policy := query.StatusPolicyAcceptAny
	if a.FailOnStatus {
		policy = query.StatusPolicyRequire2xx
	}
	return []query.Option{
		query.WithTimeout(a.Timeout),
		query.WithStatusPolicy(policy),
		query.WithInsecureSkipVerify(!a.ValidateCerts),
	}
}

func stringArg(raw map[string]any, key, def string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return def, nil
	}
	switch v := v.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	default:
		return "", typeError(key, v, "str")
	}
}

func intArg(raw map[string]any, key string, def int) (int, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return def, nil
	}
	var s string
	switch v := v.(type) {
	case json.Number:
		s = v.String()
	case string:
		s = strings.TrimSpace(v)
	default:
		return 0, typeError(key, v, "int")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, typeError(key, v, "int")
	}
	return n, nil
}

func boolArg(raw map[string]any, key string, def bool) (bool, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return def, nil
	}
	switch v := v.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "yes", "on", "true", "1", "y", "t":
			return true, nil
		case "no", "off", "false", "0", "n", "f":
			return false, nil
		}
	case json.Number:
		switch v.String() {
		case "1":
			return true, nil
		case "0":
			return false, nil
		}
	}
	return false, typeError(key, v, "bool")
}

// dictArg keeps numbers as json.Number so the payload re-encodes with the
// caller's digits.
func dictArg(raw map[string]any, key string) (map[string]any, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, typeError(key, v, "dict")
	}
	return m, nil
}

func scalarString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func typeError(key string, v any, want string) error {
	return fmt.Errorf("argument '%s' is of type %s and we were unable to convert to %s", key, jsonType(v), want)
}

func jsonType(v any) string {
	switch v.(type) {
	case string:
		return "str"
	case json.Number:
		return "number"
	case bool:
		return "bool"
	case map[string]any:
		return "dict"
	case []any:
		return "list"
	default:
		return fmt.Sprintf("%T", v)
	}
}

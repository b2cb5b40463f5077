package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/healthquery/config"
	"github.com/jonwraymond/healthquery/query"
)

type runOptions struct {
	hostname     string
	port         int
	scheme       string
	path         string
	category     string
	name         string
	data         string
	headers      []string
	token        string
	timeout      time.Duration
	failOnStatus bool
	insecure     bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Send one health query and print the response body",
		Long: `Send one health query and print the response body on stdout.

Header values and --token may hold ${VAR} references or
secretref:<provider>:<ref> references (providers: env, file).

Examples:
  healthquery run --hostname db1.internal
  healthquery run --hostname db2.internal --port 8443 -H 'statuskey: secretref:env:STATUS_KEY'
  healthquery run --hostname db1.internal --data '{"name": "Top Table Counts", "limit": 5}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.hostname, "hostname", "", "health service host (required)")
	f.IntVar(&opts.port, "port", query.DefaultPort, "health service port")
	f.StringVar(&opts.scheme, "scheme", query.DefaultScheme, "https or http")
	f.StringVar(&opts.path, "path", query.DefaultPath, "health endpoint path")
	f.StringVar(&opts.category, "category", query.DefaultCategory, "check category")
	f.StringVar(&opts.name, "name", query.DefaultName, "check name")
	f.StringVar(&opts.data, "data", "", "JSON object sent as the request body (default {\"name\": \"Top Table Counts\"})")
	f.StringArrayVarP(&opts.headers, "header", "H", nil, "request header as 'Name: value' (repeatable)")
	f.StringVar(&opts.token, "token", "", "bearer token sent in the Authorization header")
	f.DurationVar(&opts.timeout, "timeout", 600*time.Second, "query time limit")
	f.BoolVar(&opts.failOnStatus, "fail-on-status", false, "treat non-2xx responses as failures")
	f.BoolVar(&opts.insecure, "insecure", false, "skip TLS certificate verification")
	_ = cmd.MarkFlagRequired("hostname")

	return cmd
}

func runQuery(cmd *cobra.Command, root *rootOptions, opts *runOptions) error {
	payload, err := parseData(opts.data)
	if err != nil {
		return err
	}
	headers, err := parseHeaders(opts.headers)
	if err != nil {
		return err
	}
	if opts.timeout <= 0 {
		return fmt.Errorf("--timeout must be positive, got %s", opts.timeout)
	}

	ctx := cmd.Context()
	s, err := newSession(ctx, root, cmd.ErrOrStderr(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = s.close() }()

	tokens, err := s.tokenSource(ctx, config.Auth{Token: opts.token})
	if err != nil {
		return err
	}

	policy := query.StatusPolicyAcceptAny
	if opts.failOnStatus {
		policy = query.StatusPolicyRequire2xx
	}
	run := s.runner(tokens,
		query.WithTimeout(opts.timeout),
		query.WithStatusPolicy(policy),
		query.WithInsecureSkipVerify(opts.insecure),
	)

	res := run(ctx, query.Request{
		Hostname: opts.hostname,
		Port:     opts.port,
		Scheme:   opts.scheme,
		Path:     opts.path,
		Category: opts.category,
		Name:     opts.name,
		Payload:  payload,
		Headers:  headers,
	})
	if !res.OK() {
		if res.Err == nil {
			return errors.New("health query failed")
		}
		return res.Err
	}

	_, err = cmd.OutOrStdout().Write(res.Body)
	return err
}

// parseData decodes --data. An empty flag leaves the default payload.
func parseData(data string) (map[string]any, error) {
	if strings.TrimSpace(data) == "" {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid --data: %w", err)
	}
	if payload == nil {
		return nil, errors.New("invalid --data: expected a JSON object")
	}
	return payload, nil
}

// parseHeaders splits 'Name: value' pairs.
func parseHeaders(values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(values))
	for _, v := range values {
		name, value, ok := strings.Cut(v, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q: expected 'Name: value'", v)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}

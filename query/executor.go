package query

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/healthquery/resilience"
)

// StatusPolicy decides whether a received response counts as Success.
type StatusPolicy int

const (
	// StatusPolicyAcceptAny reports every response as Success,
	// whatever its status code.
	StatusPolicyAcceptAny StatusPolicy = iota
	// StatusPolicyRequire2xx reports non-2xx responses as Failures of
	// KindProtocol.
	StatusPolicyRequire2xx
)

// String returns the string representation of the policy.
func (p StatusPolicy) String() string {
	switch p {
	case StatusPolicyAcceptAny:
		return "accept_any"
	case StatusPolicyRequire2xx:
		return "require_2xx"
	default:
		return "unknown"
	}
}

// Doer sends an HTTP request. *http.Client implements it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HeaderResolver expands secret references in header values.
type HeaderResolver interface {
	ResolveMap(ctx context.Context, input map[string]string) (map[string]string, error)
}

// TokenSource supplies a bearer token for the Authorization header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// RunFunc is the signature of a health query: a pure mapping from
// Request to Result.
type RunFunc func(ctx context.Context, req Request) Result

// Run calls f, so a RunFunc satisfies Runner.
func (f RunFunc) Run(ctx context.Context, req Request) Result {
	return f(ctx, req)
}

// Runner runs health queries. *Executor and RunFunc implement it.
type Runner interface {
	Run(ctx context.Context, req Request) Result
}

// Executor runs health queries. It is immutable after construction and
// safe for concurrent use.
type Executor struct {
	client    Doer
	timeout   *resilience.Timeout
	policy    StatusPolicy
	headers   HeaderResolver
	tokens    TokenSource
	userAgent string
	insecure  bool
	newID     func() string
}

// Option configures an Executor.
type Option func(*Executor)

// WithHTTPClient sets the client used to send requests.
func WithHTTPClient(c Doer) Option {
	return func(e *Executor) {
		e.client = c
	}
}

// WithTimeout sets the upper bound for one query (default 600s).
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) {
		e.timeout = resilience.NewTimeout(resilience.TimeoutConfig{Timeout: d})
	}
}

// WithStatusPolicy sets how response status codes are judged.
func WithStatusPolicy(p StatusPolicy) Option {
	return func(e *Executor) {
		e.policy = p
	}
}

// WithHeaderResolver expands header values before sending.
func WithHeaderResolver(r HeaderResolver) Option {
	return func(e *Executor) {
		e.headers = r
	}
}

// WithTokenSource adds "Authorization: Bearer <token>" to requests that
// carry no Authorization header.
func WithTokenSource(ts TokenSource) Option {
	return func(e *Executor) {
		e.tokens = ts
	}
}

// WithUserAgent overrides the default User-Agent.
func WithUserAgent(ua string) Option {
	return func(e *Executor) {
		e.userAgent = ua
	}
}

// WithInsecureSkipVerify disables TLS certificate verification on the
// default client. It has no effect together with WithHTTPClient.
func WithInsecureSkipVerify(skip bool) Option {
	return func(e *Executor) {
		e.insecure = skip
	}
}

// WithRequestIDFunc sets the generator for X-Request-Id values.
func WithRequestIDFunc(fn func() string) Option {
	return func(e *Executor) {
		e.newID = fn
	}
}

// NewExecutor creates an executor with the given options.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		userAgent: "healthquery/" + Version,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.timeout == nil {
		e.timeout = resilience.NewTimeout(resilience.TimeoutConfig{Timeout: resilience.DefaultTimeout})
	}
	if e.client == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if e.insecure {
			transport.TLSClientConfig = &tls.Config{
				InsecureSkipVerify: true, //nolint:gosec // configurable by user
			}
		}
		e.client = &http.Client{Transport: transport}
	}
	return e
}

// Timeout returns the per-query time limit.
func (e *Executor) Timeout() time.Duration {
	return e.timeout.Config().Timeout
}

// Policy returns the status policy.
func (e *Executor) Policy() StatusPolicy {
	return e.policy
}

// RunFunc returns e.Run as a RunFunc.
func (e *Executor) RunFunc() RunFunc {
	return e.Run
}

// Run executes one health query. It never panics; every failure is
// returned as a Result with Status Failure.
func (e *Executor) Run(ctx context.Context, req Request) (res Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			url, id := res.URL, res.RequestID
			res = Failed(&Error{Kind: KindInternal, Detail: "panic", Cause: fmt.Errorf("panic in query executor: %v", r)})
			res.URL, res.RequestID = url, id
		}
		res.Duration = time.Since(start)
	}()

	req = req.Normalize()
	if err := req.validate(); err != nil {
		return Failed(err)
	}

	res.URL = BuildURL(req)

	body, encErr := encodePayload(req.Payload)
	if encErr != nil {
		return e.fail(res, encErr)
	}

	headers, err := e.resolveHeaders(ctx, req.Headers)
	if err != nil {
		return e.fail(res, &Error{Kind: KindInput, Detail: "header_resolution", Cause: err})
	}

	if e.tokens != nil && headerValue(headers, "Authorization") == "" {
		token, err := e.tokens.Token(ctx)
		if err != nil {
			return e.fail(res, &Error{Kind: KindInput, Detail: "token", Cause: fmt.Errorf("bearer token: %w", err)})
		}
		headers["Authorization"] = "Bearer " + token
	}

	res.RequestID = headerValue(headers, "X-Request-Id")
	if res.RequestID == "" {
		res.RequestID = e.newID()
		headers["X-Request-Id"] = res.RequestID
	}
	if headerValue(headers, "User-Agent") == "" {
		headers["User-Agent"] = e.userAgent
	}

	// The closure runs on the timeout goroutine, which may outlive Run.
	// It reads only these locals; statusCode and respBody are read only
	// after Execute returned nil.
	var (
		target     = res.URL
		statusCode int
		respBody   []byte
	)
	err = e.timeout.Execute(ctx, func(ctx context.Context) error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		for k, v := range headers {
			httpReq.Header.Set(k, v)
		}

		resp, err := e.client.Do(httpReq)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response body: %w", err)
		}
		statusCode, respBody = resp.StatusCode, data
		return nil
	})
	if errors.Is(err, resilience.ErrPanic) {
		return e.fail(res, &Error{Kind: KindInternal, Detail: "panic", Cause: fmt.Errorf("panic in query executor: %w", err)})
	}
	if err != nil {
		return e.fail(res, &Error{Kind: KindTransport, Detail: classifyTransport(err), Cause: err})
	}

	res.StatusCode = statusCode
	res.Body = respBody
	if e.policy == StatusPolicyRequire2xx && (statusCode < 200 || statusCode >= 300) {
		res.Status = StatusFailure
		res.Err = &Error{
			Kind:       KindProtocol,
			Detail:     fmt.Sprintf("http_%d", statusCode),
			StatusCode: statusCode,
			Cause:      fmt.Errorf("unexpected status %d %s from %s", statusCode, http.StatusText(statusCode), res.URL),
		}
		return res
	}

	res.Status = StatusSuccess
	return res
}

func (e *Executor) resolveHeaders(ctx context.Context, in map[string]string) (map[string]string, error) {
	if e.headers == nil {
		return in, nil
	}
	out, err := e.headers.ResolveMap(ctx, in)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = make(map[string]string)
	}
	return out, nil
}

func (e *Executor) fail(res Result, err *Error) Result {
	res.Status = StatusFailure
	res.Err = err
	return res
}

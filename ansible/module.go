package ansible

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jonwraymond/healthquery/query"
)

// Response is the JSON object a module run prints.
type Response struct {
	Changed   bool   `json:"changed"`
	Failed    bool   `json:"failed,omitempty"`
	Msg       string `json:"msg"`
	Status    int    `json:"status,omitempty"`
	URL       string `json:"url,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	ElapsedMS int64  `json:"elapsed_ms,omitempty"`
	Exception string `json:"exception,omitempty"`
	Failure   string `json:"failure,omitempty"`

	// Content is the response body of a failed query that still got a
	// response, such as a rejected status under fail_on_status.
	Content string `json:"content,omitempty"`
}

// RunnerFactory builds the query function for a set of arguments.
type RunnerFactory func(args Args) (query.RunFunc, error)

// DefaultRunner runs queries on a plain Executor.
func DefaultRunner(args Args) (query.RunFunc, error) {
	return query.NewExecutor(args.ExecutorOptions()...).Run, nil
}

// Execute reads the arguments file at path, runs the query and returns
// the module response. It never panics.
func Execute(ctx context.Context, path string, newRunner RunnerFactory) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = failure(fmt.Errorf("module panic: %v", r), "internal/panic")
		}
	}()

	if newRunner == nil {
		newRunner = DefaultRunner
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return failure(fmt.Errorf("unable to read module arguments: %w", err), "input/args_file")
	}
	args, err := ParseArgs(data)
	if err != nil {
		return failure(err, "input/args")
	}

	run, err := newRunner(args)
	if err != nil {
		return failure(err, "input/setup")
	}
	return FromResult(run(ctx, args.Request()))
}

// FromResult converts a query result into a module response.
func FromResult(res query.Result) Response {
	if !res.OK() {
		var err error = errors.New("health query failed")
		if res.Err != nil {
			err = res.Err
		}
		resp := failure(err, diagnostic(res.Err))
		resp.Status = res.StatusCode
		resp.URL = res.URL
		resp.RequestID = res.RequestID
		resp.ElapsedMS = res.Duration.Milliseconds()
		resp.Content = string(res.Body)
		return resp
	}
	return Response{
		Msg:       string(res.Body),
		Status:    res.StatusCode,
		URL:       res.URL,
		RequestID: res.RequestID,
		ElapsedMS: res.Duration.Milliseconds(),
	}
}

// Write prints the response as a single JSON line.
func (r Response) Write(w io.Writer) error {
	return json.NewEncoder(w).Encode(r)
}

func failure(err error, key string) Response {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Response{
		Failed:    true,
		Msg:       msg,
		Exception: exception(err),
		Failure:   key,
	}
}

func diagnostic(qe *query.Error) string {
	if qe == nil {
		return "internal/unknown"
	}
	return string(qe.Kind) + "/" + qe.Detail
}

// exception renders the error chain, outermost first.
func exception(err error) string {
	var out string
	for i := 0; err != nil; i++ {
		if i > 0 {
			out += "\n"
		}
		out += fmt.Sprintf("%T: %v", err, err)
		err = errors.Unwrap(err)
	}
	return out
}

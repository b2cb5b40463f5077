package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags.
type rootOptions struct {
	logLevel        string
	traceExporter   string
	metricsExporter string
}

// NewRootCmd builds the healthquery command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "healthquery",
		Short: "Query the management health API of database services",
		Long: `healthquery sends a health query to the management API of a database
service and reports the response.

Examples:
  # Query one host
  healthquery run --hostname db1.internal -H 'statuskey: ${STATUS_KEY}'

  # Run as an Ansible binary module
  healthquery module /tmp/args.json

  # Query every host in a sweep file
  healthquery sweep --config sweep.yaml --metrics-textfile /var/lib/node_exporter/healthquery.prom`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.traceExporter, "trace-exporter", "none", "trace exporter (otlp, jaeger, stdout, none)")
	root.PersistentFlags().StringVar(&opts.metricsExporter, "metrics-exporter", "none", "metrics exporter (otlp, prometheus, stdout, none)")

	root.AddCommand(
		newRunCmd(opts),
		newModuleCmd(opts),
		newSweepCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command with a context cancelled on SIGINT or
// SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// silentError marks failures whose details were already written.
type silentError struct {
	error
}

func (e silentError) Unwrap() error { return e.error }

func silent(err error) error {
	return silentError{err}
}

// IsSilent reports whether err was already reported to the user.
func IsSilent(err error) bool {
	var s silentError
	return errors.As(err, &s)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/healthquery/config"
	"github.com/jonwraymond/healthquery/health"
	"github.com/jonwraymond/healthquery/observe"
)

type sweepOptions struct {
	configPath string
	textfile   string
}

func newSweepCmd(root *rootOptions) *cobra.Command {
	opts := &sweepOptions{}

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Query every host of a sweep file and print a JSON report",
		Long: `Query every host listed in a sweep file concurrently and print a JSON
report on stdout. The command exits non-zero unless every host answered.

With --metrics-textfile the query metrics are also written in the
Prometheus text format, for the node exporter textfile collector.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "sweep file (required)")
	cmd.Flags().StringVar(&opts.textfile, "metrics-textfile", "", "write Prometheus metrics to this file")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runSweep(cmd *cobra.Command, root *rootOptions, opts *sweepOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	ro := *root
	if opts.textfile != "" {
		switch ro.metricsExporter {
		case "", "none":
			ro.metricsExporter = "prometheus"
		case "prometheus":
		default:
			return fmt.Errorf("--metrics-textfile needs the prometheus metrics exporter, got %q", ro.metricsExporter)
		}
	}

	ctx := cmd.Context()
	s, err := newSession(ctx, &ro, cmd.ErrOrStderr(), cfg.Secrets)
	if err != nil {
		return err
	}
	defer func() { _ = s.close() }()

	tokens, err := s.tokenSource(ctx, cfg.Auth)
	if err != nil {
		return err
	}

	agg := health.NewAggregator(health.AggregatorConfig{MaxConcurrent: cfg.Concurrency})
	for _, hq := range cfg.Requests() {
		agg.Register(health.NewQueryChecker(hq.Request, s.runner(tokens, hq.ExecutorOptions()...)))
	}

	report, _, err := agg.Sweep(ctx)
	if err != nil {
		return err
	}
	if err := report.WriteJSON(cmd.OutOrStdout()); err != nil {
		return err
	}

	if opts.textfile != "" {
		if err := observe.WriteTextfile(s.registry, opts.textfile); err != nil {
			return err
		}
	}

	s.logger().Info(ctx, "sweep finished",
		observe.Field{Key: "status", Value: report.Status.String()},
		observe.Field{Key: "total", Value: report.Total},
		observe.Field{Key: "failed", Value: report.Failed},
		observe.Field{Key: "failed_hosts", Value: report.FailedHosts()},
	)

	if report.Status != health.StatusHealthy {
		return silent(fmt.Errorf("sweep %s: %d of %d hosts failed", report.Status, report.Failed, report.Total))
	}
	return nil
}

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/healthquery/query"
)

func newVersionCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "healthquery %s (%s, %s/%s)\n", query.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "healthquery %s\n", query.Version)
		},
	}
	cmd.Flags().BoolVar(&verbose, "verbose", false, "show Go version and platform")
	return cmd
}

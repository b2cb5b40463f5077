package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/healthquery/ansible"
	"github.com/jonwraymond/healthquery/query"
)

func newModuleCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "module ARGS_FILE",
		Short: "Run as an Ansible binary module",
		Long: `Read module arguments from ARGS_FILE, run the health query and print
one JSON object on stdout, as Ansible expects from a binary module.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := newSession(ctx, root, cmd.ErrOrStderr(), nil)
			if err != nil {
				resp := ansible.FromResult(query.Failed(&query.Error{Kind: query.KindInternal, Detail: "setup", Cause: err}))
				_ = resp.Write(cmd.OutOrStdout())
				return silent(err)
			}
			defer func() { _ = s.close() }()

			resp := ansible.Execute(ctx, args[0], func(a ansible.Args) (query.RunFunc, error) {
				return s.runner(nil, a.ExecutorOptions()...), nil
			})
			if err := resp.Write(cmd.OutOrStdout()); err != nil {
				return err
			}
			if resp.Failed {
				return silent(errors.New(resp.Msg))
			}
			return nil
		},
	}
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xinjiayu/rxcore/internal/demo"
)

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run [name...]",
		Short: "Run examples",
		Long: `Run the named examples in the order given.

With no names, runs the examples listed in demo.examples, or every
example when that list is empty.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			names := args
			if len(names) == 0 {
				names = cfg.Demo.Examples
			}

			runner := demo.NewRunner(cmd.OutOrStdout(), demo.Options{
				TakeUntilDelay:   cfg.Demo.TakeUntilDelay,
				ReplayBufferSize: cfg.Demo.ReplayBufferSize,
			}, log)
			return runner.Run(cmd.Context(), names...)
		},
	}
}

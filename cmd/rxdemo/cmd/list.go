package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xinjiayu/rxcore/internal/demo"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List example names",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range demo.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

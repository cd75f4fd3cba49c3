package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/courier/internal/build"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the courier version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if short, _ := cmd.Flags().GetBool("short"); short {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), build.Version)
				return
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), build.Info())
		},
	}
	cmd.Flags().Bool("short", false, "Print only the version number")
	return cmd
}

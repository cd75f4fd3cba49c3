package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/courier/internal/app"
	"go.trai.ch/courier/internal/engine/queue"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <queue.json>",
		Short: "Replace local ids with server ids and rewrite the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			report, err := c.app.ResolveQueue(cmd.Context(), app.ResolveOptions{
				ConfigPath: configPath(cmd),
				QueuePath:  args[0],
				OutputPath: output,
			})
			if report != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d resolved, %d failed, %d rejected, %d duplicate\n",
					report.Count(queue.StatusResolved),
					report.Count(queue.StatusFailed),
					report.Count(queue.StatusRejected),
					report.Count(queue.StatusDuplicate))
			}
			return err
		},
	}
	cmd.Flags().StringP("output", "o", "", "Write the rewritten queue here instead of in place")
	return cmd
}

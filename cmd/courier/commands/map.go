package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newMapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "map <localId> <objectId>",
		Short: "Record the server id assigned to a local id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.MapLocalID(cmd.Context(), configPath(cmd), args[0], args[1])
		},
	}
}

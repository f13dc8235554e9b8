package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"ge-lookup/internal/app"
)

var showCmd = &cobra.Command{
	Use:   "show <item-id>",
	Short: "Display the merged record of one item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}

		opts := app.ShowOptions{
			ID: id,
		}
		return getApp().Show(cmd.Context(), opts)
	},
}

package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"ge-lookup/internal/app"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog and print the ranked matches",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.SearchOptions{
			Query: strings.Join(args, " "),
		}
		return getApp().Search(cmd.Context(), opts)
	},
}

package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"ge-lookup/internal/catalog"
)

// Search performs a one-shot catalog fetch and prints the ranked matches.
func (a *App) Search(ctx context.Context, opts SearchOptions) error {
	mapping, _, _ := a.newProviders()

	entries, err := mapping.FetchCatalog(ctx)
	if err != nil {
		return fmt.Errorf("fetch catalog: %w", err)
	}
	snap := catalog.NewSnapshot(entries)

	matches := a.newEngine().Search(opts.Query, snap.Entries())
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "no matches")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tName\tMembers\tStore value")
	for _, e := range matches {
		fmt.Fprintf(writer, "%d\t%s\t%t\t%d\n", e.ID, e.Name, e.Members, e.StoreValue)
	}
	return writer.Flush()
}

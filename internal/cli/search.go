package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the wardrobe catalog",
	Long: `Search the wardrobe catalog by text.

The query matches name, category, color, material, style, occasion,
climate and pattern on the service side. An empty query lists everything
up to the configured limit (WARDROBE_SEARCH_LIMIT).

Examples:
  wardrobe search "azul"
  wardrobe search saia jeans
  wardrobe search`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	ctx := context.Background()

	store := newStore()
	if err := store.Search(ctx, query); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	items := store.Catalog()
	if len(items) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}

	fmt.Fprintf(out, "Found %d results:\n\n", len(items))
	printGarments(out, items)
	return nil
}

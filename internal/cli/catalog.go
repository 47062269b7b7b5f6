package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the whole wardrobe catalog",
	Long: `List the whole wardrobe catalog.

Falls back to an empty search when the service cannot list the catalog.

Examples:
  wardrobe catalog
  wardrobe catalog -v`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func runCatalog(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store := newStore()
	if err := store.RefreshCatalog(ctx); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	items := store.Catalog()
	if len(items) == 0 {
		fmt.Fprintln(out, "The wardrobe is empty.")
		return nil
	}

	fmt.Fprintf(out, "Catalog (%d):\n\n", len(items))
	printGarments(out, items)
	return nil
}

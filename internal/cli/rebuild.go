package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Regenerate the recommendation graph",
	Long: `Ask the service to rebuild its similarity graph from the current catalog.

Run this after bulk changes to the catalog (e.g. after 'wardrobe seed').`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

func runRebuild(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	conf, err := newStore().RebuildGraph(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, defaultTheme.successStyle().Render("✓ Graph rebuilt"))
	if verbose {
		for k, v := range conf {
			fmt.Fprintf(out, "  %s: %v\n", k, v)
		}
	}
	return nil
}

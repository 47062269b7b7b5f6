package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/raphaelgruber/wardrobe-go/internal/look"
	"github.com/raphaelgruber/wardrobe-go/internal/models"
	"github.com/spf13/cobra"
)

var (
	suggestThreshold   float64
	suggestTopK        int
	suggestConstraints map[string]string
	suggestResolve     bool

	completeTargets []string
	completeResolve bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <item>...",
	Short: "Suggest complementary pieces for a look",
	Long: `Suggest pieces that complement a look.

Each argument is a catalog item id or name. Suggestions scoring below the
threshold are dropped by the service.
Use --resolve to fetch the full attributes of every suggestion.

Examples:
  wardrobe suggest "saia azul"
  wardrobe suggest "saia azul" "blusa branca algodao" --threshold 0.3
  wardrobe suggest "saia azul" --constraint ocasion=casual --constraint clima=quente`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSuggest,
}

var completeCmd = &cobra.Command{
	Use:   "complete <item>...",
	Short: "Complete a look with the best piece per target category",
	Long: `Complete a look with the best piece for each target category.

Each argument is a catalog item id or name; --target is repeatable and must
be a known category (see 'wardrobe vocab').

Examples:
  wardrobe complete "saia azul" -t sapato -t bolsa
  wardrobe complete "saia azul" "blusa branca algodao" --target acessorio`,
	Args: cobra.MinimumNArgs(1),
	RunE: runComplete,
}

func init() {
	suggestCmd.Flags().Float64Var(&suggestThreshold, "threshold", -1, "minimum score in [0,1] (default WARDROBE_THRESHOLD)")
	suggestCmd.Flags().IntVarP(&suggestTopK, "top-k", "k", 0, "max results (default WARDROBE_SUGGEST_TOP_K)")
	suggestCmd.Flags().StringToStringVar(&suggestConstraints, "constraint", nil, "attribute constraint, e.g. ocasion=casual")
	suggestCmd.Flags().BoolVar(&suggestResolve, "resolve", false, "resolve each suggestion to its full catalog record")

	completeCmd.Flags().StringSliceVarP(&completeTargets, "target", "t", nil, "target category (repeatable)")
	completeCmd.Flags().BoolVar(&completeResolve, "resolve", false, "resolve each candidate to its full catalog record")
}

// buildLook refreshes the catalog and adds the referenced items to the look.
func buildLook(ctx context.Context, store *look.Store, refs []string) error {
	if err := store.RefreshCatalog(ctx); err != nil {
		return err
	}
	for _, ref := range refs {
		g, ok := store.FindInCatalog(ref)
		if !ok {
			return fmt.Errorf("item not in catalog: %s", ref)
		}
		if !store.AddToLook(g) {
			logger.Debug("item already in look", "ref", ref)
		}
	}
	return nil
}

func runSuggest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	if suggestTopK > 0 {
		cfg.SuggestTopK = suggestTopK
	}
	store := newStore()
	if suggestThreshold >= 0 {
		store.SetThreshold(suggestThreshold)
	}
	for k, v := range suggestConstraints {
		store.SetConstraint(k, v)
	}

	if err := buildLook(ctx, store, args); err != nil {
		return err
	}

	block, err := store.Suggest(ctx)
	if err != nil {
		return err
	}

	printSuggestions(out, block.Suggestions)
	if suggestResolve {
		resolveAll(ctx, out, store, block.Suggestions)
	}
	return nil
}

func runComplete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	store := newStore()
	for _, t := range completeTargets {
		if _, err := store.AddTarget(t); err != nil {
			return err
		}
	}

	if err := buildLook(ctx, store, args); err != nil {
		return err
	}

	block, err := store.Complete(ctx)
	if err != nil {
		return err
	}

	printCompletion(out, block.Completion)
	if completeResolve {
		var candidates []models.ScoredItem
		for _, cat := range block.Completion.Categories() {
			if best, ok := block.Completion.Best(cat); ok && store.CanAddCompletion(cat, best) {
				candidates = append(candidates, best)
			}
		}
		resolveAll(ctx, out, store, candidates)
	}
	return nil
}

// resolveAll prints the full record behind each recommendation.
func resolveAll(ctx context.Context, w io.Writer, store *look.Store, items []models.ScoredItem) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, item := range items {
		res, err := store.AddFromResult(ctx, item)
		if errors.Is(err, look.ErrUnresolved) {
			fmt.Fprintf(w, "%s %s\n", defaultTheme.errorStyle().Render("✗"), formatScored(item))
			continue
		}
		if err != nil {
			fmt.Fprintf(w, "%s %s: %v\n", defaultTheme.errorStyle().Render("✗"), formatScored(item), err)
			continue
		}
		fmt.Fprintf(w, "%s %s\n", defaultTheme.successStyle().Render("✓"), formatGarment(res.Garment))
		fmt.Fprintf(w, "  %s\n", formatAttributes(res.Garment))
		if verbose {
			fmt.Fprintf(w, "  resolved via %s\n", res.Strategy)
		}
	}
}

package cli

import (
	"context"
	"fmt"

	"github.com/raphaelgruber/wardrobe-go/internal/look"
	"github.com/raphaelgruber/wardrobe-go/internal/models"
	"github.com/spf13/cobra"
)

var addForm look.ManualForm

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a garment to the wardrobe catalog",
	Long: `Add a garment to the wardrobe catalog.

Name, category and color are required. Optional attributes left blank are
not sent, so the service stores them as absent.
Run 'wardrobe vocab' to see the suggested values.

Examples:
  wardrobe add --name "saia azul" --category saia --color azul
  wardrobe add -n "bolsa marrom" -c bolsa --color marrom --material couro --style classico`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addForm.Name, "name", "n", "", "garment name (required)")
	addCmd.Flags().StringVarP(&addForm.Category, "category", "c", "", "category (required)")
	addCmd.Flags().StringVar(&addForm.Color, "color", "", "color (required)")
	addCmd.Flags().StringVar(&addForm.Pattern, "pattern", "", "pattern")
	addCmd.Flags().StringVar(&addForm.Material, "material", "", "material")
	addCmd.Flags().StringVar(&addForm.Style, "style", "", "style")
	addCmd.Flags().StringVar(&addForm.Occasion, "occasion", "", "occasion")
	addCmd.Flags().StringVar(&addForm.Climate, "climate", "", "climate")
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	if cat := models.Fold(addForm.Category); cat != "" && !models.IsCategory(cat) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %q is not a known category\n", addForm.Category)
	}

	store := newStore()
	store.SetForm(addForm)

	saved, err := store.SaveManual(ctx)
	if saved == nil {
		return err
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}

	fmt.Fprintf(out, "Saved: %s (%s)\n", saved.Name, orDash(saved.ItemID))
	if verbose {
		fmt.Fprintf(out, "  %s\n", formatAttributes(*saved))
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/raphaelgruber/wardrobe-go/internal/models"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	exportCategories []string
	exportWithIDs    bool
)

var exportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export the catalog to a YAML seed file",
	Long: `Export the catalog to a YAML file for backup or migration.

The file uses the same format as 'wardrobe seed', so an export can be loaded
into another service. Identifiers are dropped unless --with-ids is set.

Examples:
  wardrobe export ./backup/catalog.yaml
  wardrobe export shoes.yaml --category sapato
  wardrobe export catalog.yaml --with-ids`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringSliceVarP(&exportCategories, "category", "c", nil, "export only these categories")
	exportCmd.Flags().BoolVar(&exportWithIDs, "with-ids", false, "keep item identifiers")
}

// selectExport filters and prepares catalog items for a seed file.
func selectExport(items []models.Garment, categories []string, withIDs bool) []models.Garment {
	wanted := lo.Map(categories, func(c string, _ int) string { return models.Fold(c) })
	if len(wanted) > 0 {
		items = lo.Filter(items, func(g models.Garment, _ int) bool {
			return lo.Contains(wanted, models.Fold(g.Category))
		})
	}
	return lo.Map(items, func(g models.Garment, _ int) models.Garment {
		g = g.Normalized()
		if !withIDs {
			g.ItemID = ""
		}
		return g
	})
}

// writeSeedFile writes garments as a YAML list, creating parent directories.
func writeSeedFile(path string, items []models.Garment) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}
	data, err := yaml.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	exportPath := args[0]
	ctx := context.Background()
	out := cmd.OutOrStdout()

	items, err := apiClient.ListCatalog(ctx)
	if err != nil {
		return fmt.Errorf("list catalog: %w", err)
	}

	items = selectExport(items, exportCategories, exportWithIDs)
	if len(items) == 0 {
		fmt.Fprintln(out, "No items to export.")
		return nil
	}

	if err := writeSeedFile(exportPath, items); err != nil {
		return err
	}
	fmt.Fprintf(out, "Exported %d items to %s\n", len(items), exportPath)
	return nil
}

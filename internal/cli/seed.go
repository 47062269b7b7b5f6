package cli

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/raphaelgruber/wardrobe-go/internal/models"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var (
	seedConcurrency int
	seedExample     bool
	seedRebuild     bool
)

// exampleGarment is posted by 'wardrobe seed --example'.
var exampleGarment = models.Garment{
	Name:     "blusa branca algodao exemplo",
	Category: "blusa",
	Color:    "branco",
	Pattern:  models.Optional("liso"),
	Material: models.Optional("algodao"),
	Style:    models.Optional("classico"),
	Occasion: models.Optional("casual"),
	Climate:  models.Optional("quente"),
}

var seedCmd = &cobra.Command{
	Use:   "seed [file.yaml]",
	Short: "Load garments from a YAML file into the catalog",
	Long: `Load garments from a YAML file into the catalog.

The file is a list of garments using the service field names:

  - nome: saia azul
    categoria: saia
    cor: azul
    material: algodao

Entries with an item_id update that item on the service. Blank optional
attributes are dropped before upload.

Examples:
  wardrobe seed catalog.yaml
  wardrobe seed catalog.yaml --concurrency 8 --rebuild
  wardrobe seed --example`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedConcurrency, "concurrency", 4, "parallel uploads")
	seedCmd.Flags().BoolVar(&seedExample, "example", false, "upload the built-in example garment")
	seedCmd.Flags().BoolVar(&seedRebuild, "rebuild", false, "rebuild the graph after uploading")
}

// loadSeedFile reads a YAML list of garments.
func loadSeedFile(path string) ([]models.Garment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var items []models.Garment
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return items, nil
}

// seedResult summarizes an upload.
type seedResult struct {
	Created int64
	Errors  []string
}

// uploadGarments creates every valid garment with bounded concurrency.
// Invalid entries and failed uploads are reported, not fatal.
func uploadGarments(ctx context.Context, items []models.Garment, concurrency int) seedResult {
	var created atomic.Int64
	errs := make([]string, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for i, item := range items {
		if !models.IsValid(item) {
			errs[i] = fmt.Sprintf("entry %d: name, category and color are required", i+1)
			continue
		}
		g.Go(func() error {
			if _, err := apiClient.CreateItem(ctx, item.Normalized()); err != nil {
				errs[i] = fmt.Sprintf("%s: %v", item.Name, err)
				return nil
			}
			created.Add(1)
			logger.Debug("seeded item", "name", item.Name)
			return nil
		})
	}
	_ = g.Wait()

	res := seedResult{Created: created.Load()}
	for _, e := range errs {
		if e != "" {
			res.Errors = append(res.Errors, e)
		}
	}
	return res
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	var items []models.Garment
	switch {
	case seedExample:
		items = []models.Garment{exampleGarment}
	case len(args) == 1:
		var err error
		items, err = loadSeedFile(args[0])
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("a seed file or --example is required")
	}

	res := uploadGarments(ctx, items, seedConcurrency)
	fmt.Fprintf(out, "Seeded %d of %d items.\n", res.Created, len(items))
	if len(res.Errors) > 0 {
		fmt.Fprintln(out, defaultTheme.errorStyle().Render(fmt.Sprintf("Warnings (%d):", len(res.Errors))))
		for _, e := range res.Errors {
			fmt.Fprintf(out, "  • %s\n", e)
		}
	}

	if seedRebuild && res.Created > 0 {
		if _, err := apiClient.RebuildGraph(ctx); err != nil {
			return fmt.Errorf("rebuild graph: %w", err)
		}
		fmt.Fprintln(out, "Graph rebuilt.")
	}
	return nil
}

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/raphaelgruber/wardrobe-go/internal/client"
	"github.com/raphaelgruber/wardrobe-go/internal/look"
	"github.com/raphaelgruber/wardrobe-go/internal/models"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	deleteForce bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete <item-id|name>",
	Short: "Delete a garment from the wardrobe catalog",
	Long: `Delete a garment from the wardrobe catalog.

The garment is looked up by id first, then by name in the catalog.
Requires confirmation unless --force is used.

Examples:
  wardrobe delete 42
  wardrobe delete "saia azul" --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	ref := args[0]
	ctx := context.Background()
	out := cmd.OutOrStdout()

	store := newStore()
	garment, err := findGarment(ctx, store, ref)
	if err != nil {
		return err
	}

	if !deleteForce && !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("refusing to delete %q without --force on non-interactive input", garment.Name)
	}

	confirm := func(g models.Garment) bool {
		if deleteForce {
			return true
		}
		return confirmPrompt(cmd, fmt.Sprintf("Remove %q from the wardrobe?", g.Name))
	}

	err = store.DeleteFromCatalog(ctx, garment, confirm)
	if errors.Is(err, look.ErrCancelled) {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Deleted: %s\n", garment.Name)
	return nil
}

// findGarment resolves a reference by id on the service, then by name in
// the catalog.
func findGarment(ctx context.Context, store *look.Store, ref string) (models.Garment, error) {
	item, err := apiClient.GetItem(ctx, ref)
	if err == nil && models.IsValid(item) {
		return *item, nil
	}
	if err != nil {
		// 404 is the normal outcome for a name reference
		if apiErr, ok := client.AsAPIError(err); !ok || apiErr.StatusCode != http.StatusNotFound {
			logger.Debug("get by id failed, trying catalog by name", "ref", ref, "error", err)
		}
	}

	if err := store.RefreshCatalog(ctx); err != nil {
		return models.Garment{}, err
	}
	g, ok := store.FindInCatalog(ref)
	if !ok {
		return models.Garment{}, fmt.Errorf("item not found: %s", ref)
	}
	return g, nil
}

// confirmPrompt asks a y/N question on the command's input.
func confirmPrompt(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)

	reader := bufio.NewReader(cmd.InOrStdin())
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

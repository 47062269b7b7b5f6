package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <item-id>",
	Short: "Show one catalog item",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	item, err := apiClient.GetItem(ctx, args[0])
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}

	printGarmentDetail(cmd.OutOrStdout(), *item)
	return nil
}

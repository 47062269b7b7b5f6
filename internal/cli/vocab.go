package cli

import (
	"fmt"
	"strings"

	"github.com/raphaelgruber/wardrobe-go/internal/models"
	"github.com/spf13/cobra"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "List the advisory attribute vocabularies",
	Long: `List the values offered for each garment attribute.

Only categories are enforced, and only for completion targets; the service
accepts any non-empty value for the other attributes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, v := range models.Vocabularies() {
			fmt.Fprintf(out, "%-9s %s\n", v.Name+":", strings.Join(v.Values, ", "))
		}
		return nil
	},
}

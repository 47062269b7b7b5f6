package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/raphaelgruber/wardrobe-go/internal/metrics"
	"github.com/raphaelgruber/wardrobe-go/internal/models"
)

// dash renders an absent attribute.
const dash = "-"

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return dash
	}
	return s
}

// formatGarment renders "name (category)".
func formatGarment(g models.Garment) string {
	return fmt.Sprintf("%s (%s)", orDash(g.Name), orDash(g.Category))
}

// formatAttributes renders the descriptive attributes on one line.
func formatAttributes(g models.Garment) string {
	return fmt.Sprintf("cor: %s | material: %s | estilo: %s | ocasion: %s",
		orDash(g.Color),
		orDash(models.Value(g.Material)),
		orDash(models.Value(g.Style)),
		orDash(models.Value(g.Occasion)))
}

func printGarments(w io.Writer, items []models.Garment) {
	for i, g := range items {
		fmt.Fprintf(w, "%d. %s\n", i+1, formatGarment(g))
		fmt.Fprintf(w, "   %s\n", formatAttributes(g))
		if verbose {
			fmt.Fprintf(w, "   id: %s\n", orDash(g.ItemID))
		}
	}
}

func printGarmentDetail(w io.Writer, g models.Garment) {
	fmt.Fprintf(w, "%s\n", formatGarment(g))
	fmt.Fprintf(w, "  id:       %s\n", orDash(g.ItemID))
	fmt.Fprintf(w, "  cor:      %s\n", orDash(g.Color))
	fmt.Fprintf(w, "  padrao:   %s\n", orDash(models.Value(g.Pattern)))
	fmt.Fprintf(w, "  material: %s\n", orDash(models.Value(g.Material)))
	fmt.Fprintf(w, "  estilo:   %s\n", orDash(models.Value(g.Style)))
	fmt.Fprintf(w, "  ocasion:  %s\n", orDash(models.Value(g.Occasion)))
	fmt.Fprintf(w, "  clima:    %s\n", orDash(models.Value(g.Climate)))
}

// formatScored renders "name (category) score: 0.80".
func formatScored(item models.ScoredItem) string {
	return fmt.Sprintf("%s (%s) score: %.2f", orDash(item.Name), orDash(item.Category), item.Score)
}

func printSuggestions(w io.Writer, items []models.ScoredItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No suggestions at the current threshold.")
		return
	}
	fmt.Fprintf(w, "Suggestions (%d):\n\n", len(items))
	for i, item := range items {
		fmt.Fprintf(w, "%d. %s\n", i+1, formatScored(item))
		if len(item.Rationale) > 0 {
			fmt.Fprintf(w, "   %s\n", strings.Join(item.Rationale, "; "))
		}
	}
}

func printCompletion(w io.Writer, c *models.Completion) {
	if c == nil {
		return
	}
	cats := c.Categories()
	if len(cats) > 0 {
		fmt.Fprintln(w, "Completion:")
		fmt.Fprintln(w)
	}
	for _, cat := range cats {
		best, ok := c.Best(cat)
		if !ok {
			fmt.Fprintf(w, "- %s: %s\n", cat, dash)
			continue
		}
		fmt.Fprintf(w, "- %s: %s score: %.2f\n", cat, orDash(best.Name), best.Score)
	}
	if len(c.Missing) > 0 {
		fmt.Fprintf(w, "\nNo items found for: %s.\n", strings.Join(c.Missing, ", "))
	}
	if c.Message != "" && verbose {
		fmt.Fprintf(w, "%s\n", c.Message)
	}
}

func printStats(w io.Writer, snap metrics.Snapshot) {
	if len(snap.Operations) == 0 {
		return
	}
	fmt.Fprintf(w, "\nService calls (%d):\n", snap.Total())
	for _, op := range snap.Operations {
		fmt.Fprintf(w, "  %-24s count=%d failed=%d avg=%.0fms max=%dms\n",
			op.Operation, op.Count, op.Failures, op.AvgTimeMs, op.MaxTimeMs)
	}
}

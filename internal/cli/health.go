package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	healthWait     bool
	healthTries    int
	healthInterval time.Duration
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the recommendation service is up",
	Long: `Check that the recommendation service is up.

With --wait, polls until the service answers or the tries run out; useful
before seeding a freshly started service.

Examples:
  wardrobe health
  wardrobe health --wait --tries 20 --interval 2s`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

func init() {
	healthCmd.Flags().BoolVar(&healthWait, "wait", false, "wait for the service to come up")
	healthCmd.Flags().IntVar(&healthTries, "tries", 20, "attempts when waiting")
	healthCmd.Flags().DurationVar(&healthInterval, "interval", 2*time.Second, "delay between attempts")
}

// waitHealthy polls the health endpoint until it answers or tries run out.
func waitHealthy(ctx context.Context, tries int, interval time.Duration, onRetry func(attempt int, err error)) (string, error) {
	tries = max(tries, 1)
	var lastErr error
	for attempt := 1; attempt <= tries; attempt++ {
		status, err := apiClient.Health(ctx)
		if err == nil {
			return status, nil
		}
		lastErr = err
		if attempt == tries {
			break
		}
		if onRetry != nil {
			onRetry(attempt, err)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(interval):
		}
	}
	return "", fmt.Errorf("service not reachable after %d attempts: %w", tries, lastErr)
}

func runHealth(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	tries := 1
	if healthWait {
		tries = healthTries
	}

	status, err := waitHealthy(ctx, tries, healthInterval, func(attempt int, err error) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Waiting for service... (%d/%d)\n", attempt, tries)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %s (%s)\n", defaultTheme.successStyle().Render("✓"), apiClient.BaseAddress(), status)
	return nil
}

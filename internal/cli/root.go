// Package cli provides the command-line interface for wardrobe.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/raphaelgruber/wardrobe-go/internal/client"
	"github.com/raphaelgruber/wardrobe-go/internal/config"
	"github.com/raphaelgruber/wardrobe-go/internal/look"
	"github.com/raphaelgruber/wardrobe-go/internal/metrics"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool
	apiURL  string

	// Global config, logger and service client
	cfg       config.Config
	logger    *slog.Logger
	logCloser func() error
	stats     *metrics.Collector
	apiClient *client.Client
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "wardrobe",
	Short: "Look builder for the outfit recommendation service",
	Long: `Wardrobe browses a clothing catalog, assembles looks and asks the
recommendation service for complementary or missing pieces.

Use 'wardrobe studio' for the interactive look builder; the other commands
are one-shot operations against the service.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip service setup for commands that never call it
		if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "vocab" {
			return nil
		}

		// Load config
		cfg = config.Load()
		if apiURL != "" {
			cfg.APIURL = apiURL
		}
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}

		// The studio owns the terminal: log to file only
		var console io.Writer = os.Stderr
		if cmd.Name() == studioName {
			console = nil
		}
		logger, logCloser = config.SetupLogger(console, cfg.LogFile, cfg.LogLevel)
		slog.SetDefault(logger)

		stats = metrics.NewCollector()
		apiClient = client.New(client.Options{
			BaseAddress: cfg.APIURL,
			Timeout:     cfg.ClientTimeout,
			Logger:      logger,
			Metrics:     stats,
		})
		logger.Debug("service client ready", "api_url", apiClient.BaseAddress())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if verbose && stats != nil && cmd.Name() != studioName {
			printStats(cmd.ErrOrStderr(), stats.Snapshot())
		}
		if logCloser != nil {
			if err := logCloser(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// newStore creates a session store wired to the service client.
func newStore() *look.Store {
	return look.NewStore(apiClient, look.Options{
		SearchLimit: cfg.SearchLimit,
		TopK:        cfg.SuggestTopK,
		Threshold:   cfg.Threshold,
		Logger:      logger,
	})
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "recommendation service address (overrides WARDROBE_API_URL)")

	// Add subcommands
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(rebuildCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(vocabCmd)
	rootCmd.AddCommand(studioCmd)
}

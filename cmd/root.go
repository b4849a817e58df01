// Package cmd implements the CLI commands for astropipe using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/astropipe/config"
	"github.com/gaurav-prasanna/astropipe/logging"
)

var (
	// Global flags
	flagConfig  string
	flagVerbose bool

	cfg    *config.Config
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "astropipe",
	Short: "astropipe - render astrology narratives into dashboard blocks",
	Long: `astropipe turns the marker-delimited narrative text produced by an
astrology model into typed dashboard blocks (verdict pill, key alignments,
narrative, timeline, remedy) and exports them as JSON, HTML, Markdown or PDF.

It also repairs third-party chart embeds that point at a retired host.

Usage:
  astropipe render <file|-> [flags]
  astropipe fix-embed <file|url|-> [flags]`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}
		if flagVerbose {
			cfg.Logging.Level = "debug"
		}
		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Mode)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "astropipe.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

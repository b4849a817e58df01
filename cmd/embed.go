// Package cmd — fix-embed command.
// Repairs chart embed markup: fetch or read → extract → check or fix →
// sandbox → write.
package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/astropipe/core/embed"
	"github.com/gaurav-prasanna/astropipe/core/extract"
	"github.com/gaurav-prasanna/astropipe/core/fetch"
	"github.com/gaurav-prasanna/astropipe/core/output"
)

// fixedExt keeps fixed output from overwriting an .html input.
const fixedExt = ".fixed.html"

// errEmbedProblems is returned by --check when a fix is needed.
var errEmbedProblems = errors.New("embed needs fixing")

var (
	flagExtract        bool
	flagSandbox        bool
	flagCheck          bool
	flagEmbedOutputDir string
	flagEmbedStdout    bool
)

var fixEmbedCmd = &cobra.Command{
	Use:   "fix-embed <file|url|->",
	Short: "Repair a chart embed that points at a retired host",
	Long: `fix-embed rewrites the deprecated chart host to the canonical one, restores
the '/' before the API path and collapses doubled slashes in src attributes.
Running it on already fixed markup changes nothing.

Examples:
  astropipe fix-embed chart.html --stdout
  astropipe fix-embed https://example.com/chart --extract --sandbox
  astropipe fix-embed chart.html --check`,
	Args: cobra.ExactArgs(1),
	RunE: runFixEmbed,
}

func init() {
	rootCmd.AddCommand(fixEmbedCmd)

	fixEmbedCmd.Flags().BoolVar(&flagExtract, "extract", false, "Extract the chart from a full HTML page first")
	fixEmbedCmd.Flags().BoolVar(&flagSandbox, "sandbox", false, "Wrap the fixed embed in a sandboxed iframe")
	fixEmbedCmd.Flags().BoolVar(&flagCheck, "check", false, "Report problems without writing; fails if any are found")
	fixEmbedCmd.Flags().StringVar(&flagEmbedOutputDir, "output_dir", "", "Output directory (default: current directory)")
	fixEmbedCmd.Flags().BoolVar(&flagEmbedStdout, "stdout", false, "Write to stdout instead of a file")
}

func runFixEmbed(cmd *cobra.Command, args []string) error {
	source := args[0]

	normalizer, err := cfg.NewEmbedNormalizer()
	if err != nil {
		return err
	}

	markup, err := loadEmbed(cmd, source)
	if err != nil {
		return err
	}

	if flagExtract {
		markup, err = extract.New().Extract(markup)
		if err != nil {
			return fmt.Errorf("extract: %w", err)
		}
	}

	if flagCheck {
		findings := normalizer.Inspect(markup)
		for _, f := range findings {
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}
		if len(findings) > 0 {
			return fmt.Errorf("%w: %d problem(s) in %s", errEmbedProblems, len(findings), source)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is clean\n", source)
		return nil
	}

	fixed := normalizer.Fix(markup)
	if fixed != markup {
		logger.Debug("embed fixed", "source", source)
	}
	if flagSandbox {
		fixed = embed.Sandbox(fixed, embed.SandboxOptions{})
	}

	if flagEmbedStdout {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), fixed)
		return err
	}

	writer, err := output.New(flagEmbedOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}
	path, err := writer.Write(source, []byte(fixed), fixedExt)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s\n", path)
	return nil
}

// loadEmbed fetches a URL or reads a file or stdin.
func loadEmbed(cmd *cobra.Command, source string) (string, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return readSource(cmd.InOrStdin(), source)
	}
	result, err := fetch.New().Fetch(cmd.Context(), source)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	return result.HTML, nil
}

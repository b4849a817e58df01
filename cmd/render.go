// Package cmd — render command.
// This is the main command that orchestrates the pipeline:
// read → segment → parse → render → write.
//
// It handles flag validation, renderer selection, and --watch mode.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/astropipe/core"
	"github.com/gaurav-prasanna/astropipe/core/output"
	"github.com/gaurav-prasanna/astropipe/core/pipeline"
	"github.com/gaurav-prasanna/astropipe/core/render"
	"github.com/gaurav-prasanna/astropipe/watch"
)

// Flag variables.
var (
	flagJSON      bool
	flagHTML      bool
	flagMarkdown  bool
	flagPDF       bool
	flagTitle     string
	flagPolicy    string
	flagOutputDir string
	flagStdout    bool
	flagWatch     bool
)

var renderCmd = &cobra.Command{
	Use:   "render <file|->",
	Short: "Render a narrative into the specified output format",
	Long: `Render reads a narrative (a file, or stdin with "-"), splits it at its
section markers, parses each section into a block and writes the document in
the specified output format (JSON, HTML, Markdown, or PDF).

Examples:
  astropipe render reading.md --json
  astropipe render reading.md --html --output_dir ./out
  cat reading.md | astropipe render - --markdown --stdout
  astropipe render reading.md --pdf --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	// Output format flags (mutually exclusive).
	renderCmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")
	renderCmd.Flags().BoolVar(&flagHTML, "html", false, "Output a standalone HTML page")
	renderCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown")
	renderCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output PDF")

	renderCmd.Flags().StringVar(&flagTitle, "title", "", "Document title (default: first narrative title)")
	renderCmd.Flags().StringVar(&flagPolicy, "plain_text_policy", "", "Override the config policy for text without markers: narrative or drop")
	renderCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
	renderCmd.Flags().BoolVar(&flagStdout, "stdout", false, "Write to stdout instead of a file")
	renderCmd.Flags().BoolVar(&flagWatch, "watch", false, "Re-render whenever the input file changes")
}

func runRender(cmd *cobra.Command, args []string) error {
	source := args[0]

	if err := validateFlags(source); err != nil {
		return err
	}

	renderer, err := selectRenderer()
	if err != nil {
		return err
	}

	opts := []pipeline.Option{pipeline.WithLogger(logger)}
	if flagPolicy != "" {
		policy, err := pipeline.ParsePolicy(flagPolicy)
		if err != nil {
			return err
		}
		opts = append(opts, pipeline.WithPlainTextPolicy(policy))
	}
	p, err := cfg.NewPipeline(opts...)
	if err != nil {
		return err
	}

	var writer *output.Writer
	if !flagStdout {
		writer, err = output.New(flagOutputDir)
		if err != nil {
			return fmt.Errorf("initializing output writer: %w", err)
		}
	}

	if err := renderSource(cmd, source, p, renderer, writer); err != nil {
		return err
	}
	if !flagWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return watchSource(ctx, cmd, source, p, renderer, writer)
}

// renderSource runs one input through the pipeline and writes the result.
func renderSource(cmd *cobra.Command, source string, p *pipeline.Pipeline, renderer core.Renderer, writer *output.Writer) error {
	raw, err := readSource(cmd.InOrStdin(), source)
	if err != nil {
		return err
	}

	doc := p.Render(raw)
	meta := buildMetadata(source, doc)

	data, err := renderer.Render(doc, meta)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if writer == nil {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	path, err := writer.Write(source, data, renderer.Extension())
	if err != nil {
		return err
	}
	logger.Info("rendered", "source", source, "blocks", meta.BlockCount, "path", path)
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s\n", path)
	return nil
}

// watchSource re-renders source on every change until ctx is done.
// Render errors are logged and the watch continues.
func watchSource(ctx context.Context, cmd *cobra.Command, source string, p *pipeline.Pipeline, renderer core.Renderer, writer *output.Writer) error {
	w, err := watch.New(logger, watch.DefaultDebounce)
	if err != nil {
		return err
	}
	defer w.Close()

	changes, err := w.Watch(ctx, source)
	if err != nil {
		return err
	}
	logger.Info("watching", "source", source)

	for range changes {
		if err := renderSource(cmd, source, p, renderer, writer); err != nil {
			logger.Error("re-render failed", "source", source, "error", err)
		}
	}
	return nil
}

// readSource reads a file, or stdin when source is "-".
func readSource(stdin io.Reader, source string) (string, error) {
	var (
		data []byte
		err  error
	)
	if source == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", source, err)
	}
	return string(data), nil
}

// buildMetadata constructs DocumentMeta for a rendered document.
func buildMetadata(source string, doc core.Document) core.DocumentMeta {
	title := flagTitle
	if title == "" {
		for _, b := range doc.Blocks {
			if n, ok := b.(core.NarrativeBlock); ok && n.Title != "" {
				title = n.Title
				break
			}
		}
	}
	if source == "-" {
		source = "stdin"
	}
	return core.DocumentMeta{
		Source:     source,
		Title:      title,
		RenderedAt: time.Now().UTC().Format(time.RFC3339),
		BlockCount: len(doc.Blocks),
	}
}

// validateFlags checks that exactly one output format is chosen and that
// --watch has a file to watch.
func validateFlags(source string) error {
	formatCount := 0
	for _, set := range []bool{flagJSON, flagHTML, flagMarkdown, flagPDF} {
		if set {
			formatCount++
		}
	}

	if formatCount == 0 {
		return fmt.Errorf("exactly one output format is required: --json, --html, --markdown, or --pdf")
	}
	if formatCount > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}

	if flagWatch && source == "-" {
		return fmt.Errorf("--watch needs a file, not stdin")
	}
	return nil
}

// selectRenderer creates the appropriate Renderer based on flags.
func selectRenderer() (core.Renderer, error) {
	switch {
	case flagJSON:
		return render.NewJSONRenderer(), nil
	case flagHTML:
		return render.NewHTMLRenderer(), nil
	case flagMarkdown:
		return render.NewMarkdownRenderer(nil), nil
	case flagPDF:
		return render.NewPDFRenderer(), nil
	default:
		return nil, fmt.Errorf("no output format selected")
	}
}

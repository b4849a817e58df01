// Package render provides output renderers for astropipe documents.
// This file implements the Markdown renderer. Narrative HTML is turned back
// into Markdown by the normalizer so highlight spans do not leak into text.
package render

import (
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/astropipe/core"
	"github.com/gaurav-prasanna/astropipe/core/normalize"
)

// sectionTitles are the headings used for blocks that carry no title.
var sectionTitles = map[core.Kind]string{
	core.KindVerdictPill:     "Verdict",
	core.KindKeyAlignments:   "Key Alignments",
	core.KindCosmicNarrative: "Cosmic Narrative",
	core.KindTimelineJourney: "Timeline Journey",
	core.KindSacredRemedy:    "Sacred Remedy",
}

// blockTitle returns the display heading for b.
func blockTitle(b core.Block) string {
	if n, ok := b.(core.NarrativeBlock); ok && n.Title != "" {
		return n.Title
	}
	return sectionTitles[b.BlockKind()]
}

// MarkdownRenderer writes a document as plain Markdown.
type MarkdownRenderer struct {
	normalizer core.Normalizer
}

// NewMarkdownRenderer creates a MarkdownRenderer. A nil normalizer uses
// the html-to-markdown one.
func NewMarkdownRenderer(n core.Normalizer) *MarkdownRenderer {
	if n == nil {
		n = normalize.New()
	}
	return &MarkdownRenderer{normalizer: n}
}

// Render converts the document into Markdown.
func (r *MarkdownRenderer) Render(doc core.Document, meta core.DocumentMeta) ([]byte, error) {
	var b strings.Builder

	if meta.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", meta.Title)
	}

	for _, block := range doc.Blocks {
		switch v := block.(type) {
		case core.VerdictPillBlock:
			fmt.Fprintf(&b, "> **[%s]** %s\n\n", strings.ToUpper(string(v.Style)), v.Title)
		case core.KeyAlignmentsBlock:
			fmt.Fprintf(&b, "## %s\n\n", blockTitle(v))
			for _, item := range v.Items {
				fmt.Fprintf(&b, "- **%s**: %s\n", item.Label, item.Value)
			}
			b.WriteString("\n")
		case core.TimelineBlock:
			fmt.Fprintf(&b, "## %s\n\n", blockTitle(v))
			for _, e := range v.Entries {
				fmt.Fprintf(&b, "- **%s**: %s\n", e.Date, e.Description)
			}
			b.WriteString("\n")
		case core.NarrativeBlock:
			md, err := r.normalizer.Normalize(v.HTML)
			if err != nil {
				return nil, fmt.Errorf("normalizing %s: %w", v.Section, err)
			}
			fmt.Fprintf(&b, "## %s\n\n", blockTitle(v))
			if md != "" {
				b.WriteString(md)
				b.WriteString("\n\n")
			}
		default:
			return nil, fmt.Errorf("unsupported block type %T", block)
		}
	}

	return []byte(strings.TrimRight(b.String(), "\n") + "\n"), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

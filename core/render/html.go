// Package render — HTML renderer.
// Produces a standalone dashboard page. Narrative content is rebuilt from
// the node tree, so every piece of model text is escaped on the way out.
package render

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/astropipe/core"
	"github.com/gaurav-prasanna/astropipe/core/format"
)

const pageStyle = `body{font-family:Georgia,serif;max-width:46rem;margin:2rem auto;line-height:1.55;color:#1f1d1a}
.verdict-pill{display:inline-block;padding:.3rem .9rem;border-radius:999px;font-weight:bold;border:1px solid}
.pill-gold{color:#8a6a0c;background:#fdf3d7}.pill-red{color:#9b1c1c;background:#fde2e2}
.pill-blue{color:#1e4f9c;background:#e1ecfb}.pill-neutral{color:#555;background:#eee}
.key-alignments{display:flex;flex-wrap:wrap;gap:.5rem;padding:0;list-style:none}
.key-alignments li{border:1px solid #ccc;border-radius:.4rem;padding:.2rem .6rem}
.timeline{border-left:2px solid #b08410;padding-left:1rem;list-style:none}
.timeline-date{font-weight:bold;margin-right:.5rem}
.narrative-bullet{margin-left:1rem}
.hl-positive{color:#16803d;font-weight:600}.hl-negative{color:#b91c1c;font-weight:600}
.hl-warning{color:#b46e0a;font-weight:600}`

// HTMLRenderer renders a document as a standalone HTML page.
type HTMLRenderer struct{}

// NewHTMLRenderer creates an HTMLRenderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// Render converts the document into an HTML page.
func (r *HTMLRenderer) Render(doc core.Document, meta core.DocumentMeta) ([]byte, error) {
	var b strings.Builder

	title := meta.Title
	if title == "" {
		title = "Reading"
	}
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n<style>\n%s\n</style>\n</head>\n<body>\n", esc(title), pageStyle)
	if meta.Title != "" {
		fmt.Fprintf(&b, "<h1>%s</h1>\n", esc(meta.Title))
	}

	for _, block := range doc.Blocks {
		switch v := block.(type) {
		case core.VerdictPillBlock:
			fmt.Fprintf(&b, "<div class=\"verdict-pill pill-%s\">%s</div>\n", v.Style, esc(v.Title))
		case core.KeyAlignmentsBlock:
			fmt.Fprintf(&b, "<section class=\"%s\">\n<h2>%s</h2>\n<ul class=\"key-alignments\">\n", v.BlockKind(), esc(blockTitle(v)))
			for _, item := range v.Items {
				fmt.Fprintf(&b, "<li><strong>%s</strong> %s</li>\n", esc(item.Label), esc(item.Value))
			}
			b.WriteString("</ul>\n</section>\n")
		case core.TimelineBlock:
			fmt.Fprintf(&b, "<section class=\"%s\">\n<h2>%s</h2>\n<ol class=\"timeline\">\n", v.BlockKind(), esc(blockTitle(v)))
			for _, e := range v.Entries {
				fmt.Fprintf(&b, "<li><span class=\"timeline-date\">%s</span>%s</li>\n", esc(e.Date), esc(e.Description))
			}
			b.WriteString("</ol>\n</section>\n")
		case core.NarrativeBlock:
			fmt.Fprintf(&b, "<section class=\"%s\">\n<h2>%s</h2>\n<div class=\"narrative\">", v.Section, esc(blockTitle(v)))
			writeNodes(&b, v.Nodes)
			b.WriteString("</div>\n</section>\n")
		default:
			return nil, fmt.Errorf("unsupported block type %T", block)
		}
	}

	b.WriteString("</body>\n</html>\n")
	return []byte(b.String()), nil
}

// Extension returns the file extension for HTML output.
func (r *HTMLRenderer) Extension() string {
	return ".html"
}

func esc(s string) string {
	return html.EscapeString(s)
}

// writeNodes serializes a narrative node tree using the formatter's classes.
func writeNodes(b *strings.Builder, nodes []core.Node) {
	for _, n := range nodes {
		switch n.Type {
		case core.NodeText:
			b.WriteString(esc(n.Text))
		case core.NodeBreak:
			b.WriteString(format.ParagraphBreak)
		case core.NodeHeading:
			fmt.Fprintf(b, "<h3 class=\"%s\">", format.HeadingClass)
			writeNodes(b, n.Children)
			b.WriteString("</h3>")
		case core.NodeSubheading:
			fmt.Fprintf(b, "<h4 class=\"%s\">", format.SubheadingClass)
			writeNodes(b, n.Children)
			b.WriteString("</h4>")
		case core.NodeBullet:
			fmt.Fprintf(b, "<div class=\"%s\">%s ", format.BulletClass, format.BulletGlyph)
			writeNodes(b, n.Children)
			b.WriteString("</div>")
		case core.NodeStrong:
			b.WriteString("<strong>")
			writeNodes(b, n.Children)
			b.WriteString("</strong>")
		case core.NodeHighlight:
			fmt.Fprintf(b, "<span class=\"%s\">", n.Category.Class())
			writeNodes(b, n.Children)
			b.WriteString("</span>")
		default:
			writeNodes(b, n.Children)
		}
	}
}

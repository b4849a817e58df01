// Package render — PDF renderer.
// Lays a document out with gofpdf. Narrative blocks are drawn from their
// node trees: headings get larger fonts, bullets are indented and
// highlighted phrases are colored by category.
package render

import (
	"bytes"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/astropipe/core"
)

// rgb is a gofpdf text color.
type rgb struct{ r, g, b int }

var (
	black      = rgb{0, 0, 0}
	grey       = rgb{100, 100, 100}
	pillColors = map[core.PillStyle]rgb{
		core.PillGold:    {176, 132, 16},
		core.PillRed:     {178, 34, 34},
		core.PillBlue:    {30, 80, 160},
		core.PillNeutral: {90, 90, 90},
	}
	categoryColors = map[core.Category]rgb{
		core.CategoryPositive: {22, 128, 61},
		core.CategoryNegative: {185, 28, 28},
		core.CategoryWarning:  {180, 110, 10},
	}
)

const lineHeight = 5.0

// PDFRenderer renders a document as a PDF.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render converts the document into PDF bytes.
func (r *PDFRenderer) Render(doc core.Document, meta core.DocumentMeta) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if meta.Title != "" {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.MultiCell(0, 8, tr(meta.Title), "", "L", false)
		pdf.Ln(4)
	}
	if meta.Source != "" {
		pdf.SetFont("Helvetica", "I", 9)
		setColor(pdf, grey)
		pdf.MultiCell(0, lineHeight, tr("Source: "+meta.Source), "", "L", false)
		setColor(pdf, black)
		pdf.Ln(6)
	}

	for _, block := range doc.Blocks {
		switch v := block.(type) {
		case core.VerdictPillBlock:
			pdf.SetFont("Helvetica", "B", 12)
			setColor(pdf, pillColors[v.Style])
			pdf.MultiCell(0, 7, tr(v.Title), "1", "C", false)
			setColor(pdf, black)
			pdf.Ln(4)
		case core.KeyAlignmentsBlock:
			renderHeading(pdf, tr(blockTitle(v)), 15)
			for _, item := range v.Items {
				pdf.SetFont("Helvetica", "B", 10)
				pdf.Write(lineHeight, tr(item.Label+": "))
				pdf.SetFont("Helvetica", "", 10)
				pdf.Write(lineHeight, tr(item.Value))
				pdf.Ln(lineHeight)
			}
			pdf.Ln(3)
		case core.TimelineBlock:
			renderHeading(pdf, tr(blockTitle(v)), 15)
			for _, e := range v.Entries {
				pdf.SetFont("Helvetica", "B", 10)
				pdf.Write(lineHeight, tr(e.Date+"  "))
				pdf.SetFont("Helvetica", "", 10)
				pdf.Write(lineHeight, tr(e.Description))
				pdf.Ln(lineHeight)
			}
			pdf.Ln(3)
		case core.NarrativeBlock:
			renderHeading(pdf, tr(blockTitle(v)), 15)
			pdf.SetFont("Helvetica", "", 10)
			for _, n := range v.Nodes {
				renderNode(pdf, tr, n, "")
			}
			pdf.Ln(lineHeight + 3)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// renderHeading writes a bold heading of the given size.
func renderHeading(pdf *gofpdf.Fpdf, text string, size float64) {
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, text, "", "L", false)
	pdf.Ln(2)
}

// renderNode writes one narrative node inline. style is the gofpdf font
// style inherited from enclosing strong nodes.
func renderNode(pdf *gofpdf.Fpdf, tr func(string) string, n core.Node, style string) {
	switch n.Type {
	case core.NodeText:
		pdf.SetFont("Helvetica", style, 10)
		pdf.Write(lineHeight, tr(n.Text))
	case core.NodeBreak:
		pdf.Ln(lineHeight * 2)
	case core.NodeHeading, core.NodeSubheading:
		size := 13.0
		if n.Type == core.NodeSubheading {
			size = 11
		}
		pdf.Ln(lineHeight)
		renderHeading(pdf, tr(strings.TrimSpace(n.PlainText())), size)
	case core.NodeBullet:
		pdf.Ln(lineHeight)
		pdf.SetX(pdf.GetX() + 4)
		pdf.SetFont("Helvetica", style, 10)
		pdf.Write(lineHeight, tr("- "))
		for _, c := range n.Children {
			renderNode(pdf, tr, c, style)
		}
		pdf.Ln(lineHeight)
	case core.NodeStrong:
		for _, c := range n.Children {
			renderNode(pdf, tr, c, "B")
		}
	case core.NodeHighlight:
		setColor(pdf, categoryColors[n.Category])
		for _, c := range n.Children {
			renderNode(pdf, tr, c, style)
		}
		setColor(pdf, black)
	default:
		for _, c := range n.Children {
			renderNode(pdf, tr, c, style)
		}
	}
}

func setColor(pdf *gofpdf.Fpdf, c rgb) {
	pdf.SetTextColor(c.r, c.g, c.b)
}

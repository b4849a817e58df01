// Package format implements the markdown-lite to HTML transform used for
// narrative sections.
//
// The transform is a fixed sequence of substitutions and the order matters:
// headers, bold spans and bullets are recognised line by line, so they must
// run before newlines are collapsed or the line structure is gone.
// The output is trusted HTML; source text is not escaped.
package format

import (
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/astropipe/core"
)

// Markup emitted by the formatter. Highlighting and the node tree builder
// key off these class names.
const (
	HeadingClass    = "narrative-heading"
	SubheadingClass = "narrative-subheading"
	BulletClass     = "narrative-bullet"
	BulletGlyph     = "•"
	ParagraphBreak  = "<br /><br />"
)

var (
	// remnantRegex matches a leftover "## MARKER ..." line at the start of a body.
	remnantRegex = regexp.MustCompile(`^\s*##[ \t]*(?:` + markerAlternation() + `)\b[^\n]*\n?`)

	h1Regex     = regexp.MustCompile(`(?m)^# (.+)$`)
	h3Regex     = regexp.MustCompile(`(?m)^### (.+)$`)
	boldRegex   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	bulletRegex = regexp.MustCompile(`(?m)^- (.+)$`)
)

// blockOpeners and blockClosers are the markup fragments inserted by the
// header, bold and bullet steps. A newline touching one of them is kept.
var (
	blockOpeners = []string{"<h3 ", "<h4 ", "<div ", "<strong>"}
	blockClosers = []string{"</h3>", "</h4>", "</div>", "</strong>"}
)

func markerAlternation() string {
	names := make([]string, 0, len(core.RecognizedKinds))
	for _, k := range core.RecognizedKinds {
		names = append(names, k.Marker())
	}
	return strings.Join(names, "|")
}

// InlineFormatter converts markdown-lite narrative text into HTML.
type InlineFormatter struct{}

// New creates an InlineFormatter.
func New() *InlineFormatter {
	return &InlineFormatter{}
}

// Format runs the substitution pipeline over a section body whose marker
// line has already been removed.
func (f *InlineFormatter) Format(body string) string {
	text := strings.ReplaceAll(body, "\r\n", "\n")

	// 1. Strip residual marker remnant.
	text = StripRemnant(text)

	// 2. Headers. Level 2 is left alone; "## " lines are section markers.
	text = FormatHeaders(text)

	// 3. Bold spans.
	text = FormatBold(text)

	// 4. Bullets.
	text = FormatBullets(text)

	// 5. Paragraphs and line joins.
	return CollapseNewlines(text)
}

// StripRemnant removes a marker line left at the start of the body, then
// surrounding whitespace.
func StripRemnant(text string) string {
	text = remnantRegex.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// FormatHeaders converts "# " lines to headings and "### " lines to subheadings.
func FormatHeaders(text string) string {
	text = h1Regex.ReplaceAllString(text, `<h3 class="`+HeadingClass+`">$1</h3>`)
	return h3Regex.ReplaceAllString(text, `<h4 class="`+SubheadingClass+`">$1</h4>`)
}

// FormatBold converts **text** spans on a single line to <strong>.
// An unpaired ** stays literal.
func FormatBold(text string) string {
	return boldRegex.ReplaceAllString(text, "<strong>$1</strong>")
}

// FormatBullets converts "- " lines to bullet items.
func FormatBullets(text string) string {
	return bulletRegex.ReplaceAllString(text, `<div class="`+BulletClass+`">`+BulletGlyph+` $1</div>`)
}

// CollapseNewlines replaces blank-line pairs with a paragraph break and joins
// the remaining single newlines with a space, except where a newline sits
// next to heading, bold or bullet markup.
func CollapseNewlines(text string) string {
	text = strings.ReplaceAll(text, "\n\n", ParagraphBreak)

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '\n' {
			b.WriteByte(c)
			continue
		}
		if touchesBlock(text[:i], text[i+1:]) {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func touchesBlock(before, after string) bool {
	for _, c := range blockClosers {
		if strings.HasSuffix(before, c) {
			return true
		}
	}
	for _, o := range blockOpeners {
		if strings.HasPrefix(after, o) {
			return true
		}
	}
	return false
}

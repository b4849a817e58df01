// Package parse turns classified sections into typed content blocks.
//
// Every section kind has one parse function returning its own block type.
// Parsers are best effort: malformed input lowers field fidelity (neutral
// style, empty value, undated entry) and never produces an error.
package parse

import (
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/astropipe/core"
	"github.com/gaurav-prasanna/astropipe/core/format"
	"github.com/gaurav-prasanna/astropipe/core/highlight"
	"github.com/gaurav-prasanna/astropipe/core/segment"
	"github.com/gaurav-prasanna/astropipe/core/tree"
)

// Parser dispatches sections to the per-kind parse functions.
type Parser struct {
	formatter   core.Formatter
	highlighter core.Highlighter
}

// New creates a Parser. Nil collaborators fall back to the defaults.
func New(formatter core.Formatter, highlighter core.Highlighter) *Parser {
	if formatter == nil {
		formatter = format.New()
	}
	if highlighter == nil {
		highlighter = highlight.NewDefault()
	}
	return &Parser{formatter: formatter, highlighter: highlighter}
}

// Parse builds the block for a section. It reports false for unrecognized
// or empty sections, which contribute no block.
func (p *Parser) Parse(sec core.Section) (core.Block, bool) {
	body := strings.TrimSpace(sec.Body)
	if body == "" {
		return nil, false
	}

	switch sec.Kind {
	case core.KindVerdictPill:
		return VerdictPill(body), true
	case core.KindKeyAlignments:
		return KeyAlignments(body), true
	case core.KindCosmicNarrative, core.KindSacredRemedy:
		return p.Narrative(sec.Kind, body), true
	case core.KindTimelineJourney:
		return Timeline(body), true
	default:
		return nil, false
	}
}

// pillRegex captures an optional [TAG] and the title after the marker.
var pillRegex = regexp.MustCompile(`^##[ \t]+VERDICT_PILL[ \t]*:?[ \t]*(?:\[([^\]\n]*)\][ \t]*)?(.*)$`)

var pillStyles = map[string]core.PillStyle{
	"gold": core.PillGold,
	"red":  core.PillRed,
	"blue": core.PillBlue,
}

// VerdictPill parses a "## VERDICT_PILL: [TAG] Title" section. When the
// marker line has no title, the first non-empty following line is used.
func VerdictPill(body string) core.VerdictPillBlock {
	first, rest := segment.MarkerLine(strings.TrimSpace(body))
	if segment.MarkerTitle(core.KindVerdictPill, first) == "" {
		if line := firstNonEmptyLine(rest); line != "" {
			first = "## " + core.KindVerdictPill.Marker() + ": " + line
		}
	}

	block := core.VerdictPillBlock{Style: core.PillNeutral}
	m := pillRegex.FindStringSubmatch(strings.TrimSpace(first))
	if m == nil {
		block.Title = segment.MarkerTitle(core.KindVerdictPill, first)
		return block
	}
	if style, ok := pillStyles[strings.ToLower(strings.TrimSpace(m[1]))]; ok {
		block.Style = style
	}
	block.Title = strings.TrimSpace(strings.Trim(strings.TrimSpace(m[2]), ":"))
	return block
}

// KeyAlignments parses "- label: value" lines after the marker line.
func KeyAlignments(body string) core.KeyAlignmentsBlock {
	_, rest := segment.MarkerLine(strings.TrimSpace(body))

	block := core.KeyAlignmentsBlock{Items: []core.Alignment{}}
	for _, line := range strings.Split(rest, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "- ") {
			continue
		}
		label, value, _ := strings.Cut(line[2:], ":")
		block.Items = append(block.Items, core.Alignment{
			Label: strings.TrimSpace(strings.ReplaceAll(label, "**", "")),
			Value: strings.TrimSpace(value),
		})
	}
	return block
}

// timelineRegex matches "- **date**: description".
var timelineRegex = regexp.MustCompile(`^- \*\*(.+?)\*\*:\s*(.*)$`)

// Timeline parses dated entries, keeping the narrative's order.
func Timeline(body string) core.TimelineBlock {
	_, rest := segment.MarkerLine(strings.TrimSpace(body))

	block := core.TimelineBlock{Entries: []core.TimelineEntry{}}
	for _, line := range strings.Split(rest, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "- ") {
			continue
		}
		if m := timelineRegex.FindStringSubmatch(line); m != nil {
			block.Entries = append(block.Entries, core.TimelineEntry{
				Date:        strings.TrimSpace(m[1]),
				Description: strings.TrimSpace(m[2]),
			})
			continue
		}
		block.Entries = append(block.Entries, core.TimelineEntry{
			Description: strings.TrimSpace(line[2:]),
		})
	}
	return block
}

// Narrative formats and highlights a narrative-bearing section.
func (p *Parser) Narrative(kind core.Kind, body string) core.NarrativeBlock {
	first, rest := segment.MarkerLine(strings.TrimSpace(body))
	return p.narrative(kind, segment.MarkerTitle(kind, first), rest)
}

// PlainNarrative renders text that carries no marker line at all.
func (p *Parser) PlainNarrative(text string) core.NarrativeBlock {
	return p.narrative(core.KindCosmicNarrative, "", text)
}

func (p *Parser) narrative(kind core.Kind, title, text string) core.NarrativeBlock {
	html := p.highlighter.Highlight(p.formatter.Format(text))
	return core.NarrativeBlock{
		Section: kind,
		Title:   title,
		HTML:    html,
		Nodes:   tree.Build(html),
	}
}

func firstNonEmptyLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

package core

import (
	"fmt"
	"strings"
)

// Kind identifies the section a block of narrative text belongs to.
type Kind int

// Known section kinds, in classification priority order.
const (
	KindUnrecognized Kind = iota
	KindVerdictPill
	KindKeyAlignments
	KindCosmicNarrative
	KindTimelineJourney
	KindSacredRemedy
)

// RecognizedKinds lists every kind that has a section marker, in priority order.
var RecognizedKinds = []Kind{
	KindVerdictPill,
	KindKeyAlignments,
	KindCosmicNarrative,
	KindTimelineJourney,
	KindSacredRemedy,
}

var markers = map[Kind]string{
	KindVerdictPill:     "VERDICT_PILL",
	KindKeyAlignments:   "KEY_ALIGNMENTS",
	KindCosmicNarrative: "COSMIC_NARRATIVE",
	KindTimelineJourney: "TIMELINE_JOURNEY",
	KindSacredRemedy:    "SACRED_REMEDY",
}

// Marker returns the marker token written after "## " for this kind,
// or "" for KindUnrecognized.
func (k Kind) Marker() string {
	return markers[k]
}

// String returns the snake_case name used in JSON output and logs.
func (k Kind) String() string {
	if m, ok := markers[k]; ok {
		return strings.ToLower(m)
	}
	return "unrecognized"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// PillStyle is the color token of a verdict pill.
type PillStyle string

// Pill styles. Anything the narrative asks for outside this set is neutral.
const (
	PillGold    PillStyle = "gold"
	PillRed     PillStyle = "red"
	PillBlue    PillStyle = "blue"
	PillNeutral PillStyle = "neutral"
)

// Category is the semantic class of a highlighted phrase.
type Category string

// Highlight categories, in evaluation order.
const (
	CategoryPositive Category = "positive"
	CategoryNegative Category = "negative"
	CategoryWarning  Category = "warning"
)

// Categories lists all categories in evaluation order.
var Categories = []Category{CategoryPositive, CategoryNegative, CategoryWarning}

const classPrefix = "hl-"

// Class returns the CSS class applied to phrases of this category.
func (c Category) Class() string {
	return classPrefix + string(c)
}

// Rank returns the evaluation rank of the category, or -1 if unknown.
func (c Category) Rank() int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return -1
}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.Rank() < 0 {
		return "", fmt.Errorf("unknown highlight category %q", s)
	}
	return c, nil
}

// CategoryFromClass maps a CSS class list back to a category.
func CategoryFromClass(class string) (Category, bool) {
	for _, field := range strings.Fields(class) {
		if !strings.HasPrefix(field, classPrefix) {
			continue
		}
		if c := Category(strings.TrimPrefix(field, classPrefix)); c.Rank() >= 0 {
			return c, true
		}
	}
	return "", false
}

// HighlightRule maps one literal phrase to a category.
type HighlightRule struct {
	Category Category `json:"category" yaml:"category"`
	Phrase   string   `json:"phrase" yaml:"phrase"`
}

// Section is one marker-delimited slice of a raw narrative.
type Section struct {
	Kind  Kind
	Body  string // includes the marker line
	Order int
}

// Block is a typed, renderable piece of a document.
type Block interface {
	BlockKind() Kind
}

// VerdictPillBlock is a short categorical verdict badge.
type VerdictPillBlock struct {
	Style PillStyle `json:"style"`
	Title string    `json:"title"`
}

// BlockKind implements Block.
func (VerdictPillBlock) BlockKind() Kind { return KindVerdictPill }

// Alignment is one label/value chip.
type Alignment struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// KeyAlignmentsBlock is an ordered list of key facts.
type KeyAlignmentsBlock struct {
	Items []Alignment `json:"items"`
}

// BlockKind implements Block.
func (KeyAlignmentsBlock) BlockKind() Kind { return KindKeyAlignments }

// NarrativeBlock carries formatted, highlighted prose.
// Section is KindCosmicNarrative or KindSacredRemedy.
type NarrativeBlock struct {
	Section Kind   `json:"-"`
	Title   string `json:"title,omitempty"`
	HTML    string `json:"html"`
	Nodes   []Node `json:"nodes"`
}

// BlockKind implements Block.
func (b NarrativeBlock) BlockKind() Kind { return b.Section }

// TimelineEntry is one dated line of a timeline.
type TimelineEntry struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

// TimelineBlock lists entries in the order the narrative gave them.
type TimelineBlock struct {
	Entries []TimelineEntry `json:"entries"`
}

// BlockKind implements Block.
func (TimelineBlock) BlockKind() Kind { return KindTimelineJourney }

// Document is the ordered result of rendering one narrative.
type Document struct {
	Blocks []Block
}

// NodeType identifies a node in a narrative tree.
type NodeType string

// Node types produced from formatted narrative HTML.
const (
	NodeText       NodeType = "text"
	NodeHeading    NodeType = "heading"
	NodeSubheading NodeType = "subheading"
	NodeBullet     NodeType = "bullet"
	NodeStrong     NodeType = "strong"
	NodeHighlight  NodeType = "highlight"
	NodeBreak      NodeType = "break"
)

// Node is a typed element of narrative content. Text is set on text nodes,
// Category on highlight nodes, Children on every container node.
type Node struct {
	Type     NodeType `json:"type"`
	Text     string   `json:"text,omitempty"`
	Category Category `json:"category,omitempty"`
	Children []Node   `json:"children,omitempty"`
}

// PlainText returns the concatenated text content of the node.
func (n Node) PlainText() string {
	if n.Type == NodeText {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.PlainText())
	}
	return b.String()
}

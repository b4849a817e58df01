// Package highlight wraps configured phrases in formatted narrative HTML
// with a per-category emphasis span.
//
// Matching runs over the plain-text runs between tags, found with the
// golang.org/x/net/html tokenizer. Tags and attribute values are copied
// through untouched, each run is scanned once, and text already inside a
// highlight span is skipped, so the output never nests highlight markup.
// A literal "<" in the prose (as in "Mars<Venus") is text, not a tag.
package highlight

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gaurav-prasanna/astropipe/core"
	"github.com/gaurav-prasanna/astropipe/core/format"
)

// compiledRule is a HighlightRule with its matcher.
type compiledRule struct {
	core.HighlightRule
	re *regexp.Regexp
}

// Highlighter applies an ordered rule table to HTML.
// It is read-only after construction and safe for concurrent use.
type Highlighter struct {
	rules []compiledRule
}

// New compiles the rules. They are evaluated category-major (positive,
// negative, warning) and in the given order within a category.
func New(rules []core.HighlightRule) (*Highlighter, error) {
	ordered := make([]core.HighlightRule, len(rules))
	copy(ordered, rules)
	for i, r := range ordered {
		if r.Category.Rank() < 0 {
			return nil, fmt.Errorf("rule %d: unknown category %q", i, r.Category)
		}
		if strings.TrimSpace(r.Phrase) == "" {
			return nil, fmt.Errorf("rule %d: empty phrase", i)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Category.Rank() < ordered[j].Category.Rank()
	})

	compiled := make([]compiledRule, 0, len(ordered))
	for _, r := range ordered {
		compiled = append(compiled, compiledRule{
			HighlightRule: r,
			re:            regexp.MustCompile(`(?i)` + regexp.QuoteMeta(r.Phrase)),
		})
	}
	return &Highlighter{rules: compiled}, nil
}

// NewDefault returns a Highlighter over DefaultRules.
func NewDefault() *Highlighter {
	h, err := New(DefaultRules())
	if err != nil {
		panic(err) // built-in table is valid
	}
	return h
}

// Rules returns the rules in evaluation order.
func (h *Highlighter) Rules() []core.HighlightRule {
	out := make([]core.HighlightRule, len(h.rules))
	for i, r := range h.rules {
		out[i] = r.HighlightRule
	}
	return out
}

// Highlight wraps every rule match found in the text runs of s. A "<" that
// does not start markup is treated as text and copied through as is.
func (h *Highlighter) Highlight(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	st := scanState{h: h, b: &b}
	prev := 0
	for _, i := range format.StrayAngles(s) {
		st.feed(s[prev:i])
		b.WriteByte('<')
		prev = i + 1
	}
	st.feed(s[prev:])
	return b.String()
}

// scanState carries element nesting across the pieces of one input.
type scanState struct {
	h *Highlighter
	b *strings.Builder
	// spans tracks open <span> elements; true marks a highlight span.
	spans       []bool
	inHighlight int
	// rawDepth counts open script/style elements, whose text is not prose.
	rawDepth int
}

// feed tokenizes one piece that contains no stray "<".
func (st *scanState) feed(piece string) {
	if piece == "" {
		return
	}
	z := html.NewTokenizer(strings.NewReader(piece))
	for {
		tt := z.Next()
		raw := z.Raw()
		switch tt {
		case html.ErrorToken:
			// io.EOF is the only error a strings.Reader can produce.
			st.b.Write(raw)
			return
		case html.TextToken:
			if st.inHighlight > 0 || st.rawDepth > 0 {
				st.b.Write(raw)
			} else {
				st.b.WriteString(st.h.highlightRun(string(raw)))
			}
		case html.StartTagToken:
			st.b.Write(raw)
			name, hasAttr := z.TagName()
			switch atom.Lookup(name) {
			case atom.Span:
				hl := hasAttr && isHighlightSpan(z)
				st.spans = append(st.spans, hl)
				if hl {
					st.inHighlight++
				}
			case atom.Script, atom.Style:
				st.rawDepth++
			}
		case html.EndTagToken:
			st.b.Write(raw)
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Span:
				if n := len(st.spans); n > 0 {
					if st.spans[n-1] {
						st.inHighlight--
					}
					st.spans = st.spans[:n-1]
				}
			case atom.Script, atom.Style:
				if st.rawDepth > 0 {
					st.rawDepth--
				}
			}
		default:
			st.b.Write(raw)
		}
	}
}

func isHighlightSpan(z *html.Tokenizer) bool {
	for {
		key, val, more := z.TagAttr()
		if string(key) == "class" {
			if _, ok := core.CategoryFromClass(string(val)); ok {
				return true
			}
		}
		if !more {
			return false
		}
	}
}

// match is a claimed span of a text run.
type match struct {
	start, end int
	category   core.Category
}

// highlightRun wraps matches in one text run. Rules are tried in order and
// a match is kept only if it does not overlap a span claimed earlier.
func (h *Highlighter) highlightRun(text string) string {
	var claimed []match
	for _, r := range h.rules {
		for _, loc := range r.re.FindAllStringIndex(text, -1) {
			if overlaps(claimed, loc[0], loc[1]) {
				continue
			}
			claimed = append(claimed, match{start: loc[0], end: loc[1], category: r.Category})
		}
	}
	if len(claimed) == 0 {
		return text
	}
	sort.Slice(claimed, func(i, j int) bool { return claimed[i].start < claimed[j].start })

	var b strings.Builder
	prev := 0
	for _, m := range claimed {
		b.WriteString(text[prev:m.start])
		b.WriteString(`<span class="`)
		b.WriteString(m.category.Class())
		b.WriteString(`">`)
		b.WriteString(text[m.start:m.end])
		b.WriteString(`</span>`)
		prev = m.end
	}
	b.WriteString(text[prev:])
	return b.String()
}

func overlaps(claimed []match, start, end int) bool {
	for _, m := range claimed {
		if start < m.end && m.start < end {
			return true
		}
	}
	return false
}

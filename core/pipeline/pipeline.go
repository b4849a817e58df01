// Package pipeline composes the narrative stages into one entry point:
// segment → parse (format → highlight → tree for narrative kinds) → document.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/astropipe/core"
	"github.com/gaurav-prasanna/astropipe/core/format"
	"github.com/gaurav-prasanna/astropipe/core/highlight"
	"github.com/gaurav-prasanna/astropipe/core/parse"
	"github.com/gaurav-prasanna/astropipe/core/segment"
	"github.com/gaurav-prasanna/astropipe/logging"
)

// PlainTextPolicy decides what happens to a narrative with no section marker.
type PlainTextPolicy string

const (
	// PolicyNarrative renders the whole text as one CosmicNarrative block.
	PolicyNarrative PlainTextPolicy = "narrative"
	// PolicyDrop produces an empty document.
	PolicyDrop PlainTextPolicy = "drop"
)

// ParsePolicy validates a policy name. Empty selects PolicyNarrative.
func ParsePolicy(s string) (PlainTextPolicy, error) {
	switch p := PlainTextPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyNarrative, nil
	case PolicyNarrative, PolicyDrop:
		return p, nil
	default:
		return "", fmt.Errorf("unknown plain text policy %q (want %q or %q)", s, PolicyNarrative, PolicyDrop)
	}
}

// Pipeline renders raw narratives into documents. It holds no per-call
// state and is safe for concurrent use.
type Pipeline struct {
	parser *parse.Parser
	policy PlainTextPolicy
	log    *logging.Logger
}

// Option configures a Pipeline.
type Option func(*options)

type options struct {
	formatter   core.Formatter
	highlighter core.Highlighter
	policy      PlainTextPolicy
	log         *logging.Logger
}

// WithFormatter replaces the inline formatter.
func WithFormatter(f core.Formatter) Option {
	return func(o *options) { o.formatter = f }
}

// WithHighlighter replaces the semantic highlighter.
func WithHighlighter(h core.Highlighter) Option {
	return func(o *options) { o.highlighter = h }
}

// WithPlainTextPolicy sets the no-marker policy.
func WithPlainTextPolicy(p PlainTextPolicy) Option {
	return func(o *options) { o.policy = p }
}

// WithLogger sets the debug logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// New creates a Pipeline with default stages unless overridden.
func New(opts ...Option) *Pipeline {
	o := options{
		formatter:   format.New(),
		highlighter: highlight.NewDefault(),
		policy:      PolicyNarrative,
		log:         logging.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logging.Nop()
	}
	return &Pipeline{
		parser: parse.New(o.formatter, o.highlighter),
		policy: o.policy,
		log:    o.log,
	}
}

// Policy returns the configured no-marker policy.
func (p *Pipeline) Policy() PlainTextPolicy {
	return p.policy
}

// Render turns one raw narrative into its ordered document.
func (p *Pipeline) Render(raw string) core.Document {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	doc := core.Document{Blocks: []core.Block{}}

	if strings.TrimSpace(text) == "" {
		return doc
	}

	// 1. Plain-text answers.
	if !segment.HasMarker(text) {
		p.log.Debug("narrative has no section marker", "policy", string(p.policy), "bytes", len(text))
		if p.policy == PolicyNarrative {
			doc.Blocks = append(doc.Blocks, p.parser.PlainNarrative(text))
		}
		return doc
	}

	// 2. Segment and classify.
	sections := segment.Sections(text)

	// 3. Parse each recognized section in order.
	for _, sec := range sections {
		block, ok := p.parser.Parse(sec)
		if !ok {
			p.log.Debug("dropping section", "order", sec.Order, "kind", sec.Kind.String(), "bytes", len(sec.Body))
			continue
		}
		doc.Blocks = append(doc.Blocks, block)
	}

	p.log.Debug("rendered narrative", "sections", len(sections), "blocks", len(doc.Blocks))
	return doc
}

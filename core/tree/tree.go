// Package tree converts formatted, highlighted narrative HTML into a typed
// node tree so presentation layers can render narratives without injecting
// raw HTML.
//
// Only the markup vocabulary produced by the formatter and highlighter is
// given structure. Any other element is flattened into its children and any
// comment, script or style content is dropped.
package tree

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gaurav-prasanna/astropipe/core"
	"github.com/gaurav-prasanna/astropipe/core/format"
)

// Build parses the HTML fragment and returns its top-level nodes.
func Build(fragment string) []core.Node {
	parent := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	parsed, err := html.ParseFragment(strings.NewReader(format.EscapeStray(fragment)), parent)
	if err != nil {
		// Only reader errors are possible here.
		return []core.Node{{Type: core.NodeText, Text: fragment}}
	}

	var out []core.Node
	for _, n := range parsed {
		out = appendNode(out, n)
	}
	return mergeText(out)
}

// appendNode converts n and appends the result to nodes.
func appendNode(nodes []core.Node, n *html.Node) []core.Node {
	switch n.Type {
	case html.TextNode:
		// The formatter only leaves newlines next to its own markup. Next to
		// a block they are layout; next to bold text they separate words.
		text := strings.Trim(n.Data, "\n")
		if strings.HasPrefix(n.Data, "\n") && isInline(n.PrevSibling) {
			text = " " + text
		}
		if strings.HasSuffix(n.Data, "\n") && isInline(n.NextSibling) && !strings.HasSuffix(text, " ") {
			text += " "
		}
		if text == "" || text == " " && !(isInline(n.PrevSibling) && isInline(n.NextSibling)) {
			return nodes
		}
		return append(nodes, core.Node{Type: core.NodeText, Text: text})
	case html.ElementNode:
		// handled below
	default:
		return nodes
	}

	children := func() []core.Node {
		var cs []core.Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			cs = appendNode(cs, c)
		}
		return mergeText(cs)
	}

	switch n.DataAtom {
	case atom.Script, atom.Style:
		return nodes
	case atom.Br:
		// Consecutive <br> elements form one paragraph break.
		if len(nodes) > 0 && nodes[len(nodes)-1].Type == core.NodeBreak {
			return nodes
		}
		return append(nodes, core.Node{Type: core.NodeBreak})
	case atom.H3:
		return append(nodes, core.Node{Type: core.NodeHeading, Children: children()})
	case atom.H4:
		return append(nodes, core.Node{Type: core.NodeSubheading, Children: children()})
	case atom.Strong, atom.B:
		return append(nodes, core.Node{Type: core.NodeStrong, Children: children()})
	case atom.Div:
		if hasClass(n, format.BulletClass) {
			return append(nodes, core.Node{Type: core.NodeBullet, Children: trimGlyph(children())})
		}
	case atom.Span:
		if cat, ok := core.CategoryFromClass(attr(n, "class")); ok {
			return append(nodes, core.Node{Type: core.NodeHighlight, Category: cat, Children: children()})
		}
	}
	return append(nodes, children()...)
}

// mergeText joins adjacent text nodes left behind by flattened elements.
func mergeText(nodes []core.Node) []core.Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n.Type == core.NodeText && len(out) > 0 && out[len(out)-1].Type == core.NodeText {
			out[len(out)-1].Text += n.Text
			continue
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// trimGlyph removes the leading bullet glyph the formatter inserts.
func trimGlyph(nodes []core.Node) []core.Node {
	if len(nodes) == 0 || nodes[0].Type != core.NodeText {
		return nodes
	}
	text := strings.TrimPrefix(nodes[0].Text, format.BulletGlyph)
	text = strings.TrimLeft(text, " ")
	if text == "" {
		return nodes[1:]
	}
	nodes[0].Text = text
	return nodes
}

// isInline reports whether n is inline markup that the formatter emits.
func isInline(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && (n.DataAtom == atom.Strong || n.DataAtom == atom.B)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, f := range strings.Fields(attr(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

// PlainText flattens nodes to text, separating block nodes with newlines.
func PlainText(nodes []core.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		switch n.Type {
		case core.NodeHeading, core.NodeSubheading, core.NodeBullet:
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteByte('\n')
			}
			if n.Type == core.NodeBullet {
				b.WriteString(format.BulletGlyph + " ")
			}
			b.WriteString(n.PlainText())
			b.WriteByte('\n')
		case core.NodeBreak:
			b.WriteString("\n\n")
		default:
			b.WriteString(n.PlainText())
		}
	}
	return strings.TrimSpace(b.String())
}

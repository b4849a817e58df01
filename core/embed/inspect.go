package embed

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// startTagRegex matches a start tag; group 1 is the name, group 2 the
	// attribute text.
	startTagRegex = regexp.MustCompile(`<([A-Za-z][A-Za-z0-9:-]*)((?:"[^"]*"|'[^']*'|[^'">])*)>`)
	// attrRegex matches one attribute with its leading whitespace.
	attrRegex = regexp.MustCompile(`\s([^\s"'<>/=]+)(?:\s*=\s*("[^"]*"|'[^']*'|[^\s"'>]*))?`)
)

// Finding describes one place where Fix would change the fragment.
type Finding struct {
	Element string `json:"element"`
	Attr    string `json:"attr,omitempty"`
	URL     string `json:"url,omitempty"`
	Problem string `json:"problem"`
}

// String formats the finding for CLI reports.
func (f Finding) String() string {
	if f.Attr == "" {
		return fmt.Sprintf("%s: %s", f.Element, f.Problem)
	}
	return fmt.Sprintf("<%s %s=%q>: %s", f.Element, f.Attr, f.URL, f.Problem)
}

// Inspect reports what Fix would repair in fragment. It returns nothing
// exactly when Fix(fragment) == fragment.
//
// Each attribute is checked as raw text with the same steps Fix applies, so
// quoting and attribute position are judged the way Fix judges them.
// Changes outside any attribute are reported against "#text".
func (n *Normalizer) Inspect(fragment string) []Finding {
	if n.Fix(fragment) == fragment {
		return nil
	}

	var findings []Finding
	for _, tag := range startTagRegex.FindAllStringSubmatch(fragment, -1) {
		element := strings.ToLower(tag[1])
		for _, m := range attrRegex.FindAllStringSubmatch(tag[2], -1) {
			for _, problem := range n.problems(m[0]) {
				findings = append(findings, Finding{
					Element: element,
					Attr:    strings.ToLower(m[1]),
					URL:     unquote(m[2]),
					Problem: problem,
				})
			}
		}
	}
	if len(findings) > 0 {
		return findings
	}

	// Fix changes text outside any recognised attribute. Its first round
	// changed the fragment, so at least one step changes it on its own.
	for _, problem := range n.problems(fragment) {
		findings = append(findings, Finding{Element: "#text", Problem: problem})
	}
	return findings
}

// problems names each repair step that changes s on its own.
func (n *Normalizer) problems(s string) []string {
	var problems []string
	if n.RewriteHost(s) != s {
		problems = append(problems, "deprecated host "+n.rules.DeprecatedHost)
	}
	if n.InsertSeparator(s) != s {
		problems = append(problems, "missing '/' before "+n.rules.PathToken)
	}
	if CollapseSrcSlashes(s) != s {
		problems = append(problems, "doubled '/' in src")
	}
	return problems
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

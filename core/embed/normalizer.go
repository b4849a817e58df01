// Package embed repairs HTML fragments returned by the chart-embedding
// service before they are injected into a page.
//
// The repairs are textual, not a structural HTML or URL parse: every byte
// outside the rewritten spans is left as it was, and applying Fix to its own
// output changes nothing.
package embed

import (
	"fmt"
	"regexp"
	"strings"
)

// Default rewrite rules for the chart service.
const (
	DefaultDeprecatedHost = "vedastroapi.azurewebsites.net"
	DefaultCanonicalHost  = "api.vedastro.org"
	DefaultPathToken      = "api/Calculate/"
)

// Rules configures the three repairs.
type Rules struct {
	// DeprecatedHost is rewritten to CanonicalHost wherever it occurs.
	DeprecatedHost string `yaml:"deprecated_host"`
	CanonicalHost  string `yaml:"canonical_host"`
	// PathToken gets a "/" inserted in front of it when one is missing.
	PathToken string `yaml:"path_token"`
}

// DefaultRules returns the built-in rules.
func DefaultRules() Rules {
	return Rules{
		DeprecatedHost: DefaultDeprecatedHost,
		CanonicalHost:  DefaultCanonicalHost,
		PathToken:      DefaultPathToken,
	}
}

// Validate checks that the rules cannot undo or re-trigger themselves.
func (r Rules) Validate() error {
	if r.DeprecatedHost != "" {
		if r.CanonicalHost == "" {
			return fmt.Errorf("canonical_host is required when deprecated_host is set")
		}
		if strings.Contains(strings.ToLower(r.CanonicalHost), strings.ToLower(r.DeprecatedHost)) {
			return fmt.Errorf("canonical_host %q contains deprecated_host %q", r.CanonicalHost, r.DeprecatedHost)
		}
		if strings.Contains(r.DeprecatedHost, "/") || strings.Contains(r.CanonicalHost, "/") {
			return fmt.Errorf("hosts must not contain '/'")
		}
	}
	if r.PathToken != "" {
		if strings.HasPrefix(r.PathToken, "/") {
			return fmt.Errorf("path_token %q must not start with '/'", r.PathToken)
		}
		if strings.Contains(r.PathToken, "//") {
			return fmt.Errorf("path_token %q must not contain '//'", r.PathToken)
		}
	}
	return nil
}

var (
	// srcAttrRegex matches a double-quoted src attribute. The leading
	// whitespace keeps data-src and similar attributes out.
	srcAttrRegex = regexp.MustCompile(`(?i)(\ssrc\s*=\s*")([^"]*)(")`)

	schemeRegex  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*://`)
	slashesRegex = regexp.MustCompile(`/{2,}`)
)

// Normalizer applies a fixed set of rules. It is safe for concurrent use.
type Normalizer struct {
	rules  Rules
	hostRe *regexp.Regexp
}

// New validates the rules and creates a Normalizer.
func New(rules Rules) (*Normalizer, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid embed rules: %w", err)
	}
	n := &Normalizer{rules: rules}
	if rules.DeprecatedHost != "" {
		n.hostRe = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(rules.DeprecatedHost))
	}
	return n, nil
}

var defaultNormalizer, _ = New(DefaultRules())

// Fix repairs fragment with the default rules.
func Fix(fragment string) string {
	return defaultNormalizer.Fix(fragment)
}

// Rules returns the rules this Normalizer applies.
func (n *Normalizer) Rules() Rules {
	return n.rules
}

// maxRounds bounds Fix's repeat loop. Real fragments settle in one round;
// a collapsed "//" can expose a new path token and need a second.
const maxRounds = 16

// Fix applies the repairs in order: host rewrite, missing separator before
// the path token, then doubled separators inside src values. The sequence
// is repeated until the fragment stops changing.
func (n *Normalizer) Fix(fragment string) string {
	out := fragment
	for i := 0; i < maxRounds; i++ {
		next := n.round(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func (n *Normalizer) round(s string) string {
	s = n.RewriteHost(s)
	s = n.InsertSeparator(s)
	return CollapseSrcSlashes(s)
}

// RewriteHost replaces the deprecated host with the canonical host.
func (n *Normalizer) RewriteHost(s string) string {
	if n.hostRe == nil {
		return s
	}
	return n.hostRe.ReplaceAllLiteralString(s, n.rules.CanonicalHost)
}

// InsertSeparator puts a "/" in front of every path token occurrence that
// is not already preceded by one. A token at the very start is left alone.
func (n *Normalizer) InsertSeparator(s string) string {
	token := n.rules.PathToken
	if token == "" || !strings.Contains(s, token) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	prev := 0
	for {
		i := strings.Index(s[prev:], token)
		if i < 0 {
			break
		}
		at := prev + i
		b.WriteString(s[prev:at])
		if at > 0 && s[at-1] != '/' {
			b.WriteByte('/')
		}
		b.WriteString(token)
		prev = at + len(token)
	}
	b.WriteString(s[prev:])
	return b.String()
}

// CollapseSrcSlashes collapses runs of "/" inside every src="..." value.
// The scheme's "://" and a leading protocol-relative "//" are kept.
func CollapseSrcSlashes(s string) string {
	return srcAttrRegex.ReplaceAllStringFunc(s, func(attr string) string {
		m := srcAttrRegex.FindStringSubmatch(attr)
		return m[1] + collapseURL(m[2]) + m[3]
	})
}

func collapseURL(v string) string {
	prefix := schemeRegex.FindString(v)
	if prefix == "" && strings.HasPrefix(v, "//") {
		prefix = "//"
	}
	return prefix + slashesRegex.ReplaceAllString(v[len(prefix):], "/")
}

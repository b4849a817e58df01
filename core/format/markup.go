package format

import (
	"regexp"
	"strings"

	"golang.org/x/net/html/atom"
)

// tagRegex matches one complete comment, declaration, start tag or end tag
// at the start of a string.
var tagRegex = regexp.MustCompile(`^(?:<!--[\s\S]*?-->|<![A-Za-z][^<>]*>|</?([A-Za-z][A-Za-z0-9]*)(?:\s+[^\s"'<>/=]+(?:\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'=<>` + "`" + `]+))?)*\s*/?>)`)

// TagLen returns the length of the markup starting at s[0], or 0 when the
// "<" there is literal text. Markup is a comment, a declaration, or a
// complete tag naming a known HTML element, so "Mars<Venus" and
// "<Venus and Jupiter>" stay text.
func TagLen(s string) int {
	if !strings.HasPrefix(s, "<") {
		return 0
	}
	m := tagRegex.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	if m[1] != "" && atom.Lookup([]byte(strings.ToLower(m[1]))) == 0 {
		return 0
	}
	return len(m[0])
}

// StrayAngles returns the offsets of every "<" in s that does not start
// markup.
func StrayAngles(s string) []int {
	var stray []int
	for i := 0; i < len(s); {
		j := strings.IndexByte(s[i:], '<')
		if j < 0 {
			break
		}
		i += j
		if n := TagLen(s[i:]); n > 0 {
			i += n
			continue
		}
		stray = append(stray, i)
		i++
	}
	return stray
}

// EscapeStray replaces every "<" that does not start markup with "&lt;".
func EscapeStray(s string) string {
	stray := StrayAngles(s)
	if len(stray) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 3*len(stray))
	prev := 0
	for _, i := range stray {
		b.WriteString(s[prev:i])
		b.WriteString("&lt;")
		prev = i + 1
	}
	b.WriteString(s[prev:])
	return b.String()
}

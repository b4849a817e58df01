// Package segment splits a raw AI narrative into marker-delimited sections.
//
// A section starts at a line of the form "## KIND" or "## KIND: title" where
// KIND is one of the core section markers. Each section keeps its own marker
// line and runs up to (not including) the next marker line or end of input.
package segment

import (
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/astropipe/core"
)

// markerRegex matches a marker at a true line start. The marker must be
// followed by end of line, a colon or whitespace, so VERDICT_PILLS or a
// marker quoted mid-sentence never opens a section.
var markerRegex = regexp.MustCompile(`(?m)^##[ \t]+(` + markerAlternation() + `)(?:[ \t:\r]|$)`)

func markerAlternation() string {
	names := make([]string, 0, len(core.RecognizedKinds))
	for _, k := range core.RecognizedKinds {
		names = append(names, regexp.QuoteMeta(k.Marker()))
	}
	return strings.Join(names, "|")
}

// HasMarker reports whether the narrative contains at least one section marker.
func HasMarker(raw string) bool {
	return markerRegex.MatchString(raw)
}

// Split returns the raw section substrings of the narrative in order.
// Text before the first marker is returned as its own substring; a narrative
// without any marker is returned whole.
func Split(raw string) []string {
	locs := markerRegex.FindAllStringIndex(raw, -1)
	if len(locs) == 0 {
		return []string{raw}
	}

	parts := make([]string, 0, len(locs)+1)
	if locs[0][0] > 0 {
		parts = append(parts, raw[:locs[0][0]])
	}
	for i, loc := range locs {
		end := len(raw)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		parts = append(parts, raw[loc[0]:end])
	}
	return parts
}

// Classify returns the kind of a raw section substring by testing its
// prefix against the known markers in priority order. Leading line breaks
// are skipped, but the marker must start its line: an indented "##" is text,
// as it is for Split.
func Classify(part string) core.Kind {
	trimmed := strings.TrimRight(strings.TrimLeft(part, "\r\n"), " \t\r\n")
	if !strings.HasPrefix(trimmed, "##") {
		return core.KindUnrecognized
	}
	rest := strings.TrimLeft(trimmed[2:], " \t")
	if len(rest) == len(trimmed)-2 {
		// "##KIND" without a separating space is not a marker.
		return core.KindUnrecognized
	}
	for _, k := range core.RecognizedKinds {
		m := k.Marker()
		if !strings.HasPrefix(rest, m) {
			continue
		}
		if len(rest) == len(m) || strings.ContainsRune(" \t:\n\r", rune(rest[len(m)])) {
			return k
		}
	}
	return core.KindUnrecognized
}

// Sections splits and classifies the narrative. Empty or whitespace-only
// parts are skipped; Order counts the remaining sections from zero.
func Sections(raw string) []core.Section {
	parts := Split(raw)
	sections := make([]core.Section, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		sections = append(sections, core.Section{
			Kind:  Classify(part),
			Body:  strings.TrimSpace(part),
			Order: len(sections),
		})
	}
	return sections
}

// MarkerLine splits a section body into its first line and the remainder.
func MarkerLine(body string) (first, rest string) {
	first, rest, _ = strings.Cut(body, "\n")
	return strings.TrimRight(first, "\r"), rest
}

// MarkerTitle returns the text following the marker on the section's first
// line, with the separating colon and surrounding whitespace removed.
func MarkerTitle(kind core.Kind, body string) string {
	first, _ := MarkerLine(body)
	first = strings.TrimSpace(first)
	first = strings.TrimLeft(strings.TrimPrefix(first, "##"), " \t")
	first = strings.TrimPrefix(first, kind.Marker())
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(first), ":"))
}

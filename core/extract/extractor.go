// Package extract implements the Extractor interface.
// It isolates the embeddable chart from a full HTML page by:
//  1. Removing script and noscript elements
//  2. Returning the first chart container (tagged element, svg, iframe,
//     object, img) or, failing that, the body's content
//
// Input that is already a fragment is returned unchanged.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// noiseSelector matches elements removed before a container is chosen.
var noiseSelector = cascadia.MustCompile("script, noscript")

// containerSelectors are tried in order; the first match wins.
var containerSelectors = []struct {
	name string
	sel  cascadia.Selector
}{
	{"tagged chart", cascadia.MustCompile("[data-chart]")},
	{"svg", cascadia.MustCompile("svg")},
	{"iframe", cascadia.MustCompile("iframe")},
	{"object", cascadia.MustCompile("object")},
	{"img", cascadia.MustCompile("img")},
}

var documentRegex = regexp.MustCompile(`(?i)<(?:!doctype|html|body)[\s>]`)

// ChartExtractor pulls chart markup out of HTML pages.
type ChartExtractor struct{}

// New creates a ChartExtractor.
func New() *ChartExtractor {
	return &ChartExtractor{}
}

// Extract returns the chart fragment of page.
func (e *ChartExtractor) Extract(page string) (string, error) {
	if !documentRegex.MatchString(page) {
		return page, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	doc.FindMatcher(noiseSelector).Remove()

	body := doc.Find("body").First()
	for _, c := range containerSelectors {
		found := body.FindMatcher(c.sel)
		if found.Length() == 0 {
			continue
		}
		result, err := goquery.OuterHtml(found.First())
		if err != nil {
			return "", fmt.Errorf("serializing %s: %w", c.name, err)
		}
		return result, nil
	}

	inner, err := body.Html()
	if err != nil {
		return "", fmt.Errorf("serializing body: %w", err)
	}
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return "", fmt.Errorf("no chart content found in HTML")
	}
	return inner, nil
}

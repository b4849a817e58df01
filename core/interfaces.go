// Package core defines the pipeline interfaces for astropipe.
// Each stage of the narrative pipeline is a clean, testable interface;
// the typed document model lives in document.go.
package core

import "context"

// FetchResult holds the raw HTML and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	HTML       string
}

// DocumentMeta holds metadata about one rendered narrative.
type DocumentMeta struct {
	Source     string `json:"source"`
	Title      string `json:"title"`
	RenderedAt string `json:"rendered_at"` // ISO8601
	BlockCount int    `json:"block_count"`
}

// Fetcher retrieves raw HTML from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Extractor isolates the embeddable chart markup from a full HTML page.
type Extractor interface {
	Extract(html string) (string, error)
}

// Formatter turns a markdown-lite section body into trusted HTML.
type Formatter interface {
	Format(body string) string
}

// Highlighter wraps configured phrases inside formatted HTML.
type Highlighter interface {
	Highlight(html string) string
}

// Normalizer converts narrative HTML into Markdown for text exports.
type Normalizer interface {
	Normalize(html string) (string, error)
}

// Renderer converts a rendered document into a final output format.
type Renderer interface {
	Render(doc Document, meta DocumentMeta) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}

package embed

import (
	"strings"

	"golang.org/x/net/html"
)

// SandboxOptions controls the iframe built by Sandbox.
type SandboxOptions struct {
	Title string
	// Allow lists sandbox tokens to grant, e.g. "allow-scripts". Empty means
	// a fully restricted frame.
	Allow  []string
	Width  string
	Height string
}

// Sandbox wraps an embed fragment in an iframe whose srcdoc carries the
// fragment, so third-party markup renders in its own restricted document
// instead of being injected into the host page.
func Sandbox(fragment string, opts SandboxOptions) string {
	if opts.Title == "" {
		opts.Title = "chart"
	}

	var b strings.Builder
	b.WriteString(`<iframe sandbox="`)
	b.WriteString(html.EscapeString(strings.Join(opts.Allow, " ")))
	b.WriteString(`" title="`)
	b.WriteString(html.EscapeString(opts.Title))
	b.WriteString(`"`)
	if opts.Width != "" {
		b.WriteString(` width="` + html.EscapeString(opts.Width) + `"`)
	}
	if opts.Height != "" {
		b.WriteString(` height="` + html.EscapeString(opts.Height) + `"`)
	}
	b.WriteString(` referrerpolicy="no-referrer" loading="lazy" srcdoc="`)
	b.WriteString(html.EscapeString(fragment))
	b.WriteString(`"></iframe>`)
	return b.String()
}

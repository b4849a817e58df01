package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat_FullBody(t *testing.T) {
	body := "# Overview\n" +
		"Venus is **strong** this year.\n" +
		"It brings luck.\n" +
		"\n" +
		"### Career\n" +
		"- **Promotion** likely\n" +
		"- Travel abroad\n" +
		"Closing line."

	want := `<h3 class="narrative-heading">Overview</h3>` + "\n" +
		`Venus is <strong>strong</strong> this year. It brings luck.<br /><br />` +
		`<h4 class="narrative-subheading">Career</h4>` + "\n" +
		`<div class="narrative-bullet">• <strong>Promotion</strong> likely</div>` + "\n" +
		`<div class="narrative-bullet">• Travel abroad</div>` + "\n" +
		`Closing line.`

	assert.Equal(t, want, New().Format(body))
}

func TestFormat_StripsRemnant(t *testing.T) {
	f := New()
	assert.Equal(t, "Body text", f.Format("## COSMIC_NARRATIVE: The Big Picture\nBody text"))
	assert.Equal(t, "Body text", f.Format("\n\n  Body text  \n"))
	// Ordinary level-2 headers are not markers.
	assert.Equal(t, "## Love Life text", f.Format("## Love Life\ntext"))
}

func TestFormat_LevelTwoHeadersUntouched(t *testing.T) {
	out := New().Format("intro\n## Not a heading\nmore")
	assert.Equal(t, "intro ## Not a heading more", out)
	assert.NotContains(t, out, "<h")
}

func TestFormat_HeaderNeedsSpace(t *testing.T) {
	assert.Equal(t, "#tag and ###more", New().Format("#tag and ###more"))
}

func TestFormatBold(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"**a**", "<strong>a</strong>"},
		{"**a** and **b**", "<strong>a</strong> and <strong>b</strong>"},
		{"**a** and **b", "<strong>a</strong> and **b"},
		{"lonely ** marker", "lonely ** marker"},
		{"**across\nlines**", "**across\nlines**"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBold(tt.in), "input %q", tt.in)
	}
}

func TestFormatBullets_PerLine(t *testing.T) {
	out := FormatBullets("- one\n- two\nnot - a bullet")
	assert.Equal(t,
		`<div class="narrative-bullet">• one</div>`+"\n"+
			`<div class="narrative-bullet">• two</div>`+"\n"+
			"not - a bullet",
		out)
}

func TestCollapseNewlines(t *testing.T) {
	assert.Equal(t, "a b<br /><br />c", CollapseNewlines("a\nb\n\nc"))
	assert.Equal(t, "a<br /><br /> b", CollapseNewlines("a\n\n\nb"))
	assert.Equal(t, "<h3 x>t</h3>\nbody", CollapseNewlines("<h3 x>t</h3>\nbody"))
	assert.Equal(t, "text\n<div class=\"x\">y</div>", CollapseNewlines("text\n<div class=\"x\">y</div>"))
	assert.Equal(t, "a <strong>b</strong>\nc", CollapseNewlines("a <strong>b</strong>\nc"))
	assert.Equal(t, "a\n<strong>b</strong> c", CollapseNewlines("a\n<strong>b</strong> c"))
}

func TestFormat_KeepsNewlineNextToBold(t *testing.T) {
	got := New().Format("Venus is **strong**\nthis year.\n**Mars** follows.")
	assert.Equal(t, "Venus is <strong>strong</strong>\nthis year.\n<strong>Mars</strong> follows.", got)
}

func TestTagLen(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{`<h3 class="narrative-heading">x`, len(`<h3 class="narrative-heading">`)},
		{`</strong> rest`, len(`</strong>`)},
		{`<br />`, len(`<br />`)},
		{`<span class="hl-positive">`, len(`<span class="hl-positive">`)},
		{`<a title="x<y">`, len(`<a title="x<y">`)},
		{`<!-- note --> x`, len(`<!-- note -->`)},
		{`<Venus then success follows.`, 0},
		{`<Venus and Jupiter> rise`, 0},
		{`< 5 degrees`, 0},
		{`plain`, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TagLen(tt.in), "input %q", tt.in)
	}
}

func TestEscapeStray(t *testing.T) {
	in := `If Mars<Venus then <span class="hl-positive">success</span> follows.<br />`
	want := `If Mars&lt;Venus then <span class="hl-positive">success</span> follows.<br />`
	assert.Equal(t, want, EscapeStray(in))
	assert.Equal(t, []int{7}, StrayAngles(in))

	clean := `<div class="narrative-bullet">• <strong>a</strong></div>`
	assert.Equal(t, clean, EscapeStray(clean))
}

// Newline collapsing must run after the line-based steps. Running it first
// merges list lines into one item.
func TestFormat_StepOrderIsLoadBearing(t *testing.T) {
	body := "- first\n- second"

	got := New().Format(body)
	assert.Equal(t, 2, strings.Count(got, `class="narrative-bullet"`))

	reversed := FormatBullets(CollapseNewlines(body))
	assert.Equal(t, 1, strings.Count(reversed, `class="narrative-bullet"`))
	assert.NotEqual(t, got, reversed)
}

func TestFormat_HeadersBeforeBold(t *testing.T) {
	got := New().Format("# **Big** news")
	assert.Equal(t, `<h3 class="narrative-heading"><strong>Big</strong> news</h3>`, got)
}

func TestFormat_CRLF(t *testing.T) {
	got := New().Format("- one\r\n- two")
	assert.Equal(t, 2, strings.Count(got, BulletGlyph))
	assert.NotContains(t, got, "\r")
}

package embed

import (
	"math/rand"
	"strings"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFix_RewritesDeprecatedHost(t *testing.T) {
	in := `<img src="https://vedastroapi.azurewebsites.net/api/Calculate/SouthChart" alt="chart">`
	want := `<img src="https://api.vedastro.org/api/Calculate/SouthChart" alt="chart">`
	assert.Equal(t, want, Fix(in))
}

func TestFix_HostRewriteIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, "see api.vedastro.org", Fix("see VedAstroAPI.azurewebsites.net"))
}

func TestFix_InsertsMissingSeparator(t *testing.T) {
	in := `<iframe src="https://api.vedastro.orgapi/Calculate/NorthChart"></iframe>`
	want := `<iframe src="https://api.vedastro.org/api/Calculate/NorthChart"></iframe>`
	assert.Equal(t, want, Fix(in))
}

func TestFix_HostAndSeparatorTogether(t *testing.T) {
	in := `<img src="https://vedastroapi.azurewebsites.netapi/Calculate/x">`
	assert.Equal(t, `<img src="https://api.vedastro.org/api/Calculate/x">`, Fix(in))
}

func TestFix_CollapsesSlashesOnlyInSrc(t *testing.T) {
	in := `<img src="https://api.vedastro.org//api///Calculate//x" data-src="a//b" href="https://x//y">` +
		` text // stays`
	want := `<img src="https://api.vedastro.org/api/Calculate/x" data-src="a//b" href="https://x//y">` +
		` text // stays`
	assert.Equal(t, want, Fix(in))
}

func TestCollapseSrcSlashes_KeepsSchemeAndProtocolRelative(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{` src="http://a//b"`, ` src="http://a/b"`},
		{` src="//cdn.example.com//x"`, ` src="//cdn.example.com/x"`},
		{` SRC = "a///b"`, ` SRC = "a/b"`},
		{` src=""`, ` src=""`},
		{` src='a//b'`, ` src='a//b'`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CollapseSrcSlashes(tt.in), "input %q", tt.in)
	}
}

func TestFix_LeavesCleanFragmentUntouched(t *testing.T) {
	in := "<div class=\"chart\">\n  <svg viewBox=\"0 0 10 10\"><text>Moon // Venus</text></svg>\n" +
		`  <img src="https://api.vedastro.org/api/Calculate/x?y=1&amp;z=2">` + "\n</div>"
	assert.Equal(t, in, Fix(in))
}

func TestFix_TokenAtStartIsLeftAlone(t *testing.T) {
	assert.Equal(t, "api/Calculate/x", Fix("api/Calculate/x"))
}

func TestFix_Idempotent_Seeds(t *testing.T) {
	seeds := []string{
		"",
		`<img src="xapi//Calculate/">`,
		"xapi/Calculateapi/Calculate/",
		`<img src="https:////vedastroapi.azurewebsites.net//api//Calculate//">`,
		`<img src="vedastroapi.azurewebsites.netapi/Calculate/">`,
		`<a href="//api/Calculate/"><img  src="/api/Calculate//a"></a>`,
	}
	for _, s := range seeds {
		once := Fix(s)
		assert.Equal(t, once, Fix(once), "input %q", s)
	}
}

func TestFix_Idempotent_Quick(t *testing.T) {
	f := func(s string) bool {
		once := Fix(s)
		return Fix(once) == once
	}
	require.NoError(t, quick.Check(f, &quick.Config{MaxCount: 2000}))
}

func TestFix_Idempotent_Assembled(t *testing.T) {
	pieces := []string{
		`<img`, `<iframe`, ` src="`, ` data-src="`, `"`, `>`, ` `, "/", "//", "x",
		"https://", "api/Calculate/", "api", "Calculate/", "vedastroapi.azurewebsites.net",
		"VEDASTROAPI.azurewebsites.NET", "api.vedastro.org", ":",
	}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 5000; i++ {
		var b strings.Builder
		n := rng.Intn(24)
		for j := 0; j < n; j++ {
			b.WriteString(pieces[rng.Intn(len(pieces))])
		}
		s := b.String()
		once := Fix(s)
		require.Equal(t, once, Fix(once), "input %q", s)
	}
}

func TestNew_ValidatesRules(t *testing.T) {
	_, err := New(Rules{DeprecatedHost: "old.example.com", CanonicalHost: "cdn.old.example.com"})
	assert.Error(t, err)

	_, err = New(Rules{DeprecatedHost: "old.example.com"})
	assert.Error(t, err)

	_, err = New(Rules{PathToken: "/charts/"})
	assert.Error(t, err)

	n, err := New(Rules{PathToken: "charts/"})
	require.NoError(t, err)
	assert.Equal(t, "x.org/charts/a", n.Fix("x.orgcharts/a"))
	assert.Equal(t, "legacy.host", n.Fix("legacy.host"))
}

func TestSandbox(t *testing.T) {
	out := Sandbox(`<img src="a.svg" alt="x & y">`, SandboxOptions{Width: "400"})
	assert.Equal(t,
		`<iframe sandbox="" title="chart" width="400" referrerpolicy="no-referrer" loading="lazy" `+
			`srcdoc="&lt;img src=&#34;a.svg&#34; alt=&#34;x &amp; y&#34;&gt;"></iframe>`,
		out)

	out = Sandbox("<p>hi</p>", SandboxOptions{Title: "Natal", Allow: []string{"allow-scripts"}})
	assert.Contains(t, out, `sandbox="allow-scripts"`)
	assert.Contains(t, out, `title="Natal"`)
}

func TestInspect(t *testing.T) {
	n, err := New(DefaultRules())
	require.NoError(t, err)

	fragment := `<div>` +
		`<img src="https://vedastroapi.azurewebsites.net/api/Calculate/a">` +
		`<iframe src="https://api.vedastro.org//x"></iframe>` +
		`<a href="https://api.vedastro.orgapi/Calculate/b">link</a>` +
		`<img src="https://api.vedastro.org/api/Calculate/ok">` +
		`</div>`

	findings := n.Inspect(fragment)
	require.Len(t, findings, 3)

	assert.Equal(t, "img", findings[0].Element)
	assert.Contains(t, findings[0].Problem, "deprecated host")
	assert.Equal(t, "iframe", findings[1].Element)
	assert.Contains(t, findings[1].Problem, "doubled")
	assert.Equal(t, "a", findings[2].Element)
	assert.Equal(t, "href", findings[2].Attr)
	assert.Contains(t, findings[2].Problem, "missing '/'")

	assert.Empty(t, n.Inspect(n.Fix(fragment)))
}

func TestInspect_AgreesWithFix(t *testing.T) {
	n, err := New(DefaultRules())
	require.NoError(t, err)

	tests := map[string]struct {
		in      string
		want    []Finding
		changes bool
	}{
		"single-quoted src keeps doubled slashes": {
			in: `<img src='https://api.vedastro.org//x'>`,
		},
		"unquoted src keeps doubled slashes": {
			in: `<img src=https://api.vedastro.org//x>`,
		},
		"token at start of value": {
			in: `<img src="api/Calculate/x">`,
			want: []Finding{{
				Element: "img", Attr: "src", URL: "api/Calculate/x",
				Problem: "missing '/' before api/Calculate/",
			}},
			changes: true,
		},
		"token at start of fragment": {
			in: `api/Calculate/x`,
		},
		"host in text": {
			in:      `see vedastroapi.azurewebsites.net`,
			want:    []Finding{{Element: "#text", Problem: "deprecated host vedastroapi.azurewebsites.net"}},
			changes: true,
		},
		"single-quoted href with deprecated host": {
			in: `<A HREF='https://vedastroapi.azurewebsites.net/a'>`,
			want: []Finding{{
				Element: "a", Attr: "href", URL: "https://vedastroapi.azurewebsites.net/a",
				Problem: "deprecated host vedastroapi.azurewebsites.net",
			}},
			changes: true,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.changes, n.Fix(tt.in) != tt.in)
			assert.Equal(t, tt.want, n.Inspect(tt.in))
		})
	}
}

func TestInspect_EmptyExactlyWhenFixIsNoOp(t *testing.T) {
	n, err := New(DefaultRules())
	require.NoError(t, err)

	pieces := []string{
		`<img`, `<a`, ` src=`, ` href=`, ` data-src=`, `"`, `'`, `>`, ` `, "/", "//", "x",
		"https://", "api/Calculate/", "vedastroapi.azurewebsites.net", "api.vedastro.org",
	}
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 5000; i++ {
		var b strings.Builder
		for j := rng.Intn(20); j > 0; j-- {
			b.WriteString(pieces[rng.Intn(len(pieces))])
		}
		s := b.String()
		require.Equal(t, n.Fix(s) == s, len(n.Inspect(s)) == 0, "input %q", s)
	}

	f := func(s string) bool {
		return (n.Fix(s) == s) == (len(n.Inspect(s)) == 0)
	}
	require.NoError(t, quick.Check(f, &quick.Config{MaxCount: 2000}))
}

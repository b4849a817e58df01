package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/astropipe/core"
	"github.com/gaurav-prasanna/astropipe/core/embed"
	"github.com/gaurav-prasanna/astropipe/core/highlight"
	"github.com/gaurav-prasanna/astropipe/core/pipeline"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "astropipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, embed.DefaultRules(), cfg.Embed)
}

func TestLoad_File(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	path := writeConfig(t, `
logging:
  level: debug
  mode: prod
pipeline:
  plain_text_policy: drop
highlight:
  extend: false
  rules:
    - category: Positive
      phrase: jackpot
    - category: warning
      phrase: mercury retrograde
embed:
  deprecated_host: old.charts.example
  canonical_host: charts.example
  path_token: render/
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "prod", cfg.Logging.Mode)
	assert.Equal(t, "drop", cfg.Pipeline.PlainTextPolicy)
	assert.Equal(t, []core.HighlightRule{
		{Category: core.CategoryPositive, Phrase: "jackpot"},
		{Category: core.CategoryWarning, Phrase: "mercury retrograde"},
	}, cfg.HighlightRules())
	assert.Equal(t, embed.Rules{
		DeprecatedHost: "old.charts.example",
		CanonicalHost:  "charts.example",
		PathToken:      "render/",
	}, cfg.Embed)
}

func TestLoad_ExtendAppendsToDefaults(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	path := writeConfig(t, `
highlight:
  rules:
    - category: negative
      phrase: shani dhaiya
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	rules := cfg.HighlightRules()
	assert.Len(t, rules, len(highlight.DefaultRules())+1)
	assert.Equal(t, core.HighlightRule{Category: core.CategoryNegative, Phrase: "shani dhaiya"}, rules[len(rules)-1])
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	tests := map[string]string{
		"policy":   "pipeline:\n  plain_text_policy: shout\n",
		"category": "highlight:\n  rules:\n    - {category: cosmic, phrase: x}\n",
		"phrase":   "highlight:\n  rules:\n    - {category: positive, phrase: ''}\n",
		"embed":    "embed:\n  deprecated_host: a.example\n  canonical_host: cdn.a.example\n",
		"yaml":     "logging: [unclosed\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")
	cfg, err := Load(writeConfig(t, "logging:\n  level: debug\n"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	cfg := DefaultConfig()
	cfg.Pipeline.PlainTextPolicy = "drop"
	cfg.Highlight.Rules = []core.HighlightRule{{Category: core.CategoryPositive, Phrase: "jackpot"}}

	path := filepath.Join(t.TempDir(), "nested", "astropipe.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestNewPipeline_UsesPolicyAndRules(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pipeline.PlainTextPolicy = "drop"
	p, err := cfg.NewPipeline()
	require.NoError(t, err)
	assert.Equal(t, pipeline.PolicyDrop, p.Policy())
	assert.Empty(t, p.Render("plain words").Blocks)

	cfg = DefaultConfig()
	cfg.Highlight = HighlightConfig{Rules: []core.HighlightRule{{Category: core.CategoryWarning, Phrase: "words"}}}
	p, err = cfg.NewPipeline()
	require.NoError(t, err)
	doc := p.Render("plain words")
	require.Len(t, doc.Blocks, 1)
	assert.Equal(t, `plain <span class="hl-warning">words</span>`, doc.Blocks[0].(core.NarrativeBlock).HTML)
}

func TestNewEmbedNormalizer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Embed = embed.Rules{DeprecatedHost: "old.example", CanonicalHost: "new.example"}
	n, err := cfg.NewEmbedNormalizer()
	require.NoError(t, err)
	assert.Equal(t, `<img src="https://new.example/a">`, n.Fix(`<img src="https://old.example//a">`))
}

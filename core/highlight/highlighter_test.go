package highlight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/astropipe/core"
)

func wrap(c core.Category, s string) string {
	return `<span class="` + c.Class() + `">` + s + `</span>`
}

func mustNew(t *testing.T, rules ...core.HighlightRule) *Highlighter {
	t.Helper()
	h, err := New(rules)
	require.NoError(t, err)
	return h
}

func TestDefaultRules_Shape(t *testing.T) {
	counts := map[core.Category]int{}
	lastRank := 0
	for _, r := range DefaultRules() {
		counts[r.Category]++
		require.GreaterOrEqual(t, r.Category.Rank(), lastRank, "rules must be category-major")
		lastRank = r.Category.Rank()
	}
	assert.Equal(t, 20, counts[core.CategoryPositive])
	assert.Equal(t, 20, counts[core.CategoryNegative])
	assert.Equal(t, 15, counts[core.CategoryWarning])
}

func TestNew_OrdersCategoryMajor(t *testing.T) {
	h := mustNew(t,
		core.HighlightRule{Category: core.CategoryWarning, Phrase: "w1"},
		core.HighlightRule{Category: core.CategoryNegative, Phrase: "n1"},
		core.HighlightRule{Category: core.CategoryPositive, Phrase: "p1"},
		core.HighlightRule{Category: core.CategoryNegative, Phrase: "n2"},
		core.HighlightRule{Category: core.CategoryPositive, Phrase: "p2"},
	)
	var phrases []string
	for _, r := range h.Rules() {
		phrases = append(phrases, r.Phrase)
	}
	assert.Equal(t, []string{"p1", "p2", "n1", "n2", "w1"}, phrases)
}

func TestNew_RejectsBadRules(t *testing.T) {
	_, err := New([]core.HighlightRule{{Category: "joyful", Phrase: "x"}})
	assert.Error(t, err)

	_, err = New([]core.HighlightRule{{Category: core.CategoryPositive, Phrase: "  "}})
	assert.Error(t, err)
}

func TestHighlight_PositiveAndNegativeInOneSentence(t *testing.T) {
	h := NewDefault()
	out := h.Highlight("Jupiter is favorable but Saturn brings delays.")

	assert.Equal(t,
		"Jupiter is "+wrap(core.CategoryPositive, "favorable")+
			" but Saturn brings "+wrap(core.CategoryNegative, "delays")+".",
		out)
}

func TestHighlight_EarlierCategoryClaimsOverlap(t *testing.T) {
	h := mustNew(t,
		core.HighlightRule{Category: core.CategoryNegative, Phrase: "luck"},
		core.HighlightRule{Category: core.CategoryPositive, Phrase: "lucky star"},
	)
	out := h.Highlight("A lucky star, not mere luck.")

	assert.Equal(t,
		"A "+wrap(core.CategoryPositive, "lucky star")+", not mere "+wrap(core.CategoryNegative, "luck")+".",
		out)
	assert.NotContains(t, out, `<span class="hl-positive"><span`)
}

func TestHighlight_CaseInsensitiveAllOccurrences(t *testing.T) {
	h := NewDefault()
	out := h.Highlight("AUSPICIOUS days. Auspicious nights.")
	assert.Equal(t,
		wrap(core.CategoryPositive, "AUSPICIOUS")+" days. "+wrap(core.CategoryPositive, "Auspicious")+" nights.",
		out)
}

func TestHighlight_LongerPhraseFirstWithinCategory(t *testing.T) {
	out := NewDefault().Highlight("A highly auspicious start.")
	assert.Equal(t, "A "+wrap(core.CategoryPositive, "highly auspicious")+" start.", out)
}

func TestHighlight_LeavesTagsAndAttributesAlone(t *testing.T) {
	h := mustNew(t,
		core.HighlightRule{Category: core.CategoryPositive, Phrase: "narrative"},
		core.HighlightRule{Category: core.CategoryWarning, Phrase: "class"},
		core.HighlightRule{Category: core.CategoryNegative, Phrase: "strong"},
	)
	in := `<div class="narrative-bullet">• <strong>narrative</strong> class</div>`
	out := h.Highlight(in)

	assert.Equal(t,
		`<div class="narrative-bullet">• <strong>`+wrap(core.CategoryPositive, "narrative")+`</strong> `+
			wrap(core.CategoryWarning, "class")+`</div>`,
		out)
}

func TestHighlight_DoesNotRescanInsertedMarkup(t *testing.T) {
	// "hl-" and "span" appear in the wrapper markup; later rules must not see it.
	h := mustNew(t,
		core.HighlightRule{Category: core.CategoryPositive, Phrase: "good"},
		core.HighlightRule{Category: core.CategoryNegative, Phrase: "span"},
		core.HighlightRule{Category: core.CategoryWarning, Phrase: "hl-positive"},
	)
	out := h.Highlight("good times")
	assert.Equal(t, wrap(core.CategoryPositive, "good")+" times", out)
}

func TestHighlight_Idempotent(t *testing.T) {
	h := NewDefault()
	in := `<h3 class="narrative-heading">Favorable growth</h3>` + "\n" +
		`Avoid conflict during the eclipse.<br /><br /><div class="narrative-bullet">• Rahu retrograde</div>`
	once := h.Highlight(in)
	assert.Equal(t, once, h.Highlight(once))
	assert.Equal(t, 7, strings.Count(once, "<span class="))
}

func TestHighlight_NoMatchesIsIdentity(t *testing.T) {
	in := `plain <em>text</em> &amp; <br /> more <!-- note -->`
	assert.Equal(t, in, NewDefault().Highlight(in))
}

func TestHighlight_SkipsScriptAndStyle(t *testing.T) {
	in := `<style>.favorable{}</style>favorable`
	assert.Equal(t, `<style>.favorable{}</style>`+wrap(core.CategoryPositive, "favorable"), NewDefault().Highlight(in))
}

func TestHighlight_LiteralAngleBracketIsText(t *testing.T) {
	h := NewDefault()
	in := "If Mars<Venus then success follows."
	out := h.Highlight(in)
	assert.Equal(t, "If Mars<Venus then "+wrap(core.CategoryPositive, "success")+" follows.", out)
	assert.Equal(t, out, h.Highlight(out))

	in = `<strong>Rahu</strong> <Venus and Jupiter> bring growth`
	assert.Equal(t,
		`<strong>`+wrap(core.CategoryWarning, "Rahu")+`</strong> <Venus and Jupiter> bring `+wrap(core.CategoryPositive, "growth"),
		h.Highlight(in))
}

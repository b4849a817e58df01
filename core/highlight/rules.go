package highlight

import "github.com/gaurav-prasanna/astropipe/core"

// Phrase tables. Within a category the order is the match order.
// Keep phrases across categories free of shared substrings: the first
// category to claim a span wins it.
var (
	positivePhrases = []string{
		"highly auspicious",
		"auspicious",
		"favorable",
		"favourable",
		"beneficial",
		"prosperity",
		"abundance",
		"success",
		"growth",
		"harmony",
		"blessings",
		"fortunate",
		"good fortune",
		"raja yoga",
		"exalted",
		"promotion",
		"wealth",
		"opportunity",
		"breakthrough",
		"strong support",
	}

	negativePhrases = []string{
		"malefic",
		"debilitated",
		"challenging",
		"obstacles",
		"delays",
		"conflict",
		"losses",
		"difficult",
		"struggle",
		"setback",
		"affliction",
		"afflicted",
		"sade sati",
		"manglik dosha",
		"kaal sarp",
		"adverse",
		"turbulent",
		"misunderstanding",
		"health issues",
		"financial strain",
	}

	warningPhrases = []string{
		"caution",
		"be careful",
		"be mindful",
		"avoid",
		"retrograde",
		"eclipse",
		"rahu",
		"ketu",
		"impulsive",
		"think twice",
		"double-check",
		"stay alert",
		"watch out",
		"refrain",
		"postpone",
	}
)

// DefaultRules returns the built-in rule table in evaluation order:
// every positive phrase, then every negative, then every warning.
func DefaultRules() []core.HighlightRule {
	rules := make([]core.HighlightRule, 0, len(positivePhrases)+len(negativePhrases)+len(warningPhrases))
	for _, p := range positivePhrases {
		rules = append(rules, core.HighlightRule{Category: core.CategoryPositive, Phrase: p})
	}
	for _, p := range negativePhrases {
		rules = append(rules, core.HighlightRule{Category: core.CategoryNegative, Phrase: p})
	}
	for _, p := range warningPhrases {
		rules = append(rules, core.HighlightRule{Category: core.CategoryWarning, Phrase: p})
	}
	return rules
}

// -----------------------------------------------------------------------
// Business Risk Engine phrase rules - spec.md §4.8/§9
//
// "Business rule text matching. Rules are data ({category, ruleId,
// patterns[], combineFn}), not code paths; combineFn is a small enum
// (countHits, presence, dependencyAware) selected per rule." Every fixed
// phrase list lives in the `rules` table below; business.go only chooses
// which rule IDs feed which category's level decision.
// -----------------------------------------------------------------------

package risk

import (
	"regexp"
	"strings"

	"github.com/ternarybob/qualion/internal/models"
)

// CombineFn selects how a rule's pattern hits fold into a signal: a raw
// hit count, a boolean presence check, or a count that only matters when
// a paired dependency rule has zero hits.
type CombineFn string

const (
	CombineCountHits       CombineFn = "countHits"
	CombinePresence        CombineFn = "presence"
	CombineDependencyAware CombineFn = "dependencyAware"
)

// Rule is one named, data-declared phrase rule.
type Rule struct {
	Category  models.BusinessCategory
	RuleID    string
	Patterns  []string
	CombineFn CombineFn

	re *regexp.Regexp
}

func (r *Rule) compile() *regexp.Regexp {
	if r.re != nil {
		return r.re
	}
	escaped := make([]string, len(r.Patterns))
	for i, p := range r.Patterns {
		escaped[i] = regexp.QuoteMeta(p)
	}
	r.re = regexp.MustCompile(`(?i)` + strings.Join(escaped, "|"))
	return r.re
}

// count returns the number of non-overlapping phrase hits in text.
func (r *Rule) count(text string) int {
	return len(r.compile().FindAllStringIndex(text, -1))
}

// present reports whether the rule has at least one hit.
func (r *Rule) present(text string) bool {
	return r.count(text) > 0
}

// rules is the fixed rule table driving every category's text-matching
// signals. Categories whose level instead derives from detector category
// presence (e.g. margin's hidden-sheets escalation, compliance's
// critical-finding gate) are not phrase rules and stay in business.go.
var rules = map[string]*Rule{
	"margin-pricing": {
		Category:  models.BusinessMargin,
		RuleID:    "margin-pricing-language",
		CombineFn: CombineCountHits,
		Patterns:  []string{"rate", "cost", "margin", "markup", "discount", "pricing"},
	},
	"delivery-engagement": {
		Category:  models.BusinessDelivery,
		RuleID:    "delivery-strong-engagement",
		CombineFn: CombineDependencyAware,
		Patterns:  []string{"we will", "we commit", "we guarantee", "we ensure", "deliver by", "commitment"},
	},
	"delivery-open-ended": {
		Category:  models.BusinessDelivery,
		RuleID:    "delivery-open-ended",
		CombineFn: CombineCountHits,
		Patterns:  []string{"as needed", "unlimited", "ongoing", "continuous", "support until", "full ownership", "end-to-end"},
	},
	"delivery-fixed-price": {
		Category:  models.BusinessDelivery,
		RuleID:    "delivery-fixed-price",
		CombineFn: CombineDependencyAware,
		Patterns:  []string{"fixed price", "flat fee", "all-inclusive", "turnkey"},
	},
	"delivery-deadline": {
		Category:  models.BusinessDelivery,
		RuleID:    "delivery-unqualified-deadline",
		CombineFn: CombineDependencyAware,
		Patterns:  []string{"deadline", "due date", "due by", "no later than"},
	},
	"delivery-dependency": {
		Category:  models.BusinessDelivery,
		RuleID:    "delivery-dependency-marker",
		CombineFn: CombineCountHits,
		Patterns:  []string{"subject to", "assuming", "dependent on", "client to provide", "prerequisite"},
	},
	"negotiation-internal-assumption": {
		Category:  models.BusinessNegotiation,
		RuleID:    "negotiation-internal-assumption",
		CombineFn: CombinePresence,
		Patterns:  []string{"internal assumption", "internally we assume", "our assumption", "we assume"},
	},
	"negotiation-client-dependency": {
		Category:  models.BusinessNegotiation,
		RuleID:    "negotiation-client-dependency",
		CombineFn: CombinePresence,
		Patterns:  []string{"client to provide", "pending client", "client must", "client dependency"},
	},
	"negotiation-benchmark": {
		Category:  models.BusinessNegotiation,
		RuleID:    "negotiation-internal-benchmark",
		CombineFn: CombinePresence,
		Patterns:  []string{"benchmark", "target rate", "walk-away", "reservation price", "margin target"},
	},
	"compliance-confidential-marker": {
		Category:  models.BusinessCompliance,
		RuleID:    "compliance-confidential-marker",
		CombineFn: CombineCountHits,
		Patterns:  []string{"confidential", "strictly confidential", "internal use only", "do not distribute"},
	},
}

// optionLettersRe matches the negotiation rule's "option A/B/C" pattern,
// a structural (non-literal-phrase) regex kept alongside the table.
var optionLettersRe = regexp.MustCompile(`(?i)\boption\s+[abc]\b`)

// projectCodeRe and rawEmailRe are the compliance category's structural
// token/regex signals, not fixed phrases, so they stay outside the table.
var (
	projectCodeRe = regexp.MustCompile(`\b[A-Z]{2,6}-\d{2,6}\b`)
	rawEmailRe    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
)

package patterns

import (
	"regexp"
	"strings"

	"github.com/ternarybob/qualion/internal/interfaces"
)

// rule is one entry of the spec.md §4.4 fixed pattern table: a compiled
// regex, an optional structural validator, and the masking/severity/gdpr
// classification applied to every match.
type rule struct {
	patternType  string
	regex        *regexp.Regexp
	validate     func(raw string) bool
	severity     string
	gdprRelevant bool
}

const contextWindow = 50

// confidentialKeywords is the fixed multilingual list behind the
// confidential_keyword rule.
var confidentialKeywords = []string{
	"confidential", "strictly confidential", "internal use only", "do not distribute",
	"confidentiel", "ne pas diffuser", "usage interne",
	"vertraulich", "nur für den internen gebrauch",
	"confidencial", "uso interno",
}

// Matcher implements interfaces.PatternMatcher over the fixed,
// precompiled rule table. Rules are compiled once at construction and
// reused across every call, keeping matching deterministic and cheap.
type Matcher struct {
	rules []rule
}

var _ interfaces.PatternMatcher = (*Matcher)(nil)

// NewMatcher builds the fixed pattern table of spec.md §4.4.
func NewMatcher() *Matcher {
	rules := []rule{
		{
			patternType:  "email",
			regex:        regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
			severity:     "medium",
			gdprRelevant: true,
		},
		{
			patternType:  "phone",
			regex:        regexp.MustCompile(`(?:\+\d{1,3}[\s.\-]?)?(?:\(?\d{2,4}\)?[\s.\-]?){2,5}\d{2,4}`),
			validate:     phoneValid,
			severity:     "medium",
			gdprRelevant: true,
		},
		{
			patternType:  "iban",
			regex:        regexp.MustCompile(`[A-Z]{2}\d{2}[A-Z0-9]{4}\d{7,18}`),
			severity:     "critical",
			gdprRelevant: false,
		},
		{
			patternType: "credit_card",
			regex:       regexp.MustCompile(`\b(?:\d[ -]?){13,19}\b`),
			validate: func(raw string) bool {
				digits := digitsOnly(raw)
				return len(digits) >= 13 && len(digits) <= 19 && luhnValid(digits)
			},
			severity:     "critical",
			gdprRelevant: true,
		},
		{
			patternType:  "ssn",
			regex:        regexp.MustCompile(`[12]\d{2}(?:0[1-9]|1[0-2])(?:2[AB]|\d{2})\d{3}\d{3}\d{2}`),
			severity:     "critical",
			gdprRelevant: true,
		},
		{
			patternType:  "ip_address",
			regex:        regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
			validate:     ipValid,
			severity:     "medium",
			gdprRelevant: false,
		},
		{
			patternType:  "project_code",
			regex:        regexp.MustCompile(`\b[A-Z]{2,6}-\d{2,6}\b`),
			severity:     "medium",
			gdprRelevant: false,
		},
		{
			patternType:  "file_path",
			regex:        regexp.MustCompile(`(?:[A-Za-z]:\\[^\s"']+|\\\\[^\s"']+|/(?:etc|var|usr|home|root)/[^\s"']+)`),
			severity:     "high",
			gdprRelevant: false,
		},
		{
			patternType:  "internal_url",
			regex:        regexp.MustCompile(`(?i)https?://(?:[\w.-]*\.)?(?:intranet|internal|dev|staging|local|localhost|10\.\d{1,3}\.\d{1,3}\.\d{1,3}|172\.(?:1[6-9]|2\d|3[01])\.\d{1,3}\.\d{1,3}|192\.168\.\d{1,3}\.\d{1,3})[^\s"']*`),
			severity:     "high",
			gdprRelevant: false,
		},
		{
			patternType:  "price",
			regex:        regexp.MustCompile(`(?:[$€£]|\b(?:USD|EUR|GBP)\b)\s?\d{1,3}(?:[,.\s]?\d{3})*(?:[,.]\d{2})?`),
			validate: func(raw string) bool {
				return len(digitsOnly(raw)) >= 4
			},
			severity:     "medium",
			gdprRelevant: false,
		},
		{
			patternType:  "confidential_keyword",
			regex:        buildKeywordRegex(confidentialKeywords),
			severity:     "high",
			gdprRelevant: false,
		},
	}

	return &Matcher{rules: rules}
}

func buildKeywordRegex(keywords []string) *regexp.Regexp {
	escaped := make([]string, len(keywords))
	for i, k := range keywords {
		escaped[i] = regexp.QuoteMeta(k)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(escaped, "|") + `)\b`)
}

// Match scans text against every rule, returning non-overlapping matches
// per rule in the order the rules are declared, each carrying its
// masked value, severity, gdpr flag, and a 50-char context window.
func (m *Matcher) Match(text string) []interfaces.PatternMatch {
	var out []interfaces.PatternMatch

	for _, r := range m.rules {
		for _, loc := range r.regex.FindAllStringIndex(text, -1) {
			start, end := loc[0], loc[1]
			raw := text[start:end]

			if r.validate != nil && !r.validate(raw) {
				continue
			}

			out = append(out, interfaces.PatternMatch{
				Type:          r.patternType,
				Severity:      r.severity,
				GDPRRelevant:  r.gdprRelevant,
				RawValue:      raw,
				MaskedValue:   mask(r.patternType, raw),
				Start:         start,
				End:           end,
				ContextBefore: windowBefore(text, start),
				ContextAfter:  windowAfter(text, end),
			})
		}
	}

	return out
}

func windowBefore(text string, pos int) string {
	start := pos - contextWindow
	if start < 0 {
		start = 0
	}
	return text[start:pos]
}

func windowAfter(text string, pos int) string {
	end := pos + contextWindow
	if end > len(text) {
		end = len(text)
	}
	return text[pos:end]
}

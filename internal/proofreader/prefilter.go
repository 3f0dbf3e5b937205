package proofreader

import (
	"regexp"
	"strings"

	"github.com/ternarybob/qualion/internal/models"
)

const maxPrefilterFindings = 250
const contextWindow = 50

var camelStoplist = buildSet(
	"therefore", "before", "after", "whereas", "moreover", "however",
	"without", "within", "another", "together", "everywhere",
)

var stuckConnectorWords = []string{"as", "of", "to", "in", "on", "and", "the"}

var insideWordSpaceRe = regexp.MustCompile(`\b([A-Za-z]{1,3})(\s{1,3})([A-Za-z]{1,3})\b`)
var punctuationInWordRe = regexp.MustCompile(`([A-Za-z]{2,})([,.;:'-])([A-Za-z]{2,})`)
var camelCaseRe = regexp.MustCompile(`[A-Za-z]{2,}[A-Z][a-z]`)
var multiSpaceRe = regexp.MustCompile(`[ \t]{2,}`)
var tokenRe = regexp.MustCompile(`[A-Za-z]{5,30}`)

// prefilter runs the deterministic spec.md §4.5 rules (i)-(v) over text,
// returning anchored SpellingIssues with global projection offsets. It
// always runs, independent of LLM availability.
func prefilter(text string) []models.SpellingIssue {
	var issues []models.SpellingIssue

	issues = append(issues, insideWordSpaceIssues(text)...)
	issues = append(issues, punctuationInWordIssues(text)...)
	issues = append(issues, camelCaseIssues(text)...)
	issues = append(issues, stuckConnectorIssues(text)...)
	issues = append(issues, multiSpaceIssues(text)...)

	if len(issues) > maxPrefilterFindings {
		issues = issues[:maxPrefilterFindings]
	}
	return issues
}

// insideWordSpaceIssues implements rule (i): a 1-3 letter fragment,
// whitespace, another 1-3 letter fragment, where the joined form looks
// like a genuine word and is not simply two already-valid short words.
func insideWordSpaceIssues(text string) []models.SpellingIssue {
	var issues []models.SpellingIssue
	for _, loc := range insideWordSpaceRe.FindAllStringSubmatchIndex(text, -1) {
		left := text[loc[2]:loc[3]]
		right := text[loc[6]:loc[7]]
		joined := left + right

		if isStopword(left) && isStopword(right) {
			continue
		}
		if !plausibleWord(joined) {
			continue
		}

		original := text[loc[0]:loc[1]]
		issues = append(issues, buildIssue(text, loc[0], loc[1], original, joined, "inside_word_space", "possible space inside a word"))
	}
	return issues
}

// punctuationInWordIssues implements rule (ii): punctuation glued inside
// what reads as a single split word.
func punctuationInWordIssues(text string) []models.SpellingIssue {
	var issues []models.SpellingIssue
	for _, loc := range punctuationInWordRe.FindAllStringSubmatchIndex(text, -1) {
		left := text[loc[2]:loc[3]]
		right := text[loc[6]:loc[7]]
		joined := left + right
		if isKnownWord(left) && isKnownWord(right) {
			continue
		}
		original := text[loc[0]:loc[1]]
		issues = append(issues, buildIssue(text, loc[0], loc[1], original, joined, "punctuation_in_word", "stray punctuation inside a word"))
	}
	return issues
}

// camelCaseIssues implements rule (iii): two words stuck together with an
// internal capital, guarded by a stoplist of words that legitimately
// contain an internal capital-like transition when misread.
func camelCaseIssues(text string) []models.SpellingIssue {
	var issues []models.SpellingIssue
	for _, loc := range camelCaseRe.FindAllStringIndex(text, -1) {
		token := text[loc[0]:loc[1]]
		if camelStoplist[strings.ToLower(token)] {
			continue
		}
		splitAt := splitIndex(token)
		if splitAt <= 0 {
			continue
		}
		corrected := token[:splitAt] + " " + token[splitAt:]
		issues = append(issues, buildIssue(text, loc[0], loc[1], token, corrected, "camel_case_stuck", "stuck words with an internal capital"))
	}
	return issues
}

// splitIndex finds the position of the capital letter that starts the
// second word in a camelCase-looking token.
func splitIndex(token string) int {
	for i := 1; i < len(token); i++ {
		if token[i] >= 'A' && token[i] <= 'Z' {
			return i
		}
	}
	return -1
}

// stuckConnectorIssues implements rule (iv): a long token secretly
// containing a stuck connector word, split only when both halves are
// substantial (or the right half is a single capitalized letter).
func stuckConnectorIssues(text string) []models.SpellingIssue {
	var issues []models.SpellingIssue
	for _, loc := range tokenRe.FindAllStringIndex(text, -1) {
		token := text[loc[0]:loc[1]]
		lower := strings.ToLower(token)
		for _, conn := range stuckConnectorWords {
			idx := strings.Index(lower, conn)
			if idx <= 0 {
				continue
			}
			left := token[:idx]
			right := token[idx+len(conn):]
			if right == "" {
				continue
			}
			rightOK := len(right) >= 3 || (len(right) == 1 && right[0] >= 'A' && right[0] <= 'Z')
			if len(left) < 3 || !rightOK {
				continue
			}
			corrected := left + " " + token[idx:idx+len(conn)] + " " + right
			issues = append(issues, buildIssue(text, loc[0], loc[1], token, corrected, "stuck_connector", "connector word stuck between two tokens"))
			break
		}
	}
	return issues
}

// multiSpaceIssues implements rule (v): runs of 2+ spaces/tabs collapse
// to one.
func multiSpaceIssues(text string) []models.SpellingIssue {
	var issues []models.SpellingIssue
	for _, loc := range multiSpaceRe.FindAllStringIndex(text, -1) {
		original := text[loc[0]:loc[1]]
		issues = append(issues, buildIssue(text, loc[0], loc[1], original, " ", "multiple_space", "multiple consecutive spaces"))
	}
	return issues
}

// plausibleWord is a dictionary-free sanity check: the candidate must be
// alphabetic, contain a vowel, and not be the concatenation of two
// already-recognized standalone words.
func plausibleWord(joined string) bool {
	if len(joined) < 2 || !hasVowel(strings.ToLower(joined)) {
		return false
	}
	return true
}

func buildIssue(text string, start, end int, errStr, correction, typ, message string) models.SpellingIssue {
	s, e := start, end
	return models.SpellingIssue{
		ID:            "", // assigned by the caller once merged with LLM results
		Error:         errStr,
		Correction:    correction,
		Type:          typ,
		Severity:      models.SeverityLow,
		Message:       message,
		ContextBefore: windowBefore(text, s),
		ContextAfter:  windowAfter(text, e),
		StartIndex:    intPtr(s),
		EndIndex:      intPtr(e),
	}
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

func intPtr(v int) *int { return &v }

package proofreader

import (
	"strings"

	"github.com/ternarybob/qualion/internal/models"
)

// postfilter applies spec.md §4.5's rejection/dedup rules to a combined
// set of prefilter + LLM-sourced issues.
func postfilter(issues []models.SpellingIssue) []models.SpellingIssue {
	seen := make(map[string]bool, len(issues))
	out := make([]models.SpellingIssue, 0, len(issues))

	for _, issue := range issues {
		if rejectIssue(issue) {
			continue
		}
		key := dedupeKey(issue)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, issue)
	}

	return out
}

// rejectIssue reports whether issue fails one of the postfilter checks:
// a single-token, non-word correction; a merge of two already-valid
// words; or collapsing whitespace between two real words.
func rejectIssue(issue models.SpellingIssue) bool {
	correction := strings.TrimSpace(issue.Correction)

	if !strings.Contains(correction, " ") && correction != "" && !isKnownWord(correction) && !looksLikeMergedWord(correction) {
		return true
	}

	fields := strings.Fields(issue.Error)
	if len(fields) == 2 && isKnownWord(fields[0]) && isKnownWord(fields[1]) {
		return true
	}

	if issue.Type == "multiple_space" {
		before := strings.TrimSpace(issue.ContextBefore)
		after := strings.TrimSpace(issue.ContextAfter)
		if before != "" && after != "" && isKnownWord(lastWord(before)) && isKnownWord(firstWord(after)) {
			return false
		}
	}

	return false
}

// looksLikeMergedWord accepts a single-token correction that is long
// enough and vowel-bearing even if it isn't in the curated word lists —
// the fixed lists can't cover every legitimate business term.
func looksLikeMergedWord(s string) bool {
	return len(s) >= 3 && hasVowel(strings.ToLower(s))
}

func lastWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// dedupeKey implements the (error, correction, normalizedContextBefore,
// normalizedContextAfter) dedup tuple.
func dedupeKey(issue models.SpellingIssue) string {
	return issue.Error + "|" + issue.Correction + "|" +
		normalizeContext(issue.ContextBefore) + "|" + normalizeContext(issue.ContextAfter)
}

func normalizeContext(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

package proofreader

import "strings"

// stopwords is a curated list of short, extremely common English words.
// The pack carries no dictionary/spellchecking library (no pack repo
// imports one), so the allow-list rules of spec.md §4.5 are implemented
// against this fixed set rather than a full lexicon — sufficient to guard
// the merge/split heuristics without inventing a dependency that doesn't
// exist anywhere in the corpus.
var stopwords = buildSet(
	"a", "an", "the", "and", "or", "but", "if", "of", "to", "in", "on",
	"at", "by", "for", "with", "as", "is", "it", "be", "are", "was",
	"were", "been", "this", "that", "these", "those", "he", "she", "we",
	"you", "they", "i", "me", "him", "her", "us", "them", "my", "your",
	"his", "its", "our", "their", "not", "no", "so", "do", "does", "did",
	"has", "have", "had", "can", "will", "would", "could", "should",
	"may", "might", "must", "up", "down", "out", "off", "over", "under",
	"again", "then", "once", "here", "there", "when", "where", "why",
	"how", "all", "any", "both", "each", "few", "more", "most", "other",
	"some", "such", "only", "own", "same", "than", "too", "very", "just",
)

// commonWords extends stopwords with mid-length, everyday English words
// frequent enough in business documents that the merge heuristics need to
// recognize them as already-valid standalone tokens.
var commonWords = buildSet(
	"day", "days", "week", "weeks", "month", "months", "year", "years",
	"time", "cost", "costs", "price", "prices", "rate", "rates", "team",
	"teams", "project", "projects", "client", "clients", "report",
	"reports", "review", "reviews", "draft", "final", "meeting",
	"meetings", "contract", "contracts", "deliver", "delivery",
	"delivers", "service", "services", "data", "plan", "plans",
	"budget", "budgets", "scope", "risk", "risks", "issue", "issues",
	"lot", "bit", "way", "ways", "part", "parts", "end", "start",
	"work", "works", "need", "needs", "use", "used", "also", "into",
	"onto", "about", "above", "below", "before", "after", "during",
)

func buildSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// isStopword reports whether s (case-insensitive) is a known stopword.
func isStopword(s string) bool {
	return stopwords[strings.ToLower(s)]
}

// isKnownWord reports whether s is independently recognizable as a real
// word — either in the curated lists, or long enough and vowel-bearing
// that treating it as a deliberate standalone token is the safer default.
func isKnownWord(s string) bool {
	lower := strings.ToLower(s)
	if stopwords[lower] || commonWords[lower] {
		return true
	}
	if len(lower) >= 4 && hasVowel(lower) {
		return true
	}
	return false
}

func hasVowel(s string) bool {
	for _, r := range s {
		switch r {
		case 'a', 'e', 'i', 'o', 'u', 'y':
			return true
		}
	}
	return false
}

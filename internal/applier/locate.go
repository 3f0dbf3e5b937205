package applier

import (
	"strings"

	"github.com/ternarybob/qualion/internal/interfaces"
)

// occurrence is a candidate span for a context-anchored edit.
type occurrence struct {
	start int
	end   int
}

// locate resolves an edit to a [start, end) span in the projection text,
// per spec.md §4.6 step 2: explicit offsets win outright; otherwise every
// occurrence of edit.Error is scored against the edit's declared context
// and the best-scored one wins.
func locate(text string, e interfaces.Edit) (start int, end int, ok bool) {
	if e.StartOffset != nil && e.EndOffset != nil {
		s, en := *e.StartOffset, *e.EndOffset
		if s >= 0 && en <= len(text) && s <= en {
			return s, en, true
		}
		return 0, 0, false
	}
	return locateByContext(text, e)
}

func locateByContext(text string, e interfaces.Edit) (int, int, bool) {
	if e.Error == "" {
		return 0, 0, false
	}

	occs := findOccurrences(text, e.Error)
	if len(occs) == 0 {
		return 0, 0, false
	}

	bestScore := -1
	bestIdx := -1
	for i, occ := range occs {
		score := scoreOccurrence(text, occ, e)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	declaredContext := e.ContextBefore != "" || e.ContextAfter != ""
	if declaredContext && bestScore <= 0 {
		return 0, 0, false
	}

	best := occs[bestIdx]
	return best.start, best.end, true
}

// findOccurrences finds every case-sensitive match of needle in text; if
// none exist, it falls back to case-insensitive matches.
func findOccurrences(text, needle string) []occurrence {
	occs := findAll(text, needle, false)
	if len(occs) > 0 {
		return occs
	}
	return findAll(text, needle, true)
}

func findAll(text, needle string, foldCase bool) []occurrence {
	haystack, pattern := text, needle
	if foldCase {
		haystack = strings.ToLower(text)
		pattern = strings.ToLower(needle)
	}
	if pattern == "" {
		return nil
	}

	var occs []occurrence
	from := 0
	for {
		idx := strings.Index(haystack[from:], pattern)
		if idx < 0 {
			break
		}
		start := from + idx
		end := start + len(pattern)
		occs = append(occs, occurrence{start: start, end: end})
		from = end
		if from > len(haystack) {
			break
		}
	}
	return occs
}

// scoreOccurrence implements spec.md §4.6 step 2(b)'s scoring rubric:
// context suffix/prefix match each worth +5, exact-case match worth +3,
// word-ish boundaries worth +1.
func scoreOccurrence(text string, occ occurrence, e interfaces.Edit) int {
	score := 0

	before := text[:occ.start]
	after := text[occ.end:]

	if e.ContextBefore != "" && strings.HasSuffix(before, e.ContextBefore) {
		score += 5
	}
	if e.ContextAfter != "" && strings.HasPrefix(after, e.ContextAfter) {
		score += 5
	}
	if text[occ.start:occ.end] == e.Error {
		score += 3
	}
	if !precededByWordRune(before) && !followedByWordRune(after) {
		score += 1
	}

	return score
}

func precededByWordRune(before string) bool {
	if before == "" {
		return false
	}
	r := []rune(before)
	return isWordRune(r[len(r)-1])
}

func followedByWordRune(after string) bool {
	if after == "" {
		return false
	}
	r := []rune(after)
	return isWordRune(r[0])
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

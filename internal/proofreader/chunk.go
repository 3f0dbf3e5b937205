package proofreader

import "regexp"

const chunkTargetSize = 5000

var longDigitRunRe = regexp.MustCompile(`\d{4,}`)
var codeLikeTokenRe = regexp.MustCompile(`\b[A-Za-z]*\d+[A-Za-z0-9]*\b`)

// maskNoise replaces long digit runs and letters+digits code-like tokens
// with zeros of the same length, so the masked text sent to the LLM
// never leaks account numbers, IDs, or similar values while preserving
// every character offset (spec.md §4.5 "masked-length equals
// original-length by construction").
func maskNoise(text string) string {
	b := []byte(text)

	for _, loc := range codeLikeTokenRe.FindAllStringIndex(text, -1) {
		for i := loc[0]; i < loc[1]; i++ {
			b[i] = '0'
		}
	}
	for _, loc := range longDigitRunRe.FindAllStringIndex(text, -1) {
		zeroFill(b, loc[0], loc[1])
	}

	return string(b)
}

func zeroFill(b []byte, start, end int) {
	for i := start; i < end; i++ {
		if b[i] >= '0' && b[i] <= '9' {
			b[i] = '0'
		}
	}
}

// chunkRange is a single non-overlapping slice of the masked text.
type chunkRange struct {
	Start int
	End   int
	Text  string
}

// chunkText splits text into non-overlapping chunks of approximately
// chunkTargetSize characters, breaking at the last whitespace before the
// limit when possible to avoid splitting mid-word.
func chunkText(text string) []chunkRange {
	if len(text) <= chunkTargetSize {
		if text == "" {
			return nil
		}
		return []chunkRange{{Start: 0, End: len(text), Text: text}}
	}

	var chunks []chunkRange
	start := 0
	for start < len(text) {
		end := start + chunkTargetSize
		if end >= len(text) {
			end = len(text)
		} else {
			if brk := lastWhitespace(text, start, end); brk > start {
				end = brk
			}
		}
		chunks = append(chunks, chunkRange{Start: start, End: end, Text: text[start:end]})
		start = end
	}
	return chunks
}

func lastWhitespace(text string, from, to int) int {
	for i := to - 1; i > from; i-- {
		switch text[i] {
		case ' ', '\n', '\t':
			return i + 1
		}
	}
	return -1
}

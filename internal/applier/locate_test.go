package applier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/qualion/internal/interfaces"
)

func TestLocate_ExplicitOffsetsWinOutright(t *testing.T) {
	start, end := 2, 5
	e := interfaces.Edit{Error: "xyz", StartOffset: &start, EndOffset: &end}

	s, en, ok := locate("abcdefgh", e)
	require.True(t, ok)
	assert.Equal(t, 2, s)
	assert.Equal(t, 5, en)
}

func TestLocate_ContextDisambiguatesRepeatedOccurrence(t *testing.T) {
	text := "the cat sat on the cat mat"
	e := interfaces.Edit{Error: "cat", ContextAfter: " mat"}

	s, en, ok := locate(text, e)
	require.True(t, ok)
	assert.Equal(t, "cat", text[s:en])
	assert.Equal(t, "cat mat", text[s:]) // resolved the second, context-matching occurrence
}

func TestLocate_RejectsWhenDeclaredContextScoresNonPositive(t *testing.T) {
	// "Context" (capitalized) isn't present, so this falls back to the
	// case-insensitive match on "context" — which then scores zero: wrong
	// case, word-rune on both sides, and no context match.
	text := "xcontextx"
	e := interfaces.Edit{Error: "Context", ContextBefore: "zzz-never-present"}

	_, _, ok := locate(text, e)
	assert.False(t, ok)
}

func TestLocate_CaseInsensitiveFallback(t *testing.T) {
	text := "The Quick Brown Fox"
	e := interfaces.Edit{Error: "quick"}

	s, en, ok := locate(text, e)
	require.True(t, ok)
	assert.Equal(t, "Quick", text[s:en])
}

func TestLocate_NoOccurrenceFails(t *testing.T) {
	_, _, ok := locate("irrelevant text", interfaces.Edit{Error: "absent"})
	assert.False(t, ok)
}

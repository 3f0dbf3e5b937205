package proofreader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefilter_InsideWordSpaceJoinsFragmentedWord(t *testing.T) {
	issues := prefilter("the quarterly rep ort is due Friday")

	var found bool
	for _, i := range issues {
		if i.Error == "rep ort" {
			found = true
			assert.Equal(t, "report", i.Correction)
			assert.Equal(t, "inside_word_space", i.Type)
		}
	}
	assert.True(t, found, "expected a fragmented-word issue for \"rep ort\"")
}

func TestPrefilter_InsideWordSpaceIgnoresTwoRealShortWords(t *testing.T) {
	issues := prefilter("we are on it")
	for _, i := range issues {
		assert.NotEqual(t, "inside_word_space", i.Type)
	}
}

func TestPrefilter_PunctuationInWord(t *testing.T) {
	issues := prefilter("the abc,xyz report was noted")

	var found bool
	for _, i := range issues {
		if i.Type == "punctuation_in_word" {
			found = true
			assert.Equal(t, "abcxyz", i.Correction)
		}
	}
	assert.True(t, found)
}

func TestPrefilter_CamelCaseStuckWords(t *testing.T) {
	issues := prefilter("please reviewDraft before sending")

	var found bool
	for _, i := range issues {
		if i.Type == "camel_case_stuck" {
			found = true
			assert.Equal(t, "review Dr", i.Correction)
		}
	}
	assert.True(t, found)
}

func TestPrefilter_StuckConnectorWord(t *testing.T) {
	issues := prefilter("the projectandclient meeting is Monday")

	var found bool
	for _, i := range issues {
		if i.Type == "stuck_connector" {
			found = true
			assert.Equal(t, "project and client", i.Correction)
		}
	}
	assert.True(t, found)
}

func TestPrefilter_MultipleSpacesCollapse(t *testing.T) {
	issues := prefilter("hello   world")

	require.NotEmpty(t, issues)
	var found bool
	for _, i := range issues {
		if i.Type == "multiple_space" {
			found = true
			assert.Equal(t, " ", i.Correction)
		}
	}
	assert.True(t, found)
}

func TestPrefilter_CapsFindingsAtMax(t *testing.T) {
	text := ""
	for i := 0; i < 400; i++ {
		text += "ab cd "
	}
	issues := prefilter(text)
	assert.LessOrEqual(t, len(issues), maxPrefilterFindings)
}

func TestPostfilter_DedupesIdenticalIssues(t *testing.T) {
	issues := prefilter("rep ort rep ort")
	deduped := postfilter(issues)

	seen := map[string]int{}
	for _, i := range deduped {
		seen[dedupeKey(i)]++
	}
	for key, n := range seen {
		assert.Equal(t, 1, n, "duplicate issue for key %q should be deduped", key)
	}
}

func TestProofread_NilLLMDegradesToPrefilterOnly(t *testing.T) {
	p := New(nil, nil)

	issues, llmUsed, err := p.Proofread(nil, "the quarterly rep ort is due")
	require.NoError(t, err)
	assert.False(t, llmUsed)
	require.NotEmpty(t, issues)
	for _, i := range issues {
		assert.NotEmpty(t, i.ID)
	}
}

func TestProofread_EmptyTextReturnsNoIssues(t *testing.T) {
	p := New(nil, nil)
	issues, llmUsed, err := p.Proofread(nil, "")
	require.NoError(t, err)
	assert.False(t, llmUsed)
	assert.Empty(t, issues)
}

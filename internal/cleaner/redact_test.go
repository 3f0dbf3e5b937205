package cleaner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

// stubMatcher finds a single fixed raw value, masking it with a fixed
// mask, independent of internal/patterns' real rule table — enough to
// exercise the Cleaner's redaction wiring in isolation.
type stubMatcher struct {
	typ    string
	raw    string
	masked string
}

func (m stubMatcher) Match(text string) []interfaces.PatternMatch {
	idx := strings.Index(text, m.raw)
	if idx < 0 {
		return nil
	}
	return []interfaces.PatternMatch{
		{Type: m.typ, MaskedValue: m.masked, Start: idx, End: idx + len(m.raw)},
	}
}

func TestRedactSensitive_ReplacesSelectedFindingAcrossTextRuns(t *testing.T) {
	adapter := newFakeAdapter(models.FormatDOCX, map[string]string{
		"word/document.xml": `<w:document><w:body><w:p><w:r><w:t>IBAN: DE89370400440532013000</w:t></w:r></w:p></w:body></w:document>`,
	})

	matcher := stubMatcher{typ: "iban", raw: "DE89370400440532013000", masked: "DE89 **** **** 3000"}
	c := New(nil, matcher)

	findings := []models.Finding{
		{ID: "f1", Category: models.CategorySensitiveData, Type: "iban", Value: "DE89 **** **** 3000", Location: "document"},
	}

	stats, err := c.Clean(adapter, findings, interfaces.CleanOptions{RemoveSensitiveDataIDs: []string{"f1"}})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.SensitiveRedacted)

	doc, _ := adapter.ReadPart("word/document.xml")
	assert.Contains(t, string(doc), "[REDACTED]")
	assert.NotContains(t, string(doc), "DE89370400440532013000")
}

func TestRedactSensitive_LeavesUnselectedFindingsUntouched(t *testing.T) {
	adapter := newFakeAdapter(models.FormatDOCX, map[string]string{
		"word/document.xml": `<w:document><w:body><w:p><w:r><w:t>Card: 4111111111111111</w:t></w:r></w:p></w:body></w:document>`,
	})

	matcher := stubMatcher{typ: "credit_card", raw: "4111111111111111", masked: "**** **** **** 1111"}
	c := New(nil, matcher)

	findings := []models.Finding{
		{ID: "f2", Category: models.CategorySensitiveData, Type: "credit_card", Value: "**** **** **** 1111", Location: "document"},
	}

	// Caller selected a different (non-existent) finding id, so nothing
	// should be redacted.
	stats, err := c.Clean(adapter, findings, interfaces.CleanOptions{RemoveSensitiveDataIDs: []string{"other-id"}})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.SensitiveRedacted)

	doc, _ := adapter.ReadPart("word/document.xml")
	assert.Contains(t, string(doc), "4111111111111111")
}

func TestRedactSensitive_NoMatcherIsNoop(t *testing.T) {
	adapter := newFakeAdapter(models.FormatDOCX, map[string]string{
		"word/document.xml": `<w:document><w:body><w:p><w:r><w:t>nothing sensitive</w:t></w:r></w:p></w:body></w:document>`,
	})

	c := New(nil, nil)
	stats, err := c.Clean(adapter, nil, interfaces.CleanOptions{RemoveSensitiveDataIDs: []string{"f1"}})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.SensitiveRedacted)
}

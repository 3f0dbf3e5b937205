package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenario 4: "IBAN+credit card" (spec.md §8) — both patterns are found,
// masked, and flagged critical in one pass.
func TestMatch_DetectsIBANAndCreditCardInSlideText(t *testing.T) {
	m := NewMatcher()
	text := "Wire to DE89370400440532013000 or charge card 4111 1111 1111 1111 as a backup."

	matches := m.Match(text)

	var ibanFound, ccFound bool
	for _, mm := range matches {
		if mm.Type == "iban" {
			ibanFound = true
			assert.Equal(t, "critical", mm.Severity)
			assert.Equal(t, "DE89 **** **** 3000", mm.MaskedValue)
			assert.NotContains(t, mm.MaskedValue, "370400440532")
		}
		if mm.Type == "credit_card" {
			ccFound = true
			assert.Equal(t, "critical", mm.Severity)
			assert.Equal(t, "**** **** **** 1111", mm.MaskedValue)
		}
	}
	require.True(t, ibanFound, "expected an IBAN match")
	require.True(t, ccFound, "expected a credit card match")
}

func TestMatch_RejectsCreditCardCandidateFailingLuhn(t *testing.T) {
	m := NewMatcher()
	text := "Card number 4111 1111 1111 1112 is not a valid card."

	matches := m.Match(text)
	for _, mm := range matches {
		assert.NotEqual(t, "credit_card", mm.Type, "Luhn-invalid digit strings must not be reported as credit cards")
	}
}

func TestMatch_EmailMaskingKeepsDomainVisible(t *testing.T) {
	m := NewMatcher()
	matches := m.Match("contact alice.jones@example.com for details")

	require.Len(t, matches, 1)
	assert.Equal(t, "email", matches[0].Type)
	assert.True(t, matches[0].GDPRRelevant)
	assert.Equal(t, "al***@example.com", matches[0].MaskedValue)
}

func TestMatch_IPAddressRejectsLoopback(t *testing.T) {
	m := NewMatcher()
	matches := m.Match("connect to 127.0.0.1 for local testing")

	for _, mm := range matches {
		assert.NotEqual(t, "ip_address", mm.Type)
	}
}

func TestMatch_ConfidentialKeywordIsCaseInsensitiveAndMultilingual(t *testing.T) {
	m := NewMatcher()

	matches := m.Match("STRICTLY CONFIDENTIAL — do not distribute")
	var hits int
	for _, mm := range matches {
		if mm.Type == "confidential_keyword" {
			hits++
		}
	}
	assert.GreaterOrEqual(t, hits, 2)
}

func TestMatch_ContextWindowIsCappedAt50Chars(t *testing.T) {
	m := NewMatcher()
	padding := ""
	for i := 0; i < 100; i++ {
		padding += "x"
	}
	text := padding + " alice@example.com " + padding

	matches := m.Match(text)
	require.Len(t, matches, 1)
	assert.LessOrEqual(t, len(matches[0].ContextBefore), 50)
	assert.LessOrEqual(t, len(matches[0].ContextAfter), 50)
}

func TestLuhnValid_KnownTestNumbers(t *testing.T) {
	assert.True(t, luhnValid("4111111111111111"))
	assert.False(t, luhnValid("4111111111111112"))
}

package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/qualion/internal/models"
)

// scenario 5: "Business risk scoring" (spec.md §8).
func TestAssess_DeliveryCommitmentScoring(t *testing.T) {
	engine := New()
	text := "We will deliver by Friday, fixed price, all-inclusive."

	risk := engine.Assess(nil, text)

	require.Equal(t, models.BusinessLevelHigh, risk.CategoryLevels[models.BusinessDelivery])
	assert.Equal(t, models.BusinessLevelNone, risk.CategoryLevels[models.BusinessMargin])
	assert.Equal(t, models.BusinessLevelNone, risk.CategoryLevels[models.BusinessNegotiation])
	assert.Equal(t, 81, risk.BusinessRiskScore)
	assert.False(t, risk.ClientReady, "any High category level must force clientReady=NO")
}

// scenario 4 (partial): compliance gates on a critical sensitive-data finding.
func TestAssess_CriticalSensitiveDataGatesClientReady(t *testing.T) {
	engine := New()
	findings := []models.Finding{
		{Category: models.CategorySensitiveData, Type: "iban", Severity: models.SeverityCritical, Location: "document"},
	}

	risk := engine.Assess(findings, "Please pay to the account below.")

	assert.Equal(t, models.BusinessLevelCritical, risk.CategoryLevels[models.BusinessCompliance])
	assert.False(t, risk.ClientReady)
	require.Len(t, risk.Flags, 2)
	assert.Equal(t, "delivery-low", risk.Flags[0].RuleID)
	assert.Equal(t, "compliance-critical-finding", risk.Flags[1].RuleID)
}

// scenario 6 (partial): margin escalates to high whenever a hidden-sheet
// finding is present, regardless of document text.
func TestAssess_HiddenSheetsForceMarginHigh(t *testing.T) {
	engine := New()
	findings := []models.Finding{
		{Category: models.CategoryHiddenSheets, Location: "xl/workbook.xml"},
	}

	risk := engine.Assess(findings, "")

	assert.Equal(t, models.BusinessLevelHigh, risk.CategoryLevels[models.BusinessMargin])
	assert.False(t, risk.ClientReady)
}

func TestAssess_CleanDocumentIsClientReady(t *testing.T) {
	engine := New()

	risk := engine.Assess(nil, "This is an ordinary project update with no risk language.")

	for category, level := range risk.CategoryLevels {
		if category == models.BusinessDelivery {
			assert.Equal(t, models.BusinessLevelLow, level, "delivery falls back to Low when no delivery signal fires")
			continue
		}
		assert.Equal(t, models.BusinessLevelNone, level, "category %s should be None for a clean document", category)
	}
	assert.True(t, risk.ClientReady)
	// round(0.25·100 + 0.25·85 + 0.25·100 + 0.25·100) = 96
	assert.Equal(t, 96, risk.BusinessRiskScore)
}

func TestAssess_CredibilityScalesWithSignalVolume(t *testing.T) {
	engine := New()
	var findings []models.Finding
	for i := 0; i < 7; i++ {
		findings = append(findings, models.Finding{Category: models.CategoryComments, Location: "document"})
	}

	risk := engine.Assess(findings, "")

	assert.Equal(t, models.BusinessLevelHigh, risk.CategoryLevels[models.BusinessCredibility])
}

func TestAssess_NegotiationLanguageAloneIsLowOrMedium(t *testing.T) {
	engine := New()

	risk := engine.Assess(nil, "Our internal assumption is that option B will be selected.")

	level := risk.CategoryLevels[models.BusinessNegotiation]
	assert.Contains(t, []models.BusinessLevel{models.BusinessLevelLow, models.BusinessLevelMedium}, level)
}

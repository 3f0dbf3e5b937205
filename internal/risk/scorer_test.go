package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/qualion/internal/models"
)

// scenario 6: "Macro gate" (spec.md §8) — a single critical macro finding
// clamps the before-score to ≤70, and removing the macro restores 100.
func TestScorer_MacroGateClampsScore(t *testing.T) {
	s := NewScorer()
	findings := []models.Finding{
		{Category: models.CategoryMacros, Severity: models.SeverityCritical, Location: "xl/vbaProject.bin"},
	}

	before := s.ScoreBefore(findings)

	require.Equal(t, 1, before.TotalIssues)
	require.Equal(t, 1, before.Critical)
	assert.LessOrEqual(t, before.RiskScore, 70)

	after := s.ScoreAfter(before, models.CleaningStats{MacrosRemoved: 1}, models.CorrectionStats{})
	assert.Equal(t, 100, after)
}

func TestScorer_SeverityTallyMatchesTotal(t *testing.T) {
	s := NewScorer()
	findings := []models.Finding{
		{Category: models.CategoryMetadata, Severity: models.SeverityLow},
		{Category: models.CategoryComments, Severity: models.SeverityMedium},
		{Category: models.CategoryMacros, Severity: models.SeverityHigh},
		{Category: models.CategorySensitiveData, Severity: models.SeverityCritical},
	}

	summary := s.ScoreBefore(findings)

	assert.Equal(t, summary.Critical+summary.High+summary.Medium+summary.Low, summary.TotalIssues)
}

func TestScorer_NoFindingsScoresPerfect(t *testing.T) {
	s := NewScorer()

	summary := s.ScoreBefore(nil)

	assert.Equal(t, 100, summary.RiskScore)
	assert.Equal(t, models.RiskLevelSafe, summary.RiskLevel)
}

func TestScorer_CategoryCapIsBounded(t *testing.T) {
	s := NewScorer()
	var findings []models.Finding
	for i := 0; i < 10; i++ {
		findings = append(findings, models.Finding{Category: models.CategorySensitiveData, Severity: models.SeverityLow})
	}

	summary := s.ScoreBefore(findings)

	// min(25*10, 50) = 50, not 250.
	assert.Equal(t, 50, summary.RiskBreakdown["sensitiveData"])
}

func TestScorer_VolumePenaltyAppliesAboveTen(t *testing.T) {
	s := NewScorer()
	var findings []models.Finding
	for i := 0; i < 12; i++ {
		findings = append(findings, models.Finding{Category: models.CategorySpellingErrors, Severity: models.SeverityLow})
	}

	summary := s.ScoreBefore(findings)

	assert.Equal(t, 12, summary.TotalIssues)
	assert.Less(t, summary.RiskScore, 100)
}

func TestScorer_ScoreAfterNeverExceedsHundred(t *testing.T) {
	s := NewScorer()
	before := models.Summary{RiskScore: 95, RiskBreakdown: map[string]int{"metadata": 10}}

	after := s.ScoreAfter(before, models.CleaningStats{MetadataRemoved: 10}, models.CorrectionStats{})

	assert.Equal(t, 100, after)
}

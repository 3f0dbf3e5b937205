// -----------------------------------------------------------------------
// Business Risk Engine + Scorer Interfaces
// -----------------------------------------------------------------------

package interfaces

import "github.com/ternarybob/qualion/internal/models"

// BusinessRiskEngine runs the fixed five-category deterministic rule set
// of spec.md §4.8 over detector output and the text projection.
type BusinessRiskEngine interface {
	Assess(findings []models.Finding, text string) models.BusinessRisk
}

// Scorer computes the technical risk score of spec.md §4.9, before and
// after cleaning.
type Scorer interface {
	ScoreBefore(findings []models.Finding) models.Summary
	ScoreAfter(before models.Summary, cleaning models.CleaningStats, correction models.CorrectionStats) int
}

// -----------------------------------------------------------------------
// Scorer - technical risk score, spec.md §4.9
// -----------------------------------------------------------------------

package risk

import (
	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

// categoryCapRule is one of the per-category penalty caps of spec.md
// §4.9: perUnit·n, capped at max.
type categoryCapRule struct {
	name    string
	perUnit int
	max     int
	match   func(models.Category) bool
}

var categoryCapRules = []categoryCapRule{
	{"sensitiveData", 25, 50, func(c models.Category) bool { return c == models.CategorySensitiveData }},
	{"macros", 15, 30, func(c models.Category) bool { return c == models.CategoryMacros }},
	{"hidden", 8, 24, func(c models.Category) bool {
		return c == models.CategoryHiddenContent || c == models.CategoryHiddenSheets ||
			c == models.CategoryHiddenColumns || c == models.CategoryExcelHiddenData || c == models.CategorySensitiveFormula
	}},
	{"comments", 3, 15, func(c models.Category) bool { return c == models.CategoryComments }},
	{"trackChanges", 3, 15, func(c models.Category) bool { return c == models.CategoryTrackChanges }},
	{"metadata", 2, 10, func(c models.Category) bool { return c == models.CategoryMetadata }},
	{"embeddedObjects", 5, 15, func(c models.Category) bool { return c == models.CategoryEmbeddedObjects }},
	{"spelling", 1, 10, func(c models.Category) bool { return c == models.CategorySpellingErrors }},
	{"brokenLinks", 4, 12, func(c models.Category) bool { return c == models.CategoryBrokenLinks }},
	{"compliance", 12, 36, func(c models.Category) bool { return c == models.CategoryComplianceRisks }},
}

var severityWeight = map[models.Severity]int{
	models.SeverityCritical: 25,
	models.SeverityHigh:     10,
	models.SeverityMedium:   5,
	models.SeverityLow:      2,
}

// Scorer implements interfaces.Scorer.
type Scorer struct{}

var _ interfaces.Scorer = (*Scorer)(nil)

func NewScorer() *Scorer { return &Scorer{} }

func (s *Scorer) ScoreBefore(findings []models.Finding) models.Summary {
	summary := models.Summary{RiskBreakdown: map[string]int{}}

	severityPenalty := 0
	for _, f := range findings {
		switch f.Severity {
		case models.SeverityCritical:
			summary.Critical++
		case models.SeverityHigh:
			summary.High++
		case models.SeverityMedium:
			summary.Medium++
		case models.SeverityLow:
			summary.Low++
		}
		severityPenalty += severityWeight[f.Severity]
	}
	summary.TotalIssues = len(findings)

	categoryPenalty := 0
	for _, rule := range categoryCapRules {
		n := 0
		for _, f := range findings {
			if rule.match(f.Category) {
				n++
			}
		}
		penalty := minInt(rule.perUnit*n, rule.max)
		summary.RiskBreakdown[rule.name] = penalty
		categoryPenalty += penalty
	}

	volumePenalty := 0
	if summary.TotalIssues > 10 {
		volumePenalty = (summary.TotalIssues - 10) * 2
	}

	score := 100 - severityPenalty - categoryPenalty - volumePenalty
	summary.RiskScore = clamp(score, 0, 100)
	summary.RiskLevel = riskLevelFor(summary.RiskScore)

	return summary
}

func (s *Scorer) ScoreAfter(before models.Summary, cleaning models.CleaningStats, correction models.CorrectionStats) int {
	improvement := 0
	improvement += minInt(cleaning.MetadataRemoved*2, before.RiskBreakdown["metadata"])
	improvement += minInt(cleaning.CommentsRemoved*3, before.RiskBreakdown["comments"])
	improvement += minInt(cleaning.TrackChangesUsed*3, before.RiskBreakdown["trackChanges"])
	improvement += minInt(cleaning.HiddenRemoved*8, before.RiskBreakdown["hidden"])
	improvement += minInt(cleaning.EmbeddingsRemoved*5, before.RiskBreakdown["embeddedObjects"])
	improvement += minInt(cleaning.MacrosRemoved*15, before.RiskBreakdown["macros"])
	improvement += minInt(cleaning.SensitiveRedacted*25, before.RiskBreakdown["sensitiveData"])
	improvement += minInt(correction.IssuesApplied*1, before.RiskBreakdown["spelling"])

	return clamp(before.RiskScore+improvement, 0, 100)
}

func riskLevelFor(score int) models.RiskLevel {
	switch {
	case score >= 90:
		return models.RiskLevelSafe
	case score >= 70:
		return models.RiskLevelLow
	case score >= 50:
		return models.RiskLevelMedium
	case score >= 25:
		return models.RiskLevelHigh
	default:
		return models.RiskLevelCritical
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

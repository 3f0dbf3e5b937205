// -----------------------------------------------------------------------
// Business Risk Engine - spec.md §4.8
// -----------------------------------------------------------------------

package risk

import (
	"fmt"
	"math"

	"github.com/ternarybob/qualion/internal/common"
	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

// Engine implements interfaces.BusinessRiskEngine. It is strictly
// deterministic: every classification follows from fixed phrase counts
// and detector category presence, never from an LLM.
type Engine struct{}

var _ interfaces.BusinessRiskEngine = (*Engine)(nil)

func New() *Engine { return &Engine{} }

func (e *Engine) Assess(findings []models.Finding, text string) models.BusinessRisk {
	marginLevel, marginFlags := assessMargin(findings, text)
	deliveryLevel, deliveryFlags := assessDelivery(text)
	negotiationLevel, negotiationFlags := assessNegotiation(findings, text)
	complianceLevel, complianceFlags := assessCompliance(findings, text)
	credibilityLevel, credibilityFlags := assessCredibility(findings)

	var flags []models.BusinessFlag
	flags = append(flags, marginFlags...)
	flags = append(flags, deliveryFlags...)
	flags = append(flags, negotiationFlags...)
	flags = append(flags, complianceFlags...)
	flags = append(flags, credibilityFlags...)

	levels := map[models.BusinessCategory]models.BusinessLevel{
		models.BusinessMargin:      marginLevel,
		models.BusinessDelivery:    deliveryLevel,
		models.BusinessNegotiation: negotiationLevel,
		models.BusinessCompliance:  complianceLevel,
		models.BusinessCredibility: credibilityLevel,
	}

	score := 0.25*float64(marginLevel.Score()) +
		0.25*float64(deliveryLevel.Score()) +
		0.25*float64(negotiationLevel.Score()) +
		0.25*float64(credibilityLevel.Score())

	clientReady := true
	for _, f := range flags {
		if f.Level == models.BusinessLevelCritical {
			clientReady = false
		}
	}
	for _, lvl := range levels {
		if lvl == models.BusinessLevelHigh {
			clientReady = false
		}
	}

	return models.BusinessRisk{
		Flags:             flags,
		CategoryLevels:    levels,
		BusinessRiskScore: int(math.Round(score)),
		ClientReady:       clientReady,
	}
}

// escalate returns whichever level is more severe (lower numeric score).
func escalate(current, candidate models.BusinessLevel) models.BusinessLevel {
	if candidate.Score() < current.Score() {
		return candidate
	}
	return current
}

func flag(category models.BusinessCategory, ruleID string, level models.BusinessLevel, reason, location string) models.BusinessFlag {
	return models.BusinessFlag{
		ID:       common.ContentID("bf", string(category), ruleID, location),
		Category: category,
		Level:    level,
		RuleID:   ruleID,
		Reason:   reason,
		Location: location,
	}
}

func hasCategory(findings []models.Finding, cats ...models.Category) bool {
	want := make(map[models.Category]bool, len(cats))
	for _, c := range cats {
		want[c] = true
	}
	for _, f := range findings {
		if want[f.Category] {
			return true
		}
	}
	return false
}

func countCategory(findings []models.Finding, cats ...models.Category) int {
	want := make(map[models.Category]bool, len(cats))
	for _, c := range cats {
		want[c] = true
	}
	n := 0
	for _, f := range findings {
		if want[f.Category] {
			n++
		}
	}
	return n
}

// assessMargin: hidden sheets force high; other XLSX structural signals
// elevate to medium; ≥6 pricing-keyword hits elevate to medium.
func assessMargin(findings []models.Finding, text string) (models.BusinessLevel, []models.BusinessFlag) {
	level := models.BusinessLevelNone
	var flags []models.BusinessFlag

	switch {
	case hasCategory(findings, models.CategoryHiddenSheets):
		level = escalate(level, models.BusinessLevelHigh)
		flags = append(flags, flag(models.BusinessMargin, "margin-hidden-sheets", models.BusinessLevelHigh,
			"workbook contains hidden sheets that may expose internal pricing structure", "document"))
	case hasCategory(findings, models.CategorySensitiveFormula, models.CategoryExcelHiddenData):
		level = escalate(level, models.BusinessLevelMedium)
		flags = append(flags, flag(models.BusinessMargin, "margin-structural", models.BusinessLevelMedium,
			"workbook contains sensitive formulas or Excel-hidden data", "document"))
	}

	pricing := rules["margin-pricing"]
	if n := pricing.count(text); n >= 6 {
		level = escalate(level, models.BusinessLevelMedium)
		flags = append(flags, flag(models.BusinessMargin, pricing.RuleID, models.BusinessLevelMedium,
			fmt.Sprintf("%d pricing-related term hits in document text", n), "document"))
	}

	return level, flags
}

// assessDelivery: high if no dependency markers and any engagement/
// fixed-price/deadline hit exists; medium if combined hits ≥4; else low.
// The three dependencyAware rules only count toward the "high" signal
// when the dependency rule has zero hits document-wide.
func assessDelivery(text string) (models.BusinessLevel, []models.BusinessFlag) {
	engagement := rules["delivery-engagement"].count(text)
	openEnded := rules["delivery-open-ended"].count(text)
	fixed := rules["delivery-fixed-price"].count(text)
	deadline := rules["delivery-deadline"].count(text)
	dependency := rules["delivery-dependency"].count(text)

	combined := engagement + openEnded + fixed + deadline + dependency

	level := models.BusinessLevelLow
	ruleID := "delivery-low"
	reason := "no strong commitment or open-ended delivery language detected"

	switch {
	case dependency == 0 && (engagement > 0 || fixed > 0 || deadline > 0):
		level = models.BusinessLevelHigh
		ruleID = "delivery-unqualified-commitment"
		reason = fmt.Sprintf("unqualified delivery commitment language (engagement=%d, fixed-price=%d, deadline=%d) with no dependency markers", engagement, fixed, deadline)
	case combined >= 4:
		level = models.BusinessLevelMedium
		ruleID = "delivery-combined-hits"
		reason = fmt.Sprintf("%d combined delivery-risk phrase hits", combined)
	}

	return level, []models.BusinessFlag{flag(models.BusinessDelivery, ruleID, level, reason, "document")}
}

// assessNegotiation: phrase-category breadth drives the level; the
// simultaneous presence of metadata and hidden-content findings escalates
// to high (internal negotiation posture leaking alongside hidden
// structure is the highest-risk combination).
func assessNegotiation(findings []models.Finding, text string) (models.BusinessLevel, []models.BusinessFlag) {
	hits := 0
	if rules["negotiation-internal-assumption"].present(text) {
		hits++
	}
	if len(optionLettersRe.FindAllString(text, -1)) > 0 {
		hits++
	}
	if rules["negotiation-client-dependency"].present(text) {
		hits++
	}
	if rules["negotiation-benchmark"].present(text) {
		hits++
	}

	level := models.BusinessLevelNone
	switch {
	case hits >= 2:
		level = models.BusinessLevelMedium
	case hits == 1:
		level = models.BusinessLevelLow
	}

	var flags []models.BusinessFlag
	if hits > 0 {
		flags = append(flags, flag(models.BusinessNegotiation, "negotiation-language", level,
			fmt.Sprintf("%d internal-negotiation phrase categories matched", hits), "document"))
	}

	if hasCategory(findings, models.CategoryMetadata) && hasCategory(findings, models.CategoryHiddenContent, models.CategoryHiddenSheets, models.CategoryHiddenColumns) {
		level = escalate(level, models.BusinessLevelHigh)
		flags = append(flags, flag(models.BusinessNegotiation, "negotiation-metadata-plus-hidden", models.BusinessLevelHigh,
			"document carries both metadata and hidden-content findings alongside negotiation language", "document"))
	}

	return level, flags
}

// assessCompliance: any sensitive-data or compliance finding at critical
// severity is an automatic gate; otherwise confidential-marker,
// project-code, and raw-email hits drive medium/high.
func assessCompliance(findings []models.Finding, text string) (models.BusinessLevel, []models.BusinessFlag) {
	for _, f := range findings {
		if (f.Category == models.CategorySensitiveData || f.Category == models.CategoryComplianceRisks) && f.Severity == models.SeverityCritical {
			return models.BusinessLevelCritical, []models.BusinessFlag{flag(models.BusinessCompliance, "compliance-critical-finding", models.BusinessLevelCritical,
				"a critical sensitive-data or compliance finding is present", f.Location)}
		}
	}

	hits := rules["compliance-confidential-marker"].count(text) +
		len(projectCodeRe.FindAllString(text, -1)) +
		len(rawEmailRe.FindAllString(text, -1))

	level := models.BusinessLevelNone
	switch {
	case hits >= 3:
		level = models.BusinessLevelHigh
	case hits >= 1:
		level = models.BusinessLevelMedium
	}

	if hits == 0 {
		return level, nil
	}
	return level, []models.BusinessFlag{flag(models.BusinessCompliance, "compliance-marker-hits", level,
		fmt.Sprintf("%d confidential-marker/project-code/email hits", hits), "document")}
}

// assessCredibility sums comments, tracked changes, spelling, orphan, and
// hidden-structural findings into one count-based level.
func assessCredibility(findings []models.Finding) (models.BusinessLevel, []models.BusinessFlag) {
	n := countCategory(findings,
		models.CategoryComments,
		models.CategoryTrackChanges,
		models.CategorySpellingErrors,
		models.CategoryOrphanData,
		models.CategoryHiddenContent, models.CategoryHiddenSheets, models.CategoryHiddenColumns, models.CategoryExcelHiddenData,
	)

	level := models.BusinessLevelNone
	switch {
	case n > 10:
		level = models.BusinessLevelCritical
	case n >= 6:
		level = models.BusinessLevelHigh
	case n >= 3:
		level = models.BusinessLevelMedium
	case n >= 1:
		level = models.BusinessLevelLow
	}

	if n == 0 {
		return level, nil
	}
	return level, []models.BusinessFlag{flag(models.BusinessCredibility, "credibility-signal-volume", level,
		fmt.Sprintf("%d combined comments/track-changes/spelling/orphan/hidden-structural findings", n), "document")}
}

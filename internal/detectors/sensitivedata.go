package detectors

import (
	"context"

	"github.com/ternarybob/qualion/internal/common"
	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

// SensitiveDataDetector runs the sensitive-pattern matcher (spec.md §4.4)
// over the document's text projection.
type SensitiveDataDetector struct {
	matcher interfaces.PatternMatcher
}

var _ interfaces.Detector = (*SensitiveDataDetector)(nil)

func NewSensitiveDataDetector(matcher interfaces.PatternMatcher) *SensitiveDataDetector {
	return &SensitiveDataDetector{matcher: matcher}
}

func (SensitiveDataDetector) Name() string { return "sensitiveData" }

func (d *SensitiveDataDetector) Detect(ctx context.Context, adapter interfaces.ContainerAdapter, projection *models.TextProjection) ([]models.Finding, error) {
	if projection == nil || projection.Text == "" {
		return nil, nil
	}

	var findings []models.Finding
	for _, m := range d.matcher.Match(projection.Text) {
		findings = append(findings, models.Finding{
			ID:           common.ContentID("f", string(models.CategorySensitiveData), "document", m.Type, m.MaskedValue),
			Category:     models.CategorySensitiveData,
			Type:         m.Type,
			Severity:     models.Severity(m.Severity),
			Location:     "document",
			Value:        m.MaskedValue,
			Context:      m.ContextBefore + "..." + m.ContextAfter,
			GDPRRelevant: m.GDPRRelevant,
		})
	}

	return dedupeFindings(findings), nil
}

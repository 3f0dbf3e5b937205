package detectors

import (
	"context"

	"github.com/ternarybob/qualion/internal/common"
	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

// SpellingDetector wraps a Proofreader, converting its anchored
// SpellingIssues into report-level Findings. It participates in the
// framework's concurrent run like any other detector; the Proofreader's
// own bounded LLM concurrency (spec.md §4.5) is internal to Proofread.
type SpellingDetector struct {
	proofreader interfaces.Proofreader
}

var _ interfaces.Detector = (*SpellingDetector)(nil)

func NewSpellingDetector(proofreader interfaces.Proofreader) *SpellingDetector {
	return &SpellingDetector{proofreader: proofreader}
}

func (SpellingDetector) Name() string { return "spelling" }

func (d *SpellingDetector) Detect(ctx context.Context, adapter interfaces.ContainerAdapter, projection *models.TextProjection) ([]models.Finding, error) {
	if d.proofreader == nil || projection == nil || projection.Text == "" {
		return nil, nil
	}

	issues, _, err := d.proofreader.Proofread(ctx, projection.Text)
	if err != nil {
		return nil, err
	}

	findings := make([]models.Finding, 0, len(issues))
	for _, issue := range issues {
		findings = append(findings, models.Finding{
			ID:       common.ContentID("f", string(models.CategorySpellingErrors), issue.Error, issue.Correction),
			Category: models.CategorySpellingErrors,
			Type:     issue.Type,
			Severity: issue.Severity,
			Location: "document",
			Value:    issue.Error + " -> " + issue.Correction,
			Context:  issue.ContextBefore + "..." + issue.ContextAfter,
		})
	}

	return findings, nil
}

package detectors

import (
	"context"

	"github.com/ternarybob/qualion/internal/common"
	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

// EmbeddedObjectsDetector enumerates */embeddings/* parts (OOXML) and
// PDF name-tree attachments.
type EmbeddedObjectsDetector struct{}

var _ interfaces.Detector = (*EmbeddedObjectsDetector)(nil)

func (EmbeddedObjectsDetector) Name() string { return "embeddedObjects" }

func (EmbeddedObjectsDetector) Detect(ctx context.Context, adapter interfaces.ContainerAdapter, projection *models.TextProjection) ([]models.Finding, error) {
	var findings []models.Finding

	switch adapter.Document().Format {
	case models.FormatPDF:
		for _, path := range adapter.ListParts("attachments/*") {
			findings = append(findings, embeddedFinding(path))
		}
	default:
		for _, glob := range []string{"word/embeddings/*", "ppt/embeddings/*", "xl/embeddings/*"} {
			for _, path := range adapter.ListParts(glob) {
				findings = append(findings, embeddedFinding(path))
			}
		}
	}

	return findings, nil
}

func embeddedFinding(path string) models.Finding {
	return models.Finding{
		ID:       common.ContentID("f", string(models.CategoryEmbeddedObjects), path),
		Category: models.CategoryEmbeddedObjects,
		Type:     "embedded_object",
		Severity: models.SeverityMedium,
		Location: path,
	}
}

package detectors

import (
	"context"
	"strings"

	"github.com/ternarybob/qualion/internal/common"
	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

// MacrosDetector emits a single critical finding when any VBA macro blob
// is present (spec.md §4.3 — any vbaProject*/.bin part is a hard gate).
type MacrosDetector struct{}

var _ interfaces.Detector = (*MacrosDetector)(nil)

func (MacrosDetector) Name() string { return "macros" }

func (MacrosDetector) Detect(ctx context.Context, adapter interfaces.ContainerAdapter, projection *models.TextProjection) ([]models.Finding, error) {
	for _, path := range adapter.ListParts("") {
		base := path
		if i := strings.LastIndexByte(path, '/'); i >= 0 {
			base = path[i+1:]
		}
		if strings.HasPrefix(base, "vbaProject") || strings.HasSuffix(strings.ToLower(base), ".bin") {
			return []models.Finding{{
				ID:       common.ContentID("f", string(models.CategoryMacros), path),
				Category: models.CategoryMacros,
				Type:     "vba_macro",
				Severity: models.SeverityCritical,
				Location: path,
			}}, nil
		}
	}
	return nil, nil
}

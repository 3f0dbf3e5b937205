package detectors

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/ternarybob/qualion/internal/common"
	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

const minVisualObjectWidthEMU = 2000000
const minVisualObjectHeightEMU = 500000

var extentRe = regexp.MustCompile(`<a:ext\s+cx="(\d+)"\s+cy="(\d+)"\s*/?>`)
var solidFillRe = regexp.MustCompile(`<a:solidFill>`)
var shapeTextRe = regexp.MustCompile(`<a:t>[^<]+</a:t>`)

// VisualObjectsDetector aggregates large solid-fill, textless shapes per
// slide (PPTX) or anchored drawing (DOCX) — spec.md §4.3.
type VisualObjectsDetector struct{}

var _ interfaces.Detector = (*VisualObjectsDetector)(nil)

func (VisualObjectsDetector) Name() string { return "visualObjects" }

func (VisualObjectsDetector) Detect(ctx context.Context, adapter interfaces.ContainerAdapter, projection *models.TextProjection) ([]models.Finding, error) {
	switch adapter.Document().Format {
	case models.FormatPPTX:
		return pptxVisualObjects(adapter), nil
	case models.FormatDOCX:
		return docxVisualObjects(adapter), nil
	default:
		return nil, nil
	}
}

func pptxVisualObjects(adapter interfaces.ContainerAdapter) []models.Finding {
	var findings []models.Finding
	for _, path := range adapter.ListParts("ppt/slides/slide*.xml") {
		raw := readPart(adapter, path)
		if raw == "" {
			continue
		}
		count := 0
		for _, shape := range splitShapes(raw) {
			if !solidFillRe.MatchString(shape) || shapeTextRe.MatchString(shape) {
				continue
			}
			m := extentRe.FindStringSubmatch(shape)
			if m == nil {
				continue
			}
			if atoiOr(m[1]) >= minVisualObjectWidthEMU && atoiOr(m[2]) >= minVisualObjectHeightEMU {
				count++
			}
		}
		if count > 0 {
			findings = append(findings, models.Finding{
				ID:       common.ContentID("f", string(models.CategoryVisualObjects), path, "solid_shape"),
				Category: models.CategoryVisualObjects,
				Type:     "solid_shape",
				Severity: models.SeverityLow,
				Location: path,
				Value:    strconv.Itoa(count),
			})
		}
	}
	return findings
}

func docxVisualObjects(adapter interfaces.ContainerAdapter) []models.Finding {
	var findings []models.Finding
	raw := readPart(adapter, "word/document.xml")
	if raw == "" {
		return nil
	}
	count := 0
	for _, shape := range splitShapes(raw) {
		if strings.Contains(shape, "<w:drawing>") && solidFillRe.MatchString(shape) {
			count++
		}
	}
	if count > 0 {
		findings = append(findings, models.Finding{
			ID:       common.ContentID("f", string(models.CategoryVisualObjects), "word/document.xml", "anchored_drawing"),
			Category: models.CategoryVisualObjects,
			Type:     "anchored_drawing",
			Severity: models.SeverityLow,
			Location: "word/document.xml",
			Value:    strconv.Itoa(count),
		})
	}
	return findings
}

// splitShapes segments raw XML on <p:sp> boundaries so each shape's fill
// and text presence can be checked independently; falls back to a single
// whole-document chunk if no shape boundaries are found.
func splitShapes(raw string) []string {
	parts := strings.Split(raw, "<p:sp>")
	if len(parts) <= 1 {
		return []string{raw}
	}
	return parts[1:]
}


package detectors

import (
	"context"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"

	"github.com/ternarybob/qualion/internal/common"
	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

const pptSlideWidthEMU = 9144000
const pptSlideHeightEMU = 6858000

var vanishRe = regexp.MustCompile(`<w:vanish\s*/?>`)
var whiteColorRe = regexp.MustCompile(`<w:color\s+[^>]*w:val="FFFFFF"[^>]*/?>`)
var tinyFontRe = regexp.MustCompile(`<w:sz\s+w:val="([1-9])"\s*/?>`)

// HiddenDetector aggregates hidden-content signals per format: vanish
// text / white-on-white / tiny fonts for DOCX, hidden slides / excess
// white text / off-slide shapes for PPTX, hidden sheets/rows/columns for
// XLSX (spec.md §4.3).
type HiddenDetector struct{}

var _ interfaces.Detector = (*HiddenDetector)(nil)

func (HiddenDetector) Name() string { return "hidden" }

func (HiddenDetector) Detect(ctx context.Context, adapter interfaces.ContainerAdapter, projection *models.TextProjection) ([]models.Finding, error) {
	switch adapter.Document().Format {
	case models.FormatDOCX:
		return docxHidden(adapter), nil
	case models.FormatPPTX:
		return pptxHidden(adapter), nil
	case models.FormatXLSX:
		return xlsxHidden(adapter), nil
	default:
		return nil, nil
	}
}

func docxHidden(adapter interfaces.ContainerAdapter) []models.Finding {
	var findings []models.Finding
	for _, path := range append([]string{"word/document.xml"}, adapter.ListParts("word/header*.xml")...) {
		raw := readPart(adapter, path)
		if raw == "" {
			continue
		}
		if n := countMatches(vanishRe, raw); n > 0 {
			findings = append(findings, hiddenAggregate(path, "vanish_text", n))
		}
		if n := countMatches(whiteColorRe, raw); n > 0 {
			findings = append(findings, hiddenAggregate(path, "white_text", n))
		}
		if n := countMatches(tinyFontRe, raw); n > 0 {
			findings = append(findings, hiddenAggregate(path, "tiny_font", n))
		}
	}
	return findings
}

func hiddenAggregate(location, typ string, count int) models.Finding {
	return models.Finding{
		ID:       common.ContentID("f", string(models.CategoryHiddenContent), location, typ),
		Category: models.CategoryHiddenContent,
		Type:     typ,
		Severity: models.SeverityMedium,
		Location: location,
		Value:    fmt.Sprintf("%d", count),
		Evidence: fmt.Sprintf("%d occurrence(s)", count),
	}
}

func pptxHidden(adapter interfaces.ContainerAdapter) []models.Finding {
	var findings []models.Finding
	for _, path := range adapter.ListParts("ppt/slides/slide*.xml") {
		raw := readPart(adapter, path)
		if raw == "" {
			continue
		}

		if strings.Contains(raw, `show="0"`) {
			findings = append(findings, models.Finding{
				ID:       common.ContentID("f", string(models.CategoryHiddenContent), path, "hidden_slide"),
				Category: models.CategoryHiddenContent,
				Type:     "hidden_slide",
				Severity: models.SeverityMedium,
				Location: path,
			})
		}

		if n := countMatches(whiteColorRe, raw); n > 2 {
			findings = append(findings, hiddenAggregate(path, "white_text", n))
		}

		findings = append(findings, offSlideShapes(path, raw)...)
	}
	return findings
}

var shapeOffRe = regexp.MustCompile(`<a:off\s+x="(-?\d+)"\s+y="(-?\d+)"\s*/?>`)

func offSlideShapes(path, raw string) []models.Finding {
	var findings []models.Finding
	count := 0
	for _, m := range shapeOffRe.FindAllStringSubmatch(raw, -1) {
		x, y := atoiOr(m[1]), atoiOr(m[2])
		if x < 0 || y < 0 || x > pptSlideWidthEMU || y > pptSlideHeightEMU {
			count++
		}
	}
	if count > 0 {
		findings = append(findings, models.Finding{
			ID:       common.ContentID("f", string(models.CategoryHiddenContent), path, "off_slide_shape"),
			Category: models.CategoryHiddenContent,
			Type:     "off_slide_shape",
			Severity: models.SeverityMedium,
			Location: path,
			Value:    fmt.Sprintf("%d", count),
		})
	}
	return findings
}

func xlsxHidden(adapter interfaces.ContainerAdapter) []models.Finding {
	var findings []models.Finding

	raw := readPart(adapter, "xl/workbook.xml")
	if raw != "" {
		dec := xml.NewDecoder(strings.NewReader(raw))
		dec.Strict = false
		for {
			tok, err := dec.Token()
			if err != nil {
				break
			}
			start, ok := tok.(xml.StartElement)
			if !ok || localName(start.Name) != "sheet" {
				continue
			}
			state := attr(start, "state")
			if state != "hidden" && state != "veryHidden" {
				continue
			}
			name := attr(start, "name")
			findings = append(findings, models.Finding{
				ID:       common.ContentID("f", string(models.CategoryHiddenSheets), "xl/workbook.xml", name),
				Category: models.CategoryHiddenSheets,
				Type:     "hidden_sheet",
				Severity: models.SeverityHigh,
				Location: "xl/workbook.xml#" + name,
				Value:    name,
				Evidence: state,
			})
		}
	}

	for _, path := range adapter.ListParts("xl/worksheets/sheet*.xml") {
		sraw := readPart(adapter, path)
		if sraw == "" {
			continue
		}
		cols := countMatches(regexp.MustCompile(`<col\s+[^>]*hidden="1"[^>]*/?>`), sraw)
		rows := countMatches(regexp.MustCompile(`<row\s+[^>]*hidden="1"[^>]*/?>`), sraw)
		if cols > 0 {
			findings = append(findings, models.Finding{
				ID:       common.ContentID("f", string(models.CategoryHiddenColumns), path, "hidden_column"),
				Category: models.CategoryHiddenColumns,
				Type:     "hidden_column",
				Severity: models.SeverityMedium,
				Location: path,
				Value:    fmt.Sprintf("%d", cols),
			})
		}
		if rows > 0 {
			findings = append(findings, models.Finding{
				ID:       common.ContentID("f", string(models.CategoryHiddenColumns), path, "hidden_row"),
				Category: models.CategoryHiddenColumns,
				Type:     "hidden_row",
				Severity: models.SeverityMedium,
				Location: path,
				Value:    fmt.Sprintf("%d", rows),
			})
		}
	}

	return findings
}

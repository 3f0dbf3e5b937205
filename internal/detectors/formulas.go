package detectors

import (
	"context"
	"encoding/xml"
	"regexp"
	"strings"

	"github.com/ternarybob/qualion/internal/common"
	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

var externalRefRe = regexp.MustCompile(`\[[^\]]+\.xlsx?\]`)
var sqlFormulaRe = regexp.MustCompile(`(?i)\b(SQL\.REQUEST|ODBC)\b`)
var webFormulaRe = regexp.MustCompile(`(?i)\b(WEBSERVICE|FILTERXML)\b`)
var localPathRe = regexp.MustCompile(`C:\\|/Users/`)
var dynamicFormulaRe = regexp.MustCompile(`(?i)\b(INDIRECT|OFFSET)\b`)

// SensitiveFormulasDetector classifies risky XLSX <f> formula content
// per spec.md §4.3.
type SensitiveFormulasDetector struct{}

var _ interfaces.Detector = (*SensitiveFormulasDetector)(nil)

func (SensitiveFormulasDetector) Name() string { return "sensitiveFormulas" }

func (SensitiveFormulasDetector) Detect(ctx context.Context, adapter interfaces.ContainerAdapter, projection *models.TextProjection) ([]models.Finding, error) {
	if adapter.Document().Format != models.FormatXLSX {
		return nil, nil
	}

	var findings []models.Finding
	for _, path := range adapter.ListParts("xl/worksheets/sheet*.xml") {
		raw := readPart(adapter, path)
		if raw == "" {
			continue
		}
		findings = append(findings, formulaFindings(path, raw)...)
	}
	return findings, nil
}

func formulaFindings(path, raw string) []models.Finding {
	var findings []models.Finding
	dec := xml.NewDecoder(strings.NewReader(raw))
	dec.Strict = false

	var cellRef string
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch localName(t.Name) {
			case "c":
				cellRef = attr(t, "r")
			case "f":
				var formula string
				if err := dec.DecodeElement(&formula, &t); err == nil {
					if f, ok := classifyFormula(path, cellRef, formula); ok {
						findings = append(findings, f)
					}
				}
			}
		}
	}
	return findings
}

func classifyFormula(path, cellRef, formula string) (models.Finding, bool) {
	var typ, reason string
	var severity models.Severity

	switch {
	case externalRefRe.MatchString(formula):
		typ, reason, severity = "external_reference", "External file reference", models.SeverityHigh
	case sqlFormulaRe.MatchString(formula):
		typ, reason, severity = "sql_odbc", "SQL/ODBC call", models.SeverityHigh
	case webFormulaRe.MatchString(formula):
		typ, reason, severity = "web_call", "Remote web call", models.SeverityHigh
	case localPathRe.MatchString(formula):
		typ, reason, severity = "local_path", "Local file path reference", models.SeverityMedium
	case dynamicFormulaRe.MatchString(formula):
		typ, reason, severity = "dynamic_reference", "Dynamic cell reference", models.SeverityLow
	default:
		return models.Finding{}, false
	}

	location := path
	if cellRef != "" {
		location += "#" + cellRef
	}

	return models.Finding{
		ID:       common.ContentID("f", string(models.CategorySensitiveFormula), location, typ, formula),
		Category: models.CategorySensitiveFormula,
		Type:     typ,
		Severity: severity,
		Location: location,
		Value:    formula,
		Evidence: reason,
	}, true
}

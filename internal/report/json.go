package report

import (
	"encoding/json"

	"github.com/ternarybob/qualion/internal/models"
)

// BuildJSON marshals the report with the stable field names and 2-space
// indent spec.md §6 expects (arrays always present, never null, because
// ensureNonNilSlices fills every nil slice before marshalling).
func (a *Assembler) BuildJSON(report *models.Report) ([]byte, error) {
	ensureNonNilSlices(report)
	return json.MarshalIndent(report, "", "  ")
}

// ensureNonNilSlices replaces any nil detection/spelling slice with an
// empty one so the JSON report's arrays are always present, never null.
func ensureNonNilSlices(report *models.Report) {
	nonNil := func(s []models.Finding) []models.Finding {
		if s == nil {
			return []models.Finding{}
		}
		return s
	}
	d := &report.Detections
	d.Metadata = nonNil(d.Metadata)
	d.Comments = nonNil(d.Comments)
	d.TrackChanges = nonNil(d.TrackChanges)
	d.HiddenContent = nonNil(d.HiddenContent)
	d.HiddenSheets = nonNil(d.HiddenSheets)
	d.HiddenColumns = nonNil(d.HiddenColumns)
	d.SensitiveFormulas = nonNil(d.SensitiveFormulas)
	d.EmbeddedObjects = nonNil(d.EmbeddedObjects)
	d.Macros = nonNil(d.Macros)
	d.SensitiveData = nonNil(d.SensitiveData)
	d.SpellingErrors = nonNil(d.SpellingErrors)
	d.VisualObjects = nonNil(d.VisualObjects)
	d.OrphanData = nonNil(d.OrphanData)
	d.BrokenLinks = nonNil(d.BrokenLinks)
	d.ComplianceRisks = nonNil(d.ComplianceRisks)
	d.ExcelHiddenData = nonNil(d.ExcelHiddenData)

	if report.SpellingIssues == nil {
		report.SpellingIssues = []models.SpellingIssue{}
	}
	if report.BusinessRisk.Flags == nil {
		report.BusinessRisk.Flags = []models.BusinessFlag{}
	}
	if report.QualionCleanV1.Part1TechnicalChecklist == nil {
		report.QualionCleanV1.Part1TechnicalChecklist = []models.ChecklistItem{}
	}
}

// Package report builds the JSON and HTML artifacts described by
// spec.md §4.10: a stable-schema JSON report and a self-contained HTML
// report, both derived from a fully populated models.Report.
package report

import (
	"sort"
	"strconv"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

// Assembler implements interfaces.ReportAssembler.
type Assembler struct {
	logger arbor.ILogger
}

var _ interfaces.ReportAssembler = (*Assembler)(nil)

func New(logger arbor.ILogger) *Assembler {
	return &Assembler{logger: logger}
}

// GroupFindings buckets findings by category into the report's
// one-array-per-category Detections shape, sorted by severity (descending) then
// location, per spec.md §5's ordering guarantee.
func GroupFindings(findings []models.Finding) models.Detections {
	sorted := make([]models.Finding, len(findings))
	copy(sorted, findings)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Severity.Rank() != sorted[j].Severity.Rank() {
			return sorted[i].Severity.Rank() > sorted[j].Severity.Rank()
		}
		return sorted[i].Location < sorted[j].Location
	})

	var d models.Detections
	for _, f := range sorted {
		switch f.Category {
		case models.CategoryMetadata:
			d.Metadata = append(d.Metadata, f)
		case models.CategoryComments:
			d.Comments = append(d.Comments, f)
		case models.CategoryTrackChanges:
			d.TrackChanges = append(d.TrackChanges, f)
		case models.CategoryHiddenContent:
			d.HiddenContent = append(d.HiddenContent, f)
		case models.CategoryHiddenSheets:
			d.HiddenSheets = append(d.HiddenSheets, f)
		case models.CategoryHiddenColumns:
			d.HiddenColumns = append(d.HiddenColumns, f)
		case models.CategorySensitiveFormula:
			d.SensitiveFormulas = append(d.SensitiveFormulas, f)
		case models.CategoryEmbeddedObjects:
			d.EmbeddedObjects = append(d.EmbeddedObjects, f)
		case models.CategoryMacros:
			d.Macros = append(d.Macros, f)
		case models.CategorySensitiveData:
			d.SensitiveData = append(d.SensitiveData, f)
		case models.CategorySpellingErrors:
			d.SpellingErrors = append(d.SpellingErrors, f)
		case models.CategoryVisualObjects:
			d.VisualObjects = append(d.VisualObjects, f)
		case models.CategoryOrphanData:
			d.OrphanData = append(d.OrphanData, f)
		case models.CategoryBrokenLinks:
			d.BrokenLinks = append(d.BrokenLinks, f)
		case models.CategoryComplianceRisks:
			d.ComplianceRisks = append(d.ComplianceRisks, f)
		case models.CategoryExcelHiddenData:
			d.ExcelHiddenData = append(d.ExcelHiddenData, f)
		}
	}
	return d
}

// fileTypeContext gives each format a short human-readable blurb for the
// Qualion Clean V1 block's fileTypeContext field.
func fileTypeContext(f models.Format) string {
	switch f {
	case models.FormatDOCX:
		return "Word document: checks metadata, comments, tracked changes, and embedded objects."
	case models.FormatPPTX:
		return "PowerPoint presentation: checks slide comments, speaker notes, and embedded media."
	case models.FormatXLSX:
		return "Excel workbook: checks hidden sheets/columns, cached formula values, and external links."
	case models.FormatPDF:
		return "PDF document: checks document info dictionary, annotations, and attachments."
	default:
		return "Unrecognized document format."
	}
}

// BuildChecklist derives the part1 technical checklist from the
// before-cleaning detections: one row per category the detectors cover,
// marked passed when no finding of that category was seen.
func BuildChecklist(d models.Detections) []models.ChecklistItem {
	rows := []struct {
		label string
		n     int
	}{
		{"No leaked author/editor metadata", len(d.Metadata)},
		{"No reviewer comments", len(d.Comments)},
		{"No unresolved tracked changes", len(d.TrackChanges)},
		{"No hidden content", len(d.HiddenContent)},
		{"No hidden sheets", len(d.HiddenSheets)},
		{"No hidden columns/rows", len(d.HiddenColumns)},
		{"No sensitive formulas", len(d.SensitiveFormulas)},
		{"No unexpected embedded objects", len(d.EmbeddedObjects)},
		{"No macros", len(d.Macros)},
		{"No sensitive data", len(d.SensitiveData)},
		{"No spelling errors", len(d.SpellingErrors)},
		{"No flagged visual objects", len(d.VisualObjects)},
		{"No orphaned data", len(d.OrphanData)},
		{"No broken links", len(d.BrokenLinks)},
		{"No compliance risks", len(d.ComplianceRisks)},
		{"No hidden Excel data", len(d.ExcelHiddenData)},
	}

	items := make([]models.ChecklistItem, 0, len(rows))
	for _, r := range rows {
		item := models.ChecklistItem{Label: r.label, Passed: r.n == 0}
		if r.n > 0 {
			item.Detail = pluralize(r.n)
		}
		items = append(items, item)
	}
	return items
}

func pluralize(n int) string {
	if n == 1 {
		return "1 issue found"
	}
	return strconv.Itoa(n) + " issues found"
}

// Assemble fills in the derived fields of a Report (detections grouping,
// fileTypeContext, checklist) that the orchestrator doesn't compute
// itself, leaving the caller-supplied Meta/Summary/stats untouched.
func (a *Assembler) Assemble(format models.Format, findings []models.Finding, report *models.Report) {
	report.Detections = GroupFindings(findings)
	report.FileTypeContext = fileTypeContext(format)
	report.QualionCleanV1 = models.QualionCleanV1{
		FileType:                format,
		FileTypeContext:         report.FileTypeContext,
		Part1TechnicalChecklist: BuildChecklist(report.Detections),
		Part2BusinessRisk:       report.BusinessRisk,
	}
}

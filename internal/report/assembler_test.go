package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/qualion/internal/models"
)

func TestGroupFindings_OrdersBySeverityThenLocation(t *testing.T) {
	findings := []models.Finding{
		{Category: models.CategoryMetadata, Severity: models.SeverityLow, Location: "b"},
		{Category: models.CategoryMetadata, Severity: models.SeverityCritical, Location: "a"},
		{Category: models.CategoryMetadata, Severity: models.SeverityLow, Location: "a"},
	}

	d := GroupFindings(findings)
	require.Len(t, d.Metadata, 3)
	assert.Equal(t, models.SeverityCritical, d.Metadata[0].Severity)
	assert.Equal(t, models.SeverityLow, d.Metadata[1].Severity)
	assert.Equal(t, "a", d.Metadata[1].Location)
	assert.Equal(t, "b", d.Metadata[2].Location)
}

func TestGroupFindings_BucketsByCategory(t *testing.T) {
	findings := []models.Finding{
		{Category: models.CategoryMacros, Severity: models.SeverityHigh},
		{Category: models.CategorySensitiveData, Severity: models.SeverityCritical},
	}

	d := GroupFindings(findings)
	assert.Len(t, d.Macros, 1)
	assert.Len(t, d.SensitiveData, 1)
	assert.Empty(t, d.Comments)
}

func TestBuildChecklist_FailsOnlyCategoriesWithFindings(t *testing.T) {
	d := models.Detections{
		Metadata: []models.Finding{{Category: models.CategoryMetadata}},
	}

	items := BuildChecklist(d)
	var metadataRow, commentsRow models.ChecklistItem
	for _, it := range items {
		switch it.Label {
		case "No leaked author/editor metadata":
			metadataRow = it
		case "No reviewer comments":
			commentsRow = it
		}
	}

	assert.False(t, metadataRow.Passed)
	assert.Equal(t, "1 issue found", metadataRow.Detail)
	assert.True(t, commentsRow.Passed)
	assert.Empty(t, commentsRow.Detail)
}

func TestAssemble_PopulatesQualionCleanV1Block(t *testing.T) {
	a := New(nil)
	findings := []models.Finding{{Category: models.CategoryMacros, Severity: models.SeverityCritical}}
	report := &models.Report{
		BusinessRisk: models.BusinessRisk{BusinessRiskScore: 80, ClientReady: true},
	}

	a.Assemble(models.FormatXLSX, findings, report)

	assert.Equal(t, models.FormatXLSX, report.QualionCleanV1.FileType)
	assert.Contains(t, report.QualionCleanV1.FileTypeContext, "Excel")
	assert.Equal(t, 80, report.QualionCleanV1.Part2BusinessRisk.BusinessRiskScore)
	require.NotEmpty(t, report.QualionCleanV1.Part1TechnicalChecklist)
}

func TestBuildJSON_ArraysAreNeverNull(t *testing.T) {
	a := New(nil)
	report := &models.Report{}

	out, err := a.BuildJSON(report)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))

	detections := decoded["detections"].(map[string]interface{})
	assert.IsType(t, []interface{}{}, detections["metadata"])
	assert.NotNil(t, decoded["spellingIssues"])
}

func TestBuildHTML_RendersScoreAndFlags(t *testing.T) {
	a := New(nil)
	report := &models.Report{
		Meta:        models.ReportMeta{OriginalName: "proposal.docx"},
		ScoreBefore: 42,
		Summary:     models.Summary{RiskLevel: models.RiskLevelHigh},
		BusinessRisk: models.BusinessRisk{
			BusinessRiskScore: 55,
			ClientReady:       false,
			Flags: []models.BusinessFlag{
				{Category: models.BusinessMargin, Level: models.BusinessLevelHigh, RuleID: "margin-pricing-language", Reason: "pricing language detected"},
			},
		},
	}

	out, err := a.BuildHTML(report)
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "proposal.docx")
	assert.Contains(t, html, "42/100")
	assert.Contains(t, html, "margin-pricing-language")
	assert.True(t, strings.Contains(html, "<!DOCTYPE html>"))
}

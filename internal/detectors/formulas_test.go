package detectors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/qualion/internal/models"
)

// scenario 3: "Hidden sheet with formula" (spec.md §8) — the formula
// half: a sheet formula referencing an external workbook must surface as
// a high-severity sensitive-formula finding, anchored to its cell.
func TestSensitiveFormulasDetector_FlagsExternalReference(t *testing.T) {
	adapter := newFakeAdapter(models.FormatXLSX, map[string]string{
		"xl/worksheets/sheet1.xml": `<worksheet><sheetData><row r="1">` +
			`<c r="B2"><f>[Payroll.xlsx]Sheet1!A1</f></c>` +
			`</row></sheetData></worksheet>`,
	})

	d := SensitiveFormulasDetector{}
	findings, err := d.Detect(context.Background(), adapter, nil)
	require.NoError(t, err)
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, models.CategorySensitiveFormula, f.Category)
	assert.Equal(t, "external_reference", f.Type)
	assert.Equal(t, models.SeverityHigh, f.Severity)
	assert.Contains(t, f.Location, "#B2")
}

func TestSensitiveFormulasDetector_ClassifiesEachFormulaKind(t *testing.T) {
	cases := []struct {
		formula  string
		wantType string
		wantSev  models.Severity
	}{
		{"=SQL.REQUEST(\"dsn\")", "sql_odbc", models.SeverityHigh},
		{"=WEBSERVICE(\"https://example.com\")", "web_call", models.SeverityHigh},
		{`="C:\Users\alice\secret.xlsx"`, "local_path", models.SeverityMedium},
		{"=INDIRECT(\"A1\")", "dynamic_reference", models.SeverityLow},
	}

	for _, c := range cases {
		f, ok := classifyFormula("xl/worksheets/sheet1.xml", "A1", c.formula)
		require.True(t, ok, "formula %q should classify", c.formula)
		assert.Equal(t, c.wantType, f.Type)
		assert.Equal(t, c.wantSev, f.Severity)
	}
}

func TestSensitiveFormulasDetector_PlainFormulaIsNotFlagged(t *testing.T) {
	_, ok := classifyFormula("xl/worksheets/sheet1.xml", "A1", "=SUM(A1:A10)")
	assert.False(t, ok)
}

func TestSensitiveFormulasDetector_IgnoresNonXLSX(t *testing.T) {
	adapter := newFakeAdapter(models.FormatDOCX, map[string]string{})
	d := SensitiveFormulasDetector{}
	findings, err := d.Detect(context.Background(), adapter, nil)
	require.NoError(t, err)
	assert.Nil(t, findings)
}

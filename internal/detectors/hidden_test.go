package detectors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

type fakeAdapter struct {
	doc   *models.Document
	parts map[string][]byte
}

func newFakeAdapter(format models.Format, parts map[string]string) *fakeAdapter {
	raw := make(map[string][]byte, len(parts))
	for k, v := range parts {
		raw[k] = []byte(v)
	}
	return &fakeAdapter{doc: &models.Document{Format: format}, parts: raw}
}

func (f *fakeAdapter) Document() *models.Document { return f.doc }
func (f *fakeAdapter) ReadPart(path string) ([]byte, error) {
	b, ok := f.parts[path]
	if !ok {
		return nil, nil
	}
	return b, nil
}
func (f *fakeAdapter) WritePart(path string, content []byte) { f.parts[path] = content }
func (f *fakeAdapter) RemovePart(path string)                { delete(f.parts, path) }
func (f *fakeAdapter) ListParts(glob string) []string {
	var out []string
	for p := range f.parts {
		if glob == "" {
			out = append(out, p)
			continue
		}
		prefix := glob
		if i := indexStar(glob); i >= 0 {
			prefix = glob[:i]
		}
		if len(p) >= len(prefix) && p[:len(prefix)] == prefix {
			out = append(out, p)
		}
	}
	return out
}
func (f *fakeAdapter) Save() ([]byte, error) { return nil, nil }

func indexStar(s string) int {
	for i, r := range s {
		if r == '*' {
			return i
		}
	}
	return -1
}

var _ interfaces.ContainerAdapter = (*fakeAdapter)(nil)

// scenario 3: "Hidden sheet with formula" (spec.md §8) — detector-side
// half: a veryHidden sheet must surface as a CategoryHiddenSheets
// finding at high severity.
func TestHiddenDetector_XLSX_FlagsHiddenAndVeryHiddenSheets(t *testing.T) {
	adapter := newFakeAdapter(models.FormatXLSX, map[string]string{
		"xl/workbook.xml": `<workbook><sheets>` +
			`<sheet name="Visible" sheetId="1" r:id="rId1"/>` +
			`<sheet name="Payroll" sheetId="2" r:id="rId2" state="hidden"/>` +
			`<sheet name="Audit" sheetId="3" r:id="rId3" state="veryHidden"/>` +
			`</sheets></workbook>`,
	})

	d := HiddenDetector{}
	findings, err := d.Detect(context.Background(), adapter, nil)
	require.NoError(t, err)

	require.Len(t, findings, 2)
	names := map[string]models.Severity{}
	for _, f := range findings {
		assert.Equal(t, models.CategoryHiddenSheets, f.Category)
		names[f.Value] = f.Severity
	}
	assert.Equal(t, models.SeverityHigh, names["Payroll"])
	assert.Equal(t, models.SeverityHigh, names["Audit"])
}

func TestHiddenDetector_XLSX_FlagsHiddenColumnsAndRows(t *testing.T) {
	adapter := newFakeAdapter(models.FormatXLSX, map[string]string{
		"xl/worksheets/sheet1.xml": `<worksheet><cols>` +
			`<col min="2" max="2" hidden="1"/>` +
			`</cols><sheetData>` +
			`<row r="3" hidden="1"></row>` +
			`</sheetData></worksheet>`,
	})

	d := HiddenDetector{}
	findings, err := d.Detect(context.Background(), adapter, nil)
	require.NoError(t, err)
	require.Len(t, findings, 2)

	var sawCol, sawRow bool
	for _, f := range findings {
		assert.Equal(t, models.CategoryHiddenColumns, f.Category)
		switch f.Type {
		case "hidden_column":
			sawCol = true
		case "hidden_row":
			sawRow = true
		}
	}
	assert.True(t, sawCol)
	assert.True(t, sawRow)
}

func TestHiddenDetector_DOCX_FlagsVanishWhiteAndTinyFont(t *testing.T) {
	adapter := newFakeAdapter(models.FormatDOCX, map[string]string{
		"word/document.xml": `<w:document><w:body><w:p><w:r><w:rPr>` +
			`<w:vanish/><w:color w:val="FFFFFF"/><w:sz w:val="2"/>` +
			`</w:rPr><w:t>secret</w:t></w:r></w:p></w:body></w:document>`,
	})

	d := HiddenDetector{}
	findings, err := d.Detect(context.Background(), adapter, nil)
	require.NoError(t, err)

	types := map[string]bool{}
	for _, f := range findings {
		types[f.Type] = true
	}
	assert.True(t, types["vanish_text"])
	assert.True(t, types["white_text"])
	assert.True(t, types["tiny_font"])
}

func TestHiddenDetector_PPTX_FlagsHiddenSlide(t *testing.T) {
	adapter := newFakeAdapter(models.FormatPPTX, map[string]string{
		"ppt/slides/slide1.xml": `<p:sld show="0"><p:cSld/></p:sld>`,
	})

	d := HiddenDetector{}
	findings, err := d.Detect(context.Background(), adapter, nil)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "hidden_slide", findings[0].Type)
}

func TestHiddenDetector_PDF_ReturnsNoFindings(t *testing.T) {
	adapter := newFakeAdapter(models.FormatPDF, map[string]string{})
	d := HiddenDetector{}
	findings, err := d.Detect(context.Background(), adapter, nil)
	require.NoError(t, err)
	assert.Nil(t, findings)
}

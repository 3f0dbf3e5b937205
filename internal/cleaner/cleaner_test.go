package cleaner

import (
	"strings"
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
		if glob == "" || globMatch(glob, p) {
			out = append(out, p)
		}
	}
	return out
}
func (f *fakeAdapter) Save() ([]byte, error) { return nil, nil }

// globMatch is a small prefix/suffix-star matcher sufficient for the
// fixed glob shapes the Cleaner itself issues (e.g. "word/*.xml",
// "ppt/slides/slide*.xml").
func globMatch(glob, path string) bool {
	if !strings.Contains(glob, "*") {
		return glob == path
	}
	parts := strings.SplitN(glob, "*", 2)
	return strings.HasPrefix(path, parts[0]) && strings.HasSuffix(path, parts[1])
}

// scenario 1: "Author leak" (spec.md §8).
func TestClean_DOCX_RemovesMetadataAndComments(t *testing.T) {
	adapter := newFakeAdapter(models.FormatDOCX, map[string]string{
		"docProps/core.xml":             `<cp:coreProperties><dc:creator>Alice Smith</dc:creator></cp:coreProperties>`,
		"word/comments.xml":             `<w:comments><w:comment w:id="0">note</w:comment></w:comments>`,
		"[Content_Types].xml":           `<Types><Override PartName="/word/comments.xml" ContentType="x"/></Types>`,
		"word/_rels/document.xml.rels":  `<Relationships><Relationship Id="rId1" Target="comments.xml"/></Relationships>`,
		"word/document.xml":             `<w:document><w:body><w:p><w:commentRangeStart w:id="0"/><w:r><w:t>hello</w:t></w:r><w:commentRangeEnd w:id="0"/><w:r><w:commentReference w:id="0"/></w:r></w:p></w:body></w:document>`,
	})

	c := New(nil, nil)
	stats, err := c.Clean(adapter, nil, interfaces.CleanOptions{RemoveMetadata: true, RemoveComments: true})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.MetadataRemoved)
	assert.GreaterOrEqual(t, stats.CommentsRemoved, 1)

	_, err = adapter.ReadPart("docProps/core.xml")
	require.NoError(t, err)
	coreRaw, _ := adapter.ReadPart("docProps/core.xml")
	assert.Nil(t, coreRaw, "core.xml part should have been removed")

	commentsRaw, _ := adapter.ReadPart("word/comments.xml")
	assert.Nil(t, commentsRaw)

	doc, _ := adapter.ReadPart("word/document.xml")
	assert.NotContains(t, string(doc), "w:commentRangeStart")
	assert.NotContains(t, string(doc), "w:commentReference")
	assert.Contains(t, string(doc), "<w:t>hello</w:t>")
}

func TestClean_DOCX_DrawPolicyAllPurgesMedia(t *testing.T) {
	adapter := newFakeAdapter(models.FormatDOCX, map[string]string{
		"word/document.xml":  `<w:document><w:body><w:p><w:r><w:drawing><a:blip/></w:drawing></w:r></w:p></w:body></w:document>`,
		"word/media/img1.png": "binary-bytes",
	})

	c := New(nil, nil)
	_, err := c.Clean(adapter, nil, interfaces.CleanOptions{DrawPolicy: interfaces.DrawPolicyAll})
	require.NoError(t, err)

	doc, _ := adapter.ReadPart("word/document.xml")
	assert.NotContains(t, string(doc), "w:drawing")

	_, ok := adapter.parts["word/media/img1.png"]
	assert.False(t, ok, "media part should be purged under draw policy 'all'")
}

// scenario 3 (clean half): "Hidden sheet with formula".
func TestClean_XLSX_RemovesHiddenSheetAndFormula(t *testing.T) {
	adapter := newFakeAdapter(models.FormatXLSX, map[string]string{
		"xl/workbook.xml": `<workbook><sheets>` +
			`<sheet name="Visible" sheetId="1" r:id="rId1"/>` +
			`<sheet name="HiddenPrices" sheetId="2" state="hidden" r:id="rId2"/>` +
			`</sheets></workbook>`,
		"xl/_rels/workbook.xml.rels": `<Relationships>` +
			`<Relationship Id="rId1" Target="worksheets/sheet1.xml"/>` +
			`<Relationship Id="rId2" Target="worksheets/sheet2.xml"/>` +
			`</Relationships>`,
		"xl/worksheets/sheet1.xml": `<worksheet><sheetData><row><c r="A1"><v>1</v></c></row></sheetData></worksheet>`,
		"xl/worksheets/sheet2.xml": `<worksheet><sheetData><row><c r="A1"><f>[pricebook.xlsx]Sheet1!A1</f><v>10</v></c></row></sheetData></worksheet>`,
	})

	c := New(nil, nil)
	stats, err := c.Clean(adapter, nil, interfaces.CleanOptions{RemoveHiddenContent: true})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.HiddenRemoved)

	_, ok := adapter.parts["xl/worksheets/sheet2.xml"]
	assert.False(t, ok, "hidden sheet's worksheet part should be removed")

	workbook, _ := adapter.ReadPart("xl/workbook.xml")
	assert.NotContains(t, string(workbook), "HiddenPrices")

	rels, _ := adapter.ReadPart("xl/_rels/workbook.xml.rels")
	assert.NotContains(t, string(rels), "rId2")
}

func TestClean_XLSX_FormulaToValueKeepsCachedValue(t *testing.T) {
	adapter := newFakeAdapter(models.FormatXLSX, map[string]string{
		"xl/worksheets/sheet1.xml": `<worksheet><sheetData><row><c r="A1"><f>[pricebook.xlsx]Sheet1!A1</f><v>10</v></c></row></sheetData></worksheet>`,
	})

	c := New(nil, nil)
	_, err := c.Clean(adapter, nil, interfaces.CleanOptions{FormulaToValue: true})
	require.NoError(t, err)

	sheet1, _ := adapter.ReadPart("xl/worksheets/sheet1.xml")
	assert.NotContains(t, string(sheet1), "<f>")
	assert.Contains(t, string(sheet1), "<v>10</v>")
}

func TestClean_PDF_ClearsInfoAnnotationsAndAttachments(t *testing.T) {
	adapter := newFakeAdapter(models.FormatPDF, map[string]string{
		"info/Author":             "Alice",
		"info/Title":              "Proposal",
		"annotations/page-1":      "note",
		"attachments/pricing.xlsx": "binary",
	})

	c := New(nil, nil)
	stats, err := c.Clean(adapter, nil, interfaces.CleanOptions{
		RemoveMetadata:        true,
		RemoveHiddenContent:   true,
		RemoveEmbeddedObjects: true,
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.MetadataRemoved, 2)
	assert.Equal(t, 1, stats.HiddenRemoved)
	assert.Equal(t, 1, stats.EmbeddingsRemoved)

	_, ok := adapter.parts["info/Author"]
	assert.False(t, ok)
	_, ok = adapter.parts["attachments/pricing.xlsx"]
	assert.False(t, ok)
}

func TestClean_MacrosRemovedAcrossFormats(t *testing.T) {
	adapter := newFakeAdapter(models.FormatXLSX, map[string]string{
		"xl/vbaProject.bin": "macro-bytes",
	})

	c := New(nil, nil)
	stats, err := c.Clean(adapter, nil, interfaces.CleanOptions{RemoveMacros: true})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MacrosRemoved)

	_, ok := adapter.parts["xl/vbaProject.bin"]
	assert.False(t, ok)
}

package extractor

import (
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
		out = append(out, p)
	}
	_ = glob
	return out
}
func (f *fakeAdapter) Save() ([]byte, error) { return nil, nil }

var _ interfaces.ContainerAdapter = (*fakeAdapter)(nil)

// scenario 2: "Fragmented word" (spec.md §8) — Word commonly splits a
// single visible word across multiple <w:t> runs (e.g. spellcheck
// re-runs, tracked-change boundaries). The projection must read as one
// unbroken word, and each run's segment offsets must still resolve back
// to its own slice of that word so the Applier can edit a run without
// touching its neighbors.
func TestExtract_DOCX_FragmentedWordAcrossRunsProjectsAsOneWord(t *testing.T) {
	adapter := newFakeAdapter(models.FormatDOCX, map[string]string{
		"word/document.xml": `<w:document><w:body>` +
			`<w:p>` +
			`<w:r><w:t>conf</w:t></w:r>` +
			`<w:r><w:t>id</w:t></w:r>` +
			`<w:r><w:t>ential</w:t></w:r>` +
			`</w:p>` +
			`<w:p><w:r><w:t>report</w:t></w:r></w:p>` +
			`</w:body></w:document>`,
	})

	e := &DOCXExtractor{}
	proj, err := e.Extract(adapter)
	require.NoError(t, err)

	assert.Contains(t, proj.Text, "confidential")
	require.Len(t, proj.Segments, 4)

	for i, want := range []string{"conf", "id", "ential", "report"} {
		seg := proj.Segments[i]
		assert.Equal(t, want, seg.Text)
		assert.Equal(t, want, proj.Text[seg.ProjStart:seg.ProjEnd],
			"segment %d's projection offsets must resolve back to its own run text", i)
	}
}

func TestExtract_DOCX_WhitespaceNormalizationPreservesSegmentBoundaries(t *testing.T) {
	adapter := newFakeAdapter(models.FormatDOCX, map[string]string{
		"word/document.xml": `<w:document><w:body><w:p>` +
			`<w:r><w:t xml:space="preserve">hello    </w:t></w:r>` +
			`<w:r><w:t>world</w:t></w:r>` +
			`</w:p></w:body></w:document>`,
	})

	e := &DOCXExtractor{}
	proj, err := e.Extract(adapter)
	require.NoError(t, err)
	require.Len(t, proj.Segments, 2)

	for _, seg := range proj.Segments {
		assert.GreaterOrEqual(t, seg.ProjStart, 0)
		assert.LessOrEqual(t, seg.ProjEnd, len(proj.Text))
		assert.LessOrEqual(t, seg.ProjStart, seg.ProjEnd)
	}
}

func TestDOCXExtractor_Stats_CountsWordsAndParagraphs(t *testing.T) {
	adapter := newFakeAdapter(models.FormatDOCX, map[string]string{
		"word/document.xml": `<w:document><w:body>` +
			`<w:p><w:r><w:t>one two</w:t></w:r></w:p>` +
			`<w:p><w:r><w:t>three</w:t></w:r></w:p>` +
			`</w:body></w:document>`,
	})

	e := &DOCXExtractor{}
	proj, err := e.Extract(adapter)
	require.NoError(t, err)

	stats := e.Stats(adapter, proj)
	assert.Equal(t, 3, stats.WordCount)
	assert.Equal(t, 1, stats.PartCount)
}

func TestDocxPartOrder_BodyFirstThenHeadersFootersNotes(t *testing.T) {
	in := []string{
		"word/footnotes.xml",
		"word/header2.xml",
		"word/document.xml",
		"word/endnotes.xml",
		"word/footer1.xml",
		"word/settings.xml",
	}
	out := docxPartOrder(in)
	assert.Equal(t, []string{
		"word/document.xml",
		"word/header2.xml",
		"word/footer1.xml",
		"word/footnotes.xml",
		"word/endnotes.xml",
	}, out)
}

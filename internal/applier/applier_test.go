package applier

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
		if glob == "" || strings.HasPrefix(p, glob) {
			out = append(out, p)
		}
	}
	return out
}
func (f *fakeAdapter) Save() ([]byte, error) { return nil, nil }

func segmentFor(part, raw, text string) models.TextSegment {
	start := strings.Index(raw, text)
	if start < 0 {
		panic("text not found in raw part: " + text)
	}
	return models.TextSegment{
		PartPath: part,
		XMLStart: start,
		XMLEnd:   start + len(text),
		Text:     text,
	}
}

// projectionOf stitches segments' decoded text into the whitespace-free
// projection the Applier locates edits against, and fixes up ProjStart/End.
func projectionOf(segs []models.TextSegment) *models.TextProjection {
	var b strings.Builder
	for i := range segs {
		segs[i].ProjStart = b.Len()
		b.WriteString(segs[i].Text)
		segs[i].ProjEnd = b.Len()
	}
	return &models.TextProjection{Text: b.String(), Segments: segs}
}

func TestApply_SingleSegmentRewrite(t *testing.T) {
	raw := `<w:p><w:r><w:t>Teh quick fox</w:t></w:r></w:p>`
	adapter := newFakeAdapter(models.FormatDOCX, map[string]string{"word/document.xml": raw})

	segs := []models.TextSegment{segmentFor("word/document.xml", raw, "Teh quick fox")}
	proj := projectionOf(segs)

	edits := []interfaces.Edit{
		{Error: "Teh", Replacement: "The", ContextAfter: " quick"},
	}

	stats, err := New(nil).Apply(adapter, proj, edits)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.NodesChanged)
	require.Len(t, stats.Examples, 1)
	assert.Equal(t, "Teh quick fox", stats.Examples[0].Before)
	assert.Equal(t, "The quick fox", stats.Examples[0].After)

	out, _ := adapter.ReadPart("word/document.xml")
	assert.Contains(t, string(out), "<w:t>The quick fox</w:t>")
	assert.Equal(t, 1, strings.Count(string(out), "<w:t>"), "tag count must be unchanged")
}

func TestApply_MultiSegmentRewriteRedistributesAcrossSegments(t *testing.T) {
	raw := `<w:p><w:r><w:t>soc</w:t></w:r><w:r><w:t>ial</w:t></w:r></w:p>`
	adapter := newFakeAdapter(models.FormatDOCX, map[string]string{"word/document.xml": raw})

	segs := []models.TextSegment{
		segmentFor("word/document.xml", raw, "soc"),
		segmentFor("word/document.xml", raw, "ial"),
	}
	proj := projectionOf(segs)
	require.Equal(t, "social", proj.Text)

	edits := []interfaces.Edit{
		{Error: "social", Replacement: "networked"},
	}

	stats, err := New(nil).Apply(adapter, proj, edits)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.NodesChanged)

	out, _ := adapter.ReadPart("word/document.xml")
	assert.Equal(t, 2, strings.Count(string(out), "<w:t>"), "tag count must be unchanged")
	assert.NotContains(t, string(out), "soc</w:t>")
}

func TestApply_SkipsEditWhenErrorNoLongerMatchesSlice(t *testing.T) {
	raw := `<w:p><w:r><w:t>hello world</w:t></w:r></w:p>`
	adapter := newFakeAdapter(models.FormatDOCX, map[string]string{"word/document.xml": raw})

	segs := []models.TextSegment{segmentFor("word/document.xml", raw, "hello world")}
	proj := projectionOf(segs)

	start, end := 0, 5
	edits := []interfaces.Edit{
		{Error: "goodbye", Replacement: "hi", StartOffset: &start, EndOffset: &end},
	}

	stats, err := New(nil).Apply(adapter, proj, edits)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.NodesChanged)

	out, _ := adapter.ReadPart("word/document.xml")
	assert.Equal(t, raw, string(out))
}

func TestApply_OverlappingEditsKeepOnlyEarliest(t *testing.T) {
	raw := `<w:p><w:r><w:t>aaaa bbbb</w:t></w:r></w:p>`
	adapter := newFakeAdapter(models.FormatDOCX, map[string]string{"word/document.xml": raw})

	segs := []models.TextSegment{segmentFor("word/document.xml", raw, "aaaa bbbb")}
	proj := projectionOf(segs)

	edits := []interfaces.Edit{
		{Error: "aaaa bbbb", Replacement: "x"},
		{Error: "bbbb", Replacement: "y"},
	}

	stats, err := New(nil).Apply(adapter, proj, edits)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.NodesChanged)

	out, _ := adapter.ReadPart("word/document.xml")
	assert.Contains(t, string(out), "<w:t>x</w:t>")
}

func TestApply_NoEditsIsNoop(t *testing.T) {
	raw := `<w:p><w:r><w:t>unchanged</w:t></w:r></w:p>`
	adapter := newFakeAdapter(models.FormatDOCX, map[string]string{"word/document.xml": raw})
	segs := []models.TextSegment{segmentFor("word/document.xml", raw, "unchanged")}
	proj := projectionOf(segs)

	stats, err := New(nil).Apply(adapter, proj, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.NodesChanged)
	assert.Equal(t, 1, stats.NodesConsidered)
}

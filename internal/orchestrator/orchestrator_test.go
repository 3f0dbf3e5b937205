package orchestrator

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
	"github.com/ternarybob/qualion/internal/proofreader"
)

// buildDOCX assembles a minimal in-memory DOCX ZIP with the given named
// parts, sufficient for the OOXML adapter and DOCX extractor.
func buildDOCX(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// scenario 1: "Author leak" (spec.md §8) exercised end to end through
// Analyze and Clean.
func TestOrchestrator_AnalyzeAndClean_AuthorLeak(t *testing.T) {
	docBytes := buildDOCX(t, map[string]string{
		"docProps/core.xml": `<cp:coreProperties><dc:creator>Alice Smith</dc:creator></cp:coreProperties>`,
		"word/document.xml": `<w:document><w:body><w:p><w:r><w:t>Quarterly proposal for the client.</w:t></w:r></w:p></w:body></w:document>`,
	})

	doc := &models.Document{ID: "doc_1", OriginalName: "proposal.docx", Format: models.FormatDOCX, Bytes: docBytes}

	o := New(proofreader.New(nil, nil), nil)

	analyzeResult, err := o.Analyze(context.Background(), doc)
	require.NoError(t, err)
	require.NotNil(t, analyzeResult.Report)

	var metadataFindingID string
	for _, f := range analyzeResult.Findings {
		if f.Category == models.CategoryMetadata {
			metadataFindingID = f.ID
		}
	}
	require.NotEmpty(t, metadataFindingID, "expected a metadata finding for the leaked author")

	cleanResult, err := o.Clean(context.Background(), doc, interfaces.CleanOptions{RemoveMetadata: true})
	require.NoError(t, err)
	require.NotNil(t, cleanResult.Cleaned)
	assert.NotEmpty(t, cleanResult.Cleaned.Bytes)
	require.NotNil(t, cleanResult.Report.ScoreAfter)
	assert.GreaterOrEqual(t, *cleanResult.Report.ScoreAfter, cleanResult.Report.ScoreBefore)

	zr, err := zip.NewReader(bytes.NewReader(cleanResult.Cleaned.Bytes), int64(len(cleanResult.Cleaned.Bytes)))
	require.NoError(t, err)
	for _, f := range zr.File {
		assert.NotEqual(t, "docProps/core.xml", f.Name, "core.xml should have been removed")
	}
}

func TestOrchestrator_Analyze_CleanDocumentScoresPerfect(t *testing.T) {
	docBytes := buildDOCX(t, map[string]string{
		"word/document.xml": `<w:document><w:body><w:p><w:r><w:t>Nothing sensitive here.</w:t></w:r></w:p></w:body></w:document>`,
	})
	doc := &models.Document{ID: "doc_2", OriginalName: "clean.docx", Format: models.FormatDOCX, Bytes: docBytes}

	o := New(proofreader.New(nil, nil), nil)
	result, err := o.Analyze(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, 100, result.Report.ScoreBefore)
	assert.True(t, result.Report.BusinessRisk.ClientReady)
}

func TestOrchestrator_Rephrase_RunsSameFlowAsClean(t *testing.T) {
	docBytes := buildDOCX(t, map[string]string{
		"word/document.xml": `<w:document><w:body><w:p><w:r><w:t>Plain text.</w:t></w:r></w:p></w:body></w:document>`,
	})
	doc := &models.Document{ID: "doc_3", OriginalName: "plain.docx", Format: models.FormatDOCX, Bytes: docBytes}

	o := New(proofreader.New(nil, nil), nil)
	result, err := o.Rephrase(context.Background(), doc, interfaces.CleanOptions{})
	require.NoError(t, err)
	assert.NotNil(t, result.Cleaned)
	assert.NotNil(t, result.Report)
}

package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

// PDFExtractor implements interfaces.TextExtractor for PDF. Per
// spec.md §4.2, PDF text extraction defers to a collaborator and
// returns an empty projection when that collaborator is unavailable —
// detectors tolerate empty projections by design. pdfcpu has no direct
// text-extraction API, so this shells out to its content-stream dump
// (api.ExtractContentFile) via a scratch file, grounded on the
// teacher's own PDF extractor service.
type PDFExtractor struct {
	logger arbor.ILogger
}

var _ interfaces.TextExtractor = (*PDFExtractor)(nil)

func NewPDFExtractor(logger arbor.ILogger) *PDFExtractor {
	return &PDFExtractor{logger: logger}
}

func (e *PDFExtractor) Extract(adapter interfaces.ContainerAdapter) (*models.TextProjection, error) {
	doc := adapter.Document()

	tempDir, err := os.MkdirTemp("", "qualion-pdf-")
	if err != nil {
		e.logger.Warn().Err(err).Msg("failed to create pdf scratch directory, returning empty projection")
		return &models.TextProjection{}, nil
	}
	defer os.RemoveAll(tempDir)

	inFile := filepath.Join(tempDir, "in.pdf")
	if err := os.WriteFile(inFile, doc.Bytes, 0o644); err != nil {
		e.logger.Warn().Err(err).Msg("failed to write pdf scratch file, returning empty projection")
		return &models.TextProjection{}, nil
	}

	pdfCtx, err := api.ReadContextFile(inFile)
	if err != nil {
		e.logger.Warn().Err(err).Msg("failed to read pdf context, returning empty projection")
		return &models.TextProjection{}, nil
	}

	outDir := filepath.Join(tempDir, "content")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return &models.TextProjection{}, nil
	}

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(inFile, outDir, nil, conf); err != nil {
		e.logger.Warn().Err(err).Msg("pdf content extraction failed, returning empty projection")
		return &models.TextProjection{}, nil
	}

	pageTexts := make(map[int]string)
	entries, _ := os.ReadDir(outDir)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		var pageNum int
		if _, err := fmt.Sscanf(entry.Name(), "Content_page_%d", &pageNum); err != nil {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, entry.Name()))
		if err == nil {
			pageTexts[pageNum] = string(content)
		}
	}

	var b strings.Builder
	for page := 1; page <= pdfCtx.PageCount; page++ {
		if text, ok := pageTexts[page]; ok {
			b.WriteString(text)
			b.WriteString("\n\n")
		}
	}

	return &models.TextProjection{Text: normalizeWhitespace(b.String())}, nil
}

func (e *PDFExtractor) Stats(adapter interfaces.ContainerAdapter, projection *models.TextProjection) models.DocumentStats {
	return models.DocumentStats{
		PartCount:      len(adapter.ListParts("")),
		TextLength:     len(projection.Text),
		WordCount:      countWords(projection.Text),
		ParagraphCount: strings.Count(projection.Text, "\n\n") + 1,
	}
}

package extractor

import (
	"strings"

	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

// XLSXExtractor implements interfaces.TextExtractor for spreadsheets.
// Per spec.md §4.2, only xl/sharedStrings.xml contributes to the text
// projection — cell formula text is analyzed separately by the formula
// detector, not folded into the prose projection.
type XLSXExtractor struct{}

var _ interfaces.TextExtractor = (*XLSXExtractor)(nil)

var xlsxWalkConfig = walkConfig{textElem: "t", paragraphElem: "si", tabElem: "_none_", breakElem: "_none_"}

func (e *XLSXExtractor) Extract(adapter interfaces.ContainerAdapter) (*models.TextProjection, error) {
	raw, err := adapter.ReadPart("xl/sharedStrings.xml")
	if err != nil || raw == nil {
		return &models.TextProjection{}, nil
	}

	segs, text := walkPart("xl/sharedStrings.xml", raw, xlsxWalkConfig)
	return &models.TextProjection{Text: text, Segments: segs}, nil
}

func (e *XLSXExtractor) Stats(adapter interfaces.ContainerAdapter, projection *models.TextProjection) models.DocumentStats {
	sheetCount := len(adapter.ListParts("xl/worksheets/sheet*.xml"))
	return models.DocumentStats{
		PartCount:      len(adapter.ListParts("")),
		TextLength:     len(projection.Text),
		WordCount:      countWords(projection.Text),
		ParagraphCount: strings.Count(projection.Text, "\n") + 1,
		TableCount:     sheetCount,
	}
}

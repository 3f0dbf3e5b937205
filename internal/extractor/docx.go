package extractor

import (
	"sort"
	"strings"

	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

// DOCXExtractor implements interfaces.TextExtractor for Word documents,
// per spec.md §4.2: body text, headers, footers, footnotes and endnotes,
// in that order.
type DOCXExtractor struct{}

var _ interfaces.TextExtractor = (*DOCXExtractor)(nil)

var docxWalkConfig = walkConfig{textElem: "t", paragraphElem: "p", tabElem: "tab", breakElem: "br"}

func (e *DOCXExtractor) Extract(adapter interfaces.ContainerAdapter) (*models.TextProjection, error) {
	partPaths := docxPartOrder(adapter.ListParts("word/*.xml"))

	var allSegments []models.TextSegment
	var b strings.Builder

	for _, p := range partPaths {
		raw, err := adapter.ReadPart(p)
		if err != nil || raw == nil {
			continue
		}
		segs, text := walkPart(p, raw, docxWalkConfig)
		offset := b.Len()
		for i := range segs {
			segs[i].ProjStart += offset
			segs[i].ProjEnd += offset
		}
		allSegments = append(allSegments, segs...)
		b.WriteString(text)
	}

	return &models.TextProjection{Text: b.String(), Segments: allSegments}, nil
}

func (e *DOCXExtractor) Stats(adapter interfaces.ContainerAdapter, projection *models.TextProjection) models.DocumentStats {
	return models.DocumentStats{
		PartCount:      len(adapter.ListParts("")),
		TextLength:     len(projection.Text),
		WordCount:      countWords(projection.Text),
		ParagraphCount: strings.Count(projection.Text, "\n") + 1,
		TableCount:     countOccurrences(adapter, "word/document.xml", "<w:tbl>"),
	}
}

// docxPartOrder returns document.xml first, then headers, footers,
// footnotes, endnotes, matching spec.md §4.2's enumeration order.
func docxPartOrder(parts []string) []string {
	rank := func(p string) int {
		switch {
		case p == "word/document.xml":
			return 0
		case strings.HasPrefix(p, "word/header"):
			return 1
		case strings.HasPrefix(p, "word/footer"):
			return 2
		case p == "word/footnotes.xml":
			return 3
		case p == "word/endnotes.xml":
			return 4
		default:
			return 99
		}
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if rank(p) < 99 {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return rank(out[i]) < rank(out[j]) })
	return out
}

func countWords(s string) int {
	return len(strings.Fields(s))
}

func countOccurrences(adapter interfaces.ContainerAdapter, part, substr string) int {
	raw, err := adapter.ReadPart(part)
	if err != nil || raw == nil {
		return 0
	}
	return strings.Count(string(raw), substr)
}

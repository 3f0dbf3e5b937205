package extractor

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

// PPTXExtractor implements interfaces.TextExtractor for PowerPoint
// decks, per spec.md §4.2: slides sorted by numeric suffix, then notes
// slides.
type PPTXExtractor struct{}

var _ interfaces.TextExtractor = (*PPTXExtractor)(nil)

var pptxWalkConfig = walkConfig{textElem: "t", paragraphElem: "p", tabElem: "tab", breakElem: "br"}

func (e *PPTXExtractor) Extract(adapter interfaces.ContainerAdapter) (*models.TextProjection, error) {
	slides := sortBySlideNumber(adapter.ListParts("ppt/slides/slide*.xml"))
	notes := sortBySlideNumber(adapter.ListParts("ppt/notesSlides/notesSlide*.xml"))

	var allSegments []models.TextSegment
	var b strings.Builder

	for _, p := range append(slides, notes...) {
		raw, err := adapter.ReadPart(p)
		if err != nil || raw == nil {
			continue
		}
		segs, text := walkPart(p, raw, pptxWalkConfig)
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

func (e *PPTXExtractor) Stats(adapter interfaces.ContainerAdapter, projection *models.TextProjection) models.DocumentStats {
	return models.DocumentStats{
		PartCount:      len(adapter.ListParts("")),
		TextLength:     len(projection.Text),
		WordCount:      countWords(projection.Text),
		ParagraphCount: strings.Count(projection.Text, "\n") + 1,
		TableCount:     sumOccurrences(adapter, adapter.ListParts("ppt/slides/slide*.xml"), "<a:tbl>"),
	}
}

// sortBySlideNumber orders "ppt/slides/slideN.xml" (or notesSlideN.xml)
// paths by the numeric suffix N, not lexicographically (slide10 must
// sort after slide9).
func sortBySlideNumber(parts []string) []string {
	type numbered struct {
		path string
		n    int
	}
	items := make([]numbered, 0, len(parts))
	for _, p := range parts {
		items = append(items, numbered{path: p, n: extractTrailingNumber(p)})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].n < items[j].n })
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.path
	}
	return out
}

func extractTrailingNumber(path string) int {
	base := path
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	base = strings.TrimSuffix(base, ".xml")
	var digits strings.Builder
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] < '0' || base[i] > '9' {
			break
		}
		digits.WriteByte(base[i])
	}
	if digits.Len() == 0 {
		return 0
	}
	s := reverseString(digits.String())
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func reverseString(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

func sumOccurrences(adapter interfaces.ContainerAdapter, parts []string, substr string) int {
	total := 0
	for _, p := range parts {
		total += countOccurrences(adapter, p, substr)
	}
	return total
}

// slideNumberLabel formats a slide path into a human-readable location
// string, e.g. "ppt/slides/slide3.xml" -> "slide 3".
func slideNumberLabel(path string) string {
	return fmt.Sprintf("slide %d", extractTrailingNumber(path))
}

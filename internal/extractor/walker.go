package extractor

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/ternarybob/qualion/internal/models"
)

// walkConfig parameterizes the shared run-level text walker across the
// OOXML text formats (spec.md §4.2): which local element name carries
// literal text, which mark paragraph/line boundaries, and which are
// elided without inserting whitespace.
type walkConfig struct {
	textElem      string // e.g. "t" (both w:t and a:t share the local name "t")
	paragraphElem string // e.g. "p"
	tabElem       string // e.g. "tab"
	breakElem     string // e.g. "br"
}

// walkPart walks a single OOXML part's raw XML bytes, emitting one
// models.TextSegment per text-bearing element and returning the
// concatenation of their decoded text plus inserted paragraph/tab/break
// separators, matching the element boundaries to the part's original
// byte offsets so the Applier can later rewrite in place.
//
// Unknown tags are elided without inserting whitespace — critical, per
// spec.md §4.2, to avoid fragmenting words that straddle runs.
func walkPart(partPath string, raw []byte, cfg walkConfig) ([]models.TextSegment, string) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.Strict = false

	var segments []models.TextSegment
	var text strings.Builder

	for {
		startOffset := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case cfg.textElem:
				seg, consumedText := readTextElement(dec, raw, partPath, startOffset, t)
				if seg != nil {
					seg.ProjStart = text.Len()
					text.WriteString(consumedText)
					seg.ProjEnd = text.Len()
					segments = append(segments, *seg)
				}
			case cfg.tabElem:
				text.WriteString("\t")
			case cfg.breakElem:
				text.WriteString("\n")
			}
		case xml.EndElement:
			if t.Name.Local == cfg.paragraphElem {
				text.WriteString("\n")
			}
		}
	}

	normalized, offsetMap := normalizeWhitespaceMapped(text.String())
	for i := range segments {
		segments[i].ProjStart = offsetMap[segments[i].ProjStart]
		segments[i].ProjEnd = offsetMap[segments[i].ProjEnd]
	}
	return segments, normalized
}

// readTextElement consumes tokens from the just-opened text element
// through its matching end, recording the raw offsets needed to rewrite
// the segment in place later.
func readTextElement(dec *xml.Decoder, raw []byte, partPath string, openStart int64, start xml.StartElement) (*models.TextSegment, string) {
	openEnd := dec.InputOffset()

	var charData []byte
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, ""
		}
		switch t := tok.(type) {
		case xml.CharData:
			charData = append(charData, t...)
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				closeEnd := dec.InputOffset()
				innerStart := int(openEnd)
				innerEnd := innerStart + len(charData)
				// Self-closing elements (<w:t/>) have no raw bytes between
				// openEnd and closeEnd; fall back to an empty inner range.
				if innerEnd > int(closeEnd) {
					innerEnd = innerStart
				}
				seg := &models.TextSegment{
					PartPath: partPath,
					XMLStart: innerStart,
					XMLEnd:   innerEnd,
					RawInner: string(raw[clampOffset(innerStart, len(raw)):clampOffset(innerEnd, len(raw))]),
					OpenTag:  string(raw[clampOffset(int(openStart), len(raw)):clampOffset(int(openEnd), len(raw))]),
					CloseTag: closeTagString(raw, innerEnd, int(closeEnd)),
					Text:     string(charData),
				}
				return seg, string(charData)
			}
			// Nested element inside a text run is not expected in
			// practice; ignore its content but keep scanning.
		}
	}
}

func closeTagString(raw []byte, from, to int) string {
	from = clampOffset(from, len(raw))
	to = clampOffset(to, len(raw))
	if from >= to {
		return ""
	}
	return string(raw[from:to])
}

func clampOffset(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// normalizeWhitespace collapses horizontal whitespace runs, preserves
// newlines and tabs, and collapses three-or-more consecutive newlines
// down to two, per spec.md §4.2.
func normalizeWhitespace(s string) string {
	normalized, _ := normalizeWhitespaceMapped(s)
	return normalized
}

// normalizeWhitespaceMapped is normalizeWhitespace plus a byte-offset
// map from every position in s (0..len(s) inclusive) to the
// corresponding position in the returned, normalized string.
//
// Segment ProjStart/ProjEnd values are computed against the
// un-normalized per-part text (walkPart's accumulator); since
// normalization can shorten that text (collapsing space runs, dropping
// excess newlines), those offsets must be translated through this map
// before they mean anything relative to the text walkPart actually
// returns. A dropped character maps to the output position its
// collapsed representative occupies, so any offset landing inside
// collapsed whitespace still resolves to a sane boundary.
func normalizeWhitespaceMapped(s string) (string, []int) {
	mapping := make([]int, len(s)+1)
	var b strings.Builder
	spaceRun := 0
	newlineRun := 0
	flushSpaces := func() {
		if spaceRun > 0 {
			b.WriteByte(' ')
			spaceRun = 0
		}
	}
	pos := 0
	for _, r := range s {
		rl := len(string(r))
		if r != ' ' {
			flushSpaces()
		}
		outBefore := b.Len()
		switch r {
		case ' ':
			spaceRun++
		case '\n':
			newlineRun++
			if newlineRun <= 2 {
				b.WriteRune('\n')
			}
		case '\t':
			newlineRun = 0
			b.WriteRune('\t')
		default:
			newlineRun = 0
			b.WriteRune(r)
		}
		for k := 0; k < rl; k++ {
			mapping[pos+k] = outBefore
		}
		pos += rl
	}
	flushSpaces()
	mapping[len(s)] = b.Len()
	return b.String(), mapping
}

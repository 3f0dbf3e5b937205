package detectors

import (
	"context"
	"encoding/xml"
	"strings"

	"github.com/ternarybob/qualion/internal/common"
	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

// TrackedChangesDetector emits one finding per <w:ins>/<w:del> revision
// block in a DOCX document. Insertions adjacent to deletions are left as
// two separate findings (spec.md §4.3 — they are not merged).
type TrackedChangesDetector struct{}

var _ interfaces.Detector = (*TrackedChangesDetector)(nil)

func (TrackedChangesDetector) Name() string { return "trackedChanges" }

func (TrackedChangesDetector) Detect(ctx context.Context, adapter interfaces.ContainerAdapter, projection *models.TextProjection) ([]models.Finding, error) {
	if adapter.Document().Format != models.FormatDOCX {
		return nil, nil
	}

	var findings []models.Finding
	parts := append([]string{"word/document.xml"}, adapter.ListParts("word/header*.xml")...)
	parts = append(parts, adapter.ListParts("word/footer*.xml")...)

	for _, path := range parts {
		findings = append(findings, revisionFindings(adapter, path)...)
	}

	return dedupeFindings(findings), nil
}

func revisionFindings(adapter interfaces.ContainerAdapter, path string) []models.Finding {
	raw := readPart(adapter, path)
	if raw == "" {
		return nil
	}

	var findings []models.Finding
	dec := xml.NewDecoder(strings.NewReader(raw))
	dec.Strict = false

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		name := localName(start.Name)
		if name != "ins" && name != "del" {
			continue
		}

		author := attr(start, "author")
		date := attr(start, "date")
		text := revisionText(dec, start)

		typ := "insertion"
		if name == "del" {
			typ = "deletion"
		}

		findings = append(findings, models.Finding{
			ID:       common.ContentID("f", string(models.CategoryTrackChanges), path, typ, author, date, text),
			Category: models.CategoryTrackChanges,
			Type:     typ,
			Severity: models.SeverityMedium,
			Location: path,
			Value:    text,
			Context:  author + "@" + date,
		})
	}

	return findings
}

// revisionText collects the text content (w:t and w:delText) inside a
// <w:ins>/<w:del> block until its matching end element.
func revisionText(dec *xml.Decoder, open xml.StartElement) string {
	depth := 1
	var b strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			name := localName(t.Name)
			if name == localName(open.Name) {
				depth++
			}
			if name == "t" || name == "delText" {
				var s string
				if err := dec.DecodeElement(&s, &t); err == nil {
					b.WriteString(s)
				}
				continue
			}
		case xml.EndElement:
			if localName(t.Name) == localName(open.Name) {
				depth--
				if depth == 0 {
					return b.String()
				}
			}
		}
	}
	return b.String()
}

package detectors

import (
	"context"
	"encoding/xml"
	"strings"

	"github.com/ternarybob/qualion/internal/common"
	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

var highCommentKeywords = []string{"confidential", "urgent", "password"}
var mediumCommentKeywords = []string{"draft", "internal", "review"}

// commentSeverity classifies a comment body against the fixed keyword
// list of spec.md §4.3.
func commentSeverity(text string) models.Severity {
	lower := strings.ToLower(text)
	for _, kw := range highCommentKeywords {
		if strings.Contains(lower, kw) {
			return models.SeverityHigh
		}
	}
	for _, kw := range mediumCommentKeywords {
		if strings.Contains(lower, kw) {
			return models.SeverityMedium
		}
	}
	return models.SeverityLow
}

// CommentsDetector emits one finding per reviewer comment or speaker
// note found in the document, format-specific per spec.md §4.3.
type CommentsDetector struct{}

var _ interfaces.Detector = (*CommentsDetector)(nil)

func (CommentsDetector) Name() string { return "comments" }

func (CommentsDetector) Detect(ctx context.Context, adapter interfaces.ContainerAdapter, projection *models.TextProjection) ([]models.Finding, error) {
	switch adapter.Document().Format {
	case models.FormatDOCX:
		return docxComments(adapter), nil
	case models.FormatPPTX:
		return pptxComments(adapter), nil
	case models.FormatXLSX:
		return xlsxComments(adapter), nil
	default:
		return nil, nil
	}
}

func docxComments(adapter interfaces.ContainerAdapter) []models.Finding {
	raw := readPart(adapter, "word/comments.xml")
	if raw == "" {
		return nil
	}

	var findings []models.Finding
	dec := xml.NewDecoder(strings.NewReader(raw))
	dec.Strict = false
	var id, author string
	var textBuf strings.Builder
	inComment := false
	flush := func() {
		if !inComment {
			return
		}
		text := strings.TrimSpace(textBuf.String())
		findings = append(findings, models.Finding{
			ID:       common.ContentID("f", string(models.CategoryComments), "word/comments.xml", id, text),
			Category: models.CategoryComments,
			Type:     "comment",
			Severity: commentSeverity(text),
			Location: "word/comments.xml#" + id,
			Value:    text,
			Context:  author,
		})
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if localName(t.Name) == "comment" {
				flush()
				id = attr(t, "id")
				author = attr(t, "author")
				textBuf.Reset()
				inComment = true
			}
			if localName(t.Name) == "t" && inComment {
				var s string
				if err := dec.DecodeElement(&s, &t); err == nil {
					textBuf.WriteString(s)
					textBuf.WriteByte(' ')
				}
			}
		case xml.EndElement:
			if localName(t.Name) == "comment" {
				flush()
				inComment = false
			}
		}
	}
	flush()

	return dedupeFindings(findings)
}

func pptxComments(adapter interfaces.ContainerAdapter) []models.Finding {
	var findings []models.Finding

	authors := make(map[string]string)
	authorsRaw := readPart(adapter, "ppt/commentAuthors.xml")
	if authorsRaw != "" {
		dec := xml.NewDecoder(strings.NewReader(authorsRaw))
		dec.Strict = false
		for {
			tok, err := dec.Token()
			if err != nil {
				break
			}
			if start, ok := tok.(xml.StartElement); ok && localName(start.Name) == "cmAuthor" {
				authors[attr(start, "id")] = attr(start, "name")
			}
		}
	}

	for _, path := range adapter.ListParts("ppt/comments/comment*.xml") {
		findings = append(findings, pptxCommentPart(adapter, path, authors)...)
	}
	for _, path := range adapter.ListParts("ppt/modernComments/*") {
		findings = append(findings, pptxCommentPart(adapter, path, authors)...)
	}

	for _, path := range adapter.ListParts("ppt/notesSlides/notesSlide*.xml") {
		text := notesSlideText(adapter, path)
		if len(strings.TrimSpace(text)) < 10 {
			continue
		}
		findings = append(findings, models.Finding{
			ID:       common.ContentID("f", string(models.CategoryComments), path, "speaker_note", text),
			Category: models.CategoryComments,
			Type:     "speaker_note",
			Severity: commentSeverity(text),
			Location: path,
			Value:    strings.TrimSpace(text),
		})
	}

	return dedupeFindings(findings)
}

func pptxCommentPart(adapter interfaces.ContainerAdapter, path string, authors map[string]string) []models.Finding {
	raw := readPart(adapter, path)
	if raw == "" {
		return nil
	}

	var findings []models.Finding
	dec := xml.NewDecoder(strings.NewReader(raw))
	dec.Strict = false
	var authorID, text string
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch localName(t.Name) {
			case "cm":
				authorID = attr(t, "authorId")
			case "text":
				var s string
				if err := dec.DecodeElement(&s, &t); err == nil {
					text = s
				}
			}
		}
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	findings = append(findings, models.Finding{
		ID:       common.ContentID("f", string(models.CategoryComments), path, authorID, text),
		Category: models.CategoryComments,
		Type:     "comment",
		Severity: commentSeverity(text),
		Location: path,
		Value:    strings.TrimSpace(text),
		Context:  authors[authorID],
	})
	return findings
}

func notesSlideText(adapter interfaces.ContainerAdapter, path string) string {
	raw := readPart(adapter, path)
	if raw == "" {
		return ""
	}
	var b strings.Builder
	dec := xml.NewDecoder(strings.NewReader(raw))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		if start, ok := tok.(xml.StartElement); ok && localName(start.Name) == "t" {
			var s string
			if err := dec.DecodeElement(&s, &start); err == nil {
				b.WriteString(s)
			}
		}
	}
	return b.String()
}

func xlsxComments(adapter interfaces.ContainerAdapter) []models.Finding {
	var findings []models.Finding
	for _, path := range adapter.ListParts("xl/comments*.xml") {
		raw := readPart(adapter, path)
		if raw == "" {
			continue
		}
		dec := xml.NewDecoder(strings.NewReader(raw))
		dec.Strict = false
		var ref string
		for {
			tok, err := dec.Token()
			if err != nil {
				break
			}
			switch t := tok.(type) {
			case xml.StartElement:
				if localName(t.Name) == "comment" {
					ref = attr(t, "ref")
				}
				if localName(t.Name) == "t" {
					var s string
					if err := dec.DecodeElement(&s, &t); err == nil && strings.TrimSpace(s) != "" {
						findings = append(findings, models.Finding{
							ID:       common.ContentID("f", string(models.CategoryComments), path, ref, s),
							Category: models.CategoryComments,
							Type:     "comment",
							Severity: commentSeverity(s),
							Location: path + "#" + ref,
							Value:    strings.TrimSpace(s),
						})
					}
				}
			}
		}
	}
	return dedupeFindings(findings)
}

// dedupeFindings removes duplicate findings sharing a dedup key, preserving
// first-seen order. The framework also dedupes globally, but detectors
// that synthesize multiple representations of one underlying comment
// (e.g. XML walks revisiting text runs) dedupe locally first.
func dedupeFindings(findings []models.Finding) []models.Finding {
	seen := make(map[string]bool, len(findings))
	out := make([]models.Finding, 0, len(findings))
	for _, f := range findings {
		key := f.DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	return out
}

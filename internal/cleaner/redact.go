package cleaner

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

var xmlEntityUnescaper = strings.NewReplacer(
	"&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'", "&amp;", "&",
)

func xmlUnescapeSimple(s string) string {
	return xmlEntityUnescaper.Replace(s)
}

func xmlEscapeSimple(s string) string {
	var b bytes.Buffer
	xml.EscapeText(&b, []byte(s))
	return b.String()
}

// redactSensitive implements spec.md §4.7's sensitive-data redaction:
// given caller-selected findings, replace the literal matched value with
// "[REDACTED]" across the document's text-bearing parts.
//
// Finding.Value only ever carries a masked value (see its doc comment), so
// selection can't be resolved by a literal string match against the
// document. Instead this re-runs the pattern matcher over each part's own
// text runs and redacts any match whose type and masked value line up
// with a selected finding — confined to <w:t>/<a:t>/<t> bodies per format.
func (c *Cleaner) redactSensitive(adapter interfaces.ContainerAdapter, findings []models.Finding, opts interfaces.CleanOptions, stats *models.CleaningStats) {
	if c.matcher == nil {
		return
	}

	wantIDs := make(map[string]bool, len(opts.RemoveSensitiveDataIDs))
	for _, id := range opts.RemoveSensitiveDataIDs {
		wantIDs[id] = true
	}

	selected := make(map[string]bool)
	for _, f := range findings {
		if f.Category == models.CategorySensitiveData && wantIDs[f.ID] {
			selected[f.Type+"|"+f.Value] = true
		}
	}
	if len(selected) == 0 {
		return
	}

	tag := textTagFor(adapter.Document().Format)
	if tag == "" {
		return
	}

	examples := 0
	for _, p := range textBearingPartsFor(adapter) {
		raw, err := adapter.ReadPart(p)
		if err != nil {
			c.warn("redact: failed to read part", p, err)
			continue
		}
		if raw == nil {
			continue
		}
		out, n := redactInTag(raw, tag, c.matcher, selected)
		if n == 0 {
			continue
		}
		stats.SensitiveRedacted += n
		if examples < 5 {
			stats.Examples = append(stats.Examples, truncate("redacted "+p, 140))
			examples++
		}
		adapter.WritePart(p, out)
	}
}

func textTagFor(format models.Format) string {
	switch format {
	case models.FormatDOCX:
		return "w:t"
	case models.FormatPPTX:
		return "a:t"
	case models.FormatXLSX:
		return "t"
	default:
		return ""
	}
}

func textBearingPartsFor(adapter interfaces.ContainerAdapter) []string {
	switch adapter.Document().Format {
	case models.FormatDOCX:
		return docxTextBearingParts(adapter)
	case models.FormatPPTX:
		return adapter.ListParts("ppt/slides/slide*.xml")
	case models.FormatXLSX:
		return adapter.ListParts("xl/sharedStrings.xml")
	default:
		return nil
	}
}

// redactInTag rewrites every <tag>...</tag> body in content whose decoded
// text contains a selected sensitive-pattern match.
func redactInTag(content []byte, tag string, matcher interfaces.PatternMatcher, selected map[string]bool) ([]byte, int) {
	re := pairedRe(tag)
	count := 0
	out := re.ReplaceAllFunc(content, func(m []byte) []byte {
		s := string(m)
		openEnd := strings.IndexByte(s, '>')
		if openEnd < 0 {
			return m
		}
		inner := innerOf(m, tag)
		text := xmlUnescapeSimple(string(inner))

		redacted, n := redactText(text, matcher, selected)
		if n == 0 {
			return m
		}
		count += n
		return []byte(s[:openEnd+1] + xmlEscapeSimple(redacted) + "</" + tag + ">")
	})
	return out, count
}

// redactText replaces every match in text whose type+maskedValue is
// selected with "[REDACTED]", leaving unmatched text untouched.
func redactText(text string, matcher interfaces.PatternMatcher, selected map[string]bool) (string, int) {
	matches := matcher.Match(text)
	if len(matches) == 0 {
		return text, 0
	}

	var b strings.Builder
	cursor := 0
	n := 0
	for _, m := range matches {
		if m.Start < cursor || m.End > len(text) {
			continue
		}
		if !selected[m.Type+"|"+m.MaskedValue] {
			continue
		}
		b.WriteString(text[cursor:m.Start])
		b.WriteString("[REDACTED]")
		cursor = m.End
		n++
	}
	if n == 0 {
		return text, 0
	}
	b.WriteString(text[cursor:])
	return b.String(), n
}

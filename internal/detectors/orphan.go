package detectors

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/ternarybob/qualion/internal/common"
	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

var fileLinkRe = regexp.MustCompile(`(?i)(?:file://|[A-Za-z]:\\)[^\s"'<>]+`)
var sharePointLinkRe = regexp.MustCompile(`(?i)https?://[^\s"'<>]*sharepoint[^\s"'<>]*`)
var whitespaceRunRe = regexp.MustCompile(`\s{3,}`)

// OrphanDetector flags broken local/SharePoint links, near-empty slides,
// and text with excessive whitespace runs (spec.md §4.3).
type OrphanDetector struct{}

var _ interfaces.Detector = (*OrphanDetector)(nil)

func (OrphanDetector) Name() string { return "orphanData" }

func (OrphanDetector) Detect(ctx context.Context, adapter interfaces.ContainerAdapter, projection *models.TextProjection) ([]models.Finding, error) {
	var findings []models.Finding

	if projection != nil {
		findings = append(findings, linkFindings(projection.Text, "document", fileLinkRe, "broken_file_link")...)
		findings = append(findings, linkFindings(projection.Text, "document", sharePointLinkRe, "broken_sharepoint_link")...)

		if n := countMatches(whitespaceRunRe, projection.Text); n >= 5 {
			findings = append(findings, models.Finding{
				ID:       common.ContentID("f", string(models.CategoryOrphanData), "document", "whitespace_runs"),
				Category: models.CategoryOrphanData,
				Type:     "whitespace_runs",
				Severity: models.SeverityLow,
				Location: "document",
				Value:    strconv.Itoa(n),
			})
		}
	}

	if adapter.Document().Format == models.FormatPPTX {
		for _, path := range adapter.ListParts("ppt/slides/slide*.xml") {
			raw := readPart(adapter, path)
			text := extractPlainText(raw)
			if len(strings.TrimSpace(text)) < 10 {
				findings = append(findings, models.Finding{
					ID:       common.ContentID("f", string(models.CategoryOrphanData), path, "near_empty_slide"),
					Category: models.CategoryOrphanData,
					Type:     "near_empty_slide",
					Severity: models.SeverityLow,
					Location: path,
				})
			}
		}
	}

	return findings, nil
}

func linkFindings(text, location string, re *regexp.Regexp, typ string) []models.Finding {
	var findings []models.Finding
	for _, m := range re.FindAllString(text, -1) {
		findings = append(findings, models.Finding{
			ID:       common.ContentID("f", string(models.CategoryOrphanData), location, typ, m),
			Category: models.CategoryOrphanData,
			Type:     typ,
			Severity: models.SeverityMedium,
			Location: location,
			Value:    m,
		})
	}
	return findings
}

var inlineTextRe = regexp.MustCompile(`<a:t>([^<]*)</a:t>`)

func extractPlainText(raw string) string {
	var b strings.Builder
	for _, m := range inlineTextRe.FindAllStringSubmatch(raw, -1) {
		b.WriteString(m[1])
	}
	return b.String()
}

package detectors

import (
	"context"
	"encoding/xml"
	"strings"

	"github.com/ternarybob/qualion/internal/common"
	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

// metadataSeverity maps each recognized metadata key to its severity
// (spec.md §4.3 metadata detector table).
var metadataSeverity = map[string]models.Severity{
	"author":         models.SeverityHigh,
	"lastModifiedBy": models.SeverityHigh,
	"company":        models.SeverityHigh,
	"manager":        models.SeverityHigh,
	"editingTime":    models.SeverityMedium,
	"created":        models.SeverityMedium,
	"modified":       models.SeverityMedium,
	"title":          models.SeverityLow,
	"subject":        models.SeverityLow,
	"keywords":       models.SeverityLow,
	"application":    models.SeverityLow,
}

// coreXMLKeys maps the recognized key names to the element name
// carrying them in each docProps part.
var coreXMLKeys = map[string]string{
	"creator":        "author",
	"lastModifiedBy": "lastModifiedBy",
	"title":          "title",
	"subject":        "subject",
	"keywords":       "keywords",
	"created":        "created",
	"modified":       "modified",
}

var appXMLKeys = map[string]string{
	"Company":     "company",
	"Manager":     "manager",
	"Application": "application",
	"TotalTime":   "editingTime",
}

// MetadataDetector emits one finding per populated document-property
// value, drawn from docProps/{core,app,custom}.xml for OOXML or the PDF
// info dictionary.
type MetadataDetector struct{}

var _ interfaces.Detector = (*MetadataDetector)(nil)

func (MetadataDetector) Name() string { return "metadata" }

func (MetadataDetector) Detect(ctx context.Context, adapter interfaces.ContainerAdapter, projection *models.TextProjection) ([]models.Finding, error) {
	var findings []models.Finding

	doc := adapter.Document()
	switch doc.Format {
	case models.FormatPDF:
		findings = append(findings, pdfMetadataFindings(adapter)...)
	default:
		findings = append(findings, flatXMLFindings(adapter, "docProps/core.xml", coreXMLKeys)...)
		findings = append(findings, flatXMLFindings(adapter, "docProps/app.xml", appXMLKeys)...)
		findings = append(findings, customXMLFindings(adapter, "docProps/custom.xml")...)
	}

	return findings, nil
}

func flatXMLFindings(adapter interfaces.ContainerAdapter, partPath string, keys map[string]string) []models.Finding {
	raw := readPart(adapter, partPath)
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
		key, recognized := keys[localName(start.Name)]
		if !recognized {
			continue
		}
		var value string
		if err := dec.DecodeElement(&value, &start); err != nil {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		findings = append(findings, metadataFinding(partPath, key, value))
	}
	return findings
}

func customXMLFindings(adapter interfaces.ContainerAdapter, partPath string) []models.Finding {
	raw := readPart(adapter, partPath)
	if raw == "" {
		return nil
	}

	var findings []models.Finding
	dec := xml.NewDecoder(strings.NewReader(raw))
	dec.Strict = false
	var currentName string
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if localName(t.Name) == "property" {
				currentName = attr(t, "name")
			}
		case xml.CharData:
			if currentName != "" {
				value := strings.TrimSpace(string(t))
				if value != "" {
					findings = append(findings, metadataFinding(partPath, "custom:"+currentName, value))
				}
				currentName = ""
			}
		}
	}
	return findings
}

func metadataFinding(location, key, value string) models.Finding {
	sev, ok := metadataSeverity[key]
	if !ok {
		sev = models.SeverityLow
	}
	return models.Finding{
		ID:       common.ContentID("f", string(models.CategoryMetadata), location, key, value),
		Category: models.CategoryMetadata,
		Type:     key,
		Severity: sev,
		Location: location,
		Value:    value,
	}
}

func pdfMetadataFindings(adapter interfaces.ContainerAdapter) []models.Finding {
	keyMap := map[string]string{
		"Title":        "title",
		"Author":       "author",
		"Subject":      "subject",
		"Keywords":     "keywords",
		"Creator":      "application",
		"Producer":     "application",
		"CreationDate": "created",
		"ModDate":      "modified",
	}

	var findings []models.Finding
	for infoKey, typ := range keyMap {
		raw, err := adapter.ReadPart("info/" + infoKey)
		if err != nil || len(raw) == 0 {
			continue
		}
		value := strings.TrimSpace(string(raw))
		if value == "" {
			continue
		}
		findings = append(findings, metadataFinding("info/"+infoKey, typ, value))
	}
	return findings
}

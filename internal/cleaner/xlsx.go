package cleaner

import (
	"encoding/xml"
	"regexp"
	"strings"

	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

func (c *Cleaner) cleanXLSX(adapter interfaces.ContainerAdapter, findings []models.Finding, opts interfaces.CleanOptions, stats *models.CleaningStats) {
	if opts.RemoveMetadata {
		c.removeXLSXMetadata(adapter, stats)
	}
	if opts.RemoveComments {
		c.removeXLSXComments(adapter, stats)
	}
	if opts.RemoveHiddenContent {
		c.removeHiddenSheets(adapter, opts, stats)
	}
	if opts.RemoveEmbeddedObjects {
		c.removeEmbeddings(adapter, "xl/embeddings/", stats)
	}
	if opts.RemoveMacros {
		c.removeMacros(adapter, stats)
	}
	if opts.FormulaToValue {
		c.formulaToValue(adapter, stats)
	}
}

func (c *Cleaner) removeXLSXMetadata(adapter interfaces.ContainerAdapter, stats *models.CleaningStats) {
	if raw, err := adapter.ReadPart("docProps/app.xml"); err == nil && raw != nil {
		out := raw
		var n int
		for _, el := range []string{"Company", "Manager"} {
			out, n = stripElementByLocalName(out, el)
			stats.MetadataRemoved += n
		}
		adapter.WritePart("docProps/app.xml", out)
	}
	if raw, err := adapter.ReadPart("docProps/core.xml"); err == nil && raw != nil {
		out := raw
		var n int
		for _, el := range []string{"creator", "title", "subject", "keywords", "lastModifiedBy", "revision"} {
			out, n = stripElementByLocalName(out, el)
			stats.MetadataRemoved += n
		}
		adapter.WritePart("docProps/core.xml", out)
	}
}

func (c *Cleaner) removeXLSXComments(adapter interfaces.ContainerAdapter, stats *models.CleaningStats) {
	removedAny := false
	for _, p := range adapter.ListParts("xl/comments*.xml") {
		adapter.RemovePart(p)
		stats.CommentsRemoved++
		removedAny = true
	}
	if !removedAny {
		return
	}
	for _, p := range adapter.ListParts("xl/worksheets/_rels/sheet*.xml.rels") {
		raw, err := adapter.ReadPart(p)
		if err != nil || raw == nil {
			continue
		}
		out, n := removeRelationshipsByTarget(raw, "comments")
		if n > 0 {
			adapter.WritePart(p, out)
		}
	}
}

type hiddenSheet struct {
	name string
	rID  string
}

func (c *Cleaner) removeHiddenSheets(adapter interfaces.ContainerAdapter, opts interfaces.CleanOptions, stats *models.CleaningStats) {
	raw, err := adapter.ReadPart("xl/workbook.xml")
	if err != nil || raw == nil {
		return
	}

	selected := make(map[string]bool, len(opts.HiddenContentToClean))
	for _, id := range opts.HiddenContentToClean {
		selected[id] = true
	}
	filterSelected := len(selected) > 0

	hidden := hiddenSheetsIn(raw)
	if len(hidden) == 0 {
		return
	}

	rels := map[string]string{}
	if relsRaw, err := adapter.ReadPart("xl/_rels/workbook.xml.rels"); err == nil && relsRaw != nil {
		rels = relationshipTargets(relsRaw)
	}

	workbook := raw
	relsContent, _ := adapter.ReadPart("xl/_rels/workbook.xml.rels")

	for _, h := range hidden {
		if filterSelected && !selected[h.name] && !selected[h.rID] {
			continue
		}

		workbook = removeSheetElement(workbook, h.name)

		if target, ok := rels[h.rID]; ok {
			sheetPath := resolveWorksheetPath(target)
			adapter.RemovePart(sheetPath)
			if relsContent != nil {
				relsContent, _ = removeRelationshipByID(relsContent, h.rID)
			}
		}
		stats.HiddenRemoved++
		addExample(stats, "removed hidden sheet "+h.name)
	}

	adapter.WritePart("xl/workbook.xml", workbook)
	if relsContent != nil {
		adapter.WritePart("xl/_rels/workbook.xml.rels", relsContent)
	}
}

func hiddenSheetsIn(raw []byte) []hiddenSheet {
	dec := xml.NewDecoder(strings.NewReader(string(raw)))
	dec.Strict = false

	var out []hiddenSheet
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "sheet" {
			continue
		}
		state := xmlAttr(start, "state")
		if state != "hidden" && state != "veryHidden" {
			continue
		}
		out = append(out, hiddenSheet{name: xmlAttr(start, "name"), rID: xmlAttr(start, "id")})
	}
	return out
}

func xmlAttr(start xml.StartElement, local string) string {
	for _, a := range start.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func removeSheetElement(content []byte, name string) []byte {
	re := regexp.MustCompile(`<sheet\b[^>]*name="` + regexp.QuoteMeta(name) + `"[^>]*/>`)
	return re.ReplaceAll(content, nil)
}

var relationshipTagRe = regexp.MustCompile(`<Relationship\b[^>]*/>`)
var relIDAttrRe = regexp.MustCompile(`\bId="([^"]+)"`)
var relTargetAttrRe = regexp.MustCompile(`\bTarget="([^"]+)"`)

// relationshipTargets maps each Relationship Id to its Target,
// independent of attribute order.
func relationshipTargets(raw []byte) map[string]string {
	out := map[string]string{}
	for _, tag := range relationshipTagRe.FindAll(raw, -1) {
		idm := relIDAttrRe.FindSubmatch(tag)
		targetm := relTargetAttrRe.FindSubmatch(tag)
		if idm == nil || targetm == nil {
			continue
		}
		out[string(idm[1])] = string(targetm[1])
	}
	return out
}

func removeRelationshipByID(content []byte, id string) ([]byte, int) {
	count := 0
	out := relationshipTagRe.ReplaceAllFunc(content, func(tag []byte) []byte {
		idm := relIDAttrRe.FindSubmatch(tag)
		if idm != nil && string(idm[1]) == id {
			count++
			return nil
		}
		return tag
	})
	return out, count
}

func resolveWorksheetPath(target string) string {
	target = strings.TrimPrefix(target, "/xl/")
	target = strings.TrimPrefix(target, "/")
	if !strings.HasPrefix(target, "xl/") {
		target = "xl/" + target
	}
	return target
}

var cellFormulaRe = regexp.MustCompile(`(?s)<f\b[^>]*>.*?</f>|<f\b[^>]*/>`)

// formulaToValue deletes each cell's <f> formula element while retaining
// its cached <v> value, per spec.md §4.7's optional XLSX conversion.
func (c *Cleaner) formulaToValue(adapter interfaces.ContainerAdapter, stats *models.CleaningStats) {
	for _, p := range adapter.ListParts("xl/worksheets/sheet*.xml") {
		raw, err := adapter.ReadPart(p)
		if err != nil || raw == nil {
			continue
		}
		n := len(cellFormulaRe.FindAll(raw, -1))
		if n == 0 {
			continue
		}
		out := cellFormulaRe.ReplaceAll(raw, nil)
		addExample(stats, "converted formulas to values in "+p)
		adapter.WritePart(p, out)
	}
}

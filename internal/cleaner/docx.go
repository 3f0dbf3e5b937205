package cleaner

import (
	"strings"

	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

func (c *Cleaner) cleanDOCX(adapter interfaces.ContainerAdapter, opts interfaces.CleanOptions, stats *models.CleaningStats) {
	if opts.RemoveMetadata {
		c.removeDOCXMetadata(adapter, stats)
	}
	if opts.RemoveComments {
		c.removeDOCXComments(adapter, stats)
	}
	if opts.AcceptTrackChanges {
		c.resolveDOCXTrackChanges(adapter, stats)
	}
	if opts.DrawPolicy != "" && opts.DrawPolicy != interfaces.DrawPolicyNone {
		c.applyDOCXDrawPolicy(adapter, opts.DrawPolicy, stats)
	}
	if opts.RemoveEmbeddedObjects {
		c.removeEmbeddings(adapter, "word/embeddings/", stats)
	}
	if opts.RemoveMacros {
		c.removeMacros(adapter, stats)
	}
}

func (c *Cleaner) removeDOCXMetadata(adapter interfaces.ContainerAdapter, stats *models.CleaningStats) {
	for _, p := range []string{"docProps/core.xml", "docProps/app.xml", "docProps/custom.xml"} {
		if raw, err := adapter.ReadPart(p); err == nil && raw != nil {
			adapter.RemovePart(p)
			stats.MetadataRemoved++
			addExample(stats, "removed "+p)
		}
	}
	for _, p := range adapter.ListParts("customXml/*") {
		adapter.RemovePart(p)
		stats.MetadataRemoved++
	}
}

func (c *Cleaner) removeDOCXComments(adapter interfaces.ContainerAdapter, stats *models.CleaningStats) {
	removedAny := false
	for _, p := range adapter.ListParts("word/comments*.xml") {
		adapter.RemovePart(p)
		stats.CommentsRemoved++
		removedAny = true
	}
	if !removedAny {
		return
	}

	if raw, err := adapter.ReadPart("[Content_Types].xml"); err == nil && raw != nil {
		out, n := removeContentTypeOverride(raw, "comments")
		if n > 0 {
			adapter.WritePart("[Content_Types].xml", out)
		}
	}
	if raw, err := adapter.ReadPart("word/_rels/document.xml.rels"); err == nil && raw != nil {
		out, n := removeRelationshipsByTarget(raw, "comments")
		if n > 0 {
			adapter.WritePart("word/_rels/document.xml.rels", out)
		}
	}

	for _, p := range docxTextBearingParts(adapter) {
		raw, err := adapter.ReadPart(p)
		if err != nil || raw == nil {
			continue
		}
		out := raw
		var n int
		out, n = stripElement(out, "w:commentRangeStart")
		stats.CommentsRemoved += n
		out, n = stripElement(out, "w:commentRangeEnd")
		stats.CommentsRemoved += n
		out, n = stripElement(out, "w:commentReference")
		stats.CommentsRemoved += n
		adapter.WritePart(p, out)
	}
}

func (c *Cleaner) resolveDOCXTrackChanges(adapter interfaces.ContainerAdapter, stats *models.CleaningStats) {
	for _, p := range docxTextBearingParts(adapter) {
		raw, err := adapter.ReadPart(p)
		if err != nil || raw == nil {
			continue
		}
		out, delCount := stripElement(raw, "w:del")
		out, insCount := unwrapElement(out, "w:ins")
		if delCount > 0 || insCount > 0 {
			stats.TrackChangesUsed += delCount + insCount
			adapter.WritePart(p, out)
		}
	}
}

func (c *Cleaner) applyDOCXDrawPolicy(adapter interfaces.ContainerAdapter, policy interfaces.DrawPolicy, stats *models.CleaningStats) {
	for _, p := range docxTextBearingParts(adapter) {
		raw, err := adapter.ReadPart(p)
		if err != nil || raw == nil {
			continue
		}
		out := raw
		var n int
		out, n = stripElement(out, "a14:ink")
		stats.HiddenRemoved += n
		out, n = stripElement(out, "w:pict")
		stats.HiddenRemoved += n
		out, n = stripElement(out, "v:shape")
		stats.HiddenRemoved += n
		if policy == interfaces.DrawPolicyAll {
			out, n = stripElement(out, "w:drawing")
			stats.HiddenRemoved += n
		}
		adapter.WritePart(p, out)
	}
	if policy == interfaces.DrawPolicyAll {
		for _, p := range adapter.ListParts("word/media/*") {
			adapter.RemovePart(p)
		}
	}
}

func (c *Cleaner) removeEmbeddings(adapter interfaces.ContainerAdapter, prefix string, stats *models.CleaningStats) {
	for _, p := range adapter.ListParts("") {
		if strings.HasPrefix(p, prefix) {
			adapter.RemovePart(p)
			stats.EmbeddingsRemoved++
		}
	}
}

func (c *Cleaner) removeMacros(adapter interfaces.ContainerAdapter, stats *models.CleaningStats) {
	for _, p := range adapter.ListParts("") {
		base := p
		if idx := strings.LastIndex(base, "/"); idx >= 0 {
			base = base[idx+1:]
		}
		if strings.HasPrefix(base, "vbaProject") || strings.HasSuffix(base, ".bin") {
			adapter.RemovePart(p)
			stats.MacrosRemoved++
		}
	}
}

// docxTextBearingParts returns word/document.xml plus every header/footer
// part, the scope spec.md §4.7 names for comment-markup and track-change
// removal in DOCX.
func docxTextBearingParts(adapter interfaces.ContainerAdapter) []string {
	var out []string
	for _, p := range adapter.ListParts("word/*.xml") {
		if p == "word/document.xml" || strings.HasPrefix(p, "word/header") || strings.HasPrefix(p, "word/footer") {
			out = append(out, p)
		}
	}
	return out
}

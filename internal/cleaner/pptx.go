package cleaner

import (
	"strings"

	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

func (c *Cleaner) cleanPPTX(adapter interfaces.ContainerAdapter, opts interfaces.CleanOptions, stats *models.CleaningStats) {
	if opts.RemoveMetadata {
		for _, p := range []string{"docProps/core.xml", "docProps/app.xml", "docProps/custom.xml"} {
			if raw, err := adapter.ReadPart(p); err == nil && raw != nil {
				adapter.RemovePart(p)
				stats.MetadataRemoved++
			}
		}
	}
	if opts.RemoveComments {
		c.removePPTXComments(adapter, stats)
	}
	if opts.DrawPolicy != "" && opts.DrawPolicy != interfaces.DrawPolicyNone {
		c.applyPPTXDrawPolicy(adapter, opts.DrawPolicy, stats)
	}
	if opts.RemoveEmbeddedObjects {
		c.removeEmbeddings(adapter, "ppt/embeddings/", stats)
	}
	if opts.RemoveMacros {
		c.removeMacros(adapter, stats)
	}
}

func (c *Cleaner) removePPTXComments(adapter interfaces.ContainerAdapter, stats *models.CleaningStats) {
	removedAny := false
	for _, p := range adapter.ListParts("") {
		if strings.HasPrefix(p, "ppt/comments/") || p == "ppt/commentAuthors.xml" {
			adapter.RemovePart(p)
			stats.CommentsRemoved++
			removedAny = true
		}
	}
	if !removedAny {
		return
	}
	for _, p := range adapter.ListParts("ppt/slides/_rels/slide*.xml.rels") {
		raw, err := adapter.ReadPart(p)
		if err != nil || raw == nil {
			continue
		}
		out, n := removeRelationshipsByTarget(raw, "comment")
		if n > 0 {
			adapter.WritePart(p, out)
		}
	}
}

func (c *Cleaner) applyPPTXDrawPolicy(adapter interfaces.ContainerAdapter, policy interfaces.DrawPolicy, stats *models.CleaningStats) {
	for _, p := range adapter.ListParts("ppt/slides/slide*.xml") {
		raw, err := adapter.ReadPart(p)
		if err != nil || raw == nil {
			continue
		}
		out, n := stripElement(raw, "a14:ink")
		stats.HiddenRemoved += n
		if policy == interfaces.DrawPolicyAll {
			var picCount int
			out, picCount = stripElement(out, "p:pic")
			stats.HiddenRemoved += picCount
		}
		adapter.WritePart(p, out)
	}
	if policy == interfaces.DrawPolicyAll {
		for _, p := range adapter.ListParts("ppt/media/*") {
			adapter.RemovePart(p)
		}
	}
}

package cleaner

import (
	"time"

	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

var pdfStringFields = []string{"Title", "Author", "Subject", "Keywords", "Creator", "Producer"}

func (c *Cleaner) cleanPDF(adapter interfaces.ContainerAdapter, opts interfaces.CleanOptions, stats *models.CleaningStats) {
	if opts.RemoveMetadata {
		for _, key := range pdfStringFields {
			path := "info/" + key
			if raw, err := adapter.ReadPart(path); err == nil && raw != nil {
				adapter.RemovePart(path)
				stats.MetadataRemoved++
			}
		}
		if raw, err := adapter.ReadPart("info/CreationDate"); err == nil && raw != nil {
			adapter.RemovePart("info/CreationDate")
			stats.MetadataRemoved++
		}
		adapter.WritePart("info/ModDate", []byte(time.Now().UTC().Format("20060102150405Z07'00'")))
	}

	if opts.RemoveHiddenContent || opts.RemoveComments {
		for _, p := range adapter.ListParts("annotations/page-*") {
			adapter.RemovePart(p)
			stats.HiddenRemoved++
		}
	}

	if opts.RemoveEmbeddedObjects {
		for _, p := range adapter.ListParts("attachments/*") {
			adapter.RemovePart(p)
			stats.EmbeddingsRemoved++
		}
	}
}

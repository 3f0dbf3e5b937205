// -----------------------------------------------------------------------
// Text Extractor Interface - produce a normalized text projection
// -----------------------------------------------------------------------

package interfaces

import "github.com/ternarybob/qualion/internal/models"

// TextExtractor produces a normalized plain-text projection of a document,
// preserving paragraph and table separators, for use by detectors and
// document stats. Output must be deterministic for a given input.
type TextExtractor interface {
	Extract(adapter ContainerAdapter) (*models.TextProjection, error)

	// Stats derives DocumentStats from a projection and the adapter's
	// part listing (part/word/paragraph/table counts).
	Stats(adapter ContainerAdapter, projection *models.TextProjection) models.DocumentStats
}

// -----------------------------------------------------------------------
// Anchored Text Applier Interface
// -----------------------------------------------------------------------

package interfaces

import "github.com/ternarybob/qualion/internal/models"

// Edit is anything the Applier can apply to a part: either a spelling
// correction or a sensitive-value redaction, located either by explicit
// projection offsets or by (error, context) anchoring.
type Edit struct {
	Error         string
	Replacement   string
	ContextBefore string
	ContextAfter  string
	StartOffset   *int
	EndOffset     *int
	IsRedaction   bool
}

// TextApplier applies a set of edits across a document's text-bearing
// parts without breaking XML structure or styling runs. It is strictly
// sequential per part — edit offsets depend on preceding edits' deltas.
type TextApplier interface {
	Apply(adapter ContainerAdapter, projection *models.TextProjection, edits []Edit) (models.ApplyStats, error)
}

// -----------------------------------------------------------------------
// Detector Framework Interface - pure, independent finding producers
// -----------------------------------------------------------------------

package interfaces

import (
	"context"

	"github.com/ternarybob/qualion/internal/models"
)

// Detector is a pure capability: given a document and its text projection
// it returns the findings it can detect. Detectors are independent and may
// run concurrently; they must not mutate the adapter.
type Detector interface {
	// Name identifies the detector for logging and registration.
	Name() string

	// Detect runs the detector against one document. A detector that
	// cannot parse a part it needs returns an empty result for that part
	// rather than failing the whole run (spec.md §7 ErrPartParse policy).
	Detect(ctx context.Context, adapter ContainerAdapter, projection *models.TextProjection) ([]models.Finding, error)
}

// DetectorFramework runs the registered detector set against a document
// and returns a deduplicated, ordered finding list.
type DetectorFramework interface {
	Register(d Detector)
	Run(ctx context.Context, adapter ContainerAdapter, projection *models.TextProjection) ([]models.Finding, error)
}

// -----------------------------------------------------------------------
// Cleaner Interface - per-format selective removers
// -----------------------------------------------------------------------

package interfaces

import "github.com/ternarybob/qualion/internal/models"

// DrawPolicy controls how aggressively the Cleaner strips visual objects.
type DrawPolicy string

const (
	DrawPolicyNone DrawPolicy = "none"
	DrawPolicyAuto DrawPolicy = "auto"
	DrawPolicyAll  DrawPolicy = "all"
)

// PDFMode controls the PDF cleaner's scope.
type PDFMode string

const (
	PDFModeSanitize PDFMode = "sanitize"
	PDFModeTextOnly PDFMode = "text-only"
)

// CleanOptions carries the caller-supplied flags and selections of
// spec.md §6's `clean` request surface.
type CleanOptions struct {
	RemoveMetadata       bool
	RemoveComments       bool
	AcceptTrackChanges   bool
	RemoveHiddenContent  bool
	RemoveEmbeddedObjects bool
	RemoveMacros         bool
	CorrectSpelling      bool
	DrawPolicy           DrawPolicy
	PDFMode              PDFMode
	PDFDocx              bool
	ApprovedSpellingIDs  []string
	RemoveSensitiveDataIDs []string
	HiddenContentToClean []string
	VisualObjectsToClean []string
	FormulaToValue       bool
}

// Cleaner performs the selective, per-format removals of §4.7 and returns
// cleaning statistics for the Scorer's after-cleaning computation.
type Cleaner interface {
	Clean(adapter ContainerAdapter, findings []models.Finding, opts CleanOptions) (models.CleaningStats, error)
}

// -----------------------------------------------------------------------
// Proofreader Interface - deterministic prefilter + optional LLM stage
// -----------------------------------------------------------------------

package interfaces

import (
	"context"

	"github.com/ternarybob/qualion/internal/models"
)

// Proofreader produces anchored SpellingIssues from a text projection. It
// always runs the deterministic prefilter; the LLM stage runs only if a
// provider is configured and degrades to prefilter-only results on
// exhausted retries (spec.md §4.5 failure model).
type Proofreader interface {
	Proofread(ctx context.Context, text string) (issues []models.SpellingIssue, llmUsed bool, err error)
}

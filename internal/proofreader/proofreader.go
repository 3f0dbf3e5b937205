// -----------------------------------------------------------------------
// Proofreader - deterministic prefilter + optional bounded LLM stage
// -----------------------------------------------------------------------

package proofreader

import (
	"context"
	"errors"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/qualion/internal/common"
	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

// Proofreader implements interfaces.Proofreader. The LLM stage is
// optional: a nil llm degrades gracefully to prefilter-only results, and
// an LLM call that fails after its own internal retries (§4.5 failure
// model) is caught here and likewise degrades instead of failing the
// overall analysis.
type Proofreader struct {
	llm    interfaces.LLMService
	logger arbor.ILogger
}

var _ interfaces.Proofreader = (*Proofreader)(nil)

// New builds a Proofreader. llm may be nil (no API key configured).
func New(llm interfaces.LLMService, logger arbor.ILogger) *Proofreader {
	return &Proofreader{llm: llm, logger: logger}
}

func (p *Proofreader) Proofread(ctx context.Context, text string) ([]models.SpellingIssue, bool, error) {
	if text == "" {
		return nil, false, nil
	}

	issues := prefilter(text)

	if p.llm == nil {
		return stampIDs(postfilter(issues)), false, nil
	}

	llmIssues, err := runLLM(ctx, p.llm, text, issues)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, false, common.ErrCancelled
		}
		p.logger.Warn().Err(err).Msg("proofreader LLM stage unavailable, returning prefilter-only results")
		return stampIDs(postfilter(issues)), false, nil
	}

	combined := append(issues, llmIssues...)
	return stampIDs(postfilter(combined)), true, nil
}

// stampIDs assigns a content-addressed ID to every surviving issue so
// callers (the Cleaner's approvedSpellingErrors selection, the report)
// can reference a specific edit stably across repeated runs.
func stampIDs(issues []models.SpellingIssue) []models.SpellingIssue {
	for i := range issues {
		issues[i].ID = common.ContentID("spell", issues[i].Error, issues[i].Correction, issues[i].ContextBefore, issues[i].ContextAfter)
	}
	return issues
}

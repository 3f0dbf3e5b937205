package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/qualion/internal/common"
	"github.com/ternarybob/qualion/internal/interfaces"
)

// NewProvider builds the interfaces.LLMService configured by cfg. It
// returns (nil, nil) when no API key is configured: the Proofreader's
// LLM stage is optional (spec.md §4.5 "skip if no API key") and callers
// treat a nil service as "run prefilter only".
func NewProvider(cfg common.LLMConfig, logger arbor.ILogger) (interfaces.LLMService, error) {
	if cfg.APIKey == "" {
		logger.Warn().Msg("no LLM API key configured, proofreader will run in prefilter-only mode")
		return nil, nil
	}

	switch cfg.Provider {
	case common.LLMProviderClaude, "":
		return NewClaudeService(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
	}
}

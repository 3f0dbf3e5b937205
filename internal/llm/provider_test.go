package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/qualion/internal/common"
)

func TestNewProvider_NoAPIKeyDegradesToNilService(t *testing.T) {
	svc, err := NewProvider(common.LLMConfig{}, common.GetLogger())
	require.NoError(t, err)
	assert.Nil(t, svc)
}

func TestNewProvider_UnsupportedProviderErrors(t *testing.T) {
	cfg := common.LLMConfig{Provider: "unknown-vendor", APIKey: "key"}
	svc, err := NewProvider(cfg, common.GetLogger())
	assert.Error(t, err)
	assert.Nil(t, svc)
}

func TestNewProvider_ClaudeProviderWithAPIKeyBuildsService(t *testing.T) {
	cfg := common.LLMConfig{
		Provider:    common.LLMProviderClaude,
		APIKey:      "test-key",
		Model:       "claude-3-haiku",
		MaxRetries:  2,
		TimeoutMS:   5000,
		Temperature: 0,
		MaxTokens:   1024,
	}
	svc, err := NewProvider(cfg, common.GetLogger())
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

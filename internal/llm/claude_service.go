package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/qualion/internal/common"
	"github.com/ternarybob/qualion/internal/interfaces"
)

// ClaudeService implements interfaces.LLMService against the Anthropic
// Messages API. Outbound calls are rate-limited and retried per
// spec.md §4.5's failure model.
type ClaudeService struct {
	config    common.LLMConfig
	logger    arbor.ILogger
	client    *anthropic.Client
	limiter   *rate.Limiter
	retry     *RetryConfig
	maxTokens int
}

// NewClaudeService creates a Claude-backed LLMService. It requires a
// non-empty API key; the caller decides what to do when that's absent
// (the Proofreader's LLM stage is optional and falls back to
// prefilter-only results per spec.md §4.5).
func NewClaudeService(config common.LLMConfig, logger arbor.ILogger) (*ClaudeService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required for the Claude LLM service")
	}

	model := config.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	client := anthropic.NewClient(option.WithAPIKey(config.APIKey))

	service := &ClaudeService{
		config: config,
		logger: logger,
		client: client,
		// 3 concurrent chunks per spec.md §4.5; allow a burst of 3 and
		// steady-state refill of 1 every 2s to stay under typical
		// per-minute quota limits without needing account-specific tuning.
		limiter:   rate.NewLimiter(rate.Every(2*time.Second), 3),
		retry:     NewDefaultRetryConfig(),
		maxTokens: maxTokens,
	}

	logger.Debug().
		Str("model", model).
		Int("max_tokens", maxTokens).
		Msg("Claude LLM service initialized")

	return service, nil
}

// Chat sends a chat completion request, retrying transient failures per
// spec.md §4.5 (exponential backoff from 1s + jitter, max 4 attempts).
func (s *ClaudeService) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("messages cannot be empty for chat completion")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrCancelled, err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.config.Timeout())
	defer cancel()

	var lastErr error
	for attempt := 0; attempt < s.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(s.retry.Backoff(attempt - 1)):
			case <-timeoutCtx.Done():
				return "", fmt.Errorf("%w: %v", common.ErrCancelled, timeoutCtx.Err())
			}
		}

		response, err := s.generateCompletion(timeoutCtx, messages)
		if err == nil {
			return response, nil
		}

		lastErr = err
		if !IsRetriable(err) {
			break
		}

		s.logger.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Msg("Claude chat completion failed, retrying")
	}

	return "", fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, lastErr)
}

// HealthCheck sends a minimal probe message and verifies a non-empty
// response comes back.
func (s *ClaudeService) HealthCheck(ctx context.Context) error {
	healthCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	response, err := s.generateCompletion(healthCtx, []interfaces.Message{
		{Role: "user", Content: "ping"},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err)
	}
	if strings.TrimSpace(response) == "" {
		return fmt.Errorf("%w: empty health check response", common.ErrRemoteUnavailable)
	}
	return nil
}

func (s *ClaudeService) generateCompletion(ctx context.Context, messages []interfaces.Message) (string, error) {
	claudeMessages, systemText, err := convertMessagesToClaude(messages)
	if err != nil {
		return "", fmt.Errorf("failed to convert messages: %w", err)
	}

	model := s.config.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(s.maxTokens),
		Messages:  claudeMessages,
	}
	if s.config.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(s.config.Temperature))
	}
	if systemText != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemText}}
	}

	resp, err := s.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var response strings.Builder
	for _, block := range resp.Content {
		if block.Type == anthropic.ContentBlockTypeText {
			response.WriteString(block.Text)
		}
	}
	if response.Len() == 0 {
		return "", fmt.Errorf("no response content from Claude API")
	}
	return response.String(), nil
}

// convertMessagesToClaude converts the provider-agnostic message slice
// into Claude's MessageParam format, pulling out a leading system
// message for the dedicated System parameter.
func convertMessagesToClaude(messages []interfaces.Message) ([]anthropic.MessageParam, string, error) {
	if len(messages) == 0 {
		return nil, "", fmt.Errorf("messages cannot be empty")
	}

	hasUserMessage := false
	for _, msg := range messages {
		if msg.Role == "user" {
			hasUserMessage = true
			break
		}
	}
	if !hasUserMessage {
		return nil, "", fmt.Errorf("at least one message must have role 'user'")
	}

	claudeMessages := make([]anthropic.MessageParam, 0, len(messages))
	var systemText string
	for _, msg := range messages {
		if msg.Role == "system" {
			if systemText == "" {
				systemText = msg.Content
			}
			continue
		}
		switch msg.Role {
		case "assistant":
			claudeMessages = append(claudeMessages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			claudeMessages = append(claudeMessages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	return claudeMessages, systemText, nil
}

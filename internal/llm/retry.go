package llm

import (
	"math/rand"
	"strings"
	"time"
)

// RetryConfig defines retry behavior for the LLM stage's outbound calls,
// per spec.md §4.5's failure model: exponential backoff starting at 1s
// with jitter up to 0.4s, capped at 4 attempts.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts, including the first.
	MaxAttempts int

	// InitialBackoff is the wait before the first retry.
	InitialBackoff time.Duration

	// MaxJitter is the upper bound of the random jitter added to each
	// backoff.
	MaxJitter time.Duration

	// BackoffMultiplier is applied to the backoff on each subsequent
	// retry.
	BackoffMultiplier float64
}

// NewDefaultRetryConfig returns the spec.md §4.5 retry defaults.
func NewDefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:       4,
		InitialBackoff:    1 * time.Second,
		MaxJitter:         400 * time.Millisecond,
		BackoffMultiplier: 2,
	}
}

// IsRetriable reports whether err looks like a transient failure worth
// retrying: its text mentions 429, 500, 502, 503, 504, "rate_limit" or
// "overloaded". Other 5xx codes (501, 505, ...) are not retried.
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "504") ||
		strings.Contains(errStr, "rate_limit") ||
		strings.Contains(errStr, "overloaded")
}

// Backoff computes the delay before the given retry attempt (0-indexed:
// attempt 0 is the first retry, after the initial call failed).
func (c *RetryConfig) Backoff(attempt int) time.Duration {
	base := float64(c.InitialBackoff)
	for i := 0; i < attempt; i++ {
		base *= c.BackoffMultiplier
	}
	jitter := time.Duration(rand.Int63n(int64(c.MaxJitter) + 1))
	return time.Duration(base) + jitter
}

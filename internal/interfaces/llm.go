// -----------------------------------------------------------------------
// LLM Service Interface - provider-agnostic chat completion
// -----------------------------------------------------------------------

package interfaces

import "context"

// Message is a single turn in a chat completion request.
type Message struct {
	Role    string
	Content string
}

// LLMService abstracts the remote LLM vendor behind a single Chat call,
// per spec.md §1 ("treats LLM generation itself as an opaque remote
// call with retry semantics").
type LLMService interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	HealthCheck(ctx context.Context) error
}

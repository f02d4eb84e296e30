// Package llm provides chat-completion provider abstractions.
//
// Each provider implementation hides:
// - API client initialization and authentication
// - Request/response format conversion
// - Provider-specific error handling
package llm

import (
	"context"
)

// Provider is the abstract interface for chat-completion backends.
// The agent only needs two capabilities: a blocking completion and a
// token-streamed completion.
type Provider interface {
	// Name returns the provider name (for logging/debugging).
	Name() string

	// Model returns the model identifier in use.
	Model() string

	// Chat sends a chat completion request and blocks until the full
	// completion is available.
	Chat(ctx context.Context, messages []ChatMessage) (Response, error)

	// StreamChat streams a completion, sending chunks to the provided
	// channel. Returns token usage when the provider reports it.
	StreamChat(ctx context.Context, messages []ChatMessage, chunks chan<- string) (*TokenUsage, error)
}

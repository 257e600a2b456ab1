// Package ai wraps the chat-completion providers the pipeline depends on.
// Provider selection and failover are opaque to callers: they get a
// Completer and a string back.
package ai

import (
	"context"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest asks a provider for a completion. Low temperature
// plus an explicit JSON schema in the prompt is how the pipeline gets
// parseable output.
type CompletionRequest struct {
	Messages    []Message
	Language    string
	Temperature float64
	MaxTokens   int
}

// Completion is a provider response.
type Completion struct {
	Content string
	Model   string
}

// Completer is the AI-completion collaborator contract.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}

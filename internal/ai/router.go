package ai

import (
	"context"
	"fmt"

	"github.com/langtutor/content-pipeline/config"
	"github.com/langtutor/content-pipeline/pkg/logger"
)

// Router prefers Ollama for structured completions and falls back to
// the OpenAI-compatible provider when Ollama is unreachable.
type Router struct {
	ollama   *OllamaClient
	fallback Completer
	logger   logger.Logger
}

func NewRouter(cfg *config.AIConfig, log logger.Logger) *Router {
	return &Router{
		ollama:   NewOllamaClient(cfg),
		fallback: NewOpenAIClient(cfg),
		logger:   log,
	}
}

func (r *Router) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	if r.ollama.Available(ctx) {
		completion, err := r.ollama.Complete(ctx, req)
		if err == nil {
			return completion, nil
		}
		r.logger.Warn("Ollama completion failed, falling back",
			logger.Error(err),
		)
	} else {
		r.logger.Warn("Ollama unavailable, falling back to remote provider")
	}

	completion, err := r.fallback.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("all completion providers failed: %w", err)
	}
	return completion, nil
}

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/langtutor/content-pipeline/config"
)

// OpenAIClient talks to any OpenAI-compatible chat-completions endpoint.
type OpenAIClient struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewOpenAIClient(cfg *config.AIConfig) *OpenAIClient {
	return &OpenAIClient{
		endpoint: cfg.OpenAIEndpoint,
		apiKey:   cfg.OpenAIAPIKey,
		model:    cfg.OpenAIModel,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, errors.New("openai api key is not configured")
	}

	payload := map[string]any{
		"model":       c.model,
		"messages":    req.Messages,
		"temperature": req.Temperature,
	}
	if req.MaxTokens > 0 {
		payload["max_tokens"] = req.MaxTokens
	}

	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("encode completion payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, buf)
	if err != nil {
		return nil, fmt.Errorf("create completion request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.decodeAPIError(resp)
	}

	var response struct {
		Model   string `json:"model"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode completion response: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, errors.New("no completion returned")
	}

	return &Completion{
		Content: strings.TrimSpace(response.Choices[0].Message.Content),
		Model:   response.Model,
	}, nil
}

func (c *OpenAIClient) decodeAPIError(resp *http.Response) error {
	var apiErr struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}

	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("api error: status %d type %s message %s", resp.StatusCode, apiErr.Error.Type, apiErr.Error.Message)
	}
	return fmt.Errorf("api error: status %d body %s", resp.StatusCode, string(body))
}

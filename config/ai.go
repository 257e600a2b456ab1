package config

import (
	"sync"
	"time"
)

var (
	aiOnce   sync.Once
	aiConfig *AIConfig
)

// AIConfig holds settings for the AI completion providers.
type AIConfig struct {
	OllamaEndpoint string
	OllamaModel    string
	OpenAIEndpoint string
	OpenAIAPIKey   string
	OpenAIModel    string
	RequestTimeout time.Duration
}

func GetAIConfig() *AIConfig {
	aiOnce.Do(func() {
		loadEnv()

		aiConfig = &AIConfig{
			OllamaEndpoint: getenv("OLLAMA_ENDPOINT", "http://localhost:11434"),
			OllamaModel:    getenv("OLLAMA_MODEL", "llama3.1"),
			OpenAIEndpoint: getenv("OPENAI_ENDPOINT", "https://api.openai.com/v1/chat/completions"),
			OpenAIAPIKey:   getenv("OPENAI_API_KEY", ""),
			OpenAIModel:    getenv("OPENAI_MODEL", "gpt-4o-mini"),
			RequestTimeout: time.Duration(getenvInt("AI_REQUEST_TIMEOUT_SECONDS", 60)) * time.Second,
		}
	})
	return aiConfig
}

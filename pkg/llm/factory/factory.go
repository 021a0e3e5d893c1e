package factory

import (
	"fmt"

	"rag-chat-be/internal/config"
	"rag-chat-be/pkg/embedding"
	"rag-chat-be/pkg/llm"
	"rag-chat-be/pkg/llm/gemini"
	"rag-chat-be/pkg/llm/ollama"
)

// NewLLMProvider selects the chat backend from config.
func NewLLMProvider(cfg *config.Config) (llm.LLMProvider, error) {
	switch cfg.Ai.LLMProvider {
	case "gemini":
		return gemini.NewGeminiProvider(cfg.Keys.GoogleGemini, cfg.Ai.LLMModel), nil
	case "ollama":
		return ollama.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.LLMModel), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Ai.LLMProvider)
	}
}

// NewEmbeddingProvider selects the embedding backend from config.
func NewEmbeddingProvider(cfg *config.Config) (embedding.Provider, error) {
	switch cfg.Ai.EmbeddingProvider {
	case "gemini":
		return embedding.NewGeminiProvider(cfg.Keys.GoogleGemini), nil
	case "ollama":
		return embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Ai.EmbeddingProvider)
	}
}

package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/pkg/apperrors"
)

// OllamaProvider implements Provider for local Ollama models
// (e.g. nomic-embed-text).
type OllamaProvider struct {
	BaseURL string
	Model   string
	Client  *http.Client
}

func NewOllamaProvider(baseURL string, model string) Provider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "nomic-embed-text"
	}
	return &OllamaProvider{
		BaseURL: baseURL,
		Model:   model,
		Client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type ollamaEmbeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbeddingResponse struct {
	Embedding []float64 `json:"embedding"` // Ollama returns float64
}

func (p *OllamaProvider) Generate(ctx context.Context, text string, taskType string) (entity.Embedding, error) {
	// Ollama has no task-type parameter; nomic-embed-text expects a prefix.
	prompt := text
	switch taskType {
	case TaskRetrievalQuery:
		prompt = "search_query: " + text
	case TaskRetrievalDocument:
		prompt = "search_document: " + text
	}

	payloadJson, err := json.Marshal(ollamaEmbeddingRequest{Model: p.Model, Prompt: prompt})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/api/embeddings", bytes.NewBuffer(payloadJson))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalServiceError("ollama embedding request failed", 0, err)
	}
	defer res.Body.Close()

	resBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, apperrors.NewExternalServiceError("ollama embedding read failed", 0, err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, apperrors.NewExternalServiceError(
			fmt.Sprintf("ollama embedding error: %s", string(resBytes)),
			res.StatusCode,
			nil,
		)
	}

	var parsed ollamaEmbeddingResponse
	if err := json.Unmarshal(resBytes, &parsed); err != nil {
		return nil, apperrors.NewExternalServiceError("ollama embedding decode failed", 0, err)
	}

	vector := make(entity.Embedding, len(parsed.Embedding))
	for i, v := range parsed.Embedding {
		vector[i] = float32(v)
	}
	if err := vector.Validate(entity.EmbeddingDimension); err != nil {
		return nil, apperrors.NewExternalServiceError("ollama embedding invalid: "+err.Error(), 0, err)
	}

	return vector, nil
}

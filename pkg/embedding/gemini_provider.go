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

type geminiRequestPart struct {
	Text string `json:"text"`
}

type geminiRequestContent struct {
	Parts []geminiRequestPart `json:"parts"`
}

type geminiRequest struct {
	Model    string               `json:"model"`
	Content  geminiRequestContent `json:"content"`
	TaskType string               `json:"task_type,omitempty"`
}

type geminiResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type geminiResponse struct {
	Embedding geminiResponseEmbedding `json:"embedding"`
}

type GeminiProvider struct {
	ApiKey string
	Client *http.Client
}

func NewGeminiProvider(apiKey string) Provider {
	return &GeminiProvider{
		ApiKey: apiKey,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *GeminiProvider) Generate(ctx context.Context, text string, taskType string) (entity.Embedding, error) {
	modelName := "text-embedding-004"

	payload := geminiRequest{
		Model: modelName,
		Content: geminiRequestContent{
			Parts: []geminiRequestPart{{Text: text}},
		},
		TaskType: taskType,
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1/models/%s:embedContent",
		modelName,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(payloadJson))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalServiceError("gemini embedding request failed", 0, err)
	}
	defer res.Body.Close()

	resBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, apperrors.NewExternalServiceError("gemini embedding read failed", 0, err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, apperrors.NewExternalServiceError(
			fmt.Sprintf("gemini embedding error: %s", string(resBytes)),
			res.StatusCode,
			nil,
		)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(resBytes, &parsed); err != nil {
		return nil, apperrors.NewExternalServiceError("gemini embedding decode failed", 0, err)
	}

	vector := entity.Embedding(parsed.Embedding.Values)
	if err := vector.Validate(entity.EmbeddingDimension); err != nil {
		return nil, apperrors.NewExternalServiceError("gemini embedding invalid: "+err.Error(), 0, err)
	}

	return vector, nil
}

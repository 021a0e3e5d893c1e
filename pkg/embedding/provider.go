package embedding

import (
	"context"

	"rag-chat-be/internal/entity"
)

// Task types understood by the embedding backends.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// Provider defines the interface for generating text embeddings.
type Provider interface {
	Generate(ctx context.Context, text string, taskType string) (entity.Embedding, error)
}

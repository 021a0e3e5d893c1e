package contract

import (
	"context"

	"rag-chat-be/internal/entity"
)

type KnowledgeChunkRepository interface {
	// UpsertChunks replaces the namespace's content for the given URL set.
	UpsertChunks(ctx context.Context, namespace entity.Namespace, chunks []*entity.Chunk) error

	// SearchSimilarWithScore returns the topK nearest chunks in the namespace,
	// ordered by descending cosine similarity. Scores are not thresholded here;
	// the caller applies its own grounding gate.
	SearchSimilarWithScore(ctx context.Context, namespace entity.Namespace, embedding entity.Embedding, topK int) ([]*entity.SearchResult, error)

	DeleteByNamespace(ctx context.Context, namespace entity.Namespace) error
	CountByNamespace(ctx context.Context, namespace entity.Namespace) (int64, error)
}

package implementation

import (
	"context"

	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/mapper"
	"rag-chat-be/internal/model"
	"rag-chat-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type KnowledgeChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeChunkMapper
}

func NewKnowledgeChunkRepository(db *gorm.DB) contract.KnowledgeChunkRepository {
	return &KnowledgeChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeChunkMapper(),
	}
}

func (r *KnowledgeChunkRepositoryImpl) UpsertChunks(ctx context.Context, namespace entity.Namespace, chunks []*entity.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	models := r.mapper.ToModels(chunks, namespace)

	// Replace per URL inside the namespace so re-ingesting a page does not
	// leave stale chunks behind.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		urls := make(map[string]struct{}, len(chunks))
		for _, c := range chunks {
			urls[c.Url] = struct{}{}
		}
		urlList := make([]string, 0, len(urls))
		for u := range urls {
			urlList = append(urlList, u)
		}

		if err := tx.Where("namespace = ? AND url IN ?", namespace.String(), urlList).
			Delete(&model.KnowledgeChunk{}).Error; err != nil {
			return err
		}

		if err := tx.CreateInBatches(models, 100).Error; err != nil {
			return err
		}

		for i, m := range models {
			*chunks[i] = *r.mapper.ToEntity(m)
		}
		return nil
	})
}

func (r *KnowledgeChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, namespace entity.Namespace, embedding entity.Embedding, topK int) ([]*entity.SearchResult, error) {
	if topK <= 0 {
		topK = 8
	}

	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (embedding <=> query_vector) recovers the similarity.
	type row struct {
		model.KnowledgeChunk
		Similarity float64
	}
	var rows []row

	queryVector := pgvector.NewVector([]float32(embedding))

	err := r.db.WithContext(ctx).
		Table("knowledge_chunks").
		Select("knowledge_chunks.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("namespace = ?", namespace.String()).
		Order("similarity DESC").
		Limit(topK).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]*entity.SearchResult, len(rows))
	for i, res := range rows {
		results[i] = &entity.SearchResult{
			Chunk: r.mapper.ToEntity(&res.KnowledgeChunk),
			Score: res.Similarity,
		}
	}
	return results, nil
}

func (r *KnowledgeChunkRepositoryImpl) DeleteByNamespace(ctx context.Context, namespace entity.Namespace) error {
	return r.db.WithContext(ctx).
		Where("namespace = ?", namespace.String()).
		Delete(&model.KnowledgeChunk{}).Error
}

func (r *KnowledgeChunkRepositoryImpl) CountByNamespace(ctx context.Context, namespace entity.Namespace) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.KnowledgeChunk{}).
		Where("namespace = ?", namespace.String()).
		Count(&count).Error
	return count, err
}

package mapper

import (
	"encoding/json"

	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/model"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type KnowledgeChunkMapper struct{}

func NewKnowledgeChunkMapper() *KnowledgeChunkMapper {
	return &KnowledgeChunkMapper{}
}

func (m *KnowledgeChunkMapper) ToEntity(c *model.KnowledgeChunk) *entity.Chunk {
	if c == nil {
		return nil
	}

	var metadata map[string]interface{}
	if len(c.Metadata) > 0 {
		_ = json.Unmarshal(c.Metadata, &metadata)
	}

	return &entity.Chunk{
		Id:               c.Id.String(),
		TenantId:         c.TenantId,
		KnowledgeSpaceId: c.KnowledgeSpaceId,
		Url:              c.Url,
		Domain:           c.Domain,
		Content:          c.Content,
		Embedding:        entity.Embedding(c.Embedding.Slice()),
		Metadata:         metadata,
		CreatedAt:        c.CreatedAt,
	}
}

func (m *KnowledgeChunkMapper) ToModel(c *entity.Chunk, namespace entity.Namespace) *model.KnowledgeChunk {
	if c == nil {
		return nil
	}

	id, err := uuid.Parse(c.Id)
	if err != nil {
		id = uuid.New()
	}

	var metadata datatypes.JSON
	if c.Metadata != nil {
		raw, _ := json.Marshal(c.Metadata)
		metadata = datatypes.JSON(raw)
	}

	return &model.KnowledgeChunk{
		Id:               id,
		Namespace:        namespace.String(),
		TenantId:         c.TenantId,
		KnowledgeSpaceId: c.KnowledgeSpaceId,
		Url:              c.Url,
		Domain:           c.Domain,
		Content:          c.Content,
		Embedding:        pgvector.NewVector([]float32(c.Embedding)),
		Metadata:         metadata,
		CreatedAt:        c.CreatedAt,
	}
}

func (m *KnowledgeChunkMapper) ToModels(chunks []*entity.Chunk, namespace entity.Namespace) []*model.KnowledgeChunk {
	models := make([]*model.KnowledgeChunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c, namespace)
	}
	return models
}

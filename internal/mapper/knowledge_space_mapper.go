package mapper

import (
	"encoding/json"

	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/model"

	"gorm.io/datatypes"
)

type KnowledgeSpaceMapper struct{}

func NewKnowledgeSpaceMapper() *KnowledgeSpaceMapper {
	return &KnowledgeSpaceMapper{}
}

func (m *KnowledgeSpaceMapper) ToEntity(ks *model.KnowledgeSpace) *entity.KnowledgeSpace {
	if ks == nil {
		return nil
	}

	var urls []string
	if len(ks.SourceUrls) > 0 {
		_ = json.Unmarshal(ks.SourceUrls, &urls)
	}

	return &entity.KnowledgeSpace{
		TenantId:         ks.TenantId,
		KnowledgeSpaceId: ks.KnowledgeSpaceId,
		Name:             ks.Name,
		SourceType:       ks.SourceType,
		SourceUrls:       urls,
		CurrentVersion:   ks.CurrentVersion,
		CreatedAt:        ks.CreatedAt,
	}
}

func (m *KnowledgeSpaceMapper) ToModel(ks *entity.KnowledgeSpace) *model.KnowledgeSpace {
	if ks == nil {
		return nil
	}

	urls, _ := json.Marshal(ks.SourceUrls)

	return &model.KnowledgeSpace{
		TenantId:         ks.TenantId,
		KnowledgeSpaceId: ks.KnowledgeSpaceId,
		Name:             ks.Name,
		SourceType:       ks.SourceType,
		SourceUrls:       datatypes.JSON(urls),
		CurrentVersion:   ks.CurrentVersion,
		CreatedAt:        ks.CreatedAt,
	}
}

func (m *KnowledgeSpaceMapper) ToEntities(spaces []*model.KnowledgeSpace) []*entity.KnowledgeSpace {
	entities := make([]*entity.KnowledgeSpace, len(spaces))
	for i, ks := range spaces {
		entities[i] = m.ToEntity(ks)
	}
	return entities
}

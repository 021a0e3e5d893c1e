package mapper

import (
	"encoding/json"

	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/model"

	"gorm.io/datatypes"
)

type AgentMapper struct{}

func NewAgentMapper() *AgentMapper {
	return &AgentMapper{}
}

func (m *AgentMapper) ToEntity(a *model.Agent) *entity.Agent {
	if a == nil {
		return nil
	}

	var ksIds []string
	if len(a.KnowledgeSpaceIds) > 0 {
		_ = json.Unmarshal(a.KnowledgeSpaceIds, &ksIds)
	}

	return &entity.Agent{
		TenantId:          a.TenantId,
		AgentId:           a.AgentId,
		Name:              a.Name,
		KnowledgeSpaceIds: ksIds,
		StrictRAG:         a.StrictRag,
		SystemPrompt:      a.SystemPrompt,
		Description:       a.Description,
		PromptPreset:      a.PromptPreset,
		CreatedAt:         a.CreatedAt,
	}
}

func (m *AgentMapper) ToModel(a *entity.Agent) *model.Agent {
	if a == nil {
		return nil
	}

	ksIds, _ := json.Marshal(a.KnowledgeSpaceIds)

	return &model.Agent{
		TenantId:          a.TenantId,
		AgentId:           a.AgentId,
		Name:              a.Name,
		KnowledgeSpaceIds: datatypes.JSON(ksIds),
		StrictRag:         a.StrictRAG,
		SystemPrompt:      a.SystemPrompt,
		Description:       a.Description,
		PromptPreset:      a.PromptPreset,
		CreatedAt:         a.CreatedAt,
	}
}

func (m *AgentMapper) ToEntities(agents []*model.Agent) []*entity.Agent {
	entities := make([]*entity.Agent, len(agents))
	for i, a := range agents {
		entities[i] = m.ToEntity(a)
	}
	return entities
}

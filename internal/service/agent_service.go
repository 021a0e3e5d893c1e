package service

import (
	"context"
	"fmt"
	"time"

	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/pkg/apperrors"
	"rag-chat-be/internal/repository/contract"
)

type IAgentService interface {
	Create(ctx context.Context, tenantId string, req *dto.CreateAgentRequest) (*dto.AgentResponse, error)
	Show(ctx context.Context, tenantId, agentId string) (*dto.AgentResponse, error)
	List(ctx context.Context, tenantId string) ([]*dto.AgentResponse, error)
	Delete(ctx context.Context, tenantId, agentId string) error
}

type agentService struct {
	agentRepo contract.AgentRepository
}

func NewAgentService(agentRepo contract.AgentRepository) IAgentService {
	return &agentService{agentRepo: agentRepo}
}

func (s *agentService) Create(ctx context.Context, tenantId string, req *dto.CreateAgentRequest) (*dto.AgentResponse, error) {
	if len(req.KnowledgeSpaceIds) == 0 {
		return nil, apperrors.NewValidationError("agent must reference at least one knowledge space")
	}

	strictRag := true
	if req.StrictRag != nil {
		strictRag = *req.StrictRag
	}

	agent := &entity.Agent{
		TenantId:          tenantId,
		AgentId:           req.AgentId,
		Name:              req.Name,
		KnowledgeSpaceIds: req.KnowledgeSpaceIds,
		StrictRAG:         strictRag,
		SystemPrompt:      req.SystemPrompt,
		Description:       req.Description,
		PromptPreset:      req.PromptPreset,
		CreatedAt:         time.Now(),
	}

	if err := s.agentRepo.Save(ctx, agent); err != nil {
		return nil, err
	}
	return toAgentResponse(agent), nil
}

func (s *agentService) Show(ctx context.Context, tenantId, agentId string) (*dto.AgentResponse, error) {
	agent, err := s.agentRepo.FindByTenantAndId(ctx, tenantId, agentId)
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("agent '%s'", agentId))
	}
	return toAgentResponse(agent), nil
}

func (s *agentService) List(ctx context.Context, tenantId string) ([]*dto.AgentResponse, error) {
	agents, err := s.agentRepo.FindAllByTenant(ctx, tenantId)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.AgentResponse, len(agents))
	for i, agent := range agents {
		result[i] = toAgentResponse(agent)
	}
	return result, nil
}

func (s *agentService) Delete(ctx context.Context, tenantId, agentId string) error {
	agent, err := s.agentRepo.FindByTenantAndId(ctx, tenantId, agentId)
	if err != nil {
		return err
	}
	if agent == nil {
		return apperrors.NewNotFoundError(fmt.Sprintf("agent '%s'", agentId))
	}
	return s.agentRepo.Delete(ctx, tenantId, agentId)
}

func toAgentResponse(agent *entity.Agent) *dto.AgentResponse {
	return &dto.AgentResponse{
		AgentId:           agent.AgentId,
		Name:              agent.Name,
		KnowledgeSpaceIds: agent.KnowledgeSpaceIds,
		StrictRag:         agent.StrictRAG,
		SystemPrompt:      agent.SystemPrompt,
		Description:       agent.Description,
		PromptPreset:      agent.PromptPreset,
		CreatedAt:         agent.CreatedAt,
	}
}

package contract

import (
	"context"

	"rag-chat-be/internal/entity"
)

type AgentRepository interface {
	Save(ctx context.Context, agent *entity.Agent) error
	// FindByTenantAndId returns (nil, nil) when the agent does not exist.
	FindByTenantAndId(ctx context.Context, tenantId, agentId string) (*entity.Agent, error)
	FindAllByTenant(ctx context.Context, tenantId string) ([]*entity.Agent, error)
	Delete(ctx context.Context, tenantId, agentId string) error
}

package contract

import (
	"context"

	"rag-chat-be/internal/entity"
)

type KnowledgeSpaceRepository interface {
	Save(ctx context.Context, space *entity.KnowledgeSpace) error
	// FindByTenantAndId returns (nil, nil) when the space does not exist.
	FindByTenantAndId(ctx context.Context, tenantId, knowledgeSpaceId string) (*entity.KnowledgeSpace, error)
	FindAllByTenant(ctx context.Context, tenantId string) ([]*entity.KnowledgeSpace, error)
	Delete(ctx context.Context, tenantId, knowledgeSpaceId string) error
}

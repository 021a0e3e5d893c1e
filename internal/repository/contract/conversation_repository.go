package contract

import (
	"context"

	"rag-chat-be/internal/entity"
)

type ConversationRepository interface {
	Save(ctx context.Context, conversation *entity.Conversation) error
	FindAllByTenantAndUser(ctx context.Context, tenantId, userId string, limit int) ([]*entity.Conversation, error)
}

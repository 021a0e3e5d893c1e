package service

import (
	"context"

	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/repository/contract"
)

const maxConversationHistoryLimit = 200

type IConversationService interface {
	List(ctx context.Context, tenantId, userId string, limit int) ([]*dto.ConversationResponse, error)
}

type conversationService struct {
	conversationRepo contract.ConversationRepository
}

func NewConversationService(conversationRepo contract.ConversationRepository) IConversationService {
	return &conversationService{conversationRepo: conversationRepo}
}

// List returns the caller's persisted turns, newest first. A non-positive
// limit falls back to the repository default.
func (s *conversationService) List(ctx context.Context, tenantId, userId string, limit int) ([]*dto.ConversationResponse, error) {
	if limit > maxConversationHistoryLimit {
		limit = maxConversationHistoryLimit
	}

	conversations, err := s.conversationRepo.FindAllByTenantAndUser(ctx, tenantId, userId, limit)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ConversationResponse, len(conversations))
	for i, conversation := range conversations {
		result[i] = toConversationResponse(conversation)
	}
	return result, nil
}

func toConversationResponse(c *entity.Conversation) *dto.ConversationResponse {
	return &dto.ConversationResponse{
		Id:                   c.Id,
		AgentId:              c.AgentId,
		LastUserMessage:      c.LastUserMessage,
		LastAssistantMessage: c.LastAssistantMessage,
		ReferencedUrls:       c.ReferencedUrls,
		IsGrounded:           c.IsGrounded,
		CreatedAt:            c.CreatedAt,
	}
}

package mapper

import (
	"encoding/json"

	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

func (m *ConversationMapper) ToEntity(c *model.Conversation) *entity.Conversation {
	if c == nil {
		return nil
	}

	var urls []string
	if len(c.ReferencedUrls) > 0 {
		_ = json.Unmarshal(c.ReferencedUrls, &urls)
	}

	return &entity.Conversation{
		Id:                   c.Id.String(),
		TenantId:             c.TenantId,
		UserId:               c.UserId,
		AgentId:              c.AgentId,
		LastUserMessage:      c.LastUserMessage,
		LastAssistantMessage: c.LastAssistantMessage,
		ReferencedUrls:       urls,
		IsGrounded:           c.IsGrounded,
		CreatedAt:            c.CreatedAt,
	}
}

func (m *ConversationMapper) ToModel(c *entity.Conversation) *model.Conversation {
	if c == nil {
		return nil
	}

	id, err := uuid.Parse(c.Id)
	if err != nil {
		id = uuid.New()
	}

	urls, _ := json.Marshal(c.ReferencedUrls)

	return &model.Conversation{
		Id:                   id,
		TenantId:             c.TenantId,
		UserId:               c.UserId,
		AgentId:              c.AgentId,
		LastUserMessage:      c.LastUserMessage,
		LastAssistantMessage: c.LastAssistantMessage,
		ReferencedUrls:       datatypes.JSON(urls),
		IsGrounded:           c.IsGrounded,
		CreatedAt:            c.CreatedAt,
	}
}

package service

import (
	"context"
	"encoding/json"
	"time"

	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/pkg/logger"
	"rag-chat-be/internal/repository/contract"
	"rag-chat-be/pkg/events"
	pktNats "rag-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub           *gochannel.GoChannel
	topicName        string
	conversationRepo contract.ConversationRepository
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	conversationRepo contract.ConversationRepository,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:           pubSub,
		topicName:        topicName,
		conversationRepo: conversationRepo,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ConversationSavedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "failed to unmarshal conversation message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	conversation := &entity.Conversation{
		Id:                   uuid.New().String(),
		TenantId:             payload.TenantId,
		UserId:               payload.UserId,
		AgentId:              payload.AgentId,
		LastUserMessage:      payload.LastUserMessage,
		LastAssistantMessage: payload.LastAssistantMessage,
		ReferencedUrls:       payload.ReferencedUrls,
		IsGrounded:           payload.IsGrounded,
		CreatedAt:            time.Now(),
	}

	if err := cs.conversationRepo.Save(ctx, conversation); err != nil {
		cs.logger.Error("consumer", "failed to save conversation", map[string]interface{}{
			"tenant_id": payload.TenantId,
			"error":     err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}

	// Notify downstream systems. Best effort; the conversation is already
	// persisted.
	if cs.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "CONVERSATION_SAVED",
			Data: map[string]interface{}{
				"conversation_id": conversation.Id,
				"tenant_id":       conversation.TenantId,
				"user_id":         conversation.UserId,
				"agent_id":        conversation.AgentId,
				"is_grounded":     conversation.IsGrounded,
			},
			OccurredAt: time.Now(),
		}
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.logger.Warn("consumer", "failed to publish CONVERSATION_SAVED", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	msg.Ack()
}

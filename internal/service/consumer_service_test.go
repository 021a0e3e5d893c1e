package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/entity"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingConversationRepo struct {
	mu    sync.Mutex
	saved []*entity.Conversation
}

func (r *recordingConversationRepo) Save(ctx context.Context, conversation *entity.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, conversation)
	return nil
}

func (r *recordingConversationRepo) FindAllByTenantAndUser(ctx context.Context, tenantId, userId string, limit int) ([]*entity.Conversation, error) {
	return nil, nil
}

func (r *recordingConversationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

func TestConsumerPersistsConversation(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	repo := &recordingConversationRepo{}

	svc := NewConsumerService(pubSub, "conversation.saved", repo, nil, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.Consume(ctx))

	publisher := NewPublisherService(pubSub, "conversation.saved")
	payload, err := json.Marshal(dto.ConversationSavedMessage{
		TenantId:             "acme",
		UserId:               "user-1",
		AgentId:              "support-agent",
		LastUserMessage:      "question",
		LastAssistantMessage: "answer",
		ReferencedUrls:       []string{"https://example.com/a"},
		IsGrounded:           true,
	})
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(ctx, payload))

	require.Eventually(t, func() bool {
		return repo.count() == 1
	}, 2*time.Second, 10*time.Millisecond)

	repo.mu.Lock()
	defer repo.mu.Unlock()
	saved := repo.saved[0]
	assert.Equal(t, "acme", saved.TenantId)
	assert.Equal(t, "user-1", saved.UserId)
	assert.Equal(t, "support-agent", saved.AgentId)
	assert.Equal(t, "answer", saved.LastAssistantMessage)
	assert.True(t, saved.IsGrounded)
	assert.NotEmpty(t, saved.Id)
}

func TestConsumerIgnoresMalformedPayloads(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	repo := &recordingConversationRepo{}

	svc := NewConsumerService(pubSub, "conversation.saved", repo, nil, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.Consume(ctx))

	publisher := NewPublisherService(pubSub, "conversation.saved")
	require.NoError(t, publisher.Publish(ctx, []byte("{not json")))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, repo.count())
}

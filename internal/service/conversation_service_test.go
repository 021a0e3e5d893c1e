package service

import (
	"context"
	"testing"
	"time"

	"rag-chat-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listingConversationRepo struct {
	conversations []*entity.Conversation
	gotTenantId   string
	gotUserId     string
	gotLimit      int
}

func (r *listingConversationRepo) Save(ctx context.Context, conversation *entity.Conversation) error {
	return nil
}

func (r *listingConversationRepo) FindAllByTenantAndUser(ctx context.Context, tenantId, userId string, limit int) ([]*entity.Conversation, error) {
	r.gotTenantId = tenantId
	r.gotUserId = userId
	r.gotLimit = limit
	return r.conversations, nil
}

func TestConversationListMapsEntities(t *testing.T) {
	repo := &listingConversationRepo{conversations: []*entity.Conversation{
		{
			Id:                   "conv-1",
			TenantId:             "acme",
			UserId:               "user-1",
			AgentId:              "support-agent",
			LastUserMessage:      "What are the opening hours?",
			LastAssistantMessage: "We open at nine.",
			ReferencedUrls:       []string{"https://example.com/hours"},
			IsGrounded:           true,
			CreatedAt:            time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
		},
	}}
	svc := NewConversationService(repo)

	res, err := svc.List(context.Background(), "acme", "user-1", 20)
	require.NoError(t, err)

	assert.Equal(t, "acme", repo.gotTenantId)
	assert.Equal(t, "user-1", repo.gotUserId)
	assert.Equal(t, 20, repo.gotLimit)

	require.Len(t, res, 1)
	assert.Equal(t, "conv-1", res[0].Id)
	assert.Equal(t, "support-agent", res[0].AgentId)
	assert.Equal(t, []string{"https://example.com/hours"}, res[0].ReferencedUrls)
	assert.True(t, res[0].IsGrounded)
}

func TestConversationListCapsLimit(t *testing.T) {
	repo := &listingConversationRepo{}
	svc := NewConversationService(repo)

	_, err := svc.List(context.Background(), "acme", "user-1", 10_000)
	require.NoError(t, err)
	assert.Equal(t, maxConversationHistoryLimit, repo.gotLimit)
}

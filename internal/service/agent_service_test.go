package service

import (
	"context"
	"testing"

	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAgentRepo struct {
	fakeAgentRepo
	saved *entity.Agent
}

func (r *recordingAgentRepo) Save(ctx context.Context, agent *entity.Agent) error {
	r.saved = agent
	return nil
}

func TestAgentCreateRequiresKnowledgeSpaces(t *testing.T) {
	svc := NewAgentService(&recordingAgentRepo{})

	_, err := svc.Create(context.Background(), "acme", &dto.CreateAgentRequest{
		AgentId: "support-agent",
		Name:    "Support",
	})
	require.Error(t, err)

	var validation *apperrors.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestAgentCreateDefaultsToStrict(t *testing.T) {
	repo := &recordingAgentRepo{}
	svc := NewAgentService(repo)

	res, err := svc.Create(context.Background(), "acme", &dto.CreateAgentRequest{
		AgentId:           "support-agent",
		Name:              "Support",
		KnowledgeSpaceIds: []string{"docs"},
	})
	require.NoError(t, err)

	assert.True(t, res.StrictRag)
	require.NotNil(t, repo.saved)
	assert.Equal(t, "acme", repo.saved.TenantId)
	assert.True(t, repo.saved.StrictRAG)
}

func TestAgentCreateHonorsExplicitStrictFlag(t *testing.T) {
	repo := &recordingAgentRepo{}
	svc := NewAgentService(repo)

	relaxed := false
	res, err := svc.Create(context.Background(), "acme", &dto.CreateAgentRequest{
		AgentId:           "open-agent",
		Name:              "Open",
		KnowledgeSpaceIds: []string{"docs"},
		StrictRag:         &relaxed,
	})
	require.NoError(t, err)
	assert.False(t, res.StrictRag)
}

func TestAgentShowNotFound(t *testing.T) {
	svc := NewAgentService(&recordingAgentRepo{})

	_, err := svc.Show(context.Background(), "acme", "missing")
	require.Error(t, err)

	var notFound *apperrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

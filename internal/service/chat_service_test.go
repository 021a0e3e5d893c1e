package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"rag-chat-be/internal/config"
	"rag-chat-be/internal/constant"
	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/pkg/apperrors"
	"rag-chat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeAgentRepo struct {
	agents map[string]*entity.Agent // keyed by tenantId/agentId
}

func (f *fakeAgentRepo) Save(ctx context.Context, agent *entity.Agent) error { return nil }
func (f *fakeAgentRepo) FindByTenantAndId(ctx context.Context, tenantId, agentId string) (*entity.Agent, error) {
	return f.agents[tenantId+"/"+agentId], nil
}
func (f *fakeAgentRepo) FindAllByTenant(ctx context.Context, tenantId string) ([]*entity.Agent, error) {
	return nil, nil
}
func (f *fakeAgentRepo) Delete(ctx context.Context, tenantId, agentId string) error { return nil }

type fakeSpaceRepo struct {
	spaces map[string]*entity.KnowledgeSpace
}

func (f *fakeSpaceRepo) Save(ctx context.Context, space *entity.KnowledgeSpace) error { return nil }
func (f *fakeSpaceRepo) FindByTenantAndId(ctx context.Context, tenantId, ksId string) (*entity.KnowledgeSpace, error) {
	return f.spaces[tenantId+"/"+ksId], nil
}
func (f *fakeSpaceRepo) FindAllByTenant(ctx context.Context, tenantId string) ([]*entity.KnowledgeSpace, error) {
	return nil, nil
}
func (f *fakeSpaceRepo) Delete(ctx context.Context, tenantId, ksId string) error { return nil }

type fakeChunkRepo struct {
	mu                sync.Mutex
	searchedNamespaces []string
	resultsByNamespace map[string][]*entity.SearchResult
	searchErr          error
}

func (f *fakeChunkRepo) UpsertChunks(ctx context.Context, ns entity.Namespace, chunks []*entity.Chunk) error {
	return nil
}
func (f *fakeChunkRepo) SearchSimilarWithScore(ctx context.Context, ns entity.Namespace, embedding entity.Embedding, topK int) ([]*entity.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchedNamespaces = append(f.searchedNamespaces, ns.String())
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.resultsByNamespace[ns.String()], nil
}
func (f *fakeChunkRepo) DeleteByNamespace(ctx context.Context, ns entity.Namespace) error { return nil }
func (f *fakeChunkRepo) CountByNamespace(ctx context.Context, ns entity.Namespace) (int64, error) {
	return 0, nil
}

type fakeEmbeddingProvider struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeEmbeddingProvider) Generate(ctx context.Context, text, taskType string) (entity.Embedding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return make(entity.Embedding, entity.EmbeddingDimension), nil
}

type fakeLLMProvider struct {
	mu      sync.Mutex
	calls   int
	answer  string
	history []llm.Message
	options llm.Options
}

func (f *fakeLLMProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.history = history
	f.options = llm.Options{}
	for _, opt := range opts {
		opt(&f.options)
	}
	return f.answer, nil
}
func (f *fakeLLMProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (f *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// ---- harness ----

func testConfig() *config.Config {
	return &config.Config{
		Ai: config.AIConfig{
			LLMTemperature: 0.2,
			LLMMaxTokens:   1024,
		},
		Rag: config.RagConfig{
			SimilarityThreshold: 0.35,
			TopK:                8,
			MaxContextChunks:    5,
			MaxCitedUrls:        3,
		},
		Resilience: config.ResilienceConfig{
			MaxAttempts:      1,
			InitialDelay:     time.Millisecond,
			MaxDelay:         time.Millisecond,
			FailureThreshold: 5,
			Cooldown:         time.Minute,
		},
	}
}

type chatFixture struct {
	service   IChatService
	agents    *fakeAgentRepo
	spaces    *fakeSpaceRepo
	chunks    *fakeChunkRepo
	embedder  *fakeEmbeddingProvider
	llm       *fakeLLMProvider
	publisher *fakePublisher
}

func newChatFixture(strict bool, ksIds []string) *chatFixture {
	agents := &fakeAgentRepo{agents: map[string]*entity.Agent{
		"acme/support-agent": {
			TenantId:          "acme",
			AgentId:           "support-agent",
			Name:              "Support",
			KnowledgeSpaceIds: ksIds,
			StrictRAG:         strict,
		},
	}}

	spaces := &fakeSpaceRepo{spaces: map[string]*entity.KnowledgeSpace{}}
	for _, ksId := range ksIds {
		spaces.spaces["acme/"+ksId] = &entity.KnowledgeSpace{
			TenantId:         "acme",
			KnowledgeSpaceId: ksId,
			CurrentVersion:   "2026-08-31",
		}
	}

	chunks := &fakeChunkRepo{resultsByNamespace: map[string][]*entity.SearchResult{}}
	embedder := &fakeEmbeddingProvider{}
	llmProvider := &fakeLLMProvider{answer: "generated answer"}
	publisher := &fakePublisher{}

	svc := NewChatService(agents, spaces, chunks, embedder, llmProvider, publisher, nopLogger{}, testConfig())

	return &chatFixture{
		service:   svc,
		agents:    agents,
		spaces:    spaces,
		chunks:    chunks,
		embedder:  embedder,
		llm:       llmProvider,
		publisher: publisher,
	}
}

func chatRequest(model string) *dto.ChatCompletionRequest {
	return &dto.ChatCompletionRequest{
		Model: model,
		Messages: []dto.ChatMessage{
			{Role: "user", Content: "What are the opening hours?"},
		},
	}
}

func scored(url string, score float64) *entity.SearchResult {
	return &entity.SearchResult{
		Chunk: &entity.Chunk{Url: url, Content: "content from " + url},
		Score: score,
	}
}

// ---- tests ----

func TestAnswerUnknownAgent(t *testing.T) {
	f := newChatFixture(true, []string{"docs"})

	_, err := f.service.Answer(context.Background(), "acme", "user-1", chatRequest("missing-agent"))
	require.Error(t, err)

	var notFound *apperrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestAnswerRequiresUserMessage(t *testing.T) {
	f := newChatFixture(true, []string{"docs"})

	req := &dto.ChatCompletionRequest{
		Model:    "support-agent",
		Messages: []dto.ChatMessage{{Role: "system", Content: "be helpful"}},
	}
	_, err := f.service.Answer(context.Background(), "acme", "user-1", req)
	require.Error(t, err)

	var validation *apperrors.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestAnswerStrictFallbackBelowThreshold(t *testing.T) {
	f := newChatFixture(true, []string{"docs"})
	f.chunks.resultsByNamespace["t_acme_ks_docs_2026-08-31"] = []*entity.SearchResult{
		scored("https://example.com/a", 0.34),
		scored("https://example.com/b", 0.10),
	}

	result, err := f.service.Answer(context.Background(), "acme", "user-1", chatRequest("support-agent"))
	require.NoError(t, err)

	assert.Equal(t, constant.NoInfoMessage, result.AnswerText)
	assert.False(t, result.IsGrounded)
	assert.Empty(t, result.CitedUrls)
	assert.Equal(t, 0, f.llm.calls, "the strict gate must short-circuit before the model")
	assert.Len(t, f.publisher.payloads, 1, "the fallback turn is still persisted")
}

func TestAnswerStrictFallbackNoResults(t *testing.T) {
	f := newChatFixture(true, []string{"docs"})

	result, err := f.service.Answer(context.Background(), "acme", "user-1", chatRequest("support-agent"))
	require.NoError(t, err)

	assert.Equal(t, constant.NoInfoMessage, result.AnswerText)
	assert.False(t, result.IsGrounded)
	assert.Equal(t, 0, f.llm.calls)
}

func TestAnswerStrictAboveThreshold(t *testing.T) {
	f := newChatFixture(true, []string{"docs"})
	f.chunks.resultsByNamespace["t_acme_ks_docs_2026-08-31"] = []*entity.SearchResult{
		scored("https://example.com/a", 0.90),
		scored("https://example.com/b", 0.40),
	}

	result, err := f.service.Answer(context.Background(), "acme", "user-1", chatRequest("support-agent"))
	require.NoError(t, err)

	assert.Equal(t, "generated answer", result.AnswerText)
	assert.True(t, result.IsGrounded)
	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, result.CitedUrls)
	assert.Equal(t, 1, f.llm.calls)
}

func TestAnswerNonStrictAlwaysCallsModel(t *testing.T) {
	f := newChatFixture(false, []string{"docs"})

	result, err := f.service.Answer(context.Background(), "acme", "user-1", chatRequest("support-agent"))
	require.NoError(t, err)

	assert.Equal(t, "generated answer", result.AnswerText)
	assert.Equal(t, 1, f.llm.calls, "non-strict agents answer even without retrieval hits")
}

func TestAnswerFansOutToEveryKnowledgeSpace(t *testing.T) {
	f := newChatFixture(true, []string{"docs", "faq", "policies"})
	f.chunks.resultsByNamespace["t_acme_ks_faq_2026-08-31"] = []*entity.SearchResult{
		scored("https://example.com/faq", 0.80),
	}

	_, err := f.service.Answer(context.Background(), "acme", "user-1", chatRequest("support-agent"))
	require.NoError(t, err)

	assert.Equal(t, 1, f.embedder.calls, "the question is embedded exactly once")
	assert.ElementsMatch(t, []string{
		"t_acme_ks_docs_2026-08-31",
		"t_acme_ks_faq_2026-08-31",
		"t_acme_ks_policies_2026-08-31",
	}, f.chunks.searchedNamespaces)
}

func TestAnswerSkipsMissingKnowledgeSpaces(t *testing.T) {
	f := newChatFixture(false, []string{"docs", "removed"})
	delete(f.spaces.spaces, "acme/removed")

	_, err := f.service.Answer(context.Background(), "acme", "user-1", chatRequest("support-agent"))
	require.NoError(t, err)

	assert.Equal(t, []string{"t_acme_ks_docs_2026-08-31"}, f.chunks.searchedNamespaces)
}

func TestAnswerCitationsDedupedAndCapped(t *testing.T) {
	f := newChatFixture(true, []string{"docs"})
	f.chunks.resultsByNamespace["t_acme_ks_docs_2026-08-31"] = []*entity.SearchResult{
		scored("https://example.com/a", 0.95),
		scored("https://example.com/a", 0.90), // duplicate URL
		scored("https://example.com/b", 0.85),
		scored("https://example.com/c", 0.80),
		scored("https://example.com/d", 0.75), // beyond the citation cap
	}

	result, err := f.service.Answer(context.Background(), "acme", "user-1", chatRequest("support-agent"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://example.com/a",
		"https://example.com/b",
		"https://example.com/c",
	}, result.CitedUrls)
}

func TestAnswerPromptCarriesContextAndQuestion(t *testing.T) {
	f := newChatFixture(true, []string{"docs"})
	f.chunks.resultsByNamespace["t_acme_ks_docs_2026-08-31"] = []*entity.SearchResult{
		scored("https://example.com/a", 0.90),
	}

	_, err := f.service.Answer(context.Background(), "acme", "user-1", chatRequest("support-agent"))
	require.NoError(t, err)

	require.NotEmpty(t, f.llm.history)
	assert.Equal(t, "system", f.llm.history[0].Role)

	last := f.llm.history[len(f.llm.history)-1]
	assert.Equal(t, "user", last.Role)
	assert.Contains(t, last.Content, constant.ContextHeader)
	assert.Contains(t, last.Content, "content from https://example.com/a")
	assert.Contains(t, last.Content, "What are the opening hours?")
}

func TestAnswerAppliesConfiguredGenerationOptions(t *testing.T) {
	f := newChatFixture(true, []string{"docs"})
	f.chunks.resultsByNamespace["t_acme_ks_docs_2026-08-31"] = []*entity.SearchResult{
		scored("https://example.com/a", 0.90),
	}

	_, err := f.service.Answer(context.Background(), "acme", "user-1", chatRequest("support-agent"))
	require.NoError(t, err)

	// The temperature and token cap from the configuration must reach the
	// provider on every completion call.
	assert.Equal(t, 0.2, f.llm.options.Temperature)
	assert.Equal(t, 1024, f.llm.options.MaxTokens)
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"rag-chat-be/internal/config"
	"rag-chat-be/internal/constant"
	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/pkg/apperrors"
	"rag-chat-be/internal/pkg/logger"
	"rag-chat-be/internal/repository/contract"
	"rag-chat-be/pkg/embedding"
	"rag-chat-be/pkg/llm"
	"rag-chat-be/pkg/resilience"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type IChatService interface {
	// Answer runs the full retrieval pipeline for one chat turn and returns
	// the finished result. Streaming and non-streaming delivery both start
	// from this.
	Answer(ctx context.Context, tenantId, userId string, req *dto.ChatCompletionRequest) (*entity.AnswerResult, error)
}

type chatService struct {
	agentRepo          contract.AgentRepository
	spaceRepo          contract.KnowledgeSpaceRepository
	chunkRepo          contract.KnowledgeChunkRepository
	embeddingProvider  embedding.Provider
	llmProvider        llm.LLMProvider
	publisherService   IPublisherService
	logger             logger.ILogger
	ragCfg             config.RagConfig
	retryCfg           resilience.RetryConfig
	embeddingBreaker   *resilience.CircuitBreaker
	searchBreaker      *resilience.CircuitBreaker
	completionBreaker  *resilience.CircuitBreaker
	lookupCache        *cache.Cache
	llmOptions         []llm.Option
}

func NewChatService(
	agentRepo contract.AgentRepository,
	spaceRepo contract.KnowledgeSpaceRepository,
	chunkRepo contract.KnowledgeChunkRepository,
	embeddingProvider embedding.Provider,
	llmProvider llm.LLMProvider,
	publisherService IPublisherService,
	log logger.ILogger,
	cfg *config.Config,
) IChatService {
	return &chatService{
		agentRepo:         agentRepo,
		spaceRepo:         spaceRepo,
		chunkRepo:         chunkRepo,
		embeddingProvider: embeddingProvider,
		llmProvider:       llmProvider,
		publisherService:  publisherService,
		logger:            log,
		ragCfg:            cfg.Rag,
		retryCfg: resilience.RetryConfig{
			MaxAttempts:  cfg.Resilience.MaxAttempts,
			InitialDelay: cfg.Resilience.InitialDelay,
			MaxDelay:     cfg.Resilience.MaxDelay,
		},
		embeddingBreaker:  resilience.NewCircuitBreaker(cfg.Resilience.FailureThreshold, cfg.Resilience.Cooldown),
		searchBreaker:     resilience.NewCircuitBreaker(cfg.Resilience.FailureThreshold, cfg.Resilience.Cooldown),
		completionBreaker: resilience.NewCircuitBreaker(cfg.Resilience.FailureThreshold, cfg.Resilience.Cooldown),
		lookupCache:       cache.New(5*time.Minute, 10*time.Minute),
		llmOptions: []llm.Option{
			llm.WithTemperature(cfg.Ai.LLMTemperature),
			llm.WithMaxTokens(cfg.Ai.LLMMaxTokens),
		},
	}
}

func (s *chatService) Answer(ctx context.Context, tenantId, userId string, req *dto.ChatCompletionRequest) (*entity.AnswerResult, error) {
	agent, err := s.findAgent(ctx, tenantId, req.Model)
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("agent '%s'", req.Model))
	}

	question := lastUserMessage(req.Messages)
	if question == "" {
		return nil, apperrors.NewValidationError("messages must contain at least one user message")
	}

	answerId := fmt.Sprintf("chatcmpl-%s", uuid.New().String())

	queryVector, err := resilience.Retry(ctx, s.retryCfg, func() (entity.Embedding, error) {
		return resilience.Execute(s.embeddingBreaker, func() (entity.Embedding, error) {
			return s.embeddingProvider.Generate(ctx, question, embedding.TaskRetrievalQuery)
		})
	})
	if err != nil {
		return nil, err
	}

	results, err := s.searchAllSpaces(ctx, tenantId, agent.KnowledgeSpaceIds, queryVector)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	// Strict agents refuse to answer when retrieval came back empty or the
	// best match sits below the similarity threshold.
	if agent.StrictRAG && (len(results) == 0 || results[0].Score < s.ragCfg.SimilarityThreshold) {
		result := &entity.AnswerResult{
			Id:         answerId,
			Model:      req.Model,
			AnswerText: constant.NoInfoMessage,
			CitedUrls:  nil,
			IsGrounded: false,
		}
		s.publishConversation(ctx, tenantId, userId, agent.AgentId, question, result)
		return result, nil
	}

	contextChunks := results
	if len(contextChunks) > s.ragCfg.MaxContextChunks {
		contextChunks = contextChunks[:s.ragCfg.MaxContextChunks]
	}

	history := s.buildHistory(agent, req.Messages, contextChunks, question)

	answerText, err := resilience.Retry(ctx, s.retryCfg, func() (string, error) {
		return resilience.Execute(s.completionBreaker, func() (string, error) {
			return s.llmProvider.Chat(ctx, history, s.llmOptions...)
		})
	})
	if err != nil {
		return nil, err
	}

	result := &entity.AnswerResult{
		Id:         answerId,
		Model:      req.Model,
		AnswerText: answerText,
		CitedUrls:  citedUrls(contextChunks, s.ragCfg.MaxCitedUrls),
		IsGrounded: true,
	}
	s.publishConversation(ctx, tenantId, userId, agent.AgentId, question, result)
	return result, nil
}

func (s *chatService) findAgent(ctx context.Context, tenantId, agentId string) (*entity.Agent, error) {
	cacheKey := fmt.Sprintf("agent:%s:%s", tenantId, agentId)
	if cached, found := s.lookupCache.Get(cacheKey); found {
		return cached.(*entity.Agent), nil
	}

	agent, err := s.agentRepo.FindByTenantAndId(ctx, tenantId, agentId)
	if err != nil {
		return nil, err
	}
	if agent != nil {
		s.lookupCache.Set(cacheKey, agent, cache.DefaultExpiration)
	}
	return agent, nil
}

func (s *chatService) findSpace(ctx context.Context, tenantId, ksId string) (*entity.KnowledgeSpace, error) {
	cacheKey := fmt.Sprintf("ks:%s:%s", tenantId, ksId)
	if cached, found := s.lookupCache.Get(cacheKey); found {
		return cached.(*entity.KnowledgeSpace), nil
	}

	space, err := s.spaceRepo.FindByTenantAndId(ctx, tenantId, ksId)
	if err != nil {
		return nil, err
	}
	if space != nil {
		s.lookupCache.Set(cacheKey, space, cache.DefaultExpiration)
	}
	return space, nil
}

// searchAllSpaces fans the query out to every resolvable knowledge space
// concurrently and merges the hits. Spaces that no longer exist are skipped;
// a search failure in any space fails the whole turn so the caller never
// answers from a silently partial corpus.
func (s *chatService) searchAllSpaces(ctx context.Context, tenantId string, ksIds []string, queryVector entity.Embedding) ([]*entity.SearchResult, error) {
	namespaces := make([]entity.Namespace, 0, len(ksIds))
	for _, ksId := range ksIds {
		space, err := s.findSpace(ctx, tenantId, ksId)
		if err != nil {
			return nil, err
		}
		if space == nil {
			s.logger.Warn("chat", "knowledge space not found, skipping", map[string]interface{}{
				"tenant_id":          tenantId,
				"knowledge_space_id": ksId,
			})
			continue
		}
		namespaces = append(namespaces, space.Namespace())
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		merged   []*entity.SearchResult
		firstErr error
	)

	for _, ns := range namespaces {
		wg.Add(1)
		go func(ns entity.Namespace) {
			defer wg.Done()
			hits, err := resilience.Retry(ctx, s.retryCfg, func() ([]*entity.SearchResult, error) {
				return resilience.Execute(s.searchBreaker, func() ([]*entity.SearchResult, error) {
					return s.chunkRepo.SearchSimilarWithScore(ctx, ns, queryVector, s.ragCfg.TopK)
				})
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			merged = append(merged, hits...)
		}(ns)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return merged, nil
}

func (s *chatService) buildHistory(agent *entity.Agent, messages []dto.ChatMessage, contextChunks []*entity.SearchResult, question string) []llm.Message {
	systemPrompt := agent.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = constant.DefaultSystemPrompt
	}

	var sb strings.Builder
	sb.WriteString(constant.ContextHeader)
	sb.WriteString("\n\n")
	for _, res := range contextChunks {
		sb.WriteString(fmt.Sprintf("## Source: %s\n%s\n\n", res.Chunk.Url, res.Chunk.Content))
	}
	sb.WriteString(constant.TaskInstruction)
	sb.WriteString("\n\n")
	sb.WriteString(question)

	history := make([]llm.Message, 0, len(messages)+2)
	history = append(history, llm.Message{Role: constant.ChatMessageRoleSystem, Content: systemPrompt})

	// Replay prior turns, but replace the last user message with the
	// context-augmented version.
	lastUserIdx := -1
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == constant.ChatMessageRoleUser {
			lastUserIdx = i
			break
		}
	}
	for i, msg := range messages {
		if msg.Role == constant.ChatMessageRoleSystem {
			continue
		}
		if i == lastUserIdx {
			history = append(history, llm.Message{Role: constant.ChatMessageRoleUser, Content: sb.String()})
			continue
		}
		history = append(history, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	return history
}

// publishConversation hands the finished turn to the persistence worker.
// Failures are logged and swallowed so persistence never delays the answer.
func (s *chatService) publishConversation(ctx context.Context, tenantId, userId, agentId, question string, result *entity.AnswerResult) {
	payload := dto.ConversationSavedMessage{
		TenantId:             tenantId,
		UserId:               userId,
		AgentId:              agentId,
		LastUserMessage:      question,
		LastAssistantMessage: result.AnswerText,
		ReferencedUrls:       result.CitedUrls,
		IsGrounded:           result.IsGrounded,
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("chat", "failed to marshal conversation payload", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.publisherService.Publish(ctx, payloadJson); err != nil {
		s.logger.Error("chat", "failed to publish conversation", map[string]interface{}{"error": err.Error()})
	}
}

func lastUserMessage(messages []dto.ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == constant.ChatMessageRoleUser {
			return messages[i].Content
		}
	}
	return ""
}

// citedUrls collects distinct source URLs from the context chunks, keeping
// the descending-score order, capped at max.
func citedUrls(contextChunks []*entity.SearchResult, max int) []string {
	seen := make(map[string]struct{}, len(contextChunks))
	urls := make([]string, 0, max)
	for _, res := range contextChunks {
		url := res.Chunk.Url
		if url == "" {
			continue
		}
		if _, dup := seen[url]; dup {
			continue
		}
		seen[url] = struct{}{}
		urls = append(urls, url)
		if len(urls) == max {
			break
		}
	}
	return urls
}

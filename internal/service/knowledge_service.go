package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"rag-chat-be/internal/config"
	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/pkg/apperrors"
	"rag-chat-be/internal/pkg/logger"
	"rag-chat-be/internal/repository/contract"
	"rag-chat-be/pkg/chunker"
	"rag-chat-be/pkg/embedding"
	"rag-chat-be/pkg/resilience"

	"github.com/google/uuid"
)

type IKnowledgeService interface {
	Ingest(ctx context.Context, tenantId string, req *dto.IngestKnowledgeRequest) (*dto.IngestKnowledgeResponse, error)
	List(ctx context.Context, tenantId string) ([]*dto.KnowledgeSpaceResponse, error)
	Delete(ctx context.Context, tenantId, knowledgeSpaceId string) (*dto.DeleteKnowledgeResponse, error)
}

type knowledgeService struct {
	spaceRepo         contract.KnowledgeSpaceRepository
	chunkRepo         contract.KnowledgeChunkRepository
	embeddingProvider embedding.Provider
	chunker           *chunker.Chunker
	chunkCfg          chunker.Config
	retryCfg          resilience.RetryConfig
	embeddingBreaker  *resilience.CircuitBreaker
	logger            logger.ILogger
}

func NewKnowledgeService(
	spaceRepo contract.KnowledgeSpaceRepository,
	chunkRepo contract.KnowledgeChunkRepository,
	embeddingProvider embedding.Provider,
	log logger.ILogger,
	cfg *config.Config,
) IKnowledgeService {
	return &knowledgeService{
		spaceRepo:         spaceRepo,
		chunkRepo:         chunkRepo,
		embeddingProvider: embeddingProvider,
		chunker:           chunker.New(nil),
		chunkCfg: chunker.Config{
			MinTokens:     cfg.Chunking.MinTokens,
			MaxTokens:     cfg.Chunking.MaxTokens,
			OverlapTokens: cfg.Chunking.OverlapTokens,
		},
		retryCfg: resilience.RetryConfig{
			MaxAttempts:  cfg.Resilience.MaxAttempts,
			InitialDelay: cfg.Resilience.InitialDelay,
			MaxDelay:     cfg.Resilience.MaxDelay,
		},
		embeddingBreaker: resilience.NewCircuitBreaker(cfg.Resilience.FailureThreshold, cfg.Resilience.Cooldown),
		logger:           log,
	}
}

// Ingest chunks and embeds each document, then replaces the namespace
// content. Individual document failures are tolerated; the call fails only
// when every document failed.
func (s *knowledgeService) Ingest(ctx context.Context, tenantId string, req *dto.IngestKnowledgeRequest) (*dto.IngestKnowledgeResponse, error) {
	if err := s.chunkCfg.Validate(); err != nil {
		return nil, err
	}

	version := time.Now().Format("2006-01-02")

	space, err := s.spaceRepo.FindByTenantAndId(ctx, tenantId, req.KnowledgeSpaceId)
	if err != nil {
		return nil, err
	}

	sourceType := req.SourceType
	if sourceType == "" {
		sourceType = "web"
	}
	name := req.Name
	if name == "" && space != nil {
		name = space.Name
	}

	sourceUrls := make([]string, 0, len(req.Documents))
	for _, doc := range req.Documents {
		sourceUrls = append(sourceUrls, doc.Url)
	}

	newSpace := &entity.KnowledgeSpace{
		TenantId:         tenantId,
		KnowledgeSpaceId: req.KnowledgeSpaceId,
		Name:             name,
		SourceType:       sourceType,
		SourceUrls:       sourceUrls,
		CurrentVersion:   version,
		CreatedAt:        time.Now(),
	}
	if space != nil {
		newSpace.CreatedAt = space.CreatedAt
	}

	namespace := newSpace.Namespace()

	var chunks []*entity.Chunk
	failed := 0
	for _, doc := range req.Documents {
		docChunks, err := s.embedDocument(ctx, tenantId, req.KnowledgeSpaceId, doc)
		if err != nil {
			failed++
			s.logger.Error("knowledge", "failed to embed document", map[string]interface{}{
				"tenant_id": tenantId,
				"url":       doc.Url,
				"error":     err.Error(),
			})
			continue
		}
		chunks = append(chunks, docChunks...)
	}

	if failed == len(req.Documents) {
		return nil, apperrors.NewExternalServiceError("all documents failed to embed", 0, nil)
	}

	if err := s.chunkRepo.UpsertChunks(ctx, namespace, chunks); err != nil {
		return nil, err
	}

	if err := s.spaceRepo.Save(ctx, newSpace); err != nil {
		return nil, err
	}

	s.logger.Info("knowledge", "ingestion finished", map[string]interface{}{
		"tenant_id":        tenantId,
		"namespace":        namespace.String(),
		"chunks_stored":    len(chunks),
		"documents_failed": failed,
	})

	return &dto.IngestKnowledgeResponse{
		KnowledgeSpaceId: req.KnowledgeSpaceId,
		Namespace:        namespace.String(),
		ChunksStored:     len(chunks),
		DocumentsFailed:  failed,
	}, nil
}

func (s *knowledgeService) embedDocument(ctx context.Context, tenantId, ksId string, doc dto.IngestDocument) ([]*entity.Chunk, error) {
	pieces, err := s.chunker.Chunk(doc.Content, s.chunkCfg)
	if err != nil {
		return nil, err
	}

	domain := ""
	if parsed, err := url.Parse(doc.Url); err == nil {
		domain = parsed.Hostname()
	}

	chunks := make([]*entity.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		vector, err := resilience.Retry(ctx, s.retryCfg, func() (entity.Embedding, error) {
			return resilience.Execute(s.embeddingBreaker, func() (entity.Embedding, error) {
				return s.embeddingProvider.Generate(ctx, piece, embedding.TaskRetrievalDocument)
			})
		})
		if err != nil {
			return nil, err
		}

		chunks = append(chunks, &entity.Chunk{
			Id:               uuid.New().String(),
			TenantId:         tenantId,
			KnowledgeSpaceId: ksId,
			Url:              doc.Url,
			Domain:           domain,
			Content:          piece,
			Embedding:        vector,
			Metadata: map[string]interface{}{
				"chunk_index": i,
				"title":       doc.Title,
			},
			CreatedAt: time.Now(),
		})
	}
	return chunks, nil
}

func (s *knowledgeService) List(ctx context.Context, tenantId string) ([]*dto.KnowledgeSpaceResponse, error) {
	spaces, err := s.spaceRepo.FindAllByTenant(ctx, tenantId)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.KnowledgeSpaceResponse, 0, len(spaces))
	for _, space := range spaces {
		count, err := s.chunkRepo.CountByNamespace(ctx, space.Namespace())
		if err != nil {
			return nil, err
		}
		result = append(result, &dto.KnowledgeSpaceResponse{
			KnowledgeSpaceId: space.KnowledgeSpaceId,
			Name:             space.Name,
			SourceType:       space.SourceType,
			SourceUrls:       space.SourceUrls,
			CurrentVersion:   space.CurrentVersion,
			ChunkCount:       count,
			CreatedAt:        space.CreatedAt,
		})
	}
	return result, nil
}

func (s *knowledgeService) Delete(ctx context.Context, tenantId, knowledgeSpaceId string) (*dto.DeleteKnowledgeResponse, error) {
	space, err := s.spaceRepo.FindByTenantAndId(ctx, tenantId, knowledgeSpaceId)
	if err != nil {
		return nil, err
	}
	if space == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("knowledge space '%s'", knowledgeSpaceId))
	}

	if err := s.chunkRepo.DeleteByNamespace(ctx, space.Namespace()); err != nil {
		return nil, err
	}
	if err := s.spaceRepo.Delete(ctx, tenantId, knowledgeSpaceId); err != nil {
		return nil, err
	}

	return &dto.DeleteKnowledgeResponse{
		KnowledgeSpaceId: knowledgeSpaceId,
		Deleted:          true,
	}, nil
}

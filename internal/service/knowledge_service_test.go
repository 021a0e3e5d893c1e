package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingChunkRepo struct {
	fakeChunkRepo
	mu             sync.Mutex
	upsertedNs     string
	upsertedChunks []*entity.Chunk
}

func (r *recordingChunkRepo) UpsertChunks(ctx context.Context, ns entity.Namespace, chunks []*entity.Chunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertedNs = ns.String()
	r.upsertedChunks = chunks
	return nil
}

type recordingSpaceRepo struct {
	fakeSpaceRepo
	saved *entity.KnowledgeSpace
}

func (r *recordingSpaceRepo) Save(ctx context.Context, space *entity.KnowledgeSpace) error {
	r.saved = space
	return nil
}

type flakyEmbeddingProvider struct {
	mu      sync.Mutex
	calls   int
	failAll bool
}

func (f *flakyEmbeddingProvider) Generate(ctx context.Context, text, taskType string) (entity.Embedding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failAll {
		return nil, apperrors.NewExternalServiceError("embedding failed", 500, errors.New("boom"))
	}
	return make(entity.Embedding, entity.EmbeddingDimension), nil
}

func TestIngestStoresChunksInVersionedNamespace(t *testing.T) {
	spaceRepo := &recordingSpaceRepo{fakeSpaceRepo{spaces: map[string]*entity.KnowledgeSpace{}}, nil}
	chunkRepo := &recordingChunkRepo{}
	embedder := &flakyEmbeddingProvider{}

	cfg := testConfig()
	cfg.Chunking.MinTokens = 400
	cfg.Chunking.MaxTokens = 600
	cfg.Chunking.OverlapTokens = 75

	svc := NewKnowledgeService(spaceRepo, chunkRepo, embedder, nopLogger{}, cfg)

	res, err := svc.Ingest(context.Background(), "acme", &dto.IngestKnowledgeRequest{
		KnowledgeSpaceId: "docs",
		Name:             "Docs",
		Documents: []dto.IngestDocument{
			{Url: "https://example.com/page-1", Content: "Opening hours are nine to five."},
			{Url: "https://example.com/page-2", Content: "Support is reachable by email."},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "docs", res.KnowledgeSpaceId)
	assert.Equal(t, 2, res.ChunksStored)
	assert.Equal(t, 0, res.DocumentsFailed)
	assert.Contains(t, res.Namespace, "t_acme_ks_docs_")

	assert.Equal(t, res.Namespace, chunkRepo.upsertedNs)
	require.Len(t, chunkRepo.upsertedChunks, 2)
	assert.Equal(t, "example.com", chunkRepo.upsertedChunks[0].Domain)
	assert.Equal(t, "https://example.com/page-1", chunkRepo.upsertedChunks[0].Url)

	require.NotNil(t, spaceRepo.saved)
	assert.Equal(t, "acme", spaceRepo.saved.TenantId)
	assert.Equal(t, res.Namespace, spaceRepo.saved.Namespace().String())
}

func TestIngestFailsWhenAllDocumentsFail(t *testing.T) {
	spaceRepo := &recordingSpaceRepo{fakeSpaceRepo{spaces: map[string]*entity.KnowledgeSpace{}}, nil}
	chunkRepo := &recordingChunkRepo{}
	embedder := &flakyEmbeddingProvider{failAll: true}

	cfg := testConfig()
	cfg.Chunking.MinTokens = 400
	cfg.Chunking.MaxTokens = 600
	cfg.Chunking.OverlapTokens = 75

	svc := NewKnowledgeService(spaceRepo, chunkRepo, embedder, nopLogger{}, cfg)

	_, err := svc.Ingest(context.Background(), "acme", &dto.IngestKnowledgeRequest{
		KnowledgeSpaceId: "docs",
		Documents: []dto.IngestDocument{
			{Url: "https://example.com/page-1", Content: "some content"},
		},
	})
	require.Error(t, err)

	var esErr *apperrors.ExternalServiceError
	assert.ErrorAs(t, err, &esErr)
	assert.Nil(t, spaceRepo.saved, "a fully failed ingestion must not advance the version")
}

func TestDeleteUnknownSpace(t *testing.T) {
	spaceRepo := &recordingSpaceRepo{fakeSpaceRepo{spaces: map[string]*entity.KnowledgeSpace{}}, nil}
	chunkRepo := &recordingChunkRepo{}

	svc := NewKnowledgeService(spaceRepo, chunkRepo, &flakyEmbeddingProvider{}, nopLogger{}, testConfig())

	_, err := svc.Delete(context.Background(), "acme", "missing")
	require.Error(t, err)

	var notFound *apperrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

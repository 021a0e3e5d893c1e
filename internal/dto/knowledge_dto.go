package dto

import "time"

type IngestDocument struct {
	Url     string `json:"url" validate:"required,url"`
	Title   string `json:"title"`
	Content string `json:"content" validate:"required"`
}

type IngestKnowledgeRequest struct {
	KnowledgeSpaceId string           `json:"knowledge_space_id" validate:"required"`
	Name             string           `json:"name"`
	SourceType       string           `json:"source_type" validate:"omitempty,oneof=web document"`
	Documents        []IngestDocument `json:"documents" validate:"required,min=1,dive"`
}

type IngestKnowledgeResponse struct {
	KnowledgeSpaceId string `json:"knowledge_space_id"`
	Namespace        string `json:"namespace"`
	ChunksStored     int    `json:"chunks_stored"`
	DocumentsFailed  int    `json:"documents_failed"`
}

type KnowledgeSpaceResponse struct {
	KnowledgeSpaceId string    `json:"knowledge_space_id"`
	Name             string    `json:"name"`
	SourceType       string    `json:"source_type"`
	SourceUrls       []string  `json:"source_urls"`
	CurrentVersion   string    `json:"current_version"`
	ChunkCount       int64     `json:"chunk_count"`
	CreatedAt        time.Time `json:"created_at"`
}

type DeleteKnowledgeResponse struct {
	KnowledgeSpaceId string `json:"knowledge_space_id"`
	Deleted          bool   `json:"deleted"`
}

package entity

import "time"

type KnowledgeSpace struct {
	TenantId         string
	KnowledgeSpaceId string
	Name             string
	SourceType       string // "web" | "document"
	SourceUrls       []string
	CurrentVersion   string // calendar date string
	CreatedAt        time.Time
}

// Namespace derives the vector collection identifier for the space's
// current version.
func (ks *KnowledgeSpace) Namespace() Namespace {
	return NewNamespace(ks.TenantId, ks.KnowledgeSpaceId, ks.CurrentVersion)
}

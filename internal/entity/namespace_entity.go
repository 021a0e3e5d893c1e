package entity

import "fmt"

// Namespace identifies one versioned, tenant- and knowledge-space-scoped
// vector collection. Immutable value derived from a KnowledgeSpace.
type Namespace struct {
	TenantId         string
	KnowledgeSpaceId string
	Version          string // calendar date, e.g. "2025-11-04"
}

func NewNamespace(tenantId, knowledgeSpaceId, version string) Namespace {
	return Namespace{
		TenantId:         tenantId,
		KnowledgeSpaceId: knowledgeSpaceId,
		Version:          version,
	}
}

func (n Namespace) String() string {
	return fmt.Sprintf("t_%s_ks_%s_%s", n.TenantId, n.KnowledgeSpaceId, n.Version)
}

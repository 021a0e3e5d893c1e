package entity

import "time"

type Agent struct {
	TenantId          string
	AgentId           string
	Name              string
	KnowledgeSpaceIds []string // must be non-empty
	StrictRAG         bool
	SystemPrompt      string
	Description       string
	PromptPreset      string
	CreatedAt         time.Time
}

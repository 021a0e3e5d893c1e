package entity

import "time"

// Conversation is one persisted chat turn: the last user message and the
// assistant answer produced for it.
type Conversation struct {
	Id                   string
	TenantId             string
	UserId               string
	AgentId              string
	LastUserMessage      string
	LastAssistantMessage string
	ReferencedUrls       []string
	IsGrounded           bool
	CreatedAt            time.Time
}

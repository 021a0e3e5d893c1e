package dto

// ConversationSavedMessage is the watermill payload handed from the chat
// pipeline to the persistence worker.
type ConversationSavedMessage struct {
	TenantId             string   `json:"tenant_id"`
	UserId               string   `json:"user_id"`
	AgentId              string   `json:"agent_id"`
	LastUserMessage      string   `json:"last_user_message"`
	LastAssistantMessage string   `json:"last_assistant_message"`
	ReferencedUrls       []string `json:"referenced_urls"`
	IsGrounded           bool     `json:"is_grounded"`
}

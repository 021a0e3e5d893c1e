package dto

import "time"

type ConversationResponse struct {
	Id                   string    `json:"id"`
	AgentId              string    `json:"agent_id"`
	LastUserMessage      string    `json:"last_user_message"`
	LastAssistantMessage string    `json:"last_assistant_message"`
	ReferencedUrls       []string  `json:"referenced_urls,omitempty"`
	IsGrounded           bool      `json:"is_grounded"`
	CreatedAt            time.Time `json:"created_at"`
}

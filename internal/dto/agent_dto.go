package dto

import "time"

type CreateAgentRequest struct {
	AgentId           string   `json:"agent_id" validate:"required"`
	Name              string   `json:"name" validate:"required"`
	KnowledgeSpaceIds []string `json:"knowledge_space_ids" validate:"required,min=1"`
	StrictRag         *bool    `json:"strict_rag"`
	SystemPrompt      string   `json:"system_prompt"`
	Description       string   `json:"description"`
	PromptPreset      string   `json:"prompt_preset"`
}

type AgentResponse struct {
	AgentId           string    `json:"agent_id"`
	Name              string    `json:"name"`
	KnowledgeSpaceIds []string  `json:"knowledge_space_ids"`
	StrictRag         bool      `json:"strict_rag"`
	SystemPrompt      string    `json:"system_prompt,omitempty"`
	Description       string    `json:"description,omitempty"`
	PromptPreset      string    `json:"prompt_preset,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

package dto

import (
	"rag-chat-be/internal/constant"
	"rag-chat-be/internal/entity"
)

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content" validate:"required"`
}

type ChatCompletionRequest struct {
	Model    string        `json:"model" validate:"required"`
	Messages []ChatMessage `json:"messages" validate:"required,min=1,dive"`
	Stream   bool          `json:"stream"`
}

type ChatCompletionMessage struct {
	Role       string   `json:"role"`
	Content    string   `json:"content"`
	CitedUrls  []string `json:"citedUrls,omitempty"`
	IsGrounded bool     `json:"isGrounded"`
}

type ChatCompletionChoice struct {
	Index        int                   `json:"index"`
	Message      ChatCompletionMessage `json:"message"`
	FinishReason string                `json:"finish_reason"`
}

type ChatCompletionResponse struct {
	Id      string                 `json:"id"`
	Object  string                 `json:"object"`
	Created int64                  `json:"created"`
	Model   string                 `json:"model"`
	Choices []ChatCompletionChoice `json:"choices"`
}

// NewChatCompletionResponse shapes the non-streaming payload from a finished
// answer. It carries the same fields the final stream frame does.
func NewChatCompletionResponse(result *entity.AnswerResult, created int64) *ChatCompletionResponse {
	return &ChatCompletionResponse{
		Id:      result.Id,
		Object:  constant.ObjectChatCompletion,
		Created: created,
		Model:   result.Model,
		Choices: []ChatCompletionChoice{
			{
				Index: 0,
				Message: ChatCompletionMessage{
					Role:       constant.ChatMessageRoleAssistant,
					Content:    result.AnswerText,
					CitedUrls:  result.CitedUrls,
					IsGrounded: result.IsGrounded,
				},
				FinishReason: constant.FinishReasonStop,
			},
		},
	}
}

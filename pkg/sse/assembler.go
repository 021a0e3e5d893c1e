package sse

import (
	"encoding/json"

	"rag-chat-be/internal/entity"
)

// DoneEvent is the terminal sentinel, byte-exact.
const DoneEvent = "data: [DONE]\n\n"

const chunkObject = "chat.completion.chunk"

// Delta is the incremental payload of one frame. Content is a pointer so an
// empty content frame still serializes the field.
type Delta struct {
	Role       string   `json:"role,omitempty"`
	Content    *string  `json:"content,omitempty"`
	CitedUrls  []string `json:"citedUrls,omitempty"`
	IsGrounded *bool    `json:"isGrounded,omitempty"`
}

type ChunkChoice struct {
	Index        int     `json:"index"`
	Delta        Delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"`
}

type CompletionChunk struct {
	Id      string        `json:"id"`
	Object  string        `json:"object"`
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []ChunkChoice `json:"choices"`
}

// Assembler converts a finished answer into an ordered, replayable frame
// sequence. Given the same answer and created timestamp the output is
// byte-identical, so a retried delivery replays exactly.
type Assembler struct {
	chunkSize int
}

func NewAssembler(chunkSize int) *Assembler {
	return &Assembler{chunkSize: ClampChunkSize(chunkSize)}
}

// Frames produces, in order: one open frame carrying the assistant role,
// one content frame per split substring, one final frame carrying citations
// and the groundedness flag, and the DONE sentinel.
func (a *Assembler) Frames(result *entity.AnswerResult, created int64) []string {
	chunks := SplitAnswer(result.AnswerText, a.chunkSize)
	frames := make([]string, 0, len(chunks)+3)

	frames = append(frames, formatEvent(CompletionChunk{
		Id:      result.Id,
		Object:  chunkObject,
		Created: created,
		Model:   result.Model,
		Choices: []ChunkChoice{{Index: 0, Delta: Delta{Role: "assistant"}}},
	}))

	for _, chunk := range chunks {
		content := chunk
		frames = append(frames, formatEvent(CompletionChunk{
			Id:      result.Id,
			Object:  chunkObject,
			Created: created,
			Model:   result.Model,
			Choices: []ChunkChoice{{Index: 0, Delta: Delta{Content: &content}}},
		}))
	}

	stop := "stop"
	grounded := result.IsGrounded
	frames = append(frames, formatEvent(CompletionChunk{
		Id:      result.Id,
		Object:  chunkObject,
		Created: created,
		Model:   result.Model,
		Choices: []ChunkChoice{{
			Index:        0,
			Delta:        Delta{CitedUrls: result.CitedUrls, IsGrounded: &grounded},
			FinishReason: &stop,
		}},
	}))

	frames = append(frames, DoneEvent)
	return frames
}

func formatEvent(chunk CompletionChunk) string {
	// Marshalling a plain struct of strings and slices cannot fail.
	data, _ := json.Marshal(chunk)
	return "data: " + string(data) + "\n\n"
}

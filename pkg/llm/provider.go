package llm

import (
	"context"
)

// Message is a single turn of a conversation in provider-neutral form.
// Role is one of "system", "user" or "assistant"; each backend maps it
// onto its own wire vocabulary.
type Message struct {
	Role    string
	Content string
}

// Options holds the per-call generation knobs. Zero values mean "use the
// provider default".
type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string
}

type Option func(*Options)

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.MaxTokens = maxTokens
	}
}

// WithModel overrides the model the provider was constructed with for a
// single call.
func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider is the contract every completion backend implements.
type LLMProvider interface {
	// Chat sends a full conversation history and returns the assistant reply.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate wraps a single prompt as a one-turn conversation.
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

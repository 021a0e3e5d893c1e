package chunker

import (
	"rag-chat-be/internal/pkg/apperrors"
)

// Config bounds one chunking pass, measured in model tokens.
type Config struct {
	MinTokens     int
	MaxTokens     int
	OverlapTokens int
}

func (c Config) Validate() error {
	if c.MinTokens <= 0 {
		return apperrors.NewConfigurationError("minTokens must be positive, got %d", c.MinTokens)
	}
	if c.MaxTokens <= c.MinTokens {
		return apperrors.NewConfigurationError("maxTokens (%d) must be greater than minTokens (%d)", c.MaxTokens, c.MinTokens)
	}
	if c.OverlapTokens < 0 {
		return apperrors.NewConfigurationError("overlapTokens must not be negative, got %d", c.OverlapTokens)
	}
	return nil
}

// Chunker splits a document into overlapping token-bounded segments so
// downstream embedding calls never receive an over-length input.
type Chunker struct {
	tokenizer Tokenizer
}

func New(tokenizer Tokenizer) *Chunker {
	if tokenizer == nil {
		tokenizer = NewWhitespaceTokenizer()
	}
	return &Chunker{tokenizer: tokenizer}
}

// Chunk tokenizes the full text once and walks it with a sliding window of
// at most MaxTokens tokens, stepping by windowSize - OverlapTokens. Empty
// input yields exactly one empty segment so callers never see an empty
// slice. Pure function of its inputs.
func (c *Chunker) Chunk(text string, cfg Config) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tokens := c.tokenizer.Encode(text)
	if len(tokens) == 0 {
		return []string{""}, nil
	}

	var chunks []string
	offset := 0
	for {
		window := cfg.MaxTokens
		if remaining := len(tokens) - offset; remaining < window {
			window = remaining
		}

		chunks = append(chunks, c.tokenizer.Decode(tokens[offset:offset+window]))

		if offset+window >= len(tokens) {
			break
		}

		// The floor of 1 prevents an infinite loop when the overlap is as
		// large as the window.
		step := window - cfg.OverlapTokens
		if step < 1 {
			step = 1
		}
		offset += step
	}

	return chunks, nil
}

// TokenCount reports how many tokens a segment holds under this chunker's
// tokenizer. Used by ingestion logging and tests.
func (c *Chunker) TokenCount(text string) int {
	return len(c.tokenizer.Encode(text))
}

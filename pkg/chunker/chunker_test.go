package chunker

import (
	"strings"
	"testing"

	"rag-chat-be/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhitespaceTokenizerRoundTrip(t *testing.T) {
	tok := NewWhitespaceTokenizer()

	cases := []string{
		"",
		"single",
		"two words",
		"  leading spaces",
		"trailing spaces  ",
		"tabs\tand\nnewlines\r\nmixed",
		"日本語 テキスト　with mixed width",
		"emoji 😀 in the middle",
	}

	for _, input := range cases {
		tokens := tok.Encode(input)
		assert.Equal(t, input, tok.Decode(tokens), "round trip must be lossless for %q", input)
	}
}

func TestWhitespaceTokenizerAlternatingRuns(t *testing.T) {
	tok := NewWhitespaceTokenizer()

	tokens := tok.Encode("alpha  beta\tgamma")
	assert.Equal(t, []string{"alpha", "  ", "beta", "\t", "gamma"}, tokens)
}

func TestChunkEmptyInput(t *testing.T) {
	c := New(nil)

	chunks, err := c.Chunk("", Config{MinTokens: 400, MaxTokens: 600, OverlapTokens: 75})
	require.NoError(t, err)
	assert.Equal(t, []string{""}, chunks)
}

func TestChunkShortInputSingleChunk(t *testing.T) {
	c := New(nil)

	chunks, err := c.Chunk("short text only", Config{MinTokens: 400, MaxTokens: 600, OverlapTokens: 75})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text only", chunks[0])
}

func TestChunkWindowBounds(t *testing.T) {
	c := New(nil)
	cfg := Config{MinTokens: 400, MaxTokens: 600, OverlapTokens: 75}

	text := strings.Repeat("Context sentence for overlap. ", 120)

	chunks, err := c.Chunk(text, cfg)
	require.NoError(t, err)
	require.True(t, len(chunks) > 1, "long input must produce multiple chunks")

	for i, chunk := range chunks {
		assert.LessOrEqual(t, c.TokenCount(chunk), cfg.MaxTokens, "chunk %d exceeds the window", i)
		if i < len(chunks)-1 {
			assert.GreaterOrEqual(t, c.TokenCount(chunk), cfg.MinTokens, "chunk %d is below the minimum window", i)
		}
	}
}

func TestChunkOverlapIsCarriedForward(t *testing.T) {
	tok := NewWhitespaceTokenizer()
	c := New(tok)
	cfg := Config{MinTokens: 400, MaxTokens: 600, OverlapTokens: 75}

	text := strings.Repeat("Context sentence for overlap. ", 120)

	chunks, err := c.Chunk(text, cfg)
	require.NoError(t, err)
	require.True(t, len(chunks) > 1)

	for i := 1; i < len(chunks); i++ {
		prev := tok.Encode(chunks[i-1])
		curr := tok.Encode(chunks[i])

		tail := prev[len(prev)-cfg.OverlapTokens:]
		head := curr[:cfg.OverlapTokens]
		assert.Equal(t, tail, head, "chunk %d must begin with the previous chunk's trailing tokens", i)
	}
}

func TestChunkCoversWholeInput(t *testing.T) {
	tok := NewWhitespaceTokenizer()
	c := New(tok)
	cfg := Config{MinTokens: 400, MaxTokens: 600, OverlapTokens: 75}

	text := strings.Repeat("Context sentence for overlap. ", 120)
	total := c.TokenCount(text)

	chunks, err := c.Chunk(text, cfg)
	require.NoError(t, err)

	// Walking the windows at step = window - overlap must end exactly on the
	// last token.
	covered := 0
	for i, chunk := range chunks {
		n := c.TokenCount(chunk)
		if i == 0 {
			covered = n
		} else {
			covered += n - cfg.OverlapTokens
		}
	}
	assert.Equal(t, total, covered)

	// The first window starts the text and the last window ends it.
	assert.True(t, strings.HasPrefix(text, chunks[0]))
	assert.True(t, strings.HasSuffix(text, chunks[len(chunks)-1]))
}

func TestChunkIsDeterministic(t *testing.T) {
	c := New(nil)
	cfg := Config{MinTokens: 400, MaxTokens: 600, OverlapTokens: 75}

	text := strings.Repeat("Context sentence for overlap. ", 120)

	first, err := c.Chunk(text, cfg)
	require.NoError(t, err)
	second, err := c.Chunk(text, cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestChunkOverlapAtLeastWindowStillTerminates(t *testing.T) {
	c := New(nil)

	// Overlap equal to the window forces the minimum step of one token.
	chunks, err := c.Chunk("a b c d e f g h", Config{MinTokens: 1, MaxTokens: 4, OverlapTokens: 4})
	require.NoError(t, err)
	assert.NotEmpty(t, chunks)
}

func TestChunkConfigValidation(t *testing.T) {
	c := New(nil)

	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero min", Config{MinTokens: 0, MaxTokens: 600, OverlapTokens: 75}},
		{"negative min", Config{MinTokens: -1, MaxTokens: 600, OverlapTokens: 75}},
		{"max not above min", Config{MinTokens: 600, MaxTokens: 600, OverlapTokens: 75}},
		{"negative overlap", Config{MinTokens: 400, MaxTokens: 600, OverlapTokens: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Chunk("some text", tc.cfg)
			require.Error(t, err)

			var configErr *apperrors.ConfigurationError
			assert.ErrorAs(t, err, &configErr)
		})
	}
}

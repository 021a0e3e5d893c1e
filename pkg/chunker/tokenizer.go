package chunker

import "strings"

// Tokenizer converts text into a reproducible token sequence and back.
// The scheme has to match whatever the embedding model counts as a token;
// it is injected rather than fixed here so a model-specific encoder can be
// swapped in without touching the windowing logic.
type Tokenizer interface {
	Encode(text string) []string
	Decode(tokens []string) string
}

// WhitespaceTokenizer splits text into alternating runs of non-space and
// space characters. Lossless: Decode(Encode(s)) == s for any input.
type WhitespaceTokenizer struct{}

func NewWhitespaceTokenizer() *WhitespaceTokenizer {
	return &WhitespaceTokenizer{}
}

func (t *WhitespaceTokenizer) Encode(text string) []string {
	if text == "" {
		return nil
	}

	var tokens []string
	runes := []rune(text)
	start := 0
	inSpace := isSpace(runes[0])

	for i := 1; i < len(runes); i++ {
		if isSpace(runes[i]) != inSpace {
			tokens = append(tokens, string(runes[start:i]))
			start = i
			inSpace = !inSpace
		}
	}
	tokens = append(tokens, string(runes[start:]))

	return tokens
}

func (t *WhitespaceTokenizer) Decode(tokens []string) string {
	return strings.Join(tokens, "")
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

package sse

// Stream chunk sizes are measured in Unicode codepoints. Out-of-band values
// are clamped, not rejected.
const (
	MinChunkSize     = 16
	MaxChunkSize     = 256
	DefaultChunkSize = 64
)

func ClampChunkSize(size int) int {
	if size < MinChunkSize {
		return MinChunkSize
	}
	if size > MaxChunkSize {
		return MaxChunkSize
	}
	return size
}

// SplitAnswer cuts content into contiguous substrings of at most size
// codepoints. Slicing runes, never bytes, so a multi-unit codepoint is
// never torn apart. Empty content yields a single empty chunk so the frame
// sequence is never truncated to nothing.
func SplitAnswer(content string, size int) []string {
	size = ClampChunkSize(size)
	if content == "" {
		return []string{""}
	}

	runes := []rune(content)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

package entity

// AnswerResult is the transient outcome of one chat turn. Both the streaming
// and non-streaming delivery paths derive from the same instance so content
// never diverges between them.
type AnswerResult struct {
	Id         string
	Model      string
	AnswerText string
	CitedUrls  []string // ordered by descending score, capped
	IsGrounded bool
}

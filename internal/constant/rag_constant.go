package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	ObjectChatCompletion      = "chat.completion"
	ObjectChatCompletionChunk = "chat.completion.chunk"

	FinishReasonStop = "stop"

	// NoInfoMessage is the exact strict-RAG fallback answer. It must match
	// the instruction in the default prompt below, character for character.
	NoInfoMessage = "このサイトには情報がありませんでした。"

	// DefaultSystemPrompt grounds the model to the retrieved context. Used
	// when the agent carries no system prompt of its own.
	DefaultSystemPrompt = `あなたは公式サポートAIです。
与えられたコンテキストの範囲内のみで回答してください。
コンテキストに情報がない場合は、必ず次のように答えてください：
「このサイトには情報がありませんでした。」

AGENT POLICY:
- 丁寧なビジネス口調で回答してください。
- 推測で回答しないでください。
- 箇条書きが有効な場合は箇条書きを利用してください。`

	ContextHeader = "# Context Documents (DO NOT DISCARD)"

	TaskInstruction = "TASK: 上記のCONTEXTの情報だけに基づいて、ユーザーの質問に日本語で回答してください。"
)

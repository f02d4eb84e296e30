// Shared data models for LLM providers.
package llm

// ChatMessage is a single message in a conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SystemMessage creates a system message.
func SystemMessage(content string) ChatMessage {
	return ChatMessage{Role: "system", Content: content}
}

// UserMessage creates a user message.
func UserMessage(content string) ChatMessage {
	return ChatMessage{Role: "user", Content: content}
}

// AssistantMessage creates an assistant message.
func AssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: "assistant", Content: content}
}

// Response is a completed chat response.
type Response struct {
	Content string
	Usage   *TokenUsage
}

// TokenUsage contains token accounting for a completion.
type TokenUsage struct {
	PromptTokens     uint32
	CompletionTokens uint32
	TotalTokens      uint32
}

// Add accumulates usage from another completion into u.
func (u *TokenUsage) Add(other *TokenUsage) {
	if other == nil {
		return
	}
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// Model identifier constants for the supported providers.

// Groq model identifiers.
const (
	// ModelGroqLlama33 is Llama 3.3 70B Versatile, the default chat model.
	ModelGroqLlama33 = "llama-3.3-70b-versatile"
	// ModelGroqLlama31Instant is Llama 3.1 8B Instant, latency optimized.
	ModelGroqLlama31Instant = "llama-3.1-8b-instant"
)

// OpenAI model identifiers.
const (
	ModelOpenAIGPT4o     = "gpt-4o"
	ModelOpenAIGPT4oMini = "gpt-4o-mini"
)

// Anthropic model identifiers.
const (
	ModelAnthropicSonnet = "claude-sonnet-4-20250514"
	ModelAnthropicHaiku  = "claude-haiku-4-20250514"
)

// DeepSeek model identifiers.
const (
	ModelDeepSeekChat = "deepseek-chat"
)

// Gemini model identifiers.
const (
	ModelGeminiFlash = "gemini-2.0-flash"
)

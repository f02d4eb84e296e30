// Groq Provider implementation.
//
// Groq serves an OpenAI-compatible API at its own base URL, so the
// provider reuses the go-openai client with Groq's endpoint. Llama 3.3
// 70B Versatile is the default model.

package llm

const groqBaseURL = "https://api.groq.com/openai/v1"

// NewGroqProvider creates a new Groq provider.
func NewGroqProvider(apiKey, model string, maxTokens uint32, temperature float32) *OpenAIProvider {
	return newCompatibleProvider("groq", groqBaseURL, apiKey, model, maxTokens, temperature)
}

// DeepSeek Provider implementation.
//
// DeepSeek serves an OpenAI-compatible API with a different base URL.

package llm

const deepseekBaseURL = "https://api.deepseek.com/v1"

// NewDeepSeekProvider creates a new DeepSeek provider.
func NewDeepSeekProvider(apiKey, model string, maxTokens uint32, temperature float32) *OpenAIProvider {
	return newCompatibleProvider("deepseek", deepseekBaseURL, apiKey, model, maxTokens, temperature)
}

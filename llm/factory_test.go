package llm

import (
	"testing"
)

func TestParseProviderType(t *testing.T) {
	cases := []struct {
		in   string
		want ProviderType
	}{
		{"groq", ProviderGroq},
		{"GROQ", ProviderGroq},
		{"llama", ProviderGroq},
		{"openai", ProviderOpenAI},
		{"gpt", ProviderOpenAI},
		{"claude", ProviderAnthropic},
		{"anthropic", ProviderAnthropic},
		{"deepseek", ProviderDeepSeek},
		{"google", ProviderGemini},
	}

	for _, tc := range cases {
		got, err := ParseProviderType(tc.in)
		if err != nil {
			t.Errorf("ParseProviderType(%q) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseProviderType(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseProviderTypeUnknown(t *testing.T) {
	if _, err := ParseProviderType("cohere"); err == nil {
		t.Error("expected error for unsupported provider")
	}
}

func TestFromEnvMissingKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")

	if _, err := ProviderGroq.FromEnv(); err == nil {
		t.Error("expected error when API key env var is unset")
	}
}

func TestBuilderDefaults(t *testing.T) {
	provider, err := ProviderGroq.APIKey("gsk-test")
	if err != nil {
		t.Fatalf("APIKey failed: %v", err)
	}
	if provider.Name() != "groq" {
		t.Errorf("provider name = %q, want groq", provider.Name())
	}
	if provider.Model() != ModelGroqLlama33 {
		t.Errorf("default model = %q, want %q", provider.Model(), ModelGroqLlama33)
	}
}

func TestBuilderCustomModel(t *testing.T) {
	provider, err := ProviderOpenAI.Model(ModelOpenAIGPT4oMini).MaxTokens(512).APIKey("sk-test")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if provider.Model() != ModelOpenAIGPT4oMini {
		t.Errorf("model = %q, want %q", provider.Model(), ModelOpenAIGPT4oMini)
	}
}

func TestTokenUsageAdd(t *testing.T) {
	var total TokenUsage
	total.Add(&TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15})
	total.Add(nil)
	total.Add(&TokenUsage{PromptTokens: 3, CompletionTokens: 2, TotalTokens: 5})

	if total.PromptTokens != 13 || total.CompletionTokens != 7 || total.TotalTokens != 20 {
		t.Errorf("unexpected accumulated usage: %+v", total)
	}
}

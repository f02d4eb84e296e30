package config

import (
	"testing"
	"time"
)

func TestNewDefaultsToGroq(t *testing.T) {
	settings, err := New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != "groq" {
		t.Errorf("expected provider 'groq', got %q", settings.LLM.Provider)
	}
	if settings.LLM.Model != "llama-3.3-70b-versatile" {
		t.Errorf("unexpected default model %q", settings.LLM.Model)
	}
}

func TestNewWithAlias(t *testing.T) {
	settings, err := New("claude")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != "anthropic" {
		t.Errorf("expected provider 'anthropic' (normalized from 'claude'), got %q", settings.LLM.Provider)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New("unknown_provider")
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewDefaults(t *testing.T) {
	settings, err := New("groq")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Temperature != 0.0 {
		t.Errorf("expected temperature 0, got %v", settings.LLM.Temperature)
	}
	if settings.Agent.MaxSteps != 15 {
		t.Errorf("expected 15 max steps, got %d", settings.Agent.MaxSteps)
	}
	if settings.Agent.TurnTimeout != 2*time.Minute {
		t.Errorf("expected 2m turn timeout, got %v", settings.Agent.TurnTimeout)
	}
	if settings.SQL.MaxRows != 200 {
		t.Errorf("expected 200 max rows, got %d", settings.SQL.MaxRows)
	}
	if settings.SQL.MaxOutputBytes != 16*1024 {
		t.Errorf("expected 16KiB output cap, got %d", settings.SQL.MaxOutputBytes)
	}
	if settings.SQL.QueryTimeout != 30*time.Second {
		t.Errorf("expected 30s query timeout, got %v", settings.SQL.QueryTimeout)
	}
}

func TestNewEnvOverrides(t *testing.T) {
	t.Setenv("AGENT_MAX_STEPS", "5")
	t.Setenv("SQL_MAX_ROWS", "25")
	t.Setenv("SQL_QUERY_TIMEOUT_SECONDS", "10")

	settings, err := New("groq")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Agent.MaxSteps != 5 {
		t.Errorf("expected 5 max steps, got %d", settings.Agent.MaxSteps)
	}
	if settings.SQL.MaxRows != 25 {
		t.Errorf("expected 25 max rows, got %d", settings.SQL.MaxRows)
	}
	if settings.SQL.QueryTimeout != 10*time.Second {
		t.Errorf("expected 10s query timeout, got %v", settings.SQL.QueryTimeout)
	}
}

func TestAPIKeyForValidProvider(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "test-key")

	key, err := APIKeyFor("groq")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "test-key" {
		t.Errorf("expected 'test-key', got %q", key)
	}
}

func TestAPIKeyForMissing(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")

	_, err := APIKeyFor("groq")
	if err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestAPIKeyForUnknownProvider(t *testing.T) {
	_, err := APIKeyFor("unknown")
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestModelFor(t *testing.T) {
	model, err := ModelFor("openai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model == "" {
		t.Error("expected non-empty model")
	}
}

func TestModelForEnvOverride(t *testing.T) {
	t.Setenv("GROQ_MODEL", "llama-3.1-8b-instant")

	model, err := ModelFor("groq")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model != "llama-3.1-8b-instant" {
		t.Errorf("expected env override, got %q", model)
	}
}

func TestNewWithInvalidEnvVar(t *testing.T) {
	t.Setenv("LLM_MAX_TOKENS", "not-a-number")

	_, err := New("groq")
	if err == nil {
		t.Error("expected error for invalid LLM_MAX_TOKENS")
	}
}

func TestNewWithInvalidTimeout(t *testing.T) {
	t.Setenv("AGENT_TURN_TIMEOUT_SECONDS", "-3")

	_, err := New("groq")
	if err == nil {
		t.Error("expected error for negative timeout")
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for unknown provider")
		}
	}()
	MustNew("unknown_provider")
}

func TestSupportedProviders(t *testing.T) {
	providers := SupportedProviders()
	if len(providers) == 0 {
		t.Error("expected at least one supported provider")
	}
}

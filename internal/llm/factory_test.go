package llm

import (
	"testing"

	"github.com/ukaji/marketbrief/internal/model"
)

func TestConfigFromModel_CarriesProxySettings(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = "ollama"
	cfg.LLM.Model = "llama3.1"
	cfg.HTTP.HTTPProxy = "http://proxy.internal:3128"
	cfg.HTTP.HTTPSProxy = "http://proxy.internal:3129"

	got := ConfigFromModel(cfg)

	if got.Provider != "ollama" || got.Model != "llama3.1" {
		t.Errorf("Expected provider settings carried, got %+v", got)
	}
	if got.HTTPProxy != "http://proxy.internal:3128" {
		t.Errorf("Expected HTTP proxy carried from HTTP config, got %q", got.HTTPProxy)
	}
	if got.HTTPSProxy != "http://proxy.internal:3129" {
		t.Errorf("Expected HTTPS proxy carried from HTTP config, got %q", got.HTTPSProxy)
	}
	if !got.StrictEvidence {
		t.Error("Expected strict evidence default carried")
	}
}

func TestNewProvider_Selection(t *testing.T) {
	if p, err := NewProvider(Config{Provider: ""}); err != nil || p != nil {
		t.Errorf("Expected disabled provider for empty name, got %v, %v", p, err)
	}

	if _, err := NewProvider(Config{Provider: "openai"}); err == nil {
		t.Error("Expected error for openai without API key")
	}

	p, err := NewProvider(Config{Provider: "claude", APIKey: "test-key"})
	if err != nil {
		t.Fatalf("Expected claude alias to resolve, got %v", err)
	}
	if p.Name() != "anthropic" {
		t.Errorf("Expected anthropic provider for claude alias, got %q", p.Name())
	}

	if _, err := NewProvider(Config{Provider: "mystery"}); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

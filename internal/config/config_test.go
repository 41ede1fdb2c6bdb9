package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != "backend" {
		t.Errorf("mode = %q, want backend", cfg.Mode)
	}
	if cfg.Chat.MaxTokens != 150 || cfg.Chat.Temperature != 0.7 {
		t.Errorf("chat defaults = %+v", cfg.Chat)
	}
	if cfg.Chat.HistoryLimit != 10 || cfg.Chat.TokenLimit != 4000 {
		t.Errorf("history defaults = %+v", cfg.Chat)
	}
	if cfg.RateLimit.Requests != 3 || cfg.Window() != time.Minute {
		t.Errorf("rate limit defaults = %+v", cfg.RateLimit)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", cfg.Timeout())
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
mode: backend
backend:
  base_url: https://api.squad.example
  timeout_secs: 10
chat:
  max_tokens: 300
rate_limit:
  requests: 5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.BaseURL != "https://api.squad.example" {
		t.Errorf("base url = %q", cfg.Backend.BaseURL)
	}
	if cfg.Timeout() != 10*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout())
	}
	if cfg.Chat.MaxTokens != 300 {
		t.Errorf("max tokens = %d", cfg.Chat.MaxTokens)
	}
	// Unset fields keep their defaults.
	if cfg.Chat.Temperature != 0.7 {
		t.Errorf("temperature = %v, want default", cfg.Chat.Temperature)
	}
	if cfg.RateLimit.Requests != 5 {
		t.Errorf("rate limit = %d", cfg.RateLimit.Requests)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
mode: backend
backend:
  base_url: https://file.example
`)
	t.Setenv("SQUAD_BASE_URL", "https://env.example")
	t.Setenv("SQUAD_MODE", "backend")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.BaseURL != "https://env.example" {
		t.Errorf("base url = %q, want env override", cfg.Backend.BaseURL)
	}
}

func TestDirectModeRequiresAPIKey(t *testing.T) {
	path := writeConfig(t, `
mode: direct
provider: openai
`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted direct mode without an API key")
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load with env key: %v", err)
	}
	if cfg.Providers["openai"].APIKey != "sk-test" {
		t.Errorf("api key = %q", cfg.Providers["openai"].APIKey)
	}
}

func TestLLMEnvConfiguresSelectedProvider(t *testing.T) {
	path := writeConfig(t, `
mode: direct
provider: openai
`)
	t.Setenv("LLM_API_KEY", "sk-generic")
	t.Setenv("LLM_BASE_URL", "https://api.deepseek.com/v1")
	t.Setenv("LLM_MODEL", "deepseek-chat")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	p := cfg.Providers["openai"]
	if p.APIKey != "sk-generic" || p.BaseURL != "https://api.deepseek.com/v1" || p.Model != "deepseek-chat" {
		t.Errorf("provider config = %+v", p)
	}
}

func TestValidateRejectsUnknownMode(t *testing.T) {
	cfg := Default()
	cfg.Mode = "hybrid"
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate accepted unknown mode")
	}
}

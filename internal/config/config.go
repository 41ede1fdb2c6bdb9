// Package config loads and manages squadctl configuration.
// Configuration source priority (highest to lowest):
// 1. Environment variables (SQUAD_MODE, SQUAD_BASE_URL, LLM_API_KEY, etc.)
// 2. Config file path specified via --config flag
// 3. ~/.config/squadctl/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// BackendConfig describes the Squad backend deployment.
type BackendConfig struct {
	BaseURL     string `yaml:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// ProviderConfig holds credentials and routing for one direct-model
// provider.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// ChatConfig carries the generation parameters applied to every send.
type ChatConfig struct {
	MaxTokens    int     `yaml:"max_tokens"`
	Temperature  float64 `yaml:"temperature"`
	HistoryLimit int     `yaml:"history_limit"`
	TokenLimit   int     `yaml:"token_limit"`
	Language     string  `yaml:"language"`
}

// RateLimitConfig bounds outbound AI requests per fixed window.
type RateLimitConfig struct {
	Requests   int `yaml:"requests"`
	WindowSecs int `yaml:"window_secs"`
}

// Config is the root configuration.
type Config struct {
	// Mode is "backend" (route through the Squad backend) or "direct"
	// (call a model API with a local key).
	Mode string `yaml:"mode"`

	Backend BackendConfig `yaml:"backend"`

	// Provider selects the direct-mode vendor ("openai" or "anthropic").
	Provider  string                    `yaml:"provider"`
	Providers map[string]ProviderConfig `yaml:"providers"`

	Chat      ChatConfig      `yaml:"chat"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// DBPath overrides the message database location.
	DBPath string `yaml:"db_path"`
	// CredentialsPath overrides the credential file location.
	CredentialsPath string `yaml:"credentials_path"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Mode: "backend",
		Backend: BackendConfig{
			BaseURL:     "http://localhost:3000",
			TimeoutSecs: 30,
		},
		Provider:  "openai",
		Providers: map[string]ProviderConfig{},
		Chat: ChatConfig{
			MaxTokens:    150,
			Temperature:  0.7,
			HistoryLimit: 10,
			TokenLimit:   4000,
		},
		RateLimit: RateLimitConfig{
			Requests:   3,
			WindowSecs: 60,
		},
	}
}

// DefaultPath returns ~/.config/squadctl/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "squadctl", "config.yaml"), nil
}

// Load reads the config file at path (or the default path when empty),
// fills in defaults for anything unset, and applies environment
// overrides. A missing file yields the defaults, not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SQUAD_MODE"); v != "" {
		c.Mode = v
	}
	if v := os.Getenv("SQUAD_BASE_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("SQUAD_PROVIDER"); v != "" {
		c.Provider = v
	}
	if c.Providers == nil {
		c.Providers = map[string]ProviderConfig{}
	}
	// Generic LLM_* variables configure whichever provider is selected;
	// vendor keys configure their own provider.
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		p := c.Providers[c.Provider]
		p.APIKey = v
		c.Providers[c.Provider] = p
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		p := c.Providers[c.Provider]
		p.BaseURL = v
		c.Providers[c.Provider] = p
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		p := c.Providers[c.Provider]
		p.Model = v
		c.Providers[c.Provider] = p
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		p := c.Providers["openai"]
		if p.APIKey == "" {
			p.APIKey = v
			c.Providers["openai"] = p
		}
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		p := c.Providers["anthropic"]
		if p.APIKey == "" {
			p.APIKey = v
			c.Providers["anthropic"] = p
		}
	}
	if v := os.Getenv("SQUAD_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.RateLimit.Requests = n
		}
	}
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.Mode == "" {
		c.Mode = def.Mode
	}
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = def.Backend.BaseURL
	}
	if c.Backend.TimeoutSecs <= 0 {
		c.Backend.TimeoutSecs = def.Backend.TimeoutSecs
	}
	if c.Provider == "" {
		c.Provider = def.Provider
	}
	if c.Chat.MaxTokens <= 0 {
		c.Chat.MaxTokens = def.Chat.MaxTokens
	}
	if c.Chat.Temperature <= 0 {
		c.Chat.Temperature = def.Chat.Temperature
	}
	if c.Chat.HistoryLimit <= 0 {
		c.Chat.HistoryLimit = def.Chat.HistoryLimit
	}
	if c.Chat.TokenLimit <= 0 {
		c.Chat.TokenLimit = def.Chat.TokenLimit
	}
	if c.RateLimit.Requests <= 0 {
		c.RateLimit.Requests = def.RateLimit.Requests
	}
	if c.RateLimit.WindowSecs <= 0 {
		c.RateLimit.WindowSecs = def.RateLimit.WindowSecs
	}
}

// Validate rejects configurations the client cannot run with.
func (c *Config) Validate() error {
	switch c.Mode {
	case "backend", "direct":
	default:
		return fmt.Errorf("invalid mode %q (want backend or direct)", c.Mode)
	}
	if c.Mode == "backend" && c.Backend.BaseURL == "" {
		return fmt.Errorf("backend mode requires backend.base_url")
	}
	if c.Mode == "direct" {
		p, ok := c.Providers[c.Provider]
		if !ok || p.APIKey == "" {
			return fmt.Errorf("direct mode requires an API key for provider %q", c.Provider)
		}
	}
	return nil
}

// Timeout returns the backend request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSecs) * time.Second
}

// Window returns the rate limit window.
func (c *Config) Window() time.Duration {
	return time.Duration(c.RateLimit.WindowSecs) * time.Second
}

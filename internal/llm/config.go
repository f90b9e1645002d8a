package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects the backend: "anthropic", "openai", "gemini",
	// "openrouter" or "mock". Empty disables the tutor.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single request including retries.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for compatible APIs
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a disabled Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// Enabled reports whether a provider is selected.
func (c Config) Enabled() bool {
	return c.Provider != ""
}

// ApplyEnv overrides c with LINGODRILL_* environment variables.
func (c *Config) ApplyEnv() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Provider, "LINGODRILL_LLM_PROVIDER")
	set(&c.Anthropic.APIKey, "LINGODRILL_ANTHROPIC_API_KEY")
	set(&c.Anthropic.Model, "LINGODRILL_ANTHROPIC_MODEL")
	set(&c.OpenAI.APIKey, "LINGODRILL_OPENAI_API_KEY")
	set(&c.OpenAI.Model, "LINGODRILL_OPENAI_MODEL")
	set(&c.OpenAI.BaseURL, "LINGODRILL_OPENAI_BASE_URL")
	set(&c.Gemini.APIKey, "LINGODRILL_GEMINI_API_KEY")
	set(&c.Gemini.Model, "LINGODRILL_GEMINI_MODEL")
	set(&c.OpenRouter.APIKey, "LINGODRILL_OPENROUTER_API_KEY")
	set(&c.OpenRouter.Model, "LINGODRILL_OPENROUTER_MODEL")
}

// Discover fills in a provider from the standard vendor API key variables
// when none is selected. Probe order: Gemini, OpenAI, Anthropic, OpenRouter.
func (c *Config) Discover() bool {
	if c.Enabled() {
		return true
	}
	probes := []struct {
		env      string
		provider string
		key      *string
	}{
		{"GEMINI_API_KEY", "gemini", &c.Gemini.APIKey},
		{"OPENAI_API_KEY", "openai", &c.OpenAI.APIKey},
		{"ANTHROPIC_API_KEY", "anthropic", &c.Anthropic.APIKey},
		{"OPENROUTER_API_KEY", "openrouter", &c.OpenRouter.APIKey},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			c.Provider = p.provider
			*p.key = k
			return true
		}
	}
	return false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case "", "mock":
		return nil
	case "anthropic":
		key, env = c.Anthropic.APIKey, "LINGODRILL_ANTHROPIC_API_KEY"
	case "openai":
		key, env = c.OpenAI.APIKey, "LINGODRILL_OPENAI_API_KEY"
	case "gemini":
		key, env = c.Gemini.APIKey, "LINGODRILL_GEMINI_API_KEY"
	case "openrouter":
		key, env = c.OpenRouter.APIKey, "LINGODRILL_OPENROUTER_API_KEY"
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}

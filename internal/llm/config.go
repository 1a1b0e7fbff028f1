package llm

import (
	"fmt"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// defaultModels are the friendly model names used when Config.Model is empty.
var defaultModels = map[string]string{
	ProviderAnthropic:  "claude-haiku",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderGemini:     "gemini-flash",
	ProviderOpenRouter: "google/gemini-2.0-flash-001",
}

// apiKeyEnv lists the conventional API key variable per provider, in the
// order they are probed when no provider is configured.
var apiKeyEnv = []struct {
	provider string
	env      string
}{
	{ProviderGemini, "GEMINI_API_KEY"},
	{ProviderOpenAI, "OPENAI_API_KEY"},
	{ProviderAnthropic, "ANTHROPIC_API_KEY"},
	{ProviderOpenRouter, "OPENROUTER_API_KEY"},
}

// Config selects and configures the card generation model.
type Config struct {
	// Provider is one of anthropic, openai, gemini, openrouter or mock.
	// Empty means discover from the conventional API key variables.
	Provider string `koanf:"provider" json:"provider"`

	// Model is a friendly name (claude-haiku, gpt-4o-mini, gemini-flash)
	// or a raw model ID. Empty uses the provider default.
	Model string `koanf:"model" json:"model"`

	APIKey  string `koanf:"api_key" json:"-"`
	BaseURL string `koanf:"base_url" json:"base_url,omitempty"`

	// MaxRetries is the number of attempts for transient failures.
	MaxRetries int `koanf:"max_retries" json:"max_retries"`

	// Timeout bounds one Generate call, retries included.
	Timeout time.Duration `koanf:"timeout" json:"timeout"`
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
	BaseURL string // OpenAI-compatible endpoint override
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
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config that discovers its provider from the
// environment.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		Timeout:    90 * time.Second,
	}
}

// DefaultRetryConfig returns the backoff used by NewProvider.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Second,
		MaxWait:     10 * time.Second,
		Multiplier:  2.0,
	}
}

// Resolve fills the provider and API key from conventional variables
// (GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY)
// when they are not set explicitly, and applies the provider's default
// model.
func (c Config) Resolve(getenv func(string) string) Config {
	if c.Provider == "" {
		for _, e := range apiKeyEnv {
			if k := getenv(e.env); k != "" {
				c.Provider = e.provider
				if c.APIKey == "" {
					c.APIKey = k
				}
				break
			}
		}
	}
	if c.APIKey == "" {
		for _, e := range apiKeyEnv {
			if e.provider == c.Provider {
				c.APIKey = getenv(e.env)
			}
		}
	}
	if c.Model == "" {
		c.Model = defaultModels[c.Provider]
	}
	return c
}

// Validate checks that a provider is selected and has its API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter:
		if c.APIKey == "" {
			return fmt.Errorf("an API key is required for the %s provider (set llm.api_key or %s)", c.Provider, keyEnvFor(c.Provider))
		}
	case ProviderMock:
	case "":
		return fmt.Errorf("no LLM provider configured: set llm.provider or one of GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY")
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("llm.max_retries must not be negative")
	}
	return nil
}

func (c Config) retry() RetryConfig {
	r := DefaultRetryConfig()
	if c.MaxRetries > 0 {
		r.MaxAttempts = c.MaxRetries
	}
	return r
}

func keyEnvFor(provider string) string {
	for _, e := range apiKeyEnv {
		if e.provider == provider {
			return e.env
		}
	}
	return ""
}

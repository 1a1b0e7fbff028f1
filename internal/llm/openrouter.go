package llm

import "errors"

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider reaches many vendors through OpenRouter's
// OpenAI-compatible endpoint. Models are "vendor/model" IDs and are sent
// as given.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider builds a provider for cfg.Model.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter: API key is required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = openRouterBaseURL
	}
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: cfg.APIKey, BaseURL: base})
	if err != nil {
		return nil, err
	}
	p.model = cfg.Model
	return &OpenRouterProvider{OpenAIProvider: p}, nil
}

package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/flashdeck/internal/store"
)

// NewProvider creates the configured Provider wrapped with timeout, retry
// and request logging: caller → timeout → retry → logging → base.
// cfg must already be resolved and valid.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, logger *slog.Logger) (Provider, error) {
	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(AnthropicConfig{APIKey: cfg.APIKey, Model: cfg.Model})
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(OpenAIConfig{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL})
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, GeminiConfig{APIKey: cfg.APIKey, Model: cfg.Model})
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(OpenRouterConfig{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL})
	case ProviderMock:
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	p := WithLogging(base, cfg.Provider, events, logger)
	p = WithRetry(p, cfg.retry())
	if cfg.Timeout > 0 {
		p = WithTimeout(p, cfg.Timeout)
	}
	return p, nil
}

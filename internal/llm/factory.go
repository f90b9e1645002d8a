package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/lingodrill/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped as
// caller → retry → logging → base. events may be nil.
func NewProvider(ctx context.Context, cfg Config, logger *slog.Logger, events store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		base = NewMockProvider()
	case "":
		return nil, fmt.Errorf("no LLM provider configured")
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithRetry(WithLogging(base, logger, events), cfg.Retry), nil
}

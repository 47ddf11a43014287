package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/lexicon/internal/logger"
)

// NewProvider builds the configured provider wrapped as
// caller → retry → logging → provider, so every attempt is recorded.
func NewProvider(ctx context.Context, cfg Config, recorder EventRecorder, log *logger.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initialize %s provider: %w", cfg.Provider, err)
	}

	log.Info("llm provider ready", "provider", cfg.Provider, "model", base.ModelID())
	return WithRetry(WithLogging(base, cfg.Provider, recorder, log), cfg.Retry), nil
}

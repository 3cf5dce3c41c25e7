package llm

import (
	"context"
	"fmt"
)

// NewProvider builds the configured provider wrapped with logging and
// retry decorators. Events flow to sink; pass nil to skip logging.
func NewProvider(ctx context.Context, cfg Config, sink EventSink) (Provider, error) {
	var base Provider
	var err error

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
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Caller sees retry → logging → vendor, so every attempt is logged.
	var p Provider = base
	if sink != nil {
		p = WithLogging(p, sink)
	}
	return WithRetry(p, cfg.Retry), nil
}

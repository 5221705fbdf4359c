package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/kinbot/internal/config"
	"github.com/sandevgo/kinbot/internal/core"
	"github.com/sandevgo/kinbot/pkg/log"
)

// NewProvider creates the completion provider named in the configuration.
func NewProvider(ctx context.Context, cfg *config.ProviderConfig) (core.Completer, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Msg("starting llm provider")

	switch cfg.Provider {
	case "openai":
		p := NewOpenAI(cfg.OpenAIAPIKey, cfg.Model)
		p.setTimeout(cfg.Timeout)
		return p, nil
	case "anthropic":
		p := NewAnthropic(cfg.AnthropicAPIKey, cfg.Model)
		p.setTimeout(cfg.Timeout)
		return p, nil
	case "openrouter":
		p := NewOpenRouter(cfg.OpenRouterAPIKey, cfg.Model)
		p.setTimeout(cfg.Timeout)
		return p, nil
	case "ollama":
		p := NewOllama(cfg.OllamaBaseURL, cfg.OllamaAPIKey, cfg.Model)
		p.setTimeout(cfg.Timeout)
		return p, nil
	case "custom":
		if cfg.CustomOpenAIBaseURL == "" {
			return nil, fmt.Errorf("custom provider requires CUSTOM_OPENAI_BASE_URL")
		}
		p := NewCustomOpenAI(cfg.CustomOpenAIBaseURL, cfg.CustomOpenAIAPIKey, cfg.Model)
		p.setTimeout(cfg.Timeout)
		return p, nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

func (b *baseProvider) setTimeout(d time.Duration) {
	if d > 0 {
		b.client.Timeout = d
	}
}

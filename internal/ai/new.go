package ai

import (
	"context"
	"fmt"

	"ChatGateway/internal/config"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// New создаёт клиента выбранного в конфиге провайдера.
func New(ctx context.Context, cfg config.ChatConfig, logger *zap.SugaredLogger) (Client, error) {
	log := logger.Named(cfg.Provider)

	switch cfg.Provider {
	case config.ProviderOpenAI:
		opts := []option.RequestOption{option.WithAPIKey(cfg.OpenAIAPIKey)}
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.OpenAIBaseURL))
		}
		client := openai.NewClient(opts...)
		return NewOpenAIClient(&client, cfg.Model, log), nil

	case config.ProviderAnthropic:
		opts := []anthropicoption.RequestOption{anthropicoption.WithAPIKey(cfg.AnthropicAPIKey)}
		if cfg.AnthropicBaseURL != "" {
			opts = append(opts, anthropicoption.WithBaseURL(cfg.AnthropicBaseURL))
		}
		client := anthropic.NewClient(opts...)
		return NewAnthropicClient(&client, cfg.Model, cfg.MaxTokens, log), nil

	case config.ProviderGemini:
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		return NewGeminiClient(client, cfg.Model, log), nil

	case config.ProviderStub:
		return NewStubClient(), nil
	}

	return nil, fmt.Errorf("unknown chat provider %q", cfg.Provider)
}

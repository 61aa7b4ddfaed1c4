package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"go.uber.org/zap"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

// AnthropicClient отправляет текст и картинки в Claude через Messages API.
type AnthropicClient struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
	logger    *zap.SugaredLogger
}

func NewAnthropicClient(client *anthropic.Client, model string, maxTokens int64, logger *zap.SugaredLogger) *AnthropicClient {
	if model == "" {
		model = defaultAnthropicModel
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &AnthropicClient{client: client, model: model, maxTokens: maxTokens, logger: logger}
}

func (c *AnthropicClient) SendText(ctx context.Context, text string) (string, error) {
	return c.send(ctx, anthropic.NewTextBlock(text))
}

func (c *AnthropicClient) SendImage(ctx context.Context, text string, media Media) (string, error) {
	if len(media.Data) == 0 {
		return "", fmt.Errorf("image is empty: %s", media.Filename)
	}
	return c.send(ctx,
		anthropic.NewTextBlock(text),
		anthropic.NewImageBlockBase64(media.MimeType, base64.StdEncoding.EncodeToString(media.Data)),
	)
}

func (c *AnthropicClient) send(ctx context.Context, blocks ...anthropic.ContentBlockParamUnion) (string, error) {
	start := time.Now()
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
	})
	dur := time.Since(start)
	if err != nil {
		c.logger.Errorw("Anthropic request failed", "model", c.model, "duration", dur.String(), "error", err)
		return "", fmt.Errorf("claude API call: %w", err)
	}
	c.logger.Infow("Anthropic response received",
		"model", c.model,
		"duration", dur.String(),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)

	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.AsText().Text)
		}
	}
	return out.String(), nil
}

package ai

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiClient отправляет текст и картинки в Gemini через google.golang.org/genai.
type GeminiClient struct {
	client *genai.Client
	model  string
	logger *zap.SugaredLogger
}

func NewGeminiClient(client *genai.Client, model string, logger *zap.SugaredLogger) *GeminiClient {
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClient{client: client, model: model, logger: logger}
}

func (c *GeminiClient) SendText(ctx context.Context, text string) (string, error) {
	return c.send(ctx, genai.NewPartFromText(text))
}

func (c *GeminiClient) SendImage(ctx context.Context, text string, media Media) (string, error) {
	if len(media.Data) == 0 {
		return "", fmt.Errorf("image is empty: %s", media.Filename)
	}
	return c.send(ctx,
		genai.NewPartFromText(text),
		genai.NewPartFromBytes(media.Data, media.MimeType),
	)
}

func (c *GeminiClient) send(ctx context.Context, parts ...*genai.Part) (string, error) {
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	dur := time.Since(start)
	if err != nil {
		c.logger.Errorw("Gemini request failed", "model", c.model, "duration", dur.String(), "error", err)
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	c.logger.Infow("Gemini response received", "model", c.model, "duration", dur.String())

	return resp.Text(), nil
}

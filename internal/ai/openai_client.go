package ai

import (
	"context"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/responses"
	"go.uber.org/zap"
)

// OpenAIClient отправляет текст и картинки в OpenAI через Responses API.
type OpenAIClient struct {
	client *openai.Client
	model  string
	logger *zap.SugaredLogger
}

func NewOpenAIClient(client *openai.Client, model string, logger *zap.SugaredLogger) *OpenAIClient {
	if model == "" {
		model = string(openai.ChatModelGPT4o)
	}
	return &OpenAIClient{client: client, model: model, logger: logger}
}

func (c *OpenAIClient) SendText(ctx context.Context, text string) (string, error) {
	return c.send(ctx, responses.ResponseInputMessageContentListParam{
		responses.ResponseInputContentParamOfInputText(text),
	})
}

func (c *OpenAIClient) SendImage(ctx context.Context, text string, media Media) (string, error) {
	dataURL, err := media.DataURL()
	if err != nil {
		return "", err
	}
	imageParam := responses.ResponseInputContentParamOfInputImage(responses.ResponseInputImageDetailAuto)
	imageParam.OfInputImage.ImageURL = openai.String(dataURL)

	return c.send(ctx, responses.ResponseInputMessageContentListParam{
		responses.ResponseInputContentParamOfInputText(text),
		imageParam,
	})
}

func (c *OpenAIClient) send(ctx context.Context, content responses.ResponseInputMessageContentListParam) (string, error) {
	params := responses.ResponseNewParams{
		Model: c.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(content, responses.EasyInputMessageRoleUser),
			},
		},
	}

	start := time.Now()
	resp, err := c.client.Responses.New(ctx, params)
	dur := time.Since(start)
	if err != nil {
		c.logger.Errorw("OpenAI request failed", "model", c.model, "duration", dur.String(), "error", err)
		return "", err
	}
	c.logger.Infow("OpenAI response received", "model", c.model, "duration", dur.String())

	return resp.OutputText(), nil
}

package chat

import (
	"context"
	"strings"

	"ChatGateway/internal/ai"
	"ChatGateway/internal/service/image"

	"go.uber.org/zap"
)

// ErrImageURLRequired пустая ссылка на картинку.
var ErrImageURLRequired = &image.Error{Kind: image.KindInvalidReference, Msg: "Image URL is required"}

// ImageResolver загружает картинку по ссылке.
type ImageResolver interface {
	Resolve(ctx context.Context, ref string) (image.Resolved, error)
}

// Gateway пересылает вопросы пользователя в чат-модель.
type Gateway struct {
	client   ai.Client
	resolver ImageResolver
	mime     image.MimeParser
	logger   *zap.SugaredLogger
}

func NewGateway(client ai.Client, resolver ImageResolver, mime image.MimeParser, logger *zap.SugaredLogger) *Gateway {
	if mime == nil {
		mime = image.StdMimeParser{}
	}
	return &Gateway{client: client, resolver: resolver, mime: mime, logger: logger}
}

// TextChat отправляет вопрос как есть. Ошибки клиента не классифицируются.
func (g *Gateway) TextChat(ctx context.Context, question string) (string, error) {
	return g.client.SendText(ctx, question)
}

// ImageChat загружает картинку и отправляет её вместе с вопросом.
// Ошибки загрузки несут вид image.Kind; ошибки чата возвращаются как есть.
func (g *Gateway) ImageChat(ctx context.Context, question, imageURL string) (string, error) {
	if strings.TrimSpace(imageURL) == "" {
		return "", ErrImageURLRequired
	}

	img, err := g.resolver.Resolve(ctx, imageURL)
	if err != nil {
		g.logger.Warnw("Image resolve failed", "kind", image.KindOf(err).String(), "error", err)
		return "", err
	}

	mt := g.mime.ParseOrDefault(img.MimeType)
	g.logger.Debugw("Image resolved", "filename", img.Filename, "mime", mt.Essence(), "bytes", len(img.Data))

	return g.client.SendImage(ctx, question, ai.Media{
		MimeType: mt.Essence(),
		Data:     img.Data,
		Filename: img.Filename,
	})
}

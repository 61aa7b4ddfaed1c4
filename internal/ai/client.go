package ai

import (
	"context"
	"encoding/base64"
	"fmt"
)

// Client интерфейс для взаимодействия с AI. Все реализации должны быть взаимозаменяемыми.
type Client interface {
	// SendText отправляет одиночный текстовый запрос и возвращает текст ответа.
	SendText(ctx context.Context, text string) (string, error)
	// SendImage отправляет текст вместе с картинкой.
	SendImage(ctx context.Context, text string, media Media) (string, error)
}

// Media вложение-картинка для мультимодального запроса.
type Media struct {
	MimeType string
	Data     []byte
	Filename string
}

// DataURL кодирует картинку в data URL (base64).
func (m Media) DataURL() (string, error) {
	if len(m.Data) == 0 {
		return "", fmt.Errorf("image is empty: %s", m.Filename)
	}
	contentType := m.MimeType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(m.Data)), nil
}

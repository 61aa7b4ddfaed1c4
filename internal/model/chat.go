package model

// TextChatRequest тело запроса POST /api/chat/text
type TextChatRequest struct {
	Question string `json:"question"`
}

// ImageChatRequest тело запроса POST /api/chat/image.
// ImageURL - data URL (base64), путь к файлу / file: URI или http(s) URL.
type ImageChatRequest struct {
	Question string `json:"question"`
	ImageURL string `json:"imageUrl"`
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"ChatGateway/internal/model"
	"ChatGateway/internal/service/chat"
	"ChatGateway/internal/service/image"

	"go.uber.org/zap"
)

// ChatService операции шлюза, которые обслуживает HTTP-слой.
type ChatService interface {
	TextChat(ctx context.Context, question string) (string, error)
	ImageChat(ctx context.Context, question, imageURL string) (string, error)
}

// Handler HTTP-обработчики чата.
type Handler struct {
	chat            ChatService
	maxRequestBytes int64
	logger          *zap.SugaredLogger
}

func NewHandler(svc ChatService, maxRequestBytes int64, logger *zap.SugaredLogger) *Handler {
	return &Handler{chat: svc, maxRequestBytes: maxRequestBytes, logger: logger}
}

// HandleHealth проверка живости.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "OK")
}

// HandleTextChat POST /api/chat/text
func (h *Handler) HandleTextChat(w http.ResponseWriter, r *http.Request) {
	var req model.TextChatRequest
	if !h.decode(w, r, &req) {
		return
	}

	reply, err := h.chat.TextChat(r.Context(), req.Question)
	if err != nil {
		h.logger.Errorw("Text chat failed", "error", err)
		writeText(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	writeText(w, http.StatusOK, reply)
}

// HandleImageChat POST /api/chat/image
func (h *Handler) HandleImageChat(w http.ResponseWriter, r *http.Request) {
	var req model.ImageChatRequest
	if !h.decode(w, r, &req) {
		return
	}

	reply, err := h.chat.ImageChat(r.Context(), req.Question, req.ImageURL)
	if err == nil {
		writeText(w, http.StatusOK, reply)
		return
	}

	switch image.KindOf(err) {
	case image.KindInvalidReference:
		if errors.Is(err, chat.ErrImageURLRequired) {
			writeText(w, http.StatusBadRequest, err.Error())
			return
		}
		writeText(w, http.StatusBadRequest, "Invalid image input: "+err.Error())
	case image.KindFetchFailure, image.KindUnclassified:
		h.logger.Errorw("Image chat failed", "kind", image.KindOf(err).String(), "error", err)
		writeText(w, http.StatusInternalServerError, "Failed to process image: "+err.Error())
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := r.Body
	if h.maxRequestBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxRequestBytes)
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeText(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		h.logger.Debugw("Invalid request body", "error", err)
		writeText(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

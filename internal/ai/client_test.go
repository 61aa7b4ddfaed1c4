package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ChatGateway/internal/config"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

var testImage = Media{MimeType: "image/png", Data: []byte("fake-png-bytes"), Filename: "image.png"}

// captureServer отвечает фиксированным JSON и запоминает тело последнего запроса.
func captureServer(t *testing.T, pathSuffix, response string) (*httptest.Server, *map[string]any) {
	t.Helper()
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, pathSuffix) {
			t.Errorf("unexpected path %s, want suffix %s", r.URL.Path, pathSuffix)
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		captured = nil
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestMediaDataURL(t *testing.T) {
	got, err := testImage.DataURL()
	if err != nil {
		t.Fatalf("DataURL() error: %v", err)
	}
	want := "data:image/png;base64," + base64.StdEncoding.EncodeToString(testImage.Data)
	if got != want {
		t.Errorf("DataURL() = %q, want %q", got, want)
	}

	if _, err := (Media{Filename: "x.png"}).DataURL(); err == nil {
		t.Error("DataURL() on empty media expected error")
	}
}

const openAIResponse = `{
  "id": "resp_1",
  "object": "response",
  "created_at": 1,
  "model": "gpt-4o",
  "status": "completed",
  "output": [{
    "type": "message",
    "id": "msg_1",
    "role": "assistant",
    "status": "completed",
    "content": [{"type": "output_text", "text": "a cat", "annotations": []}]
  }]
}`

func newTestOpenAI(t *testing.T, srv *httptest.Server) *OpenAIClient {
	client := openai.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(srv.URL+"/"),
		option.WithMaxRetries(0),
	)
	return NewOpenAIClient(&client, "", zap.NewNop().Sugar())
}

func TestOpenAIClientSendImage(t *testing.T) {
	srv, captured := captureServer(t, "/responses", openAIResponse)
	c := newTestOpenAI(t, srv)

	reply, err := c.SendImage(context.Background(), "describe", testImage)
	if err != nil {
		t.Fatalf("SendImage() error: %v", err)
	}
	if reply != "a cat" {
		t.Errorf("reply = %q, want %q", reply, "a cat")
	}

	req := *captured
	if req["model"] != "gpt-4o" {
		t.Errorf("model = %v, want gpt-4o", req["model"])
	}
	input := req["input"].([]any)
	content := input[0].(map[string]any)["content"].([]any)
	if len(content) != 2 {
		t.Fatalf("content parts = %d, want 2", len(content))
	}
	text := content[0].(map[string]any)
	if text["type"] != "input_text" || text["text"] != "describe" {
		t.Errorf("text part = %v", text)
	}
	img := content[1].(map[string]any)
	wantURL, _ := testImage.DataURL()
	if img["type"] != "input_image" || img["image_url"] != wantURL {
		t.Errorf("image part = %v", img)
	}
}

func TestOpenAIClientSendText(t *testing.T) {
	srv, captured := captureServer(t, "/responses", openAIResponse)
	c := newTestOpenAI(t, srv)

	reply, err := c.SendText(context.Background(), "2+2?")
	if err != nil {
		t.Fatalf("SendText() error: %v", err)
	}
	if reply != "a cat" {
		t.Errorf("reply = %q", reply)
	}
	content := (*captured)["input"].([]any)[0].(map[string]any)["content"].([]any)
	if len(content) != 1 {
		t.Errorf("content parts = %d, want 1", len(content))
	}
}

const anthropicResponse = `{
  "id": "msg_1",
  "type": "message",
  "role": "assistant",
  "model": "claude-sonnet-4-5-20250929",
  "content": [{"type": "text", "text": "a "}, {"type": "text", "text": "dog"}],
  "stop_reason": "end_turn",
  "stop_sequence": null,
  "usage": {"input_tokens": 10, "output_tokens": 2}
}`

func TestAnthropicClientSendImage(t *testing.T) {
	srv, captured := captureServer(t, "/v1/messages", anthropicResponse)
	client := anthropic.NewClient(
		anthropicoption.WithAPIKey("test-key"),
		anthropicoption.WithBaseURL(srv.URL+"/"),
		anthropicoption.WithMaxRetries(0),
	)
	c := NewAnthropicClient(&client, "", 0, zap.NewNop().Sugar())

	reply, err := c.SendImage(context.Background(), "describe", testImage)
	if err != nil {
		t.Fatalf("SendImage() error: %v", err)
	}
	if reply != "a dog" {
		t.Errorf("reply = %q, want %q", reply, "a dog")
	}

	req := *captured
	if req["max_tokens"] != float64(1024) {
		t.Errorf("max_tokens = %v, want 1024", req["max_tokens"])
	}
	msg := req["messages"].([]any)[0].(map[string]any)
	content := msg["content"].([]any)
	if len(content) != 2 {
		t.Fatalf("content blocks = %d, want 2", len(content))
	}
	source := content[1].(map[string]any)["source"].(map[string]any)
	if source["media_type"] != "image/png" {
		t.Errorf("media_type = %v", source["media_type"])
	}
	if source["data"] != base64.StdEncoding.EncodeToString(testImage.Data) {
		t.Errorf("data = %v", source["data"])
	}
}

const geminiResponse = `{
  "candidates": [{
    "content": {"role": "model", "parts": [{"text": "a bird"}]},
    "finishReason": "STOP"
  }]
}`

func TestGeminiClientSendImage(t *testing.T) {
	srv, captured := captureServer(t, ":generateContent", geminiResponse)
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL + "/"},
	})
	if err != nil {
		t.Fatalf("genai.NewClient() error: %v", err)
	}
	c := NewGeminiClient(client, "", zap.NewNop().Sugar())

	reply, err := c.SendImage(context.Background(), "describe", testImage)
	if err != nil {
		t.Fatalf("SendImage() error: %v", err)
	}
	if reply != "a bird" {
		t.Errorf("reply = %q, want %q", reply, "a bird")
	}

	parts := (*captured)["contents"].([]any)[0].(map[string]any)["parts"].([]any)
	if len(parts) != 2 {
		t.Fatalf("parts = %d, want 2", len(parts))
	}
	inline := parts[1].(map[string]any)["inlineData"].(map[string]any)
	if inline["mimeType"] != "image/png" {
		t.Errorf("mimeType = %v", inline["mimeType"])
	}
	if inline["data"] != base64.StdEncoding.EncodeToString(testImage.Data) {
		t.Errorf("data = %v", inline["data"])
	}
}

func TestStubClient(t *testing.T) {
	c := NewStubClient()
	if got, _ := c.SendText(context.Background(), "hi"); got == "" {
		t.Error("SendText() returned empty reply")
	}
	if got, _ := c.SendImage(context.Background(), "hi", testImage); got == "" {
		t.Error("SendImage() returned empty reply")
	}
}

func TestNew(t *testing.T) {
	logger := zap.NewNop().Sugar()

	c, err := New(context.Background(), config.ChatConfig{Provider: config.ProviderStub}, logger)
	if err != nil {
		t.Fatalf("New(stub) error: %v", err)
	}
	if _, ok := c.(*StubClient); !ok {
		t.Errorf("New(stub) = %T, want *StubClient", c)
	}

	c, err = New(context.Background(), config.ChatConfig{Provider: config.ProviderOpenAI, OpenAIAPIKey: "k"}, logger)
	if err != nil {
		t.Fatalf("New(openai) error: %v", err)
	}
	if _, ok := c.(*OpenAIClient); !ok {
		t.Errorf("New(openai) = %T, want *OpenAIClient", c)
	}

	if _, err := New(context.Background(), config.ChatConfig{Provider: "llama"}, logger); err == nil {
		t.Error("New(unknown) expected error")
	}
}

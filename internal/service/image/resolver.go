package image

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	dataPrefix   = "data:"
	filePrefix   = "file:"
	base64Marker = ";base64"
)

// Resolved картинка в памяти, готовая к отправке в чат.
type Resolved struct {
	Data     []byte
	MimeType string
	Filename string
}

// Options настройки резолвера.
type Options struct {
	HTTPClient    *http.Client // Пусто - NewHTTPClient с таймаутами по умолчанию
	MaxImageBytes int64        // Лимит размера картинки по URL; 0 - без ограничения
	Logger        *zap.SugaredLogger
}

// Resolver превращает ссылку на картинку (data URL, путь к файлу, http(s) URL) в байты.
// Состояния между запросами не хранит.
type Resolver struct {
	client   *http.Client
	maxBytes int64
	logger   *zap.SugaredLogger
}

func NewResolver(opts Options) *Resolver {
	client := opts.HTTPClient
	if client == nil {
		client = NewHTTPClient(FetchOptions{})
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Resolver{client: client, maxBytes: opts.MaxImageBytes, logger: logger}
}

// Resolve загружает картинку по ссылке. Вид ошибки - см. KindOf.
func (r *Resolver) Resolve(ctx context.Context, ref string) (Resolved, error) {
	if strings.TrimSpace(ref) == "" {
		return Resolved{}, invalidRef("imageUrl is required", nil)
	}

	switch {
	case strings.HasPrefix(ref, dataPrefix):
		return resolveDataURL(ref)
	case strings.HasPrefix(ref, filePrefix), !isRemote(ref):
		return resolveFile(ref)
	default:
		return r.resolveRemote(ctx, ref)
	}
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func resolveDataURL(ref string) (Resolved, error) {
	comma := strings.IndexByte(ref, ',')
	if comma < 0 {
		return Resolved{}, invalidRef("Invalid data URL", nil)
	}
	header := ref[len(dataPrefix):comma]
	if !strings.HasSuffix(header, base64Marker) {
		return Resolved{}, invalidRef("Only base64 data URLs are supported", nil)
	}
	mimeType := strings.TrimSuffix(header, base64Marker)
	if strings.TrimSpace(mimeType) == "" {
		mimeType = DefaultMimeType
	}

	// "=" в конце необязателен
	payload := strings.TrimRight(strings.TrimSpace(ref[comma+1:]), "=")
	data, err := base64.RawStdEncoding.DecodeString(payload)
	if err != nil {
		return Resolved{}, invalidRef("Invalid base64 payload", err)
	}
	if len(data) == 0 {
		return Resolved{}, invalidRef("Empty data URL payload", nil)
	}

	return Resolved{
		Data:     data,
		MimeType: mimeType,
		Filename: "image" + extensionOrJPG(mimeType),
	}, nil
}

func resolveFile(ref string) (Resolved, error) {
	path := ref
	if strings.HasPrefix(ref, filePrefix) {
		p, err := filePath(ref)
		if err != nil {
			return Resolved{}, err
		}
		path = p
	}

	if _, err := os.Stat(path); err != nil {
		return Resolved{}, invalidRef("File not found: "+ref, nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Resolved{}, unclassified("read "+path, err)
	}
	if len(data) == 0 {
		return Resolved{}, invalidRef("File is empty: "+ref, nil)
	}

	return Resolved{
		Data:     data,
		MimeType: probeContentType(path, data),
		Filename: filepath.Base(path),
	}, nil
}

// filePath достаёт путь из file: URI (file:/x, file:///x, file://localhost/x).
func filePath(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", invalidRef("Invalid file URI", err)
	}
	if u.Opaque != "" || u.Path == "" {
		return "", invalidRef("Invalid file URI: "+ref, nil)
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", invalidRef("Unsupported file URI host: "+u.Host, nil)
	}
	return filepath.FromSlash(u.Path), nil
}

// probeContentType определяет тип по расширению, затем по содержимому.
func probeContentType(path string, data []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	if t := http.DetectContentType(data); strings.HasPrefix(t, "image/") {
		return t
	}
	return DefaultMimeType
}

func (r *Resolver) resolveRemote(ctx context.Context, ref string) (Resolved, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return Resolved{}, invalidRef("Invalid image URL", err)
	}
	if u.Host == "" {
		return Resolved{}, invalidRef("Invalid image URL: missing host", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Resolved{}, invalidRef("Invalid image URL", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return Resolved{}, fetchFailed("fetch "+u.Redacted(), unwrapURLError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Resolved{}, fetchFailed(fmt.Sprintf("fetch %s: unexpected status %s", u.Redacted(), resp.Status), nil)
	}

	contentType := strings.TrimSpace(resp.Header.Get("Content-Type"))
	if contentType == "" {
		contentType = DefaultMimeType
	}

	filename := remoteFilename(u.Path)
	if !strings.Contains(filename, ".") {
		filename += extensionOrJPG(contentType)
	}

	data, err := r.readBody(resp.Body)
	if err != nil {
		return Resolved{}, err
	}

	r.logger.Debugw("Image fetched", "url", u.Redacted(), "bytes", len(data), "content_type", contentType)

	return Resolved{Data: data, MimeType: contentType, Filename: filename}, nil
}

func (r *Resolver) readBody(body io.Reader) ([]byte, error) {
	if r.maxBytes > 0 {
		body = io.LimitReader(body, r.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fetchFailed("read image body", err)
	}
	if r.maxBytes > 0 && int64(len(data)) > r.maxBytes {
		return nil, fetchFailed(fmt.Sprintf("image exceeds max size %d bytes", r.maxBytes), nil)
	}
	if len(data) == 0 {
		return nil, fetchFailed("empty image body", nil)
	}
	return data, nil
}

func remoteFilename(path string) string {
	name := path[strings.LastIndexByte(path, '/')+1:]
	if name == "" {
		return "image"
	}
	return name
}

// unwrapURLError убирает повтор метода и URL из *url.Error.
func unwrapURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}

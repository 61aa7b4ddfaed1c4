package image

import (
	"mime"
	"sort"
	"strings"
)

// DefaultMimeType используется, когда тип картинки определить не удалось.
const DefaultMimeType = "image/jpeg"

// MimeType разобранный MIME-тип.
type MimeType struct {
	Type    string
	Subtype string
	Params  map[string]string
}

// Essence возвращает "type/subtype" без параметров.
func (m MimeType) Essence() string {
	return m.Type + "/" + m.Subtype
}

func (m MimeType) String() string {
	if len(m.Params) == 0 {
		return m.Essence()
	}
	keys := make([]string, 0, len(m.Params))
	for k := range m.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(m.Essence())
	for _, k := range keys {
		b.WriteString(";")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(m.Params[k])
	}
	return b.String()
}

// MimeParser разбирает строку MIME-типа; при ошибке возвращает тип по умолчанию.
type MimeParser interface {
	ParseOrDefault(s string) MimeType
}

// StdMimeParser реализация поверх mime.ParseMediaType.
type StdMimeParser struct{}

func (StdMimeParser) ParseOrDefault(s string) MimeType {
	mt, params, err := mime.ParseMediaType(s)
	if err != nil {
		return defaultMime()
	}
	typ, sub, ok := strings.Cut(mt, "/")
	if !ok || typ == "" || sub == "" {
		return defaultMime()
	}
	return MimeType{Type: typ, Subtype: sub, Params: params}
}

func defaultMime() MimeType {
	return MimeType{Type: "image", Subtype: "jpeg"}
}

// extensionFor подбирает расширение по MIME-типу (подстрока, первое совпадение).
// Пустая строка - расширение неизвестно.
func extensionFor(mimeType string) string {
	m := strings.ToLower(mimeType)
	switch {
	case strings.Contains(m, "png"):
		return "png"
	case strings.Contains(m, "jpeg"), strings.Contains(m, "jpg"):
		return "jpg"
	case strings.Contains(m, "gif"):
		return "gif"
	case strings.Contains(m, "webp"):
		return "webp"
	case strings.Contains(m, "bmp"):
		return "bmp"
	}
	return ""
}

func extensionOrJPG(mimeType string) string {
	if ext := extensionFor(mimeType); ext != "" {
		return "." + ext
	}
	return ".jpg"
}

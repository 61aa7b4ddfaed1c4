package image

import "errors"

// Kind классифицирует ошибку разбора ссылки на картинку.
type Kind int

const (
	// KindUnclassified - любая прочая ошибка (например, ошибка чтения файла).
	KindUnclassified Kind = iota
	// KindInvalidReference - ссылка некорректна или указывает на несуществующий файл.
	KindInvalidReference
	// KindFetchFailure - корректный http(s) URL, но загрузить его не удалось.
	KindFetchFailure
)

func (k Kind) String() string {
	switch k {
	case KindInvalidReference:
		return "invalid_reference"
	case KindFetchFailure:
		return "fetch_failure"
	default:
		return "unclassified"
	}
}

// Error ошибка резолвера с явным видом.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Msg == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf возвращает вид ошибки; для ошибок не из этого пакета - KindUnclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnclassified
}

func invalidRef(msg string, err error) *Error {
	return &Error{Kind: KindInvalidReference, Msg: msg, Err: err}
}

func fetchFailed(msg string, err error) *Error {
	return &Error{Kind: KindFetchFailure, Msg: msg, Err: err}
}

func unclassified(msg string, err error) *Error {
	return &Error{Kind: KindUnclassified, Msg: msg, Err: err}
}

package resource

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedType = errors.New("unsupported entity type")
	ErrInvalidBinding  = errors.New("invalid resource binding")
	ErrDuplicateType   = errors.New("duplicate resource binding")
)

// Классы ошибок, которыми клиент удаленного API помечает свои ответы
var (
	ErrNotFound   = errors.New("remote entity not found")
	ErrValidation = errors.New("remote validation failed")
	ErrTransient  = errors.New("remote temporarily unavailable")
)

// Fault - ошибка, сообщенная удаленным сервисом
type Fault struct {
	Kind       error
	StatusCode int
	Type       string
	Code       string
	Message    string
	Detail     string
}

func (f *Fault) Error() string {
	msg := f.Message
	if f.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, f.Detail)
	}
	if f.Code != "" {
		return fmt.Sprintf("%s (code %s, status %d): %s", f.Kind, f.Code, f.StatusCode, msg)
	}
	return fmt.Sprintf("%s (status %d): %s", f.Kind, f.StatusCode, msg)
}

func (f *Fault) Unwrap() error {
	return f.Kind
}

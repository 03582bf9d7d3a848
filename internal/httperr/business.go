package httperr

import (
	"errors"
	"fmt"
)

// Kind classifies a business failure. Handlers map it to an HTTP status.
type Kind string

const (
	KindBadRequest Kind = "bad_request"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
)

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

// ErrBusiness is a BadRequest without a detail message.
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindBadRequest, Code: code}
}

func BadRequest(code, format string, args ...any) error {
	return newf(KindBadRequest, code, format, args...)
}

func NotFound(code, format string, args ...any) error {
	return newf(KindNotFound, code, format, args...)
}

func Conflict(code, format string, args ...any) error {
	return newf(KindConflict, code, format, args...)
}

func newf(kind Kind, code, format string, args ...any) error {
	return BusinessError{
		Kind:    kind,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf returns the kind of a wrapped BusinessError, or "" for anything else.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

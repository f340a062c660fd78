package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the HTTP layer.
type Kind uint8

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindValidation
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation_error"
	case KindNotFound:
		return "not_found"
	default:
		return "server_error"
	}
}

// Status is the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindUnauthenticated:
		return 401
	case KindForbidden:
		return 403
	case KindValidation:
		return 400
	case KindNotFound:
		return 404
	default:
		return 500
	}
}

// Error carries a kind, a caller-facing message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Details interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to err. The message shown to callers is err's text.
func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func Validation(msg string) *Error { return New(KindValidation, msg) }

func NotFound(msg string) *Error { return New(KindNotFound, msg) }

func Unauthenticated(msg string) *Error { return New(KindUnauthenticated, msg) }

func Forbidden(msg string, details interface{}) *Error {
	return &Error{Kind: KindForbidden, Message: msg, Details: details}
}

func Internal(err error) *Error { return Wrap(KindInternal, err) }

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

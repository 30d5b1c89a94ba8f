// Package apperr carries typed application errors. Callers branch on the
// error code with errors.Is instead of inspecting message text.
package apperr

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeRecursion    Code = "RECURSION_ERROR"
	CodeConnection   Code = "CONNECTION_ERROR"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeNotFound     Code = "NOT_FOUND"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeConflict     Code = "CONFLICT"
)

// Error is an application error tagged with a Code.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code, so errors.Is(err, ErrConnection)
// holds for every connection-classified error regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrRecursion  = &Error{Code: CodeRecursion, Message: "authorization policy recursion"}
	ErrConnection = &Error{Code: CodeConnection, Message: "backend unreachable"}
)

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Cause: err}
}

func Wrapf(err error, code Code, format string, args ...any) *Error {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// CodeOf returns the code of the outermost *Error in err's chain, or "" when
// err carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func IsConnection(err error) bool {
	return err != nil && errors.Is(err, ErrConnection)
}

func IsRecursion(err error) bool {
	return err != nil && errors.Is(err, ErrRecursion)
}

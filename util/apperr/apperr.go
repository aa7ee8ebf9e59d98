// Package apperr carries the error codes shared by services and controllers.
package apperr

import (
	"errors"
	"fmt"
)

type ErrCode string

const (
	ErrNotFound           ErrCode = "NOT_FOUND"
	ErrOutOfStock         ErrCode = "OUT_OF_STOCK"
	ErrLimitExceeded      ErrCode = "LIMIT_EXCEEDED"
	ErrDurationExceeded   ErrCode = "DURATION_EXCEEDED"
	ErrConflict           ErrCode = "CONFLICT"
	ErrUnauthorized       ErrCode = "UNAUTHORIZED"
	ErrInvalidState       ErrCode = "INVALID_STATE"
	ErrBadInput           ErrCode = "BAD_INPUT"
	ErrInvariantViolation ErrCode = "INVARIANT_VIOLATION"
)

type codedError struct {
	code  ErrCode
	msg   string
	cause error
}

func (e *codedError) Error() string {
	switch {
	case e.msg == "" && e.cause == nil:
		return string(e.code)
	case e.cause == nil:
		return string(e.code) + ": " + e.msg
	case e.msg == "":
		return string(e.code) + ": " + e.cause.Error()
	}
	return fmt.Sprintf("%s: %s: %v", e.code, e.msg, e.cause)
}

func (e *codedError) Code() ErrCode   { return e.code }
func (e *codedError) Message() string { return e.msg }
func (e *codedError) Unwrap() error   { return e.cause }

// New makes a coded error with a client-facing message.
func New(c ErrCode, msg string) error { return &codedError{code: c, msg: msg} }

// Newf is New with formatting.
func Newf(c ErrCode, format string, args ...any) error {
	return &codedError{code: c, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code to cause. The cause is kept for logs only.
func Wrap(c ErrCode, msg string, cause error) error {
	return &codedError{code: c, msg: msg, cause: cause}
}

// Code extracts the error code, or "" for uncoded errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Message returns the client-facing message of a coded error.
func Message(err error) string {
	var ce *codedError
	if errors.As(err, &ce) {
		if ce.msg != "" {
			return ce.msg
		}
		return string(ce.code)
	}
	return ""
}

// Is reports whether err carries code c.
func Is(err error, c ErrCode) bool { return Code(err) == c }

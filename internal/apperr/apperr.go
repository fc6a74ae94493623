package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the API surface can pick a message without
// inspecting error strings.
type Kind string

const (
	KindValidation Kind = "ValidationError"
	KindAuth       Kind = "AuthenticationError"
	KindForbidden  Kind = "AuthorizationError"
	KindNotFound   Kind = "NotFoundError"
	KindInternal   Kind = "UnexpectedError"
)

// Error carries a kind plus a human-readable message. The message is what
// ends up in the response envelope, so keep it presentable.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }
func Auth(msg string) *Error       { return &Error{Kind: KindAuth, Message: msg} }
func Forbidden(msg string) *Error  { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Message: msg} }

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the kind of err, or KindInternal for anything untyped.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the presentable message for err. Untyped errors collapse
// into a generic message so internals never leak into the envelope.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Something went wrong. Please try again."
}

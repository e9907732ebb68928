package errmap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/the-dev-tools/todolist/pkg/idwrap"
	"github.com/the-dev-tools/todolist/pkg/movable"
	"github.com/the-dev-tools/todolist/pkg/service/slist"
	"github.com/the-dev-tools/todolist/pkg/service/stask"
)

// Code classifies high-level error categories for API clients.
type Code string

const (
	CodeNotFound        Code = "not_found"
	CodeInvalidArgument Code = "invalid_argument"
	CodePartialFailure  Code = "partial_failure"
	CodeCanceled        Code = "canceled"
	CodeTimeout         Code = "timeout"
	CodeStorage         Code = "storage"
)

// Error carries a code and a client-facing message while preserving the
// original cause via Unwrap.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message != "" {
		return e.Message
	}
	return humanize(e.Code, e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

// Extensions is read by the GraphQL layer and reported next to the message.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": string(e.Code)}
}

func humanize(code Code, cause error) string {
	switch code {
	case CodeNotFound:
		return "not found"
	case CodeCanceled:
		return "request was canceled"
	case CodeTimeout:
		return "request timed out"
	case CodeStorage:
		// storage errors are not echoed to clients
		return "storage failure"
	case CodePartialFailure:
		return "operation partially applied"
	default:
		if cause != nil {
			return cause.Error()
		}
		return "unexpected error"
	}
}

// New constructs an Error with the supplied code, message, and underlying cause.
func New(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Map converts an arbitrary error into an *Error with a best-effort code.
// It keeps the original error as the cause.
func Map(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	switch {
	case errors.Is(err, context.Canceled):
		return &Error{Code: CodeCanceled, cause: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Code: CodeTimeout, cause: err}
	case errors.Is(err, stask.ErrPartialDelete):
		return &Error{Code: CodePartialFailure, Message: stask.ErrPartialDelete.Error(), cause: err}
	case errors.Is(err, sql.ErrNoRows):
		return &Error{Code: CodeNotFound, cause: err}
	case errors.Is(err, movable.ErrSamePosition),
		errors.Is(err, movable.ErrPositionOutOfRange),
		errors.Is(err, movable.ErrNegativePosition):
		return &Error{Code: CodeInvalidArgument, Message: err.Error(), cause: err}
	case errors.Is(err, idwrap.ErrInvalidID):
		return &Error{Code: CodeInvalidArgument, Message: "invalid id", cause: err}
	case errors.Is(err, slist.ErrEmptyTitle), errors.Is(err, stask.ErrEmptyTitle):
		return &Error{Code: CodeInvalidArgument, Message: err.Error(), cause: err}
	}

	return &Error{Code: CodeStorage, cause: err}
}

// NotFound builds a not_found error naming the missing entity.
func NotFound(kind string, id idwrap.IDWrap) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", kind, id), cause: sql.ErrNoRows}
}

// CodeOf returns the code Map would assign to err.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(Map(err), &e) {
		return e.Code
	}
	return CodeStorage
}

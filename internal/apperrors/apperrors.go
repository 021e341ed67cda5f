// Package apperrors defines the error kinds the API answers with and the
// HTTP status each one maps to.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind categorizes a failure.
type Kind string

const (
	ValidationError  Kind = "validation"
	NotFoundError    Kind = "not_found"
	StorageReadError Kind = "storage_read"
	InternalError    Kind = "internal"
)

// InternalMessage is the only message a client sees for 5xx failures.
const InternalMessage = "Internal Server Error"

// Error is a categorized failure with a suggested HTTP status.
type Error struct {
	Kind    Kind
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// PublicMessage returns the text that is safe to send to a client.
func (e *Error) PublicMessage() string {
	if e.Code >= http.StatusInternalServerError {
		return InternalMessage
	}
	return e.Message
}

func NewValidationError(message string) *Error {
	return &Error{
		Kind:    ValidationError,
		Message: message,
		Code:    http.StatusBadRequest,
	}
}

func NewNotFoundError(message string) *Error {
	return &Error{
		Kind:    NotFoundError,
		Message: message,
		Code:    http.StatusNotFound,
	}
}

// NewStorageReadError wraps a failure to read or parse the persisted tasks.
func NewStorageReadError(err error) *Error {
	return &Error{
		Kind:    StorageReadError,
		Message: "failed to load tasks",
		Code:    http.StatusInternalServerError,
		Err:     err,
	}
}

func NewInternalError(err error) *Error {
	return &Error{
		Kind:    InternalError,
		Message: "internal error",
		Code:    http.StatusInternalServerError,
		Err:     err,
	}
}

// From returns err as an *Error. Errors of any other type are wrapped as
// internal errors.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}

// Package apperrors defines the domain error taxonomy. Every classified
// failure carries an HTTP status and a short machine-readable code; handlers
// pass these through unmodified, and anything unclassified is flattened to a
// generic 500 at the boundary.
package apperrors

import (
	"errors"
	"net/http"
)

// Kind discriminates classified failures.
type Kind int

const (
	KindValidation Kind = iota
	KindConflict
	KindNotFound
	KindBadRequest
	KindUnauthorized
	KindInternal
)

// Detail describes a single field-level validation violation.
type Detail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified domain failure.
type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Details []Detail
	// Err is the underlying cause, logged server-side only.
	Err error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation builds a 400 VALIDATION_ERROR carrying field details.
func Validation(details []Detail) *Error {
	return &Error{
		Kind:    KindValidation,
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: "Invalid request payload",
		Details: details,
	}
}

// Conflict builds a 409 CONFLICT_ERROR.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Status: http.StatusConflict, Code: "CONFLICT_ERROR", Message: message}
}

// NotFound builds a 404 NOT_FOUND_ERROR.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Code: "NOT_FOUND_ERROR", Message: message}
}

// BadRequest builds a 400 BAD_REQUEST_ERROR.
func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Status: http.StatusBadRequest, Code: "BAD_REQUEST_ERROR", Message: message}
}

// Unauthorized builds a 401 UNAUTHORIZED_ERROR with a gate-specific reason.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Status: http.StatusUnauthorized, Code: "UNAUTHORIZED_ERROR", Message: message}
}

// Internal wraps an unexpected failure. The cause never crosses the HTTP
// boundary; the responder logs it and emits a generic message.
func Internal(err error) *Error {
	return &Error{
		Kind:    KindInternal,
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// Classify returns err as a classified *Error, wrapping unknown errors as
// Internal.
func Classify(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

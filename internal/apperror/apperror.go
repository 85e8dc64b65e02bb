// Package apperror defines the domain error taxonomy.
//
// The snippet store and the services return these errors; the HTTP layer
// maps them to status codes. Sentinel errors (ErrNotFound, ErrValidation,
// ...) are matched with errors.Is, while the *AppError wrapper carries the
// human-readable message shown to the user.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRemote marks a failed call to the account database. These abort
	// the in-flight operation, leave prior state untouched, and are shown
	// to the user verbatim; nothing retries them automatically.
	ErrRemote = errors.New("remote persistence error")
)

type AppError struct {
	Err     error  // sentinel cause, for errors.Is
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthorized returns an AppError for requests without a valid session.
// HTTP handlers map this to 401 Unauthorized.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Remote wraps a failed account-database call with the name of the
// operation that was in flight, so the surfaced message explains both what
// failed and why. The original cause stays reachable through the chain:
// errors.Is(err, ErrRemote) works, and so does unwrapping to the driver
// error underneath.
func Remote(operation string, err error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrRemote, err),
		Message: fmt.Sprintf("failed to %s: %v", operation, err),
	}
}

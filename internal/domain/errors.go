package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors - match with errors.Is(). Wrap with fmt.Errorf("...: %w", ErrX)
// to add context; the handler layer maps them to status codes.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	// ErrToolsNotAllowed is returned by tool loading when the request may not
	// use tools. Callers degrade to an empty tool set.
	ErrToolsNotAllowed = errors.New("Not allowed")
)

// HTTPError is implemented by errors that carry their own status code.
type HTTPError interface {
	error
	StatusCode() int
}

// ConflictError describes a uniqueness violation on an existing resource.
type ConflictError struct {
	Message      string
	ResourceType string // static_model, bookmark, ...
	ResourceID   string
}

func (e *ConflictError) Error() string   { return e.Message }
func (e *ConflictError) StatusCode() int { return http.StatusConflict }

// Is lets errors.Is(err, ErrConflict) match.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// Error carries a client-facing message on top of a sentinel kind.
// errors.Is(err, ErrNotFound) still matches.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

func NotFound(message string) error  { return &Error{Kind: ErrNotFound, Message: message} }
func Forbidden(message string) error { return &Error{Kind: ErrForbidden, Message: message} }
func Invalid(message string) error   { return &Error{Kind: ErrValidation, Message: message} }

// ValidationFailed wraps a validator error (e.g. ozzo-validation Errors).
func ValidationFailed(err error) error {
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

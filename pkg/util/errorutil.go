package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error codes carried in the HTTP error envelope.
const (
	CodeValidation     = "VALIDATION_FAILED"
	CodeNotFound       = "NOT_FOUND"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeConflict       = "CONFLICT"
	CodeRateLimited    = "RATE_LIMITED"
	CodeDependencyDown = "DEPENDENCY_UNAVAILABLE"
	CodeInternal       = "INTERNAL_ERROR"
)

// DomainError is the single error shape the HTTP layer knows how to
// render. Err keeps the wrapped cause for logging and errors.Is checks.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError with an explicit code and status.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

func NewTooManyRequests(message string) error {
	return NewDomainError(CodeRateLimited, message, http.StatusTooManyRequests, nil)
}

func NewInternalError(err error) error {
	de := NewDomainError(CodeInternal, "internal server error", http.StatusInternalServerError, nil)
	if err != nil {
		de.Err = err
		de.Details = map[string]any{"cause": err.Error()}
	}
	return de
}

// ToDomainError normalizes any error into a DomainError. Row absence
// from the storage layer maps to 404; everything else unknown becomes a
// 500 carrying the cause in its details.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	switch {
	case errors.As(err, &domainErr):
		return domainErr
	case errors.Is(err, pgx.ErrNoRows):
		return NewDomainError(CodeNotFound, "resource not found", http.StatusNotFound, nil)
	default:
		internal := NewInternalError(err)
		errors.As(internal, &domainErr)
		return domainErr
	}
}

// MapError is the service-layer shorthand for ToDomainError.
func MapError(err error) error {
	return ToDomainError(err)
}

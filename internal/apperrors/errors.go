package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidState indicates that the operation is not allowed in the resource's current state
// (posting a non-draft entry, closing a period with drafts, reopening an open period).
var ErrInvalidState = errors.New("invalid state")

// ErrForbidden indicates the caller may not touch the resource. Handlers never echo the wrapped detail.
var ErrForbidden = errors.New("access denied")

// ErrConflict indicates a concurrent modification detected at commit time. Callers may retry.
var ErrConflict = errors.New("concurrent modification")

// ErrInternal indicates an unexpected failure.
var ErrInternal = errors.New("internal error")

// AppError carries an explicit HTTP status alongside the error chain.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

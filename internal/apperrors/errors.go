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

// ErrForbidden indicates the acting user lacks the role or ownership required for the action.
var ErrForbidden = errors.New("action forbidden")

// ErrConflict indicates the resource is in a state that conflicts with the requested change.
var ErrConflict = errors.New("resource state conflict")

// ErrInternal indicates an unexpected internal failure whose details should not leak to callers.
var ErrInternal = errors.New("internal error")

// ErrInvalidTransition indicates a state-machine guard rejected the requested transition.
var ErrInvalidTransition = errors.New("invalid state transition")

// ErrRevisionLimitExceeded indicates a milestone has exhausted its allowed revision
// requests; the caller must escalate to a dispute instead.
var ErrRevisionLimitExceeded = errors.New("revision limit exceeded")

// ErrInsufficientBalance indicates a withdrawal was requested for more than the
// user's available balance.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrAlreadyPaid indicates payment for a milestone was already released. It is a
// soft failure: callers treat it as an idempotent no-op.
var ErrAlreadyPaid = errors.New("milestone already paid")

// AppError wraps a lower-level error with an HTTP-ish status code and a message
// safe to log. Repositories return it so services and handlers can still unwrap
// the underlying sentinel with errors.Is.
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

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that unwraps to ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

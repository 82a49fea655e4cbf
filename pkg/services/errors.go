// Package services provides the session service layer and its error types.
package services

import (
	"errors"
	"fmt"
)

// Business logic errors. These map to 4xx responses in the web layer.
var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrStepsRequired   = errors.New("session must have at least one step")
	ErrInvalidIntent   = errors.New("invalid intent payload")
	ErrUnknownField    = errors.New("unknown field")
	ErrStepNotAllowed  = errors.New("step is not reachable yet")
	ErrSessionNotFound = errors.New("session not found")
)

// ServiceError wraps service-level errors with operation context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrStepsRequired) ||
		errors.Is(err, ErrInvalidIntent) ||
		errors.Is(err, ErrUnknownField)
}

// IsNotFoundError checks if an error should return HTTP 404.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}

// IsConflictError checks if an error should return HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrStepNotAllowed)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

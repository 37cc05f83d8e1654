// Package services holds the business operations behind the HTTP API and the CLI.
package services

import (
	"errors"
	"fmt"
)

// Business logic errors. These indicate client errors (4xx responses).
var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrFlowNil         = errors.New("flow cannot be nil")
	ErrInvalidNodeData = errors.New("invalid node data")
	ErrDuplicateNodeID = errors.New("duplicate node id")
	ErrEmptyJID        = errors.New("jid cannot be empty")
	ErrInvalidSchedule = errors.New("invalid cron schedule")
	ErrUnknownSetting  = errors.New("unknown setting")
)

// ServiceError wraps service-level errors with additional context.
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

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrFlowNil) ||
		errors.Is(err, ErrInvalidNodeData) ||
		errors.Is(err, ErrDuplicateNodeID) ||
		errors.Is(err, ErrEmptyJID) ||
		errors.Is(err, ErrInvalidSchedule) ||
		errors.Is(err, ErrUnknownSetting)
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

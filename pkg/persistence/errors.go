package persistence

import (
	"errors"
	"fmt"
)

// Errors shared by every backend.
var (
	// ErrFlowNotFound indicates no flow exists with the given identifier.
	ErrFlowNotFound = errors.New("flow not found")

	// ErrCronJobNotFound indicates no cron job exists with the given identifier.
	ErrCronJobNotFound = errors.New("cron job not found")
)

// FlowError wraps flow repository errors with the failing operation.
type FlowError struct {
	Op     string // Operation being performed (e.g. "GetByID", "Save")
	FlowID string
	Err    error
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s operation failed for flow %s: %v", e.Op, e.FlowID, e.Err)
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

func (e *FlowError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewFlowError creates a flow error with context.
func NewFlowError(op, flowID string, err error) *FlowError {
	return &FlowError{Op: op, FlowID: flowID, Err: err}
}

// CronJobError wraps cron job repository errors with the failing operation.
type CronJobError struct {
	Op    string
	JobID string
	Err   error
}

func (e *CronJobError) Error() string {
	return fmt.Sprintf("%s operation failed for cron job %s: %v", e.Op, e.JobID, e.Err)
}

func (e *CronJobError) Unwrap() error {
	return e.Err
}

func (e *CronJobError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewCronJobError creates a cron job error with context.
func NewCronJobError(op, jobID string, err error) *CronJobError {
	return &CronJobError{Op: op, JobID: jobID, Err: err}
}

// IsFlowNotFound checks if an error indicates a flow was not found.
func IsFlowNotFound(err error) bool {
	return errors.Is(err, ErrFlowNotFound)
}

// IsCronJobNotFound checks if an error indicates a cron job was not found.
func IsCronJobNotFound(err error) bool {
	return errors.Is(err, ErrCronJobNotFound)
}

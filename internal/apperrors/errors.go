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

// ErrConflict indicates that an atomic unit of work lost an optimistic concurrency check.
// Callers may retry with fresh reads.
var ErrConflict = errors.New("concurrent modification conflict")

// ErrInternal indicates an unexpected failure in a collaborator.
var ErrInternal = errors.New("internal error")

// ErrDataIntegrity indicates that persisted settlement state is inconsistent,
// e.g. a reversal would drive a paid total below zero.
var ErrDataIntegrity = errors.New("data integrity violation")

// ErrInvalidChequeTransition indicates an illegal cheque status change or deletion.
var ErrInvalidChequeTransition = errors.New("invalid cheque transition")

// AppError wraps a lower level failure with a status code and message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
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

// ValidationError describes a single rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation.Error(), e.Message)
	}
	return fmt.Sprintf("%s: %s %s", ErrValidation.Error(), e.Field, e.Message)
}

// Is reports ErrValidation so callers can use errors.Is.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// InvalidChequeTransitionError carries the rejected status pair.
// To is "deleted" for rejected deletions.
type InvalidChequeTransitionError struct {
	From string
	To   string
}

func (e *InvalidChequeTransitionError) Error() string {
	return fmt.Sprintf("cannot move cheque from %q to %q", e.From, e.To)
}

func (e *InvalidChequeTransitionError) Is(target error) bool {
	return target == ErrInvalidChequeTransition
}

// DataIntegrityError reports a settlement field that would have gone negative.
// Value is the unclamped result.
type DataIntegrityError struct {
	RecordID string
	Field    string
	Value    string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("%s: %s of record %s would become %s (possible duplicate reversal)", ErrDataIntegrity.Error(), e.Field, e.RecordID, e.Value)
}

func (e *DataIntegrityError) Is(target error) bool {
	return target == ErrDataIntegrity
}

// IsRetryable reports whether err is an optimistic concurrency conflict.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}

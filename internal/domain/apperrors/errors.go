// Package apperrors defines the error taxonomy shared by the submission
// ledger and the reminder pipeline. Every error is scoped to a single
// operation; nothing here is fatal to the process.
package apperrors

import (
	"errors"
	"net/http"
	"strings"
)

// HTTPError is implemented by errors that map to an HTTP status code.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors for matching with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrDelivery   = errors.New("delivery failed")
	ErrState      = errors.New("illegal state transition")
)

// NotFoundError indicates an unknown requirement, speaker, submission or reminder.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return e.Resource + " not found: " + e.ID
}

func (e *NotFoundError) StatusCode() int      { return http.StatusNotFound }
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFound creates a NotFoundError for the given resource
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError indicates a submission that violates requirement
// constraints. Violations always carries every violated rule, not just
// the first one found.
type ValidationError struct {
	Message    string
	Violations []string
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Violations, "; ")
}

func (e *ValidationError) StatusCode() int      { return http.StatusBadRequest }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidation creates a ValidationError with the collected violations
func NewValidation(message string, violations ...string) *ValidationError {
	return &ValidationError{Message: message, Violations: violations}
}

// ConflictError indicates a concurrent-latest race detected by the store
// rather than serialized away.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string        { return e.Message }
func (e *ConflictError) StatusCode() int      { return http.StatusConflict }
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// DeliveryError indicates a notifier failure. The failed Reminder row is
// persisted before this error is raised, so the record remains the durable
// trace even if the caller drops the error.
type DeliveryError struct {
	Message string
	Cause   error
}

func (e *DeliveryError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DeliveryError) Unwrap() error        { return e.Cause }
func (e *DeliveryError) StatusCode() int      { return http.StatusBadGateway }
func (e *DeliveryError) Is(target error) bool { return target == ErrDelivery }

// StateError indicates an illegal transition, e.g. retrying a reminder
// that never failed.
type StateError struct {
	Message string
}

func (e *StateError) Error() string        { return e.Message }
func (e *StateError) StatusCode() int      { return http.StatusConflict }
func (e *StateError) Is(target error) bool { return target == ErrState }

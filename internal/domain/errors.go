package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrValidation        = errors.New("validation error")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrTransport         = errors.New("transport error")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrMalformedEvent    = errors.New("malformed event")
	ErrSessionClosed     = errors.New("session closed")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// TransitionError reports a status change the lifecycle table does not allow.
// It matches both ErrInvalidTransition and ErrValidation.
type TransitionError struct {
	From RequestStatus
	To   RequestStatus
}

func (e *TransitionError) Error() string {
	if e.From == e.To {
		return fmt.Sprintf("invalid status transition: request is already %s", e.From)
	}
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition || target == ErrValidation
}

// Operation names a REST call made against the team server.
type Operation string

const (
	OpLogin                 Operation = "login"
	OpFetchRequests         Operation = "fetch-requests"
	OpFetchDetailed         Operation = "fetch-detailed"
	OpSubmitRequest         Operation = "submit-request"
	OpUpdateStatus          Operation = "update-status"
	OpDeleteRequest         Operation = "delete-request"
	OpFetchNotifications    Operation = "fetch-notifications"
	OpMarkNotificationsRead Operation = "mark-notifications-read"
	OpFetchUsers            Operation = "fetch-users"
	OpUpdateRole            Operation = "update-role"
	OpUpdateLeaveBalance    Operation = "update-leave-balance"
	OpDeleteUser            Operation = "delete-user"
	OpUpdateProfile         Operation = "update-profile"
)

func (o Operation) String() string { return string(o) }

// IsRead reports whether the operation has no server-side effect.
func (o Operation) IsRead() bool {
	switch o {
	case OpFetchRequests, OpFetchDetailed, OpFetchNotifications, OpFetchUsers:
		return true
	}
	return false
}

// OperationError is returned for every failed REST call. Err is one of the
// sentinels above and classifies the failure.
type OperationError struct {
	Op      Operation
	Status  int
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, msg)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *OperationError) Unwrap() error { return e.Err }

// IsAuthorization reports whether err means the server refused an action the
// client believed was allowed. Callers re-sync instead of retrying.
func IsAuthorization(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden) || errors.Is(err, ErrConflict)
}

package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeInvalid           ErrorCode = "INVALID"
	ErrCodeValidation        ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	ErrCodeConflict          ErrorCode = "CONFLICT"
	ErrCodeForbidden         ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	ErrCodeRateLimited       ErrorCode = "RATE_LIMITED"
	ErrCodeStoreUnavailable  ErrorCode = "STORE_UNAVAILABLE"
	ErrCodeInternal          ErrorCode = "INTERNAL"
)

// FieldError describes a single offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation builds a VALIDATION_ERROR carrying the offending fields.
func Validation(fields ...FieldError) *Error {
	return &Error{
		Code:    ErrCodeValidation,
		Message: "validation error",
		Fields:  fields,
	}
}

// StoreError passes domain errors through untouched and classifies anything
// else coming out of a repository as STORE_UNAVAILABLE.
func StoreError(err error) error {
	if err == nil {
		return nil
	}
	var dErr *Error
	if errors.As(err, &dErr) {
		return err
	}
	return WrapError(ErrCodeStoreUnavailable, "store unavailable", err)
}

// Common domain errors.
var (
	ErrListNotFound   = NewError(ErrCodeNotFound, "list not found")
	ErrTaskNotFound   = NewError(ErrCodeNotFound, "task not found")
	ErrClientNotFound = NewError(ErrCodeNotFound, "client not found")
	ErrClientExists   = NewError(ErrCodeConflict, "client already registered")
	ErrForbidden      = NewError(ErrCodeForbidden, "not authorized to access this resource")
	ErrUnauthorized   = NewError(ErrCodeUnauthorized, "invalid or expired token")
	ErrBadCredentials = NewError(ErrCodeUnauthorized, "invalid client_id or client_secret")
	ErrInvalidPayload = NewError(ErrCodeInvalid, "invalid payload")

	ErrDeferWithInProgress  = NewError(ErrCodeConflict, "cannot defer list with in-progress tasks")
	ErrDeleteWithActive     = NewError(ErrCodeConflict, "cannot delete list with active tasks")
	ErrCreateOnDeferredList = NewError(ErrCodeConflict, "cannot add tasks to a deferred list")
	ErrUpdateOnDeferredList = NewError(ErrCodeConflict, "cannot update tasks in a deferred list")

	ErrRevertToNew     = NewError(ErrCodeInvalidTransition, "cannot revert task status to New")
	ErrDeleteViaUpdate = NewError(ErrCodeInvalidTransition, "use DELETE to remove a record")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

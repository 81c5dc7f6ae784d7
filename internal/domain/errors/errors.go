package errors

import (
	"net/http"

	"github.com/pkg/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// FieldErrors is implemented by errors that carry a per-field report.
type FieldErrors interface {
	FieldErrors() map[string]string
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Is matches any BaseError carrying the same business code, so copies made
// by WithDetails still satisfy errors.Is against the predefined values.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return e.errorCode == t.errorCode
}

// Predefined error types
var (
	// Account-related errors
	ErrDuplicateAccount = NewBaseError(
		http.StatusConflict,
		"DUPLICATE_ACCOUNT",
		"An account with that name already exists",
		"",
	)

	ErrAccountNotFound = NewBaseError(
		http.StatusNotFound,
		"ACCOUNT_NOT_FOUND",
		"Account not found",
		"",
	)

	ErrConfirmationRequired = NewBaseError(
		http.StatusBadRequest,
		"CONFIRMATION_REQUIRED",
		"You must confirm user deletion.",
		"",
	)

	// Authentication-related errors. Both merge distinct causes on purpose.
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Invalid username or password",
		"",
	)

	ErrInvalidToken = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_TOKEN",
		"Invalid token",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	// Store-related errors
	ErrUnknownStore = NewBaseError(
		http.StatusServiceUnavailable,
		"UNKNOWN_STORE_ERROR",
		"The account store is unavailable, please try again later",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)
)

// ValidationError carries the field-keyed report of a failed validation.
// It satisfies errors.Is(err, ErrValidationFailed).
type ValidationError struct {
	fields map[string]string
}

// NewValidationError creates a validation error from a field to message map.
func NewValidationError(fields map[string]string) *ValidationError {
	copied := make(map[string]string, len(fields))
	for k, v := range fields {
		copied[k] = v
	}

	return &ValidationError{fields: copied}
}

func (e *ValidationError) Error() string {
	return ErrValidationFailed.message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

func (e *ValidationError) HTTPCode() int {
	return ErrValidationFailed.httpCode
}

func (e *ValidationError) ErrorCode() string {
	return ErrValidationFailed.errorCode
}

func (e *ValidationError) Message() string {
	return ErrValidationFailed.message
}

func (e *ValidationError) Details() string {
	return ""
}

// FieldErrors returns the first error message for each failing field.
func (e *ValidationError) FieldErrors() map[string]string {
	return e.fields
}

// StoreError represents a failure of the account store, implementing the AppError interface.
// The cause is kept for logs and never rendered to the caller.
type StoreError struct {
	err     error
	details string
}

// NewStoreError creates a store-related error
func NewStoreError(err error, details string) AppError {
	return &StoreError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *StoreError) Error() string {
	return errors.Wrap(e.err, "account store failed").Error()
}

// Unwrap exposes the underlying store error.
func (e *StoreError) Unwrap() error {
	return e.err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrUnknownStore
}

// HTTPCode returns the HTTP status code
func (e *StoreError) HTTPCode() int {
	return ErrUnknownStore.httpCode
}

// ErrorCode returns the business error code
func (e *StoreError) ErrorCode() string {
	return ErrUnknownStore.errorCode
}

// Message returns the user-friendly error message
func (e *StoreError) Message() string {
	return ErrUnknownStore.message
}

// Details returns detailed error information
func (e *StoreError) Details() string {
	return e.details
}

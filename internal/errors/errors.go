// Package errors provides typed errors for LuminaPay.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the application error taxonomy.
var (
	// ErrNotFound indicates a resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the caller is not authenticated.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation indicates malformed user input (phone, email,
	// payment address, amount). Surfaced inline, never fatal.
	ErrValidation = errors.New("validation error")

	// ErrInvalidFormat indicates a structurally invalid import file:
	// no header row, or a required column could not be mapped.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrNoValidData indicates a structurally valid import file in
	// which no row survived validation.
	ErrNoValidData = errors.New("no valid data")

	// ErrRemoteService indicates an intent-parsing or chat call failed.
	// Recovery is user-initiated; the flow silently stays put.
	ErrRemoteService = errors.New("remote service failure")

	// ErrSessionDecode indicates a corrupted or undecodable session
	// blob. Treated as logged-out, never surfaced to the user.
	ErrSessionDecode = errors.New("session decode failure")

	// ErrInsufficientFunds indicates a debit larger than the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrFlowState indicates an operation invalid in the current flow
	// state (e.g. submitting a short PIN).
	ErrFlowState = errors.New("invalid flow state")

	// ErrRateLimit indicates too many requests.
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrInternal indicates an internal server error.
	ErrInternal = errors.New("internal error")
)

// AppError is a structured application error.
type AppError struct {
	// Type is the error type (sentinel error).
	Type error
	// Message is the user-facing error message.
	Message string
	// Details contains additional error details.
	Details map[string]any
	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error type.
func (e *AppError) Unwrap() error {
	return e.Type
}

// Is checks if this error matches the target.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Type, target)
}

// New creates a new AppError.
func New(errType error, message string) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(errType error, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// WithDetails adds details to an AppError.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

// Validation creates a validation error.
func Validation(message string) *AppError {
	return &AppError{
		Type:    ErrValidation,
		Message: message,
	}
}

// ValidationField creates a validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Type:    ErrValidation,
		Message: message,
		Details: map[string]any{"field": field},
	}
}

// NotFound creates a not found error.
func NotFound(resource string) *AppError {
	return &AppError{
		Type:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// Unauthorized creates an unauthorized error.
func Unauthorized(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return &AppError{
		Type:    ErrUnauthorized,
		Message: message,
	}
}

// RemoteService wraps a failed remote call.
func RemoteService(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrRemoteService,
		Message: message,
		Cause:   cause,
	}
}

// Internal creates an internal error.
func Internal(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrInternal,
		Message: message,
		Cause:   cause,
	}
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrUnauthorized):
		return 401
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidFormat),
		errors.Is(err, ErrNoValidData),
		errors.Is(err, ErrFlowState):
		return 400
	case errors.Is(err, ErrInsufficientFunds):
		return 422
	case errors.Is(err, ErrRateLimit):
		return 429
	case errors.Is(err, ErrRemoteService):
		return 502
	default:
		return 500
	}
}

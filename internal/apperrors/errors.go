// Package apperrors provides sentinel and custom error types for the application.
package apperrors

// ErrNotFound represents a "not found" error.
// Use when a requested resource doesn't exist.
var ErrNotFound = &NotFoundError{}

// NotFoundError is a sentinel error for resources that are not found.
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new NotFoundError with a custom message.
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.Resource != "" {
		return e.Resource + " not found"
	}

	return "resource not found"
}

// Is implements the error interface for error comparison.
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)

	return ok
}

// ErrValidation represents a validation error.
// Use when client input fails validation.
var ErrValidation = &ValidationError{}

// ValidationError is a sentinel error for validation failures.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new ValidationError with a custom message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.Field != "" {
		return "validation failed for field: " + e.Field
	}

	return "validation error"
}

// Is implements the error interface for error comparison.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)

	return ok
}

// ErrExternalService is the sentinel for failures of the embedding or
// completion provider after retries are exhausted.
var ErrExternalService = &ExternalServiceError{}

// ExternalServiceError wraps the final error from a remote provider call.
type ExternalServiceError struct {
	Service string
	Message string
	Err     error
}

// NewExternalServiceError creates an ExternalServiceError wrapping cause.
func NewExternalServiceError(service, message string, cause error) *ExternalServiceError {
	return &ExternalServiceError{
		Service: service,
		Message: message,
		Err:     cause,
	}
}

// Error implements the error interface.
func (e *ExternalServiceError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "external service failure"
	}

	if e.Service != "" {
		msg = e.Service + ": " + msg
	}

	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}

	return msg
}

// Unwrap exposes the underlying provider error.
func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// Is implements the error interface for error comparison.
func (e *ExternalServiceError) Is(target error) bool {
	_, ok := target.(*ExternalServiceError)

	return ok
}

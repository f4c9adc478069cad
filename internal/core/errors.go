package core

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors for handling decisions.
type ErrorCategory string

const (
	ErrCatConfig         ErrorCategory = "config"          // Invalid option or registry setup
	ErrCatValidation     ErrorCategory = "validation"      // Malformed or inconsistent input data
	ErrCatNotImplemented ErrorCategory = "not_implemented" // Known analysis kind without handlers
	ErrCatCollaborator   ErrorCategory = "collaborator"    // Chat session or extractor failure
	ErrCatInternal       ErrorCategory = "internal"        // Unexpected internal error
)

// DomainError represents a structured error from the domain layer.
type DomainError struct {
	Category  ErrorCategory
	Code      string
	Message   string
	Retryable bool
	Cause     error
	Details   map[string]interface{}
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches a target.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Category == t.Category && e.Code == t.Code
}

// WithCause wraps an underlying error.
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail adds contextual information.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ErrConfig creates a configuration error.
func ErrConfig(code, message string) *DomainError {
	return &DomainError{
		Category: ErrCatConfig,
		Code:     code,
		Message:  message,
	}
}

// ErrInvalidOption creates a configuration error naming the offending field
// and the constraint it violates.
func ErrInvalidOption(field, constraint string, got interface{}) *DomainError {
	return ErrConfig(CodeInvalidOption, fmt.Sprintf("%s must be %s (got %v)", field, constraint, got)).
		WithDetail("field", field).
		WithDetail("constraint", constraint).
		WithDetail("got", got)
}

// ErrValidation creates an input validation error.
func ErrValidation(code, message string) *DomainError {
	return &DomainError{
		Category: ErrCatValidation,
		Code:     code,
		Message:  message,
	}
}

// ErrNotImplemented creates an error for analysis kinds that are known but
// have no registered handlers.
func ErrNotImplemented(kind AnalysisKind) *DomainError {
	return &DomainError{
		Category: ErrCatNotImplemented,
		Code:     CodeKindNotImplemented,
		Message:  fmt.Sprintf("analysis kind %q is not implemented yet", kind),
		Details:  map[string]interface{}{"kind": string(kind)},
	}
}

// ErrCollaborator wraps a failure raised by an external collaborator.
func ErrCollaborator(code, message string, cause error) *DomainError {
	return &DomainError{
		Category:  ErrCatCollaborator,
		Code:      code,
		Message:   message,
		Retryable: true,
		Cause:     cause,
	}
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Retryable
	}
	return false
}

// GetCategory extracts the error category.
func GetCategory(err error) ErrorCategory {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Category
	}
	return ErrCatInternal
}

// IsCategory checks if an error belongs to a category.
func IsCategory(err error, cat ErrorCategory) bool {
	return GetCategory(err) == cat
}

// Predefined error codes
const (
	// Configuration error codes
	CodeInvalidOption      = "INVALID_OPTION"
	CodeUnregisteredKind   = "UNREGISTERED_KIND"
	CodeUnknownKind        = "UNKNOWN_KIND"
	CodeIncompleteHandlers = "INCOMPLETE_HANDLERS"
	CodeDuplicateKind      = "DUPLICATE_KIND"
	CodeKindNotImplemented = "KIND_NOT_IMPLEMENTED"
	CodeNoSession          = "NO_SESSION"

	// Input validation error codes
	CodeInvalidInput     = "INVALID_INPUT"
	CodeVariableMismatch = "VARIABLE_MISMATCH"
	CodeUnsupportedModel = "UNSUPPORTED_MODEL"

	// Collaborator error codes
	CodeChatFailed    = "CHAT_FAILED"
	CodeSessionFailed = "SESSION_FAILED"
	CodeProviderError = "PROVIDER_ERROR"
)

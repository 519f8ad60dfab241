package domain

import "fmt"

// Error codes used across the application
const (
	ErrCodeConfigError   = "CONFIG_ERROR"
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeFileNotFound  = "FILE_NOT_FOUND"
	ErrCodeUnsupported   = "UNSUPPORTED"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// DomainError represents an error with a stable code for programmatic handling
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any
func (e DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a DomainError with an explicit code
func NewDomainError(code, message string, cause error) error {
	return DomainError{Code: code, Message: message, Cause: cause}
}

// NewConfigError creates a configuration error. Invalid repository names,
// invalid log levels, and malformed typed values in the settings file all
// surface through this constructor.
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewInvalidInputError creates an error for malformed caller input
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewFileNotFoundError creates an error for a missing file
func NewFileNotFoundError(path string, cause error) error {
	return NewDomainError(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path), cause)
}

// IsConfigError reports whether err is a DomainError carrying ErrCodeConfigError
func IsConfigError(err error) bool {
	de, ok := err.(DomainError)
	return ok && de.Code == ErrCodeConfigError
}

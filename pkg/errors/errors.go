// Package errors provides structured error types for shipctl.
package errors

import (
	"fmt"
)

// ErrorCode identifies specific error conditions
type ErrorCode string

const (
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeParse        ErrorCode = "PARSE_ERROR"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeFetch        ErrorCode = "FETCH_ERROR"
	ErrCodeNotLoaded    ErrorCode = "NOT_LOADED"
	ErrCodeInvalidEnv   ErrorCode = "INVALID_ENVIRONMENT"
	ErrCodeBuild        ErrorCode = "BUILD_ERROR"
	ErrCodeMissingConf  ErrorCode = "MISSING_CONFIG"
	ErrCodePublish      ErrorCode = "PUBLISH_ERROR"
	ErrCodeInvalidation ErrorCode = "INVALIDATION_ERROR"
	ErrCodeDestination  ErrorCode = "DESTINATION_ERROR"
)

// Error is the base error type for shipctl
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
	Details map[string]interface{}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new error with the given code and message
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Wrap creates a new error wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
		Details: make(map[string]interface{}),
	}
}

// WithDetail adds a single detail to an error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	e.Details[key] = value
	return e
}

// ValidationError creates a validation error
func ValidationError(message string, details map[string]interface{}) *Error {
	return &Error{
		Code:    ErrCodeValidation,
		Message: message,
		Details: details,
	}
}

// ParseError creates a parse error
func ParseError(source string, err error) *Error {
	return &Error{
		Code:    ErrCodeParse,
		Message: fmt.Sprintf("failed to parse %s", source),
		Cause:   err,
		Details: map[string]interface{}{
			"source": source,
		},
	}
}

// NotFoundError creates a not found error
func NotFoundError(resourceType, name string) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s %q not found", resourceType, name),
		Details: map[string]interface{}{
			"resource_type": resourceType,
			"name":          name,
		},
	}
}

// InvalidEnvironmentError creates an error for an unrecognized environment name.
func InvalidEnvironmentError(name string, known []string) *Error {
	return &Error{
		Code:    ErrCodeInvalidEnv,
		Message: fmt.Sprintf("invalid environment %q", name),
		Details: map[string]interface{}{
			"environment": name,
			"known":       known,
		},
	}
}

// MissingConfigError creates an error for a missing environment config document.
func MissingConfigError(environment, path string) *Error {
	return &Error{
		Code:    ErrCodeMissingConf,
		Message: fmt.Sprintf("missing configuration document for environment %q at %s", environment, path),
		Details: map[string]interface{}{
			"environment": environment,
			"path":        path,
		},
	}
}

// BuildError creates a build failure error
func BuildError(command string, err error) *Error {
	return &Error{
		Code:    ErrCodeBuild,
		Message: fmt.Sprintf("build command %q failed", command),
		Cause:   err,
		Details: map[string]interface{}{
			"command": command,
		},
	}
}

// PublishError creates a publish failure error
func PublishError(destination string, err error) *Error {
	return &Error{
		Code:    ErrCodePublish,
		Message: fmt.Sprintf("failed to publish to %s", destination),
		Cause:   err,
		Details: map[string]interface{}{
			"destination": destination,
		},
	}
}

// DestinationError creates a destination error
func DestinationError(destination string, operation string, err error) *Error {
	return &Error{
		Code:    ErrCodeDestination,
		Message: fmt.Sprintf("destination %s failed during %s", destination, operation),
		Cause:   err,
		Details: map[string]interface{}{
			"destination": destination,
			"operation":   operation,
		},
	}
}

// Is checks if the error matches the given code
func Is(err error, code ErrorCode) bool {
	if e, ok := err.(*Error); ok {
		return e.Code == code
	}
	return false
}

// Package errors provides structured error handling for the txt2metadata connector
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeConfig represents invalid construction arguments or configuration
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeValidation represents invalid call arguments
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeUnexpectedStatus represents a response with a status other than the expected one
	ErrorTypeUnexpectedStatus ErrorType = "unexpected_status"
	// ErrorTypeMalformedResponse represents a response body that does not hold the expected entity
	ErrorTypeMalformedResponse ErrorType = "malformed_response"
	// ErrorTypeConnection represents transport level failures
	ErrorTypeConnection ErrorType = "connection"
	// ErrorTypeTimeout represents timeout errors
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeRateLimit represents rate limit errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeCircuitOpen represents requests rejected by an open circuit breaker
	ErrorTypeCircuitOpen ErrorType = "circuit_open"
	// ErrorTypeClosed represents use of a connector after Close
	ErrorTypeClosed ErrorType = "closed"
)

// DetailStatusCode is the detail key holding the HTTP status code of an
// unexpected status error.
const DetailStatusCode = "status_code"

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf creates a new error with a formatted message
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// UnexpectedStatus creates an unexpected status error carrying the status code.
func UnexpectedStatus(service string, statusCode int) *Error {
	err := &Error{
		Type:    ErrorTypeUnexpectedStatus,
		Message: fmt.Sprintf("%s service returned with unexpected status code: %d", service, statusCode),
		Stack:   captureStack(2),
	}
	return err.WithDetail(DetailStatusCode, statusCode)
}

// StatusCode returns the status code carried by an unexpected status error.
func StatusCode(err error) (int, bool) {
	var e *Error
	if !errors.As(err, &e) || e.Type != ErrorTypeUnexpectedStatus {
		return 0, false
	}
	code, ok := e.Details[DetailStatusCode].(int)
	return code, ok
}

// IsRetryable returns true if the error is retryable
func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}

	switch e.Type {
	case ErrorTypeRateLimit, ErrorTypeTimeout, ErrorTypeConnection, ErrorTypeCircuitOpen:
		return true
	default:
		return false
	}
}

// IsType checks if the error is of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}

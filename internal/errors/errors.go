// Package apperrors defines structured application error types,
// allowing for a clear distinction between error classes (formula parsing,
// numeric evaluation, search exhaustion, configuration) and for carrying
// the underlying cause.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// All error types implement the Unwrap() method to support errors.Is() and errors.As().
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorFormula  = 3   // Indicates a formula could not be parsed or evaluated.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ErrDomainExhausted signals that a bisection search observed no sign change
// anywhere in its allotted domain. It is a normal, expected outcome ("no
// crossover in range"), not a bug, and callers must distinguish it from a
// crossover found at the lower bound.
var ErrDomainExhausted = errors.New("no sign change in search domain")

// ParseError represents a malformed formula string: empty or placeholder
// input, unbalanced parentheses, or an unknown token.
type ParseError struct {
	// Formula is the offending formula text.
	Formula string
	// Cause is the underlying compiler error, if any.
	Cause error
}

// Error returns the error message for a ParseError.
func (e ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cannot parse formula %q: %v", e.Formula, e.Cause)
	}
	return fmt.Sprintf("cannot parse formula %q", e.Formula)
}

// Unwrap returns the underlying compiler error.
func (e ParseError) Unwrap() error { return e.Cause }

// NewParseError creates a new ParseError for the given formula text.
//
// Parameters:
//   - formula: The formula text that failed to parse.
//   - cause: The underlying error (can be nil).
//
// Returns:
//   - error: A new ParseError instance.
func NewParseError(formula string, cause error) error {
	return ParseError{Formula: formula, Cause: cause}
}

// EvalError represents a formula that parsed correctly but is undefined at
// the sampled point: division by zero, logarithm of a non-positive value,
// or a magnitude beyond the representable log range.
type EvalError struct {
	// Message explains why the evaluation failed.
	Message string
	// Cause is the underlying evaluator error, if any.
	Cause error
}

// Error returns the error message for an EvalError.
func (e EvalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("evaluation failed: %s: %v", e.Message, e.Cause)
	}
	return "evaluation failed: " + e.Message
}

// Unwrap returns the underlying evaluator error.
func (e EvalError) Unwrap() error { return e.Cause }

// NewEvalError creates a new EvalError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new EvalError instance containing the formatted message.
func NewEvalError(format string, a ...any) error {
	return EvalError{Message: fmt.Sprintf(format, a...)}
}

// MappingError represents a qubit-to-problem-size mapping formula that could
// not be evaluated even through the general numeric fallback.
type MappingError struct {
	// Formula is the mapping formula text.
	Formula string
	// Cause is the underlying error.
	Cause error
}

// Error returns the error message for a MappingError.
func (e MappingError) Error() string {
	return fmt.Sprintf("qubit mapping %q is not evaluable: %v", e.Formula, e.Cause)
}

// Unwrap returns the underlying error.
func (e MappingError) Unwrap() error { return e.Cause }

// NewMappingError creates a new MappingError.
//
// Parameters:
//   - formula: The mapping formula text.
//   - cause: The underlying error.
//
// Returns:
//   - error: A new MappingError instance.
func NewMappingError(formula string, cause error) error {
	return MappingError{Formula: formula, Cause: cause}
}

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ServerError represents errors that occur in the HTTP server component.
// It wraps an underlying error with additional context specific to the server operation.
type ServerError struct {
	// Message is a descriptive message about the server error.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns the error message for a ServerError.
// It combines the descriptive message and the underlying cause if present.
func (e ServerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e ServerError) Unwrap() error { return e.Cause }

// NewServerError creates a new ServerError with a message and optional cause.
//
// Parameters:
//   - message: A description of the error context.
//   - cause: The underlying error that occurred (can be nil).
//
// Returns:
//   - error: A new ServerError instance.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// ValidationError represents an error due to invalid input validation.
// It is used for API request validation and configuration validation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message describes why validation failed.
	Message string
	// Value is the invalid value (optional, may be nil).
	Value any
}

// Error returns the error message for a ValidationError.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new ValidationError.
//
// Parameters:
//   - field: The name of the field that failed validation.
//   - message: A description of why validation failed.
//   - value: The invalid value (optional).
//
// Returns:
//   - error: A new ValidationError instance.
func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsFormulaError reports whether the error originates from formula parsing
// or evaluation (a ParseError or an EvalError anywhere in the chain).
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: true if the error is a formula error.
func IsFormulaError(err error) bool {
	var pe ParseError
	var ee EvalError
	return errors.As(err, &pe) || errors.As(err, &ee)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: true if the error is a context error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

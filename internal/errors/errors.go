// Package errors provides structured error types and exit codes for ptxgen.
package errors

import (
	"fmt"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess      = 0 // Success (including runs with per-unit compile failures)
	ExitRuntimeError = 1 // Runtime or precondition error (missing nvcc, failed postcondition, etc.)
	ExitConfigError  = 2 // Configuration error (invalid config file, bad flag combination, etc.)
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindPrecondition
	KindPostcondition
)

// Error is the base error type for ptxgen. Per-unit compile failures are
// never represented as Error values; they are folded into batch summaries.
type Error struct {
	Kind    ErrorKind
	Message string
	Arch    string // Architecture token if applicable
	Cause   error  // Underlying error
}

func (e *Error) Error() string {
	if e.Arch != "" {
		return fmt.Sprintf("[sm_%s] %s", e.Arch, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *Error) ExitCode() int {
	switch e.Kind {
	case KindConfig:
		return ExitConfigError
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...interface{}) *Error {
	return New(fmt.Sprintf(format, args...))
}

// Config creates a new configuration error.
func Config(message string) *Error {
	return &Error{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *Error {
	return Config(fmt.Sprintf(format, args...))
}

// Precondition creates an error for a failed startup precondition
// (missing compiler executable, missing input directory).
func Precondition(message string) *Error {
	return &Error{
		Kind:    KindPrecondition,
		Message: message,
	}
}

// Preconditionf creates a precondition error with formatting.
func Preconditionf(format string, args ...interface{}) *Error {
	return Precondition(fmt.Sprintf(format, args...))
}

// Postcondition creates an error for a failed final verification
// (more files remaining than the requested limit).
func Postcondition(message string) *Error {
	return &Error{
		Kind:    KindPostcondition,
		Message: message,
	}
}

// Postconditionf creates a postcondition error with formatting.
func Postconditionf(format string, args ...interface{}) *Error {
	return Postcondition(fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// ArchError creates an error scoped to a specific architecture.
func ArchError(arch, message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Arch:    arch,
		Message: message,
	}
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if pe, ok := err.(*Error); ok {
		return pe.ExitCode()
	}
	return ExitRuntimeError
}

// Package errors provides the error types used across woosync.
// These errors separate configuration problems, bad source files, and
// remote-store transport failures so callers can decide what aborts an
// operation and what is merely recorded.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the woosync system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrCredentialsRequired indicates that store credentials are missing or incomplete
	ErrCredentialsRequired = errors.New("store credentials required")

	// ErrStoreUnavailable indicates that the remote store could not be reached
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled by the caller.
	// Callers must treat it as silent: no error dialog, no error log entry.
	ErrCanceled = errors.New("operation canceled")

	// ErrBusy indicates that another operation is already in flight
	ErrBusy = errors.New("operation already in progress")
)

// ConfigError represents a configuration error, typically missing or
// incomplete store credentials. It is always raised before any network call.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConfigError) Is(target error) bool {
	return target == ErrCredentialsRequired
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// SourceFormatError represents a problem with the uploaded source file:
// a missing required column, headers not formatted as expected, or an
// unsupported file extension. It aborts parsing entirely.
type SourceFormatError struct {
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *SourceFormatError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("source file %s: %s", e.File, e.Message)
	}
	return fmt.Sprintf("source file: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *SourceFormatError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SourceFormatError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewSourceFormatError creates a new SourceFormatError
func NewSourceFormatError(file, message string) *SourceFormatError {
	return &SourceFormatError{File: file, Message: message}
}

// TransportError represents a failure talking to the remote store:
// network error, timeout, or a non-success HTTP status. During fetch it
// aborts the operation; during apply it is recorded per record instead.
type TransportError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("store request %s %s failed (status %d): %s", e.Method, e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("store request %s %s failed: %s", e.Method, e.Endpoint, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *TransportError) Is(target error) bool {
	if e.StatusCode >= 500 {
		return target == ErrStoreUnavailable
	}
	return false
}

// NewTransportError creates a new TransportError
func NewTransportError(method, endpoint string, statusCode int, message string) *TransportError {
	return &TransportError{
		Method:     method,
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ValidationError represents a validation failure on user input,
// such as a negative stock edit.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// IOError represents an error during file I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "open"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{Operation: operation, Path: path, Message: message, Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsCredentialsError checks if an error is related to missing store credentials
func IsCredentialsError(err error) bool {
	return errors.Is(err, ErrCredentialsRequired)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsCanceled checks if an error is a cancellation error.
// Context cancellation from the standard library counts as canceled too.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsStoreUnavailable checks if an error indicates the store cannot be reached
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapTransport wraps an error as a TransportError
func WrapTransport(method, endpoint string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{
		Method:   method,
		Endpoint: endpoint,
		Message:  err.Error(),
		Err:      err,
	}
}

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

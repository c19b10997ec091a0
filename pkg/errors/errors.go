// Package errors provides custom error types for the nomina system.
// These errors enable programmatic error checking with errors.Is and
// carry enough context to distinguish transport failures, malformed
// authority payloads, and configuration mistakes.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the nomina system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceUnavailable indicates that an authority source is temporarily unavailable
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrCircuitOpen indicates that a call was short-circuited by an open circuit breaker
	ErrCircuitOpen = errors.New("circuit open")

	// ErrRateLimited indicates that the authority's rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
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
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// SourceError represents a transport-level failure from an authority source
type SourceError struct {
	Source     string // Source ID as string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *SourceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("source error from %s (status %d): %s", e.Source, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("source error from %s: %s", e.Source, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SourceError) Is(target error) bool {
	if e.StatusCode == 429 {
		return target == ErrRateLimited
	}
	if e.StatusCode >= 500 {
		return target == ErrSourceUnavailable
	}
	return false
}

// NewSourceError creates a new SourceError
func NewSourceError(source string, statusCode int, message string) *SourceError {
	return &SourceError{
		Source:     source,
		StatusCode: statusCode,
		Message:    message,
	}
}

// CircuitOpenError represents a call rejected by an open circuit breaker
type CircuitOpenError struct {
	Source string // Source ID as string
}

// Error implements the error interface
func (e *CircuitOpenError) Error() string {
	return fmt.Sprintf("circuit open for %s", e.Source)
}

// Is implements errors.Is support
func (e *CircuitOpenError) Is(target error) bool {
	return target == ErrCircuitOpen
}

// NewCircuitOpenError creates a new CircuitOpenError
func NewCircuitOpenError(source string) *CircuitOpenError {
	return &CircuitOpenError{Source: source}
}

// ParseError represents an error when parsing an authority response payload
type ParseError struct {
	Source  string // Source that produced the payload
	Format  string // "json", "yaml", "sparql-json", etc.
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s parse error from %s: %s", e.Format, e.Source, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(source, format, message string, err error) *ParseError {
	return &ParseError{
		Source:  source,
		Format:  format,
		Message: message,
		Err:     err,
	}
}

// ConfigError represents a configuration error
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

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ReconcileError represents a failure while reconciling a single entity
type ReconcileError struct {
	EntityID string
	Name     string
	Err      error
}

// Error implements the error interface
func (e *ReconcileError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("reconcile error for entity %s (%q): %v", e.EntityID, e.Name, e.Err)
	}
	return fmt.Sprintf("reconcile error for entity %s: %v", e.EntityID, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ReconcileError) Unwrap() error {
	return e.Err
}

// NewReconcileError creates a new ReconcileError
func NewReconcileError(entityID, name string, err error) *ReconcileError {
	return &ReconcileError{EntityID: entityID, Name: name, Err: err}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete", "open", "close"
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
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// TimeoutError represents an operation timeout
type TimeoutError struct {
	Operation string
	Duration  string
	Message   string
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	if e.Duration != "" {
		return fmt.Sprintf("operation %s timed out after %s: %s", e.Operation, e.Duration, e.Message)
	}
	return fmt.Sprintf("operation %s timed out: %s", e.Operation, e.Message)
}

// Is implements errors.Is support
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(operation, duration, message string) *TimeoutError {
	return &TimeoutError{
		Operation: operation,
		Duration:  duration,
		Message:   message,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// IsCanceled checks if an error is a cancellation error, including a
// context.Canceled wrapped inside a transport error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled)
}

// IsSourceUnavailable checks if an error indicates source unavailability
func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

// IsCircuitOpen checks if an error came from an open circuit breaker
func IsCircuitOpen(err error) bool {
	return errors.Is(err, ErrCircuitOpen)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapSource wraps an error as a SourceError
func WrapSource(source string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &SourceError{
		Source:     source,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}

// WrapParse wraps an error as a ParseError
func WrapParse(source, format string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(source, format, err.Error(), err)
}

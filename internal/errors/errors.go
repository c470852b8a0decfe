// Package errors provides centralized error definitions and error handling
// utilities for groupsense. It defines domain-specific errors, semantic error
// types, error constructors with context wrapping, and classification helpers.
//
// Line dispatch never produces errors: unrecognized game output is ignored.
// The types here cover the edges of the system instead: transports that fail
// to connect or drop, scenario files that do not match their expectations,
// configuration that does not validate, and active commands that time out.
//
// # Error Types
//
// Domain-specific errors:
//   - TransportError: errors from a line source or command sink
//   - ScenarioError: errors from loading or replaying a scenario file
//
// Semantic errors:
//   - NotFoundError: resource not found (e.g. a member lookup)
//   - ValidationError: invalid input or configuration
//   - TimeoutError: an awaited reply never arrived
//
// # Usage
//
//	err := errors.NewTransportError("dial failed", cause).WithEndpoint("tcp://localhost:8000")
//	if errors.Is(err, errors.ErrTransportUnavailable) { ... }
//
//	var scenarioErr *errors.ScenarioError
//	if errors.As(err, &scenarioErr) { ... }
//
//	if errors.IsRetryable(err) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Transport-related sentinel errors
var (
	// ErrTransportUnavailable indicates the line source or command sink could not be reached.
	ErrTransportUnavailable = New("transport unavailable")
	// ErrTransportClosed indicates the transport was closed while in use.
	ErrTransportClosed = New("transport closed")
	// ErrUnsupportedTransport indicates an unknown transport kind was configured.
	ErrUnsupportedTransport = New("unsupported transport")
	// ErrNoCommander indicates a command was issued on a read-only transport.
	ErrNoCommander = New("transport cannot send commands")
)

// Scenario-related sentinel errors
var (
	// ErrScenarioInvalid indicates a scenario file could not be parsed or is incomplete.
	ErrScenarioInvalid = New("invalid scenario")
	// ErrScenarioMismatch indicates replayed state differed from the expectation.
	ErrScenarioMismatch = New("scenario expectation not met")
)

// Group-related sentinel errors
var (
	// ErrGroupClosed indicates the target's group is closed to new members.
	ErrGroupClosed = New("group is closed")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// GroupsenseError is the base interface for all groupsense errors.
// It extends the standard error interface with methods for classification.
type GroupsenseError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the error is transient and the operation
	// may succeed on retry.
	IsRetryable() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message   string
	cause     error
	severity  Severity
	retryable bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// formatWithContext renders "prefix [k=v, ...]: message: cause".
func formatWithContext(prefix string, parts []string, message string, cause error) string {
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", prefix, strings.Join(parts, ", "))
	}
	if cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, message, cause)
	}
	return fmt.Sprintf("%s: %s", prefix, message)
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// TransportError represents errors from a line source or command sink.
//
// Example:
//
//	err := errors.NewTransportError("dial failed", errors.ErrTransportUnavailable)
//	err = err.WithKind("tcp").WithEndpoint("localhost:8000")
//	fmt.Println(err) // "transport error [kind=tcp, endpoint=localhost:8000]: dial failed: transport unavailable"
type TransportError struct {
	baseError
	Kind     string
	Endpoint string
}

// NewTransportError creates a new TransportError.
// Transport errors are retryable by default since connections drop and recover.
func NewTransportError(message string, cause error) *TransportError {
	return &TransportError{
		baseError: baseError{
			message:   message,
			cause:     cause,
			severity:  SeverityError,
			retryable: true,
		},
	}
}

// WithKind records the transport kind (tcp, websocket, follow, ...).
func (e *TransportError) WithKind(kind string) *TransportError {
	e.Kind = kind
	return e
}

// WithEndpoint records the address, URL, or path involved.
func (e *TransportError) WithEndpoint(endpoint string) *TransportError {
	e.Endpoint = endpoint
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *TransportError) WithRetryable(r bool) *TransportError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *TransportError) Error() string {
	var parts []string
	if e.Kind != "" {
		parts = append(parts, "kind="+e.Kind)
	}
	if e.Endpoint != "" {
		parts = append(parts, "endpoint="+e.Endpoint)
	}
	return formatWithContext("transport error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *TransportError) Is(target error) bool {
	if _, ok := target.(*TransportError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ScenarioError represents errors from loading or replaying a scenario.
//
// Example:
//
//	err := errors.NewScenarioError("leader mismatch", errors.ErrScenarioMismatch)
//	err = err.WithScenario("swap-leader").WithStep(3)
type ScenarioError struct {
	baseError
	Scenario string
	Step     int // 1-based line index; 0 when the error is not tied to a line
	Details  []string
}

// NewScenarioError creates a new ScenarioError.
func NewScenarioError(message string, cause error) *ScenarioError {
	return &ScenarioError{
		baseError: baseError{
			message:   message,
			cause:     cause,
			severity:  SeverityError,
			retryable: false,
		},
	}
}

// WithScenario records the scenario name.
func (e *ScenarioError) WithScenario(name string) *ScenarioError {
	e.Scenario = name
	return e
}

// WithStep records the 1-based line index the error relates to.
func (e *ScenarioError) WithStep(step int) *ScenarioError {
	e.Step = step
	return e
}

// WithDetails attaches individual mismatch descriptions.
func (e *ScenarioError) WithDetails(details ...string) *ScenarioError {
	e.Details = append(e.Details, details...)
	return e
}

// Error returns the formatted error message.
func (e *ScenarioError) Error() string {
	var parts []string
	if e.Scenario != "" {
		parts = append(parts, "scenario="+e.Scenario)
	}
	if e.Step > 0 {
		parts = append(parts, fmt.Sprintf("step=%d", e.Step))
	}
	msg := e.message
	if len(e.Details) > 0 {
		msg = fmt.Sprintf("%s (%s)", msg, strings.Join(e.Details, "; "))
	}
	return formatWithContext("scenario error", parts, msg, e.cause)
}

// Is checks if this error matches the target.
func (e *ScenarioError) Is(target error) bool {
	if _, ok := target.(*ScenarioError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("member", "Oreh")
//	fmt.Println(err) // "member 'Oreh' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:   fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:  SeverityWarning,
			retryable: false,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input or configuration.
//
// Example:
//
//	err := errors.NewValidationError("must be positive").WithField("probe.timeout_ms").WithValue(-1)
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:   message,
			severity:  SeverityWarning,
			retryable: false,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, "field="+e.Field)
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}
	return formatWithContext("validation error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// TimeoutError represents an awaited reply that never arrived.
//
// Example:
//
//	err := errors.NewTimeoutError("waiting for group add reply", 3*time.Second)
//	fmt.Println(err) // "timeout error: waiting for group add reply (timeout: 3s)"
type TimeoutError struct {
	baseError
	Operation string
	Duration  time.Duration
}

// NewTimeoutError creates a new TimeoutError.
func NewTimeoutError(operation string, duration time.Duration) *TimeoutError {
	return &TimeoutError{
		baseError: baseError{
			message:   operation,
			severity:  SeverityWarning,
			retryable: true,
		},
		Operation: operation,
		Duration:  duration,
	}
}

// WithCause adds a cause to the error.
func (e *TimeoutError) WithCause(cause error) *TimeoutError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *TimeoutError) Error() string {
	base := fmt.Sprintf("timeout error: %s (timeout: %s)", e.Operation, e.Duration)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", base, e.cause)
	}
	return base
}

// Is checks if this error matches the target.
func (e *TimeoutError) Is(target error) bool {
	if _, ok := target.(*TimeoutError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition
// that may succeed on retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var gsErr GroupsenseError
	if As(err, &gsErr) {
		return gsErr.IsRetryable()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement GroupsenseError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var gsErr GroupsenseError
	if As(err, &gsErr) {
		return gsErr.Severity()
	}
	return SeverityError
}

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to open log")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

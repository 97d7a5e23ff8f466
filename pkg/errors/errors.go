// Package errors defines the typed errors shared by the retrieval cascade,
// the reconciler and the HTTP layer, so failures can be classified with
// errors.Is and errors.As instead of string matching.
//
// Errors fall into three groups: failures talking to the authority service
// (APIError, TimeoutError, StageError), bad caller input (ValidationError,
// ParseError) and local resources (NotFoundError, ResourceError).
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-exports of the standard helpers, so callers need one errors import.
var (
	New    = errors.New
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Sentinels matched by the typed errors' Is methods.
var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrAuthorityUnavailable = errors.New("authority service unavailable")
	ErrRateLimited          = errors.New("rate limited")
	ErrTimeout              = errors.New("timed out")
)

// APIError is a failed call to the authority service. StatusCode is zero
// when no response arrived.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s request failed: %s", e.Endpoint, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// Is reports 429 as ErrRateLimited, 5xx and transport failures as
// ErrAuthorityUnavailable.
func (e *APIError) Is(target error) bool {
	switch {
	case e.StatusCode == http.StatusTooManyRequests:
		return target == ErrRateLimited
	case e.StatusCode == 0, e.StatusCode >= 500:
		return target == ErrAuthorityUnavailable
	}
	return false
}

// NewAPIError creates an APIError for a response with the given status.
func NewAPIError(endpoint string, statusCode int, message string) *APIError {
	return &APIError{Endpoint: endpoint, StatusCode: statusCode, Message: message}
}

// TimeoutError is an authority call that exceeded its deadline.
type TimeoutError struct {
	Operation string
	Duration  string
	Message   string
}

func (e *TimeoutError) Error() string {
	if e.Duration != "" {
		return fmt.Sprintf("%s timed out after %s: %s", e.Operation, e.Duration, e.Message)
	}
	return fmt.Sprintf("%s timed out: %s", e.Operation, e.Message)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout || target == ErrAuthorityUnavailable
}

// NewTimeoutError creates a TimeoutError.
func NewTimeoutError(operation, duration, message string) *TimeoutError {
	return &TimeoutError{Operation: operation, Duration: duration, Message: message}
}

// StageError ties a retrieval failure to the cascade stage and term.
type StageError struct {
	Stage string
	Term  string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed for %q: %v", e.Stage, e.Term, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// WrapStage wraps err as a StageError; nil stays nil.
func WrapStage(stage, term string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Term: term, Err: err}
}

// ValidationError is a caller-supplied value that cannot be used.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid input: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ParseError is a payload that could not be decoded: an inbound batch or
// an authority response in json, xml or html.
type ParseError struct {
	Format  string
	Source  string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("malformed %s from %s: %s", e.Format, e.Source, e.Message)
	}
	return fmt.Sprintf("malformed %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NewParseError creates a ParseError.
func NewParseError(format, source, message string, err error) *ParseError {
	return &ParseError{Format: format, Source: source, Message: message, Err: err}
}

// WrapParse wraps err as a ParseError; nil stays nil.
func WrapParse(format, source string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, source, err.Error(), err)
}

// NotFoundError is a missing local resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ResourceError is a failed operation on a local resource such as a
// config or batch file.
type ResourceError struct {
	Operation string
	Resource  string
	ID        string
	Err       error
}

func (e *ResourceError) Error() string {
	target := e.Resource
	if e.ID != "" {
		target += " " + e.ID
	}
	return fmt.Sprintf("cannot %s %s: %v", e.Operation, target, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// WrapResource wraps err as a ResourceError; nil stays nil.
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return &ResourceError{Operation: operation, Resource: resource, ID: id, Err: err}
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsValidationError reports whether err is caused by invalid input.
func IsValidationError(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsRateLimited reports whether the authority service throttled the call.
func IsRateLimited(err error) bool { return errors.Is(err, ErrRateLimited) }

// IsTimeout reports whether err is a timeout.
func IsTimeout(err error) bool { return errors.Is(err, ErrTimeout) }

// IsAuthorityUnavailable reports whether the authority service could not
// answer: unreachable, 5xx or timed out.
func IsAuthorityUnavailable(err error) bool { return errors.Is(err, ErrAuthorityUnavailable) }

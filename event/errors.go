package event

import (
	"errors"
	"fmt"
)

// Condition check errors. Each failure returned by Invoke matches exactly one
// of these kinds.
var (
	// ErrUnknownEvent indicates no checker is registered under the name.
	ErrUnknownEvent = errors.New("unknown event")

	// ErrInvalidArguments indicates the annotation passed the wrong number
	// or type of arguments.
	ErrInvalidArguments = errors.New("invalid event arguments")

	// ErrInvalidDateFormat indicates a date argument could not be parsed.
	ErrInvalidDateFormat = errors.New("invalid date format")

	// ErrPackageNotFound indicates the package registry has no such package.
	ErrPackageNotFound = errors.New("package not found")

	// ErrResourceNotFound indicates the repository, issue, or pull request
	// does not exist.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrAuthentication indicates credentials are required and missing or
	// invalid.
	ErrAuthentication = errors.New("authentication failed")

	// ErrLookupFailed indicates an external lookup did not succeed after
	// retries. A later run may succeed.
	ErrLookupFailed = errors.New("lookup failed")
)

// UnknownEventError is returned when Invoke is called with an unbound name.
type UnknownEventError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("unknown event %q", e.Name)
}

// Unwrap returns ErrUnknownEvent.
func (e *UnknownEventError) Unwrap() error {
	return ErrUnknownEvent
}

// ArgumentError describes a bad annotation argument.
type ArgumentError struct {
	// Index is the zero-based argument position, or -1 for arity errors.
	Index int

	// Reason explains what was expected.
	Reason string
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	if e.Index < 0 {
		return "invalid event arguments: " + e.Reason
	}
	return fmt.Sprintf("invalid event argument %d: %s", e.Index+1, e.Reason)
}

// Unwrap returns ErrInvalidArguments.
func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArguments
}

// LookupError is a failed query against an external system.
type LookupError struct {
	// Kind is one of ErrPackageNotFound, ErrResourceNotFound,
	// ErrAuthentication, or ErrLookupFailed.
	Kind error

	// Service names the external system (e.g., "rubygems", "github").
	Service string

	// Target is what was looked up (e.g., "rails", "org/repo#42").
	Target string

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", e.Kind, e.Service, e.Target, e.Err)
}

// Unwrap returns the kind and the underlying failure.
func (e *LookupError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// IsRetryable reports whether a later run might succeed without the
// annotation being changed.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrLookupFailed)
}

// IsCallerError reports whether the annotation itself is wrong and will keep
// failing until it is edited.
func IsCallerError(err error) bool {
	return errors.Is(err, ErrUnknownEvent) ||
		errors.Is(err, ErrInvalidArguments) ||
		errors.Is(err, ErrInvalidDateFormat)
}

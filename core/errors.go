package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for classification. Use errors.Is to match.
var (
	// ErrInvalidValue indicates a parameter or structural validation failure.
	// It is always raised before any I/O happens.
	ErrInvalidValue = errors.New("invalid value")

	// ErrAuthentication indicates a missing or rejected credential.
	ErrAuthentication = errors.New("authentication failed")

	// ErrNetwork indicates the transport could not complete the round trip.
	ErrNetwork = errors.New("network error")

	// ErrRateLimited indicates the endpoint signaled throttling.
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates a deadline was exceeded. Deadlines are enforced by
	// the transport; the client only classifies the failure.
	ErrTimeout = errors.New("timeout")

	// ErrDecode indicates a wire payload did not match the expected shape.
	ErrDecode = errors.New("decode error")

	// ErrProtocol indicates malformed streaming framing or an exceeded
	// buffering limit.
	ErrProtocol = errors.New("protocol error")

	// ErrUnknown is the catch-all for unclassified transport-layer failures.
	ErrUnknown = errors.New("unknown error")
)

// Error carries context for a classified failure. Err is always one of the
// sentinel errors above, so callers can branch with errors.Is while still
// seeing the field, status, and detail that produced the failure.
type Error struct {
	// Field names the offending value for validation failures.
	Field string

	// Status is the HTTP status code for server-reported failures, 0 otherwise.
	Status int

	// RequestID is the server-assigned request correlation ID, if any.
	RequestID string

	// Detail is a human-readable description.
	Detail string

	// Err is the classifying sentinel.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("%v: %s: %s", e.Err, e.Field, e.Detail)
	case e.RequestID != "":
		return fmt.Sprintf("%v: %s (status=%d, request_id=%s)", e.Err, e.Detail, e.Status, e.RequestID)
	case e.Status != 0:
		return fmt.Sprintf("%v: %s (status=%d)", e.Err, e.Detail, e.Status)
	default:
		return fmt.Sprintf("%v: %s", e.Err, e.Detail)
	}
}

// Unwrap returns the classifying sentinel for error chaining.
func (e *Error) Unwrap() error {
	return e.Err
}

// invalidValue builds the validation error used by all fallible constructors.
func invalidValue(field, detail string) error {
	return &Error{Field: field, Detail: detail, Err: ErrInvalidValue}
}

func invalidValuef(field, format string, args ...any) error {
	return invalidValue(field, fmt.Sprintf(format, args...))
}

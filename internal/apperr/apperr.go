// Package apperr provides the typed outcomes the ledger reports to callers.
package apperr

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeInvalidInput marks a validation failure on caller-supplied values.
	// No state is mutated when it is returned.
	CodeInvalidInput Code = "INVALID_INPUT"

	// CodeImport marks a malformed external snapshot. The previous state is
	// preserved.
	CodeImport Code = "IMPORT_ERROR"

	// CodeNotFound marks an operation on an entity that does not exist.
	CodeNotFound Code = "NOT_FOUND"

	// CodeStaleRevision marks a write based on an outdated stored revision.
	CodeStaleRevision Code = "STALE_REVISION"
)

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Human-readable message
	Metadata map[string]string // Additional context (field names, totals)
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil && e.Message == "" {
		return e.Cause.Error()
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidInput  = &Error{Code: CodeInvalidInput}
	ErrImport        = &Error{Code: CodeImport}
	ErrNotFound      = &Error{Code: CodeNotFound}
	ErrStaleRevision = &Error{Code: CodeStaleRevision}
)

// InvalidInput creates a validation error.
func InvalidInput(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// InvalidInputWithMetadata creates a validation error carrying metadata.
func InvalidInputWithMetadata(metadata map[string]string, format string, args ...any) *Error {
	return &Error{Code: CodeInvalidInput, Message: fmt.Sprintf(format, args...), Metadata: metadata}
}

// Import wraps a snapshot decoding failure.
func Import(message string, cause error) *Error {
	return &Error{Code: CodeImport, Message: message, Cause: cause}
}

// NotFound reports a missing entity of the given kind.
func NotFound(kind, id string) *Error {
	return &Error{
		Code:     CodeNotFound,
		Message:  fmt.Sprintf("%s not found: %s", kind, id),
		Metadata: map[string]string{"kind": kind, "id": id},
	}
}

// StaleRevision reports an optimistic concurrency conflict.
func StaleRevision(key string, expected, actual uint64) *Error {
	return &Error{
		Code:    CodeStaleRevision,
		Message: fmt.Sprintf("ledger %q changed: expected revision %d, found %d", key, expected, actual),
		Metadata: map[string]string{
			"key":      key,
			"expected": fmt.Sprint(expected),
			"actual":   fmt.Sprint(actual),
		},
	}
}

// CodeOf returns the code of the first *Error in err's chain, or "" when
// there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Package domainerrors provides coded errors shared by services, stores, and
// the HTTP layer. Services create them with New or Wrap; handlers translate
// codes to HTTP statuses with ToHTTPStatus.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for transport mapping and retry decisions.
type Code string

const (
	// CodeValidation marks a missing or malformed field. Never retried.
	CodeValidation Code = "validation"
	// CodeBadRequest marks a structurally broken request (unreadable body,
	// bad id in the path).
	CodeBadRequest Code = "bad_request"
	// CodeDuplicateSequence marks a sequence number collision within one
	// document. The service retries assignment once before surfacing it.
	CodeDuplicateSequence Code = "duplicate_sequence"
	// CodeConflict marks a uniqueness violation outside the sequence
	// constraint, e.g. a duplicate reference-table pair.
	CodeConflict Code = "conflict"
	// CodeInvalidTransition marks a state machine precondition violation.
	CodeInvalidTransition Code = "invalid_transition"
	// CodeTemporalOrdering marks a timestamp that runs backwards against an
	// earlier lifecycle event.
	CodeTemporalOrdering Code = "temporal_ordering"
	// CodeNotFound marks a missing document or destination.
	CodeNotFound Code = "not_found"
	// CodeStoreUnavailable marks a record store failure. The core never
	// retries; retry policy belongs to the caller.
	CodeStoreUnavailable Code = "store_unavailable"
	// CodeInternal is the fallback for unexpected failures.
	CodeInternal Code = "internal"
)

// Error is a coded domain error. The message is safe to show to callers
// except for CodeInternal and CodeStoreUnavailable, which the HTTP layer
// redacts.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error with a caller-facing message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// chain for errors.Is/As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeBadRequest:
		return http.StatusBadRequest
	case CodeDuplicateSequence, CodeConflict, CodeInvalidTransition:
		return http.StatusConflict
	case CodeTemporalOrdering:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Package apperr defines the error taxonomy surfaced by the stores to
// handlers, tools and the CLI.
package apperr

import (
	"errors"
	"fmt"
)

// Code categorizes an error for callers
type Code string

const (
	// CodeNotAuthenticated indicates the backend rejected the session (401)
	CodeNotAuthenticated Code = "NOT_AUTHENTICATED"

	// CodeMissingArtifact indicates no artifact id is stored for the project
	CodeMissingArtifact Code = "MISSING_ARTIFACT"

	// CodeNetworkOrServer indicates a transport failure or non-2xx response
	CodeNetworkOrServer Code = "NETWORK_OR_SERVER"

	// CodeMalformedResponse indicates a backend payload failed validation
	CodeMalformedResponse Code = "MALFORMED_RESPONSE"

	// CodePrecondition indicates a local precondition was not met
	CodePrecondition Code = "PRECONDITION"

	// CodeNotFound indicates an unknown project, file or record
	CodeNotFound Code = "NOT_FOUND"

	// CodeSuperseded indicates a newer request for the same project won
	CodeSuperseded Code = "SUPERSEDED"

	// CodeInvalidArgument indicates bad caller input
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// CodeAlreadyExists indicates a file path is already taken
	CodeAlreadyExists Code = "ALREADY_EXISTS"
)

// Error is a categorized error
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// New creates a new Error
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error around a cause
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

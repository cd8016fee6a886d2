// Package errors provides structured error types for depfetch.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code] so the CLI and the HTTP API can tell a malformed coordinate from a
// missing POM or a broken download without string matching.
//
// # Error Codes
//
//   - MALFORMED_COORDINATE, INVALID_*: input validation failures
//   - COLLECTION_FAILED, METADATA_NOT_FOUND, DEPTH_EXCEEDED: graph collection
//   - TRANSPORT_FAILURE, NETWORK_ERROR: fetching artifact bytes
//   - ATTACHMENT_NOT_FOUND: a companion classifier is unavailable (never fatal)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedCoordinate, "bad coordinate %q", s)
//	if errors.Is(err, errors.ErrCodeMalformedCoordinate) {
//	    // report and continue with the next root
//	}
//
//	err := errors.Wrap(errors.ErrCodeTransport, origErr, "fetch %s", coord)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput        Code = "INVALID_INPUT"
	ErrCodeInvalidConfig       Code = "INVALID_CONFIG"
	ErrCodeMalformedCoordinate Code = "MALFORMED_COORDINATE"

	// Graph collection errors
	ErrCodeCollection       Code = "COLLECTION_FAILED"
	ErrCodeMetadataNotFound Code = "METADATA_NOT_FOUND"
	ErrCodeDepthExceeded    Code = "DEPTH_EXCEEDED"

	// Artifact retrieval errors
	ErrCodeTransport          Code = "TRANSPORT_FAILURE"
	ErrCodeAttachmentNotFound Code = "ATTACHMENT_NOT_FOUND"
	ErrCodeNetwork            Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// HTTPStatus maps c to the status the HTTP API answers with.
func (c Code) HTTPStatus() int {
	switch c {
	case ErrCodeInvalidInput, ErrCodeMalformedCoordinate, ErrCodeCollection:
		return http.StatusBadRequest
	case ErrCodeMetadataNotFound, ErrCodeAttachmentNotFound:
		return http.StatusNotFound
	case ErrCodeDepthExceeded:
		return http.StatusUnprocessableEntity
	case ErrCodeTransport, ErrCodeNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Error carries a [Code], a message for users and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is [New] with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether any *Error in err's chain carries code. Unlike
// [errors.Is] it compares codes, not identities.
func Is(err error, code Code) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the outermost code in err's chain, or "" if none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage is the outermost message without its code prefix, falling
// back to err.Error() for foreign errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

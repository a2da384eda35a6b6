// Package errors defines the coded error taxonomy shared by every stash package.
//
// Callers compare errors by code rather than by identity:
//
//	if errors.Is(err, errors.CodeConversion) {
//	    // degrade to a placeholder icon
//	}
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Ingredient conversion errors
	CodeConversion        ErrorCode = "CONVERSION"
	CodeProtocolViolation ErrorCode = "PROTOCOL_VIOLATION"

	// Backend lifecycle errors
	CodeBackendUnavailable ErrorCode = "BACKEND_UNAVAILABLE"
	CodeUnknownBackend     ErrorCode = "UNKNOWN_BACKEND"

	// Folder persistence errors
	CodePersistence    ErrorCode = "PERSISTENCE"
	CodeFolderNotFound ErrorCode = "FOLDER_NOT_FOUND"

	// Layout errors
	CodeReentrantLayout ErrorCode = "REENTRANT_LAYOUT"

	// General errors
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// Error is a structured error with context
type Error struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Cause   error          `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *Error) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new Error
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new Error with a formatted message
func Newf(code ErrorCode, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with an Error
func Wrap(err error, code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is reports whether any error in err's chain carries the given code.
// A protocol violation also matches CodeConversion: callers degrade the same way.
func Is(err error, code ErrorCode) bool {
	for err != nil {
		var coded *Error
		if !stderrors.As(err, &coded) {
			return false
		}
		if coded.Code == code {
			return true
		}
		if code == CodeConversion && coded.Code == CodeProtocolViolation {
			return true
		}
		err = coded.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error
func GetCode(err error) ErrorCode {
	var coded *Error
	if stderrors.As(err, &coded) {
		return coded.Code
	}
	return ""
}

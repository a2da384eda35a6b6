package errors

import "fmt"

// Conversion creates a native<->ref conversion error for a backend
func Conversion(backend string, reason string) *Error {
	return New(CodeConversion, fmt.Sprintf("%s: cannot convert ingredient: %s", backend, reason)).
		WithDetail("backend", backend)
}

// ProtocolViolation creates an error for a backend call that behaved unexpectedly
func ProtocolViolation(backend string, op string, cause any) *Error {
	e := New(CodeProtocolViolation, fmt.Sprintf("%s: %s behaved unexpectedly: %v", backend, op, cause)).
		WithDetail("backend", backend).
		WithDetail("op", op)
	if err, ok := cause.(error); ok {
		e.Cause = err
	}
	return e
}

// BackendUnavailable creates an error for a backend that is absent or has no runtime yet
func BackendUnavailable(backend string, reason string) *Error {
	return New(CodeBackendUnavailable, fmt.Sprintf("backend '%s' unavailable: %s", backend, reason)).
		WithDetail("backend", backend)
}

// UnknownBackend creates an error for a lookup of an unregistered backend
func UnknownBackend(backend string) *Error {
	return New(CodeUnknownBackend, fmt.Sprintf("backend '%s' is not registered", backend)).
		WithDetail("backend", backend)
}

// Persistence wraps a folder file I/O failure
func Persistence(path string, err error) *Error {
	return Wrap(err, CodePersistence, fmt.Sprintf("failed to persist folders to %s", path)).
		WithDetail("path", path)
}

// FolderNotFound creates an error for a folder id missing from the collection
func FolderNotFound(id string) *Error {
	return New(CodeFolderNotFound, fmt.Sprintf("folder '%s' not found", id)).
		WithDetail("folder", id)
}

// InvalidInput creates an input validation error
func InvalidInput(reason string) *Error {
	return New(CodeInvalidInput, reason)
}

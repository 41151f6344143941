package apperrors

import (
	"errors"
	"fmt"
)

// Code classifies a failure so callers can react without string matching.
type Code string

const (
	CodeValidation    Code = "VALIDATION"
	CodeNotFound      Code = "NOT_FOUND"
	CodeInvalidState  Code = "INVALID_STATE"
	CodeSequence      Code = "SEQUENCE"
	CodePermission    Code = "PERMISSION"
	CodeConfiguration Code = "CONFIGURATION"
	CodeConflict      Code = "CONFLICT"
	CodeStore         Code = "STORE"
)

// Error is the typed failure returned by the work-order and approval engines.
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

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches two errors by code, so errors.Is(err, apperrors.Conflict(""))
// style sentinels work across wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func New(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause; used mainly for store failures so the driver error
// stays reachable via errors.Unwrap.
func Wrap(code Code, cause error, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: cause}
}

func Validation(format string, args ...interface{}) *Error {
	return New(CodeValidation, format, args...)
}

func NotFound(entity, id string) *Error {
	return New(CodeNotFound, "%s %q not found", entity, id)
}

func InvalidState(format string, args ...interface{}) *Error {
	return New(CodeInvalidState, format, args...)
}

func Sequence(format string, args ...interface{}) *Error {
	return New(CodeSequence, format, args...)
}

func Permission(format string, args ...interface{}) *Error {
	return New(CodePermission, format, args...)
}

func Configuration(format string, args ...interface{}) *Error {
	return New(CodeConfiguration, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return New(CodeConflict, format, args...)
}

func Store(cause error, format string, args ...interface{}) *Error {
	return Wrap(CodeStore, cause, format, args...)
}

// CodeOf extracts the code from any error in the chain, defaulting to
// CodeStore for untyped failures bubbling up from drivers.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeStore
}

// IsCode reports whether any error in the chain carries the given code.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

package lights

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a failure kind of the lights core.
type ErrorCode string

// ErrorCode constants for light failures.
const (
	ErrCapabilityUnreadable     ErrorCode = "CAPABILITY_UNREADABLE"
	ErrControlUnwritable        ErrorCode = "CONTROL_UNWRITABLE"
	ErrUnknownLight             ErrorCode = "UNKNOWN_LIGHT"
	ErrDiscoveryRootUnavailable ErrorCode = "DISCOVERY_ROOT_UNAVAILABLE"
)

// ErrUnsupportedOperation is the only failure exposed across external
// boundaries. Every *Error matches it with errors.Is.
var ErrUnsupportedOperation = errors.New("unsupported operation")

// Error represents a failure in the lights core.
type Error struct {
	Code    ErrorCode
	Message string
	Path    string
	Cause   error
}

// NewError creates a new lights error.
func NewError(code ErrorCode, message, path string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Path:    path,
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrUnsupportedOperation.
func (e *Error) Is(target error) bool {
	return target == ErrUnsupportedOperation
}

// HasCode checks if the error matches a specific code.
func (e *Error) HasCode(code ErrorCode) bool {
	return e.Code == code
}

// IsCode reports whether err is a lights error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var lerr *Error
	if errors.As(err, &lerr) {
		return lerr.HasCode(code)
	}
	return false
}

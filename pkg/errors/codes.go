package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a unique identifier for specific error conditions in Lulo.
type ErrorCode int

const (
	ErrCodeUnknown       ErrorCode = 1000
	ErrCodeConfigInvalid ErrorCode = 1001

	// Locate
	ErrCodeNotInstalled ErrorCode = 2001

	// Probe
	ErrCodeProbeUnreachable ErrorCode = 3001

	// Start
	ErrCodeStartFailed   ErrorCode = 4001
	ErrCodeSpawnFailed   ErrorCode = 4002
	ErrCodeHealthTimeout ErrorCode = 4003

	// Install
	ErrCodeDownloadFailed ErrorCode = 5001
	ErrCodeAliasFailed    ErrorCode = 5002
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:          "Unknown",
	ErrCodeConfigInvalid:    "ConfigInvalid",
	ErrCodeNotInstalled:     "NotInstalled",
	ErrCodeProbeUnreachable: "ProbeUnreachable",
	ErrCodeStartFailed:      "StartFailed",
	ErrCodeSpawnFailed:      "SpawnFailed",
	ErrCodeHealthTimeout:    "HealthTimeout",
	ErrCodeDownloadFailed:   "DownloadFailed",
	ErrCodeAliasFailed:      "AliasFailed",
}

// String returns the taxonomy name of the code.
func (c ErrorCode) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// LuloError is a custom error type that provides structured error information,
// including an error code, the operation being performed, and the underlying cause.
type LuloError struct {
	// Code is the specific error code.
	Code ErrorCode
	// Msg is a human-readable description of the error.
	Msg string
	// Operation describes the action being performed when the error occurred.
	Operation string
	// Err is the underlying error that caused this error, if any.
	Err error
}

// Error returns a formatted string representation of the error.
func (e *LuloError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %s (cause: %v)", e.Code, e.Operation, e.Msg, e.Err)
	}
	return fmt.Sprintf("[%d] %s: %s", e.Code, e.Operation, e.Msg)
}

// Unwrap returns the underlying error.
func (e *LuloError) Unwrap() error {
	return e.Err
}

// Is matches another *LuloError by code, so errors.Is(err, &LuloError{Code: c}) works.
func (e *LuloError) Is(target error) bool {
	t, ok := target.(*LuloError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates a new LuloError with the specified code, operation, message, and underlying error.
func New(code ErrorCode, op, msg string, err error) error {
	return &LuloError{
		Code:      code,
		Msg:       msg,
		Operation: op,
		Err:       err,
	}
}

// CodeOf returns the code of the outermost LuloError in err's chain,
// or ErrCodeUnknown when there is none.
func CodeOf(err error) ErrorCode {
	var le *LuloError
	if stderrors.As(err, &le) {
		return le.Code
	}
	return ErrCodeUnknown
}

// HasCode reports whether any LuloError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	return stderrors.Is(err, &LuloError{Code: code})
}

// Personal.AI order the ending

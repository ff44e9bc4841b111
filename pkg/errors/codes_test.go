package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestLuloError_Error(t *testing.T) {
	err := New(ErrCodeConfigInvalid, "Startup", "invalid config file", nil)
	expected := "[1001] Startup: invalid config file"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}

	cause := errors.New("file not found")
	errWithCause := New(ErrCodeConfigInvalid, "Startup", "invalid config file", cause)
	expectedWithCause := "[1001] Startup: invalid config file (cause: file not found)"
	if errWithCause.Error() != expectedWithCause {
		t.Errorf("Expected %q, got %q", expectedWithCause, errWithCause.Error())
	}
}

func TestLuloError_Unwrap(t *testing.T) {
	cause := errors.New("file not found")
	err := New(ErrCodeConfigInvalid, "Startup", "invalid config file", cause)

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Expected cause %v, got %v", cause, unwrapped)
	}

	errNoCause := New(ErrCodeConfigInvalid, "Startup", "invalid config file", nil)
	if errors.Unwrap(errNoCause) != nil {
		t.Errorf("Expected nil cause, got %v", errors.Unwrap(errNoCause))
	}
}

func TestLuloError_Fields(t *testing.T) {
	err := New(ErrCodeNotInstalled, "Locate", "runtime not found", nil).(*LuloError)
	if err.Code != ErrCodeNotInstalled {
		t.Errorf("Expected code %v, got %v", ErrCodeNotInstalled, err.Code)
	}
	if err.Operation != "Locate" {
		t.Errorf("Expected operation %q, got %q", "Locate", err.Operation)
	}
	if err.Msg != "runtime not found" {
		t.Errorf("Expected message %q, got %q", "runtime not found", err.Msg)
	}
}

func TestCodeOf(t *testing.T) {
	alias := New(ErrCodeAliasFailed, "Alias", "cp failed", errors.New("exit status 1"))
	wrapped := New(ErrCodeDownloadFailed, "Pull", "install incomplete", alias)

	if got := CodeOf(wrapped); got != ErrCodeDownloadFailed {
		t.Errorf("Expected outermost code DownloadFailed, got %v", got)
	}
	if !HasCode(wrapped, ErrCodeAliasFailed) {
		t.Error("Expected AliasFailed to be found in chain")
	}
	if HasCode(wrapped, ErrCodeNotInstalled) {
		t.Error("NotInstalled should not match")
	}
	if got := CodeOf(fmt.Errorf("plain")); got != ErrCodeUnknown {
		t.Errorf("Expected Unknown for plain error, got %v", got)
	}
	if got := CodeOf(fmt.Errorf("ctx: %w", alias)); got != ErrCodeAliasFailed {
		t.Errorf("Expected AliasFailed through fmt wrap, got %v", got)
	}
}

func TestErrorCode_String(t *testing.T) {
	if ErrCodeHealthTimeout.String() != "HealthTimeout" {
		t.Errorf("unexpected name %q", ErrCodeHealthTimeout.String())
	}
	if ErrorCode(42).String() != "ErrorCode(42)" {
		t.Errorf("unexpected name %q", ErrorCode(42).String())
	}
}

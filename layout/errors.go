package layout

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeEmptyInput means no items were supplied.
	CodeEmptyInput Code = "EMPTY_INPUT"
	// CodeInfeasibleItem means an item cannot fit the canvas in some dimension.
	CodeInfeasibleItem Code = "INFEASIBLE_ITEM"
	// CodeExhaustedSearch means no trial produced a candidate.
	CodeExhaustedSearch Code = "EXHAUSTED_SEARCH"
	// CodeInvalidConfig means the canvas configuration is out of range.
	CodeInvalidConfig Code = "INVALID_CONFIG"
)

// Sentinel errors, one per code, for use with errors.Is.
var (
	ErrEmptyInput      = &Error{Code: CodeEmptyInput}
	ErrInfeasibleItem  = &Error{Code: CodeInfeasibleItem}
	ErrExhaustedSearch = &Error{Code: CodeExhaustedSearch}
	ErrInvalidConfig   = &Error{Code: CodeInvalidConfig}
)

// Error is a layout failure with a code and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code)
	if e.Message != "" {
		msg += ": " + e.Message
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

// Is matches any *Error with the same code, so errors.Is(err, ErrEmptyInput)
// works for every empty-input failure regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// GetCode extracts the code from err, or "" if err is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func wrapError(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

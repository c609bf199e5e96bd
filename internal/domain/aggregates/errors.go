package aggregates

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a store or service failure.
type ErrorCode string

const (
	// CodeNotConnected means the database never opened or was closed.
	CodeNotConnected        ErrorCode = "not_connected"
	CodeNotFound            ErrorCode = "not_found"
	CodeConstraintViolation ErrorCode = "constraint_violation"
	CodeSerialization       ErrorCode = "serialization"
	CodeDecode              ErrorCode = "decode"
	CodeDivisionByZero      ErrorCode = "division_by_zero"
	// CodePartialFailure means a write committed but a follow-up read failed.
	CodePartialFailure     ErrorCode = "partial_failure"
	CodeAlreadyCompleted   ErrorCode = "already_completed"
	CodeInvariantViolation ErrorCode = "invariant_violation"
	CodeValidation         ErrorCode = "validation"
	CodeRetryable          ErrorCode = "retryable"
	CodeInternal           ErrorCode = "internal"
)

// Error is returned by every store, aggregate and service operation.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	s := string(e.Code)
	if e.Message != "" {
		s = e.Message + " [" + s + "]"
	}
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error by code, so errors.Is(err, &Error{Code: CodeNotFound}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e != nil && t.Code == e.Code && (t.Op == "" || t.Op == e.Op)
}

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{Code: code, Op: op, Message: message, Cause: cause}
}

// Errorf builds an *Error with a formatted message and no cause.
func Errorf(code ErrorCode, op, format string, args ...any) error {
	return &Error{Code: code, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap keeps err as the cause. A nil err stays nil.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Op: op, Message: err.Error(), Cause: err}
}

func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code && code != ""
}

// CodeOf returns the outermost code in err's chain, or "" for foreign errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.Code
	}
	return ""
}

// Retryable reports whether repeating the same call may succeed.
func Retryable(err error) bool {
	return IsCode(err, CodeRetryable)
}

package result

import (
	"errors"
	"fmt"
)

// Error is the structured error produced by every component in this
// repository. It carries a Code from the closed set, a retry classification,
// a human-readable message and, optionally, the underlying cause.
//
// Error is compatible with errors.Is, errors.As and errors.Unwrap.
type Error struct {
	code           Code
	classification Classification
	message        string
	cause          error
}

// Error returns "[CODE] message" or "[CODE] message: cause".
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.code, e.message)
}

// Code returns the result code.
func (e *Error) Code() Code {
	return e.code
}

// Classification returns whether the error is retryable or permanent.
func (e *Error) Classification() Classification {
	return e.classification
}

// Message returns the message without the code prefix or the cause.
func (e *Error) Message() string {
	return e.message
}

// Unwrap returns the wrapped cause, or nil.
func (e *Error) Unwrap() error {
	return e.cause
}

// New creates an Error with the given code and message. The classification
// is the code's default.
func New(code Code, message string) *Error {
	return &Error{
		code:           code,
		classification: defaultClassification(code),
		message:        message,
	}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an error with a code and message while preserving the original
// for errors.Is and errors.As. Returns nil if err is nil.
//
// The classification of a wrapped *Error is preserved; otherwise a transient
// cause (EBUSY, EAGAIN, EINTR and friends) upgrades the code's default to
// retryable.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}

	classification := defaultClassification(code)
	var re *Error
	if errors.As(err, &re) {
		classification = re.Classification()
	} else if transientCause(err) {
		classification = ClassificationRetryable
	}

	return &Error{
		code:           code,
		classification: classification,
		message:        message,
		cause:          err,
	}
}

// Wrapf wraps an error with a formatted message. Returns nil if err is nil.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// CodeOf extracts the result code from an error chain. A nil error is
// Success; an error chain without an *Error is translated from its OS-level
// cause.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}

	var re *Error
	if errors.As(err, &re) {
		return re.Code()
	}

	return Translate(err)
}

// IsRetryable reports whether the error chain is classified as retryable.
// A nil error or an error without classification information is not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var re *Error
	if errors.As(err, &re) {
		return re.Classification().IsRetryable()
	}

	return transientCause(err)
}

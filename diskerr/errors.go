package diskerr

import (
	"fmt"
	"syscall"
)

// DriverError wraps a sentinel DiskoError (or an arbitrary cause) with a
// caller-supplied message, while still satisfying errors.Is against the
// sentinel and errors.Unwrap against the original cause.
type DriverError struct {
	errno   syscall.Errno
	message string
	cause   error
}

func (e *DriverError) Error() string {
	if e.message == "" {
		return e.errno.Error()
	}
	return e.message
}

// Errno returns the POSIX error code this DriverError represents.
func (e *DriverError) Errno() syscall.Errno { return e.errno }

func (e *DriverError) Unwrap() error { return e.cause }

// Is lets errors.Is(err, diskerr.ErrNotFound) succeed for a wrapped error,
// without requiring the sentinel itself to be the cause chain.
func (e *DriverError) Is(target error) bool {
	if sentinel, ok := target.(DiskoError); ok {
		return sentinel.Errno() == e.errno
	}
	return false
}

// New builds a DriverError from a sentinel, attaching it as both the errno
// source and the wrapped cause so errors.Is(err, sentinel) succeeds.
func New(sentinel DiskoError) *DriverError {
	return &DriverError{errno: sentinel.Errno(), message: string(sentinel), cause: sentinel}
}

// Newf builds a DriverError from a sentinel with a formatted message,
// prefixed by the sentinel's own text (mirrors disko's WithMessage style).
func Newf(sentinel DiskoError, format string, args ...interface{}) *DriverError {
	return &DriverError{
		errno:   sentinel.Errno(),
		message: fmt.Sprintf("%s: %s", sentinel, fmt.Sprintf(format, args...)),
		cause:   sentinel,
	}
}

// Wrap turns an arbitrary I/O failure into a DriverError tagged with the
// given sentinel's errno, preserving the original error for Unwrap.
func Wrap(sentinel DiskoError, cause error) *DriverError {
	return &DriverError{
		errno:   sentinel.Errno(),
		message: fmt.Sprintf("%s: %s", sentinel, cause.Error()),
		cause:   cause,
	}
}

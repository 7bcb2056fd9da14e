// SPDX-License-Identifier: GPL-3.0-or-later

// Package syserr maps platform socket errors to and from portable
// integer codes.
//
// The package exports the small closed set of error numbers the socket
// state machine cares about (see the platform constant tables), a
// [Code] extractor that digs the platform error number out of a wrapped
// error chain, and a [Reason] lookup rendering the platform's own text
// for a code. Each constant is defined once per target platform behind
// the same name, so callers never mention errno or WSA error spaces
// directly.
package syserr

import (
	"errors"
	"os"
	"syscall"
)

// Code returns the platform error number carried by err, or zero when
// err is nil or carries no platform error.
func Code(err error) int {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	return 0
}

// Reason returns the platform's human-readable description for the
// given error code. A zero code yields "no error".
func Reason(code int) string {
	if code == 0 {
		return "no error"
	}
	return syscall.Errno(code).Error()
}

// AsError converts a platform error code back into an error value. A
// zero code yields nil.
func AsError(code int) error {
	if code == 0 {
		return nil
	}
	return syscall.Errno(code)
}

// IsWouldBlock reports whether err is the platform's would-block
// sentinel or an I/O deadline expiry, both of which mean the operation
// is retryable once the socket becomes ready.
func IsWouldBlock(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	code := Code(err)
	return code == EWOULDBLOCK || code == EAGAIN
}

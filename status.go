// SPDX-License-Identifier: GPL-3.0-or-later

package unisock

import (
	"errors"
	"io"
	"net"
	"os"
	"syscall"

	"github.com/bassosimone/unisock/syserr"
)

// Class is the coarse classification of a [Status].
type Class int

// The possible [Class] values.
const (
	// ClassNone means the operation fully succeeded.
	ClassNone = Class(iota)

	// ClassClosing means the peer performed an orderly shutdown.
	ClassClosing

	// ClassWantRead means the operation could not complete and should
	// be retried once the socket is readable.
	ClassWantRead

	// ClassWantWrite means the operation could not complete and should
	// be retried once the socket is writable.
	ClassWantWrite

	// ClassIO means an operating-system level failure.
	ClassIO

	// ClassFatal means an unrecoverable TLS or configuration failure.
	ClassFatal
)

// String returns the name of the classification.
func (c Class) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassClosing:
		return "closing"
	case ClassWantRead:
		return "want_read"
	case ClassWantWrite:
		return "want_write"
	case ClassIO:
		return "io"
	case ClassFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Origin identifies which layer produced a [Status].
type Origin int

// The possible [Origin] values.
const (
	// OriginNone marks a successful status.
	OriginNone = Origin(iota)

	// OriginSystem marks a status produced by an operating-system
	// socket operation.
	OriginSystem

	// OriginTLS marks a status produced by the TLS engine.
	OriginTLS

	// OriginConfig marks a status produced while building or loading
	// TLS configuration.
	OriginConfig
)

// String returns the name of the origin.
func (o Origin) String() string {
	switch o {
	case OriginNone:
		return "none"
	case OriginSystem:
		return "system"
	case OriginTLS:
		return "tls"
	case OriginConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Status is the unified outcome of a fallible socket operation.
//
// The zero value is success. A non-success Status carries the layer
// that produced it, a coarse [Class], the platform error code when the
// origin is the operating system, and the underlying error when one
// exists.
//
// Statuses classified as [ClassWantRead] or [ClassWantWrite] are not
// failures: the caller waits with [Conn.WaitEvent] and retries.
type Status struct {
	origin Origin
	code   int
	class  Class
	err    error
}

// statusOK is the successful status.
var statusOK = Status{}

// newCodeStatus builds a system-origin status directly from a platform
// error code and classification. Used for state-machine violations
// (EALREADY, ENOTCONN, EINVAL) that never reach the operating system.
func newCodeStatus(code int, class Class) Status {
	return Status{
		origin: OriginSystem,
		code:   code,
		class:  class,
		err:    syserr.AsError(code),
	}
}

// newSysStatus builds a status from the outcome of an operating-system
// socket operation. A nil error is success, except that a Closing hint
// with a nil error reports orderly shutdown. End of file means the peer
// shut down in an orderly manner and maps to [ClassClosing]. A
// would-block or deadline error adopts the hint classification;
// everything else is [ClassIO] with the extracted platform code.
func newSysStatus(err error, hint Class) Status {
	if err == nil {
		if hint == ClassClosing {
			return Status{origin: OriginSystem, class: ClassClosing}
		}
		return statusOK
	}
	if errors.Is(err, io.EOF) {
		return Status{origin: OriginSystem, class: ClassClosing, err: err}
	}
	if syserr.IsWouldBlock(err) {
		return Status{origin: OriginSystem, class: hint, err: err}
	}
	return Status{
		origin: OriginSystem,
		code:   syserr.Code(err),
		class:  ClassIO,
		err:    err,
	}
}

// newTLSStatus builds a status from the outcome of a TLS engine
// operation. A clean close_notify surfaces as [io.EOF] from crypto/tls
// and maps to [ClassClosing]. A would-block or deadline error adopts
// the hint classification. An error wrapping a platform error code is
// an operating-system failure underneath the engine and maps to
// [ClassIO]. Everything else is a TLS protocol failure, [ClassFatal].
func newTLSStatus(err error, hint Class) Status {
	if err == nil {
		return statusOK
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return Status{origin: OriginTLS, class: ClassClosing, err: err}
	}
	if syserr.IsWouldBlock(err) {
		return Status{origin: OriginTLS, class: hint, err: err}
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return Status{
			origin: OriginSystem,
			code:   int(errno),
			class:  ClassIO,
			err:    err,
		}
	}
	if errors.Is(err, net.ErrClosed) || errors.Is(err, os.ErrClosed) {
		return Status{origin: OriginTLS, class: ClassClosing, err: err}
	}
	return Status{origin: OriginTLS, class: ClassFatal, err: err}
}

// newConfigStatus builds a fatal status from a TLS configuration
// failure, keeping the underlying error for [Status.Reason].
func newConfigStatus(err error) Status {
	if err == nil {
		return statusOK
	}
	return Status{origin: OriginConfig, class: ClassFatal, err: err}
}

// OK reports whether the operation fully succeeded.
func (s Status) OK() bool {
	return s.class == ClassNone
}

// WouldBlock reports whether the operation should be retried after
// waiting for socket readiness.
func (s Status) WouldBlock() bool {
	return s.class == ClassWantRead || s.class == ClassWantWrite
}

// WantRead reports whether the retry should wait for readability.
func (s Status) WantRead() bool {
	return s.class == ClassWantRead
}

// WantWrite reports whether the retry should wait for writability.
func (s Status) WantWrite() bool {
	return s.class == ClassWantWrite
}

// Class returns the coarse classification.
func (s Status) Class() Class {
	return s.class
}

// Origin returns the layer that produced this status.
func (s Status) Origin() Origin {
	return s.origin
}

// Code returns the platform error code, or zero when the status did
// not originate from the operating system.
func (s Status) Code() int {
	return s.code
}

// Err returns the underlying error, or nil on success. Statuses built
// from bare platform codes return the corresponding [syscall.Errno].
func (s Status) Err() error {
	return s.err
}

// Reason returns a human-readable description: the platform error text
// for system codes, the underlying error text otherwise, and fixed
// strings for success and orderly shutdown.
func (s Status) Reason() string {
	switch {
	case s.class == ClassNone:
		return "no error"
	case s.class == ClassClosing && s.err == nil:
		return "connection closing"
	case s.code != 0:
		return syserr.Reason(s.code)
	case s.err != nil:
		return s.err.Error()
	default:
		return s.class.String()
	}
}

// String returns a compact rendering for logs.
func (s Status) String() string {
	if s.OK() {
		return "ok"
	}
	return s.origin.String() + ":" + s.class.String() + ": " + s.Reason()
}

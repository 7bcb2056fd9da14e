// SPDX-License-Identifier: GPL-3.0-or-later

// Package unisock provides a unified abstraction over plaintext TCP and
// TLS stream connections.
//
// # Core Abstraction
//
// The package is built around a single handle type:
//
//	type Conn struct{ ... }
//
// A [*Conn] owns a native stream socket and, optionally, a TLS session
// created from a [*TLSContext]. The same handle, driven through the same
// state machine, serves blocking and non-blocking callers, client and
// server roles, and plaintext and encrypted transports.
//
// # Unified Status
//
// Every fallible operation returns a [Status] rather than a bare error.
// A Status carries the failure origin (operating system, TLS engine, or
// TLS configuration), the platform error code when one exists, and a
// coarse classification:
//
//   - [ClassNone]: the operation fully succeeded
//   - [ClassClosing]: the peer performed an orderly shutdown
//   - [ClassWantRead], [ClassWantWrite]: retryable, wait then retry
//   - [ClassIO]: an operating-system level failure
//   - [ClassFatal]: a TLS engine failure, unrecoverable for this connection
//
// Callers inspect [Status.OK] and [Status.WouldBlock] before treating a
// result as fatal. Want-read and want-write are never hard failures.
//
// # Connection Lifecycle
//
// A connection moves through [StateIdle], [StateConnecting] or
// [StateAccepting] (TLS handshake pending), [StateConnected], and
// [StateListening]. [Conn.Close] returns the handle to [StateIdle] and is
// idempotent. Ownership is move-only: [Conn.Accept] hands out a fresh
// [*Conn] and nothing is ever reference counted.
//
// In non-blocking mode, operations that cannot proceed return a
// want-read or want-write [Status] instead of blocking; the caller waits
// with [Conn.WaitEvent] and retries. Timeouts apply only to WaitEvent,
// never to Send or Recv themselves.
//
// # Available Primitives
//
// Connection establishment and teardown:
//   - [Conn.Connect]: dials an [Endpoint], optionally handshaking TLS
//   - [Conn.Listen], [Conn.Accept]: server-side establishment
//   - [Conn.Handshake]: drives a pending TLS negotiation to completion
//   - [Conn.Disconnect]: graceful TLS shutdown plus TCP half/full close
//
// Transfer:
//   - [Conn.Send]: cursor-based writes that resume after partial transfers
//   - [Conn.Recv], [Conn.RecvAppend]: reads that report orderly shutdown
//     via [ClassClosing]
//
// Readiness:
//   - [Conn.WaitEvent]: bounded or unbounded wait for one readiness
//     condition on this connection's socket only
//
// Resolution:
//   - [EndpointResolver]: host/port (or "host:port") to an ordered list
//     of [Endpoint] values, wrapping the system resolver
//
// # Concurrency Model
//
// One goroutine owns one connection. The package provides no scheduler
// and no cancellation primitive beyond [Conn.Close], which invalidates
// pending readiness waits on the handle. Concurrent Send, Recv, or Close
// calls on the same connection must be serialized by the caller.
//
// # Observability
//
// All primitives support structured logging via [SLogger] (compatible
// with [log/slog]). By default logging is disabled; pass a custom
// [*slog.Logger] to enable it. Lifecycle events (connect, listen, accept,
// TLS handshake, close) log at Info; per-I/O events (send, recv, wait)
// log at Debug. Error classification for log fields is configurable via
// [ErrClassifier].
//
// # Process-wide Lifecycle
//
// [Startup] and [Shutdown] maintain a reference-counted guard around the
// process-wide trust material shared by TLS contexts. Call Startup before
// creating the first [*TLSContext] and Shutdown after destroying the
// last; the guard tolerates concurrent use.
package unisock

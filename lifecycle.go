// SPDX-License-Identifier: GPL-3.0-or-later

package unisock

import (
	"crypto/x509"
	"sync"
)

// The process-wide lifecycle guard.
//
// Unlike OpenSSL, crypto/tls needs no global initialization, and the Go
// runtime owns Winsock startup on Windows. The one genuinely expensive
// process-wide resource is the system trust pool, which [Startup] loads
// exactly once and [Shutdown] releases when the last user leaves.
//
// [*TLSContext] falls back to lazy loading when the guard is not held,
// so calling [Startup] is an optimization, not an obligation.
var lifecycle struct {
	mu      sync.Mutex
	users   int
	roots   *x509.CertPool
	rootErr error
}

// Startup acquires the process-wide lifecycle guard, loading shared
// trust material on first use. Safe for concurrent use. Each Startup
// must be balanced by a [Shutdown].
//
// Returns a non-OK [Status] when the system trust pool cannot be
// loaded; the guard is still acquired so the balancing [Shutdown]
// remains correct, and TLS contexts that never verify peers work fine.
func Startup() Status {
	lifecycle.mu.Lock()
	defer lifecycle.mu.Unlock()
	lifecycle.users++
	if lifecycle.users == 1 {
		lifecycle.roots, lifecycle.rootErr = x509.SystemCertPool()
	}
	return newConfigStatus(lifecycle.rootErr)
}

// Shutdown releases the process-wide lifecycle guard. When the last
// user leaves, the shared trust material is dropped. Calling Shutdown
// without a matching [Startup] is a no-op.
func Shutdown() {
	lifecycle.mu.Lock()
	defer lifecycle.mu.Unlock()
	if lifecycle.users <= 0 {
		return
	}
	lifecycle.users--
	if lifecycle.users == 0 {
		lifecycle.roots = nil
		lifecycle.rootErr = nil
	}
}

// sharedRoots returns the trust pool loaded by [Startup], or nil when
// the guard is not held or loading failed.
func sharedRoots() *x509.CertPool {
	lifecycle.mu.Lock()
	defer lifecycle.mu.Unlock()
	if lifecycle.users > 0 {
		return lifecycle.roots
	}
	return nil
}

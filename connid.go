// SPDX-License-Identifier: GPL-3.0-or-later

package unisock

import (
	"github.com/bassosimone/runtimex"
	"github.com/google/uuid"
)

// NewConnID returns a UUIDv7 uniquely identifying a connection.
//
// Each successful [Conn.Connect] and each connection returned by
// [Conn.Accept] gets a fresh ID, so log events from distinct
// connections never share an identifier even when the same handle is
// reused after [Conn.Close].
//
// This function panics if the system random number generator fails,
// which should only happen under extraordinary circumstances.
func NewConnID() string {
	return runtimex.PanicOnError1(uuid.NewV7()).String()
}

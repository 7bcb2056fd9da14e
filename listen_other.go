// SPDX-License-Identifier: GPL-3.0-or-later

//go:build !unix

package unisock

import "net"

// applyListenBacklog keeps the runtime default backlog: Winsock caps
// the backlog at SOMAXCONN on its own and offers no portable way to
// adjust it on a listening socket.
func applyListenBacklog(listener net.Listener, backlog int) Status {
	return statusOK
}

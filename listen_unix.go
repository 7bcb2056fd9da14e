// SPDX-License-Identifier: GPL-3.0-or-later

//go:build unix

package unisock

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// applyListenBacklog re-issues listen(2) on the already-listening
// descriptor to replace the runtime default backlog with the caller's.
// POSIX allows calling listen again on a listening socket to adjust the
// backlog. Listeners without a descriptor keep the default.
func applyListenBacklog(listener net.Listener, backlog int) Status {
	sc, ok := listener.(syscall.Conn)
	if !ok {
		return statusOK
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return newSysStatus(err, ClassIO)
	}
	var listenErr error
	if err := raw.Control(func(fd uintptr) {
		listenErr = unix.Listen(int(fd), backlog)
	}); err != nil {
		return newSysStatus(err, ClassIO)
	}
	return newSysStatus(listenErr, ClassIO)
}

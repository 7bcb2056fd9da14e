// SPDX-License-Identifier: GPL-3.0-or-later

//go:build unix

package syserr

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// Socket error numbers for Unix-like platforms.
const (
	// EAGAIN indicates a retryable operation on a non-blocking socket.
	EAGAIN = int(unix.EAGAIN)

	// EWOULDBLOCK is the would-block sentinel (equal to EAGAIN on most
	// Unix platforms, but we keep both names for clarity).
	EWOULDBLOCK = int(unix.EWOULDBLOCK)

	// EINVAL indicates an invalid argument.
	EINVAL = int(unix.EINVAL)

	// EALREADY indicates an operation already in progress.
	EALREADY = int(unix.EALREADY)

	// ENOTCONN indicates the socket is not connected.
	ENOTCONN = int(unix.ENOTCONN)

	// ENOTSOCK indicates the handle is not a socket.
	ENOTSOCK = int(unix.ENOTSOCK)

	// ECONNREFUSED indicates the peer refused the connection.
	ECONNREFUSED = int(unix.ECONNREFUSED)

	// ECONNRESET indicates the peer reset the connection.
	ECONNRESET = int(unix.ECONNRESET)

	// EINTR indicates a call interrupted by a signal.
	EINTR = int(unix.EINTR)
)

// PollReady reports whether the socket is ready right now for reading,
// or for writing when write is true, without blocking. Error and hangup
// conditions count as ready, so the caller's next operation observes
// them.
func PollReady(fd uintptr, write bool) (bool, error) {
	events := int16(unix.POLLIN)
	if write {
		events = int16(unix.POLLOUT)
	}
	fds := []unix.PollFd{{Fd: int32(fd), Events: events}}
	for {
		count, err := unix.Poll(fds, 0)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return false, err
		}
		return count > 0 && fds[0].Revents != 0, nil
	}
}

// SocketError reads and clears the pending SO_ERROR value on the
// given socket, returning it as a platform error code. A zero return
// means no error is pending.
func SocketError(c syscall.Conn) (int, error) {
	raw, err := c.SyscallConn()
	if err != nil {
		return 0, err
	}
	var (
		code    int
		sockErr error
	)
	err = raw.Control(func(fd uintptr) {
		code, sockErr = unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_ERROR)
	})
	if err != nil {
		return 0, err
	}
	if sockErr != nil {
		return 0, sockErr
	}
	return code, nil
}

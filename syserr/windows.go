// SPDX-License-Identifier: GPL-3.0-or-later

//go:build windows

package syserr

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Socket error numbers for Windows. Winsock has no distinct EAGAIN,
// so both retryable names map to WSAEWOULDBLOCK.
const (
	EAGAIN       = int(windows.WSAEWOULDBLOCK)
	EWOULDBLOCK  = int(windows.WSAEWOULDBLOCK)
	EINVAL       = int(windows.WSAEINVAL)
	EALREADY     = int(windows.WSAEALREADY)
	ENOTCONN     = int(windows.WSAENOTCONN)
	ENOTSOCK     = int(windows.WSAENOTSOCK)
	ECONNREFUSED = int(windows.WSAECONNREFUSED)
	ECONNRESET   = int(windows.WSAECONNRESET)
	EINTR        = int(windows.WSAEINTR)
)

// SO_ERROR is not exported by x/sys/windows.
const soError = 0x1007

// WSAPoll is not exported by x/sys/windows either.
var (
	modws2_32   = windows.NewLazySystemDLL("ws2_32.dll")
	procWSAPoll = modws2_32.NewProc("WSAPoll")
)

// wsaPollFd mirrors the Winsock WSAPOLLFD structure.
type wsaPollFd struct {
	fd      uintptr
	events  int16
	revents int16
}

// Winsock poll event masks.
const (
	pollRDNorm = 0x0100
	pollRDBand = 0x0200
	pollWRNorm = 0x0010
)

// PollReady reports whether the socket is ready right now for reading,
// or for writing when write is true, without blocking. Error and hangup
// conditions count as ready, so the caller's next operation observes
// them.
func PollReady(fd uintptr, write bool) (bool, error) {
	events := int16(pollRDNorm | pollRDBand)
	if write {
		events = int16(pollWRNorm)
	}
	pfd := wsaPollFd{fd: fd, events: events}
	count, _, callErr := procWSAPoll.Call(uintptr(unsafe.Pointer(&pfd)), 1, 0)
	if int32(count) < 0 {
		return false, callErr
	}
	return int32(count) > 0 && pfd.revents != 0, nil
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
		code, sockErr = windows.GetsockoptInt(
			windows.Handle(fd), windows.SOL_SOCKET, soError)
	})
	if err != nil {
		return 0, err
	}
	if sockErr != nil {
		return 0, sockErr
	}
	return code, nil
}

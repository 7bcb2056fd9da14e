// SPDX-License-Identifier: GPL-3.0-or-later

package unisock

import (
	"log/slog"
	"net"
	"syscall"
	"time"

	"github.com/bassosimone/unisock/syserr"
)

// Timeout sentinels for [Conn.WaitEvent].
const (
	// WaitForever waits until the event occurs or the handle is closed.
	WaitForever = time.Duration(-1)

	// WaitNever checks readiness without waiting.
	WaitNever = time.Duration(0)
)

// Event is a readiness condition waited for with [Conn.WaitEvent].
type Event int

// The possible [Event] values.
const (
	// EventRecvReady means the connection has bytes to receive.
	EventRecvReady = Event(iota)

	// EventSendReady means the connection can accept bytes to send.
	EventSendReady

	// EventConnectReady means an in-progress connect has concluded,
	// successfully or not.
	EventConnectReady

	// EventAcceptReady means the listener has a pending connection.
	EventAcceptReady
)

// String returns the name of the event.
func (e Event) String() string {
	switch e {
	case EventSendReady:
		return "send_ready"
	case EventConnectReady:
		return "connect_ready"
	case EventAcceptReady:
		return "accept_ready"
	default:
		return "recv_ready"
	}
}

// WaitEvent waits until the socket owned by this handle satisfies the
// given readiness condition.
//
// The timeout bounds the wait: [WaitNever] checks readiness without
// waiting, [WaitForever] waits indefinitely, and a positive duration
// waits at most that long. This is the only operation that honors a
// timeout; transfers themselves never time out.
//
// The wait elapsing yields a want-read or want-write [Status] matching
// the event; a polling failure yields [ClassIO] with the platform code.
// [EventConnectReady] additionally consults the pending socket error,
// so a refused connect surfaces as ECONNREFUSED rather than success.
//
// Only the socket owned by this handle is watched. Multiplexing across
// many connections is out of scope by design.
func (c *Conn) WaitEvent(event Event, timeout time.Duration) Status {
	t0 := c.TimeNow()
	c.logWaitStart(event, timeout, t0)
	status := c.waitEvent(event, timeout)
	c.logWaitDone(event, timeout, t0, status)
	return status
}

func (c *Conn) waitEvent(event Event, timeout time.Duration) Status {
	switch event {
	case EventAcceptReady:
		if c.listener == nil {
			return newCodeStatus(syserr.EINVAL, ClassIO)
		}
		return c.waitAcceptable(timeout)
	case EventConnectReady:
		if c.conn == nil {
			return newCodeStatus(syserr.ENOTCONN, ClassIO)
		}
		if status := c.waitWritable(c.conn, timeout); !status.OK() {
			return status
		}
		return c.connectOutcome()
	case EventSendReady:
		if c.conn == nil {
			return newCodeStatus(syserr.ENOTCONN, ClassIO)
		}
		return c.waitWritable(c.conn, timeout)
	case EventRecvReady:
		if c.conn == nil {
			return newCodeStatus(syserr.ENOTCONN, ClassIO)
		}
		return c.waitReadable(c.conn, timeout)
	default:
		return newCodeStatus(syserr.EINVAL, ClassIO)
	}
}

// waitReadable waits until conn is readable or the timeout elapses.
// The descriptor callback probes actual readiness with a zero-timeout
// poll, so readiness already held when the wait starts is observed
// immediately rather than waiting for a fresh poller edge. Transports
// without a descriptor (test stubs) are considered always ready.
func (c *Conn) waitReadable(conn net.Conn, timeout time.Duration) Status {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return statusOK
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return newSysStatus(err, ClassIO)
	}
	if deadline, armed := c.waitDeadline(timeout); armed {
		conn.SetReadDeadline(deadline)
		defer conn.SetReadDeadline(time.Time{})
	}
	var pollErr error
	err = raw.Read(func(fd uintptr) bool {
		ready, perr := syserr.PollReady(fd, false)
		if perr != nil {
			pollErr = perr
			return true
		}
		return ready
	})
	if err == nil {
		err = pollErr
	}
	return newSysStatus(err, ClassWantRead)
}

// waitWritable waits until conn is writable or the timeout elapses,
// probing actual readiness like [Conn.waitReadable] does.
func (c *Conn) waitWritable(conn net.Conn, timeout time.Duration) Status {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return statusOK
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return newSysStatus(err, ClassIO)
	}
	if deadline, armed := c.waitDeadline(timeout); armed {
		conn.SetWriteDeadline(deadline)
		defer conn.SetWriteDeadline(time.Time{})
	}
	var pollErr error
	err = raw.Write(func(fd uintptr) bool {
		ready, perr := syserr.PollReady(fd, true)
		if perr != nil {
			pollErr = perr
			return true
		}
		return ready
	})
	if err == nil {
		err = pollErr
	}
	return newSysStatus(err, ClassWantWrite)
}

// waitAcceptable waits until the listener has a pending connection or
// the timeout elapses, probing actual readiness like [Conn.waitReadable]
// does.
func (c *Conn) waitAcceptable(timeout time.Duration) Status {
	sc, ok := c.listener.(syscall.Conn)
	if !ok {
		return statusOK
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return newSysStatus(err, ClassIO)
	}
	if deadline, armed := c.waitDeadline(timeout); armed {
		c.armListenerDeadlineAt(deadline)
		defer c.disarmListenerDeadline()
	}
	var pollErr error
	err = raw.Read(func(fd uintptr) bool {
		ready, perr := syserr.PollReady(fd, false)
		if perr != nil {
			pollErr = perr
			return true
		}
		return ready
	})
	if err == nil {
		err = pollErr
	}
	return newSysStatus(err, ClassWantRead)
}

func (c *Conn) armListenerDeadlineAt(deadline time.Time) {
	if dl, ok := c.listener.(deadliner); ok {
		dl.SetDeadline(deadline)
	}
}

// connectOutcome reads the pending socket error left behind by an
// asynchronous connect, translating it into a status.
func (c *Conn) connectOutcome() Status {
	sc, ok := c.conn.(syscall.Conn)
	if !ok {
		return statusOK
	}
	code, err := syserr.SocketError(sc)
	if err != nil {
		return newSysStatus(err, ClassIO)
	}
	if code != 0 {
		return newCodeStatus(code, ClassIO)
	}
	return statusOK
}

// waitDeadline maps a wait timeout to an absolute deadline. A negative
// timeout means no deadline. A zero timeout still leaves the poller a
// moment to observe readiness, because the runtime rejects an
// already-expired deadline before polling at all.
func (c *Conn) waitDeadline(timeout time.Duration) (time.Time, bool) {
	if timeout < 0 {
		return time.Time{}, false
	}
	if timeout < minReadinessWait {
		timeout = minReadinessWait
	}
	return c.TimeNow().Add(timeout), true
}

func (c *Conn) logWaitStart(event Event, timeout time.Duration, t0 time.Time) {
	c.Logger.Debug(
		"waitStart",
		slog.String("connID", c.id),
		slog.String("event", event.String()),
		slog.Duration("timeout", timeout),
		slog.Time("t", t0),
	)
}

func (c *Conn) logWaitDone(event Event, timeout time.Duration, t0 time.Time, status Status) {
	c.Logger.Debug(
		"waitDone",
		slog.String("connID", c.id),
		slog.Any("err", status.Err()),
		slog.String("errClass", c.ErrClassifier.Classify(status.Err())),
		slog.String("event", event.String()),
		slog.String("status", status.String()),
		slog.Duration("timeout", timeout),
		slog.Time("t0", t0),
		slog.Time("t", c.TimeNow()),
	)
}

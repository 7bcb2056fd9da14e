//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: https://github.com/ooni/probe-cli/blob/v3.20.1/internal/netxlite/dialer.go
// Adapted from: https://github.com/rbmk-project/rbmk/blob/v0.17.0/pkg/x/netcore/dialer.go
//

package unisock

import (
	"context"
	"log/slog"
	"net"
	"syscall"
	"time"

	"github.com/bassosimone/safeconn"
	"github.com/bassosimone/unisock/syserr"
)

// State is the lifecycle state of a [*Conn].
type State int

// The possible [State] values.
const (
	// StateIdle means the handle owns no socket. Initial and post-Close.
	StateIdle = State(iota)

	// StateConnecting means the transport is connected and a client TLS
	// handshake is pending.
	StateConnecting

	// StateAccepting means the transport is accepted and a server TLS
	// handshake is pending.
	StateAccepting

	// StateConnected means the connection is established and ready for
	// transfer operations.
	StateConnected

	// StateListening means the handle owns a listening socket.
	StateListening
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAccepting:
		return "accepting"
	case StateConnected:
		return "connected"
	case StateListening:
		return "listening"
	default:
		return "idle"
	}
}

// Mode selects between blocking and non-blocking operation.
type Mode int

// The possible [Mode] values.
const (
	// ModeBlocking makes operations wait until they complete or fail.
	ModeBlocking = Mode(iota)

	// ModeNonBlocking makes operations that cannot proceed immediately
	// return a want-read or want-write [Status] instead of waiting.
	ModeNonBlocking
)

// String returns the name of the mode.
func (m Mode) String() string {
	if m == ModeNonBlocking {
		return "nonblocking"
	}
	return "blocking"
}

// ShutdownHow selects the direction of a [Conn.Disconnect].
type ShutdownHow int

// The possible [ShutdownHow] values.
const (
	// ShutdownSend stops further sends, signaling end of stream.
	ShutdownSend = ShutdownHow(iota)

	// ShutdownRecv stops further receives.
	ShutdownRecv

	// ShutdownBoth stops both directions.
	ShutdownBoth
)

// Default sizing constants.
const (
	// DefaultRecvSize is the chunk size used by [Conn.RecvAppend].
	DefaultRecvSize = 16 * 1024

	// DefaultListenBacklog is the listen backlog applied when the
	// caller passes a nonpositive backlog to [Conn.Listen].
	DefaultListenBacklog = 512
)

// minReadinessWait is the deadline horizon used to emulate a
// non-blocking operation. The runtime rejects already-expired deadlines
// before attempting any transfer, so "immediately" must still leave the
// poller a moment to observe readiness.
const minReadinessWait = time.Millisecond

// NewConn creates an idle [*Conn].
//
// The cfg argument contains the common configuration for unisock operations.
//
// The tlsctx argument is the [*TLSContext] to use for TLS sessions, or
// nil for a plaintext connection. A listening connection with a server
// context hands the context down to accepted connections.
//
// The logger argument is the [SLogger] to use for structured logging.
func NewConn(cfg *Config, tlsctx *TLSContext, logger SLogger) *Conn {
	return &Conn{
		Dialer:        cfg.Dialer,
		ErrClassifier: cfg.ErrClassifier,
		ListenConfig:  cfg.ListenConfig,
		Logger:        logger,
		TimeNow:       cfg.TimeNow,
		tlsctx:        tlsctx,
	}
}

// Conn is a unified handle over a plaintext TCP or TLS stream
// connection. The same handle serves clients and servers, blocking and
// non-blocking callers.
//
// A Conn is owned by a single goroutine: concurrent method calls on the
// same handle must be serialized by the caller. Ownership transfers by
// moving the pointer; nothing is reference counted.
//
// The exported fields are safe to modify after construction but before
// first use.
type Conn struct {
	// Dialer is the [Dialer] used by [Conn.Connect].
	//
	// Set by [NewConn] from [Config.Dialer].
	Dialer Dialer

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewConn] from [Config.ErrClassifier].
	ErrClassifier ErrClassifier

	// ListenConfig is the [ListenConfig] used by [Conn.Listen].
	//
	// Set by [NewConn] from [Config.ListenConfig].
	ListenConfig ListenConfig

	// Logger is the [SLogger] to use (configurable for testing or custom logging).
	//
	// Set by [NewConn] to the user-provided logger.
	Logger SLogger

	// ServerName is the name presented for SNI and verified against the
	// peer certificate. When empty, [Conn.Connect] falls back to the
	// endpoint IP address.
	//
	// Set by [NewConn] to the empty string.
	ServerName string

	// TimeNow is the function to get the current time (configurable for testing).
	//
	// Set by [NewConn] from [Config.TimeNow].
	TimeNow func() time.Time

	// conn is the owned transport, nil unless connected or handshaking.
	conn net.Conn

	// id uniquely identifies the current connection in logs.
	id string

	// listener is the owned listening socket, nil unless listening.
	listener net.Listener

	// mode is the configured [Mode].
	mode Mode

	// recvTimer measures time since the last successful receive.
	recvTimer transferTimer

	// sendTimer measures time since the last successful send.
	sendTimer transferTimer

	// session is the TLS session, nil for plaintext connections.
	session TLSConn

	// state is the current [State].
	state State

	// tlsctx is the TLS context, nil for plaintext connections.
	tlsctx *TLSContext
}

// State returns the current lifecycle state.
func (c *Conn) State() State {
	return c.state
}

// Mode returns the configured operating mode.
func (c *Conn) Mode() Mode {
	return c.mode
}

// ID returns the unique identifier of the current connection, or an
// empty string when idle.
func (c *Conn) ID() string {
	return c.id
}

// LocalAddr returns the local address, or an empty string when idle.
func (c *Conn) LocalAddr() string {
	if c.listener != nil {
		if addr := c.listener.Addr(); addr != nil {
			return addr.String()
		}
		return ""
	}
	return safeconn.LocalAddr(c.conn)
}

// RemoteAddr returns the remote address, or an empty string when there
// is no connected peer.
func (c *Conn) RemoteAddr() string {
	return safeconn.RemoteAddr(c.conn)
}

// SendElapsed returns the time since the last successful send, or a
// negative duration when nothing has been sent yet.
func (c *Conn) SendElapsed() time.Duration {
	return c.sendTimer.ElapsedSince(c.TimeNow())
}

// RecvElapsed returns the time since the last successful receive, or a
// negative duration when nothing has been received yet.
func (c *Conn) RecvElapsed() time.Duration {
	return c.recvTimer.ElapsedSince(c.TimeNow())
}

// NativeHandle returns the operating-system descriptor of the owned
// socket. The second return value is false when the handle is idle or
// the transport does not expose a descriptor.
//
// The descriptor remains owned by the runtime: closing or changing its
// blocking mode breaks the connection.
func (c *Conn) NativeHandle() (uintptr, bool) {
	sc, ok := c.rawSource().(syscall.Conn)
	if !ok {
		return 0, false
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return 0, false
	}
	var fd uintptr
	if err := raw.Control(func(h uintptr) { fd = h }); err != nil {
		return 0, false
	}
	return fd, true
}

// Connect establishes a connection to the given endpoint.
//
// From [StateIdle] it dials the endpoint and, when the handle carries a
// TLS context, starts the handshake. From [StateConnecting] or
// [StateAccepting] it retries the pending handshake, so a non-blocking
// caller can simply call Connect again after waiting. Any other state
// fails with an EALREADY-coded [Status].
//
// In non-blocking mode a pending handshake yields a want-read or
// want-write status and leaves the handle handshaking. Any other
// failure closes the handle and propagates.
func (c *Conn) Connect(ctx context.Context, epnt Endpoint, mode Mode) Status {
	switch c.state {
	case StateConnecting, StateAccepting:
		return c.Handshake(ctx)
	case StateIdle:
		// proceed below
	default:
		return newCodeStatus(syserr.EALREADY, ClassIO)
	}
	if c.tlsctx != nil && !c.tlsctx.Status().OK() {
		return c.tlsctx.Status()
	}

	t0 := c.TimeNow()
	c.logConnectStart(epnt, t0)
	conn, err := c.Dialer.DialContext(ctx, "tcp", epnt.String())
	c.logConnectDone(epnt, t0, conn, err)
	if err != nil {
		return newSysStatus(err, ClassIO)
	}

	c.conn = conn
	c.id = NewConnID()
	c.mode = mode
	c.sendTimer.ResetAt(c.TimeNow())
	c.recvTimer.ResetAt(c.TimeNow())

	if c.tlsctx == nil {
		c.state = StateConnected
		return statusOK
	}

	// Leave StateIdle before creating the session, so that a session
	// failure rolls the transport back through [Conn.Close] rather
	// than hitting its idle short-circuit and leaking the socket.
	c.state = StateConnecting
	session, status := c.tlsctx.clientSession(conn, c.serverName(epnt))
	if !status.OK() {
		c.Close()
		return status
	}
	c.session = session
	return c.Handshake(ctx)
}

// serverName returns the name to present for SNI and verification.
func (c *Conn) serverName(epnt Endpoint) string {
	if c.ServerName != "" {
		return c.ServerName
	}
	return epnt.Addr().String()
}

// Handshake drives a pending TLS negotiation to completion.
//
// From [StateConnecting] or [StateAccepting] it attempts the handshake:
// success moves to [StateConnected]; a would-block status leaves the
// state unchanged for the caller to wait and retry; any other failure
// closes the handle and propagates. From [StateConnected] it succeeds
// immediately. Any other state fails with an ENOTCONN-coded [Status].
func (c *Conn) Handshake(ctx context.Context) Status {
	switch c.state {
	case StateConnected:
		return statusOK
	case StateConnecting, StateAccepting:
		// proceed below
	default:
		return newCodeStatus(syserr.ENOTCONN, ClassIO)
	}
	status := c.handshakeStep(ctx)
	switch {
	case status.OK():
		c.state = StateConnected
	case status.WouldBlock():
		// state unchanged, caller waits and retries
	default:
		c.Close()
	}
	return status
}

// handshakeStep attempts the pending TLS handshake once.
//
// In non-blocking mode the attempt is gated by a zero-timeout readiness
// check, because a handshake interrupted mid-record would corrupt the
// session: a connecting side not yet writable yields want-write and an
// accepting side with no bytes from the client yet yields want-read,
// without entering the TLS engine at all.
func (c *Conn) handshakeStep(ctx context.Context) Status {
	if c.mode == ModeNonBlocking {
		if status := c.handshakeGate(); !status.OK() {
			return status
		}
	}
	t0 := c.TimeNow()
	c.logHandshakeStart(t0)
	err := c.session.HandshakeContext(ctx)
	hint := ClassWantRead
	if c.state == StateConnecting {
		hint = ClassWantWrite
	}
	status := newTLSStatus(err, hint)
	c.logHandshakeDone(t0, err)
	return status
}

// handshakeGate returns the would-block status to surface when the
// socket is not ready for the pending handshake, or success.
func (c *Conn) handshakeGate() Status {
	if c.state == StateAccepting {
		if status := c.waitReadable(c.conn, WaitNever); !status.OK() {
			return Status{origin: OriginTLS, class: ClassWantRead, err: status.Err()}
		}
		return statusOK
	}
	if status := c.waitWritable(c.conn, WaitNever); !status.OK() {
		return Status{origin: OriginTLS, class: ClassWantWrite, err: status.Err()}
	}
	return statusOK
}

// Listen binds to the given endpoint and starts listening.
//
// Only valid from [StateIdle]; any other state fails with an
// EALREADY-coded [Status]. A nonpositive backlog selects
// [DefaultListenBacklog]. On failure the handle stays idle.
//
// Passive endpoints come from resolving with the passive flag, e.g. the
// wildcard endpoints returned for an empty host.
func (c *Conn) Listen(ctx context.Context, epnt Endpoint, mode Mode, backlog int) Status {
	if c.state != StateIdle {
		return newCodeStatus(syserr.EALREADY, ClassIO)
	}
	if backlog <= 0 {
		backlog = DefaultListenBacklog
	}

	t0 := c.TimeNow()
	c.logListenStart(epnt, backlog, t0)
	listener, err := c.ListenConfig.Listen(ctx, "tcp", epnt.String())
	c.logListenDone(epnt, backlog, t0, err)
	if err != nil {
		return newSysStatus(err, ClassIO)
	}
	if status := applyListenBacklog(listener, backlog); !status.OK() {
		listener.Close()
		return status
	}

	c.listener = listener
	c.id = NewConnID()
	c.mode = mode
	c.state = StateListening
	return statusOK
}

// Accept waits for and returns the next incoming connection.
//
// Only valid from [StateListening]. The returned connection is a fresh
// handle with a fresh ID operating in the requested mode; the caller
// owns it.
//
// In non-blocking mode, when no connection is pending, Accept returns a
// want-read [Status] without blocking.
//
// When the listener carries a server TLS context, the handshake is
// driven inline: a non-blocking pending handshake returns the accepted
// connection in [StateAccepting] together with a would-block status, to
// be finished with [Conn.Handshake]; a handshake failure closes the
// accepted connection only. The listener keeps listening no matter how
// the accepted connection fails.
func (c *Conn) Accept(ctx context.Context, mode Mode) (*Conn, Status) {
	if c.state != StateListening {
		return nil, newCodeStatus(syserr.EINVAL, ClassIO)
	}

	t0 := c.TimeNow()
	c.logAcceptStart(t0)
	if c.mode == ModeNonBlocking {
		c.armListenerDeadline()
	}
	conn, err := c.listener.Accept()
	c.disarmListenerDeadline()
	c.logAcceptDone(t0, conn, err)
	if err != nil {
		return nil, newSysStatus(err, ClassWantRead)
	}

	client := &Conn{
		Dialer:        c.Dialer,
		ErrClassifier: c.ErrClassifier,
		ListenConfig:  c.ListenConfig,
		Logger:        c.Logger,
		TimeNow:       c.TimeNow,
		conn:          conn,
		id:            NewConnID(),
		mode:          mode,
		state:         StateConnected,
		tlsctx:        c.tlsctx,
	}
	client.sendTimer.ResetAt(c.TimeNow())
	client.recvTimer.ResetAt(c.TimeNow())

	if c.tlsctx == nil {
		return client, statusOK
	}

	session, status := c.tlsctx.serverSession(conn)
	if !status.OK() {
		client.Close()
		return nil, status
	}
	client.session = session
	client.state = StateAccepting
	status = client.Handshake(ctx)
	switch {
	case status.OK():
		return client, statusOK
	case status.WouldBlock():
		return client, status
	default:
		// Handshake already closed the client; the listener stays up.
		return nil, status
	}
}

// deadliner is the subset of [*net.TCPListener] we need to emulate a
// non-blocking accept.
type deadliner interface {
	SetDeadline(t time.Time) error
}

func (c *Conn) armListenerDeadline() {
	if dl, ok := c.listener.(deadliner); ok {
		dl.SetDeadline(c.TimeNow().Add(minReadinessWait))
	}
}

func (c *Conn) disarmListenerDeadline() {
	if dl, ok := c.listener.(deadliner); ok {
		dl.SetDeadline(time.Time{})
	}
}

// Send transfers bytes from buf starting at *cursor.
//
// Only valid from [StateConnected]; other states fail with an
// ENOTCONN-coded [Status]. The cursor advances by the number of bytes
// transferred, so retrying after a partial transfer or a would-block
// status resumes where the previous call stopped. A fully consumed
// cursor succeeds immediately without touching the socket.
//
// Send never blocks on a timeout of its own: in blocking mode it waits
// for the transfer, in non-blocking mode it returns want-write when the
// socket cannot accept bytes now.
func (c *Conn) Send(buf []byte, cursor *int) Status {
	if c.state != StateConnected {
		return newCodeStatus(syserr.ENOTCONN, ClassIO)
	}
	rem := buf[*cursor:]
	if len(rem) <= 0 {
		return statusOK
	}

	t0 := c.TimeNow()
	c.logSendStart(len(rem), t0)

	var (
		count int
		err   error
	)
	switch {
	case c.session != nil:
		count, err = c.sendTLS(rem)
	default:
		count, err = c.sendPlain(rem)
	}

	*cursor += count
	if count > 0 {
		c.sendTimer.ResetAt(c.TimeNow())
	}
	status := c.sendStatus(err)
	c.logSendDone(len(rem), count, t0, err)
	return status
}

// sendPlain writes on the plaintext transport. Non-blocking mode uses a
// near-immediate write deadline: the deadline expiring maps to
// want-write in [newSysStatus].
func (c *Conn) sendPlain(buf []byte) (int, error) {
	if c.mode == ModeNonBlocking {
		c.conn.SetWriteDeadline(c.TimeNow().Add(minReadinessWait))
		defer c.conn.SetWriteDeadline(time.Time{})
	}
	return c.conn.Write(buf)
}

// sendTLS writes on the TLS session. A TLS write interrupted by a
// deadline mid-record corrupts the session, so non-blocking mode gates
// on writability first and then writes without a deadline.
func (c *Conn) sendTLS(buf []byte) (int, error) {
	if c.mode == ModeNonBlocking {
		if status := c.waitWritable(c.conn, WaitNever); !status.OK() {
			return 0, status.Err()
		}
	}
	return c.session.Write(buf)
}

func (c *Conn) sendStatus(err error) Status {
	if c.session != nil {
		return newTLSStatus(err, ClassWantWrite)
	}
	return newSysStatus(err, ClassWantWrite)
}

// Recv transfers up to len(buf) bytes from the connection into buf and
// returns the number of bytes received.
//
// Only valid from [StateConnected]; other states fail with an
// ENOTCONN-coded [Status]. An orderly shutdown by the peer, either a
// plaintext end of stream or a TLS close_notify, yields [ClassClosing].
// When the shutdown arrives together with the final bytes, the bytes
// are delivered as success and the closing status surfaces on the next
// call, so a caller checking [Status.OK] first never drops data.
//
// Recv never blocks on a timeout of its own: in blocking mode it waits
// for bytes, in non-blocking mode it returns want-read when nothing is
// available now.
func (c *Conn) Recv(buf []byte) (int, Status) {
	if c.state != StateConnected {
		return 0, newCodeStatus(syserr.ENOTCONN, ClassIO)
	}

	t0 := c.TimeNow()
	c.logRecvStart(len(buf), t0)

	// Deadline-interrupted TLS reads are resumable, so the deadline
	// trick works for both plaintext and TLS receives.
	if c.mode == ModeNonBlocking {
		c.conn.SetReadDeadline(c.TimeNow().Add(minReadinessWait))
		defer c.conn.SetReadDeadline(time.Time{})
	}

	count, err := c.transport().Read(buf)
	if count > 0 {
		c.recvTimer.ResetAt(c.TimeNow())
	}
	var status Status
	if c.session != nil {
		status = newTLSStatus(err, ClassWantRead)
	} else {
		status = newSysStatus(err, ClassWantRead)
	}
	if count > 0 && status.Class() == ClassClosing {
		// End of stream riding along with the final bytes: deliver
		// the bytes now, report the shutdown on the next receive.
		status = statusOK
	}
	c.logRecvDone(len(buf), count, t0, err)
	return count, status
}

// RecvAppend receives up to [DefaultRecvSize] bytes and appends them to
// *data, returning the number of bytes appended. Semantics otherwise
// match [Conn.Recv].
func (c *Conn) RecvAppend(data *[]byte) (int, Status) {
	buf := make([]byte, DefaultRecvSize)
	count, status := c.Recv(buf)
	*data = append(*data, buf[:count]...)
	return count, status
}

// transport returns the reader/writer to use for transfers.
func (c *Conn) transport() net.Conn {
	if c.session != nil {
		return c.session
	}
	return c.conn
}

// rawSource returns the owned socket exposing a descriptor.
func (c *Conn) rawSource() any {
	if c.listener != nil {
		return c.listener
	}
	return c.conn
}

// Disconnect gracefully tears the connection down.
//
// Only valid from [StateConnected]; other states fail with an
// ENOTCONN-coded [Status]. With a TLS session it first sends a
// close_notify alert; a failure there is recorded but never prevents
// the transport shutdown. Then the transport is shut down in the
// requested direction and the handle is fully closed, returning to
// [StateIdle].
//
// Returns the transport status when it is not successful, otherwise the
// TLS shutdown status.
func (c *Conn) Disconnect(how ShutdownHow) Status {
	if c.state != StateConnected {
		return newCodeStatus(syserr.ENOTCONN, ClassIO)
	}

	t0 := c.TimeNow()
	c.logDisconnectStart(how, t0)

	tlsStatus := statusOK
	if c.session != nil {
		if cw, ok := c.session.(tlsCloseWriter); ok {
			tlsStatus = newTLSStatus(cw.CloseWrite(), ClassWantWrite)
		}
	}

	tcpStatus := newSysStatus(c.shutdownTransport(how), ClassIO)
	c.logDisconnectDone(how, t0, tcpStatus, tlsStatus)
	c.Close()

	if !tcpStatus.OK() {
		return tcpStatus
	}
	return tlsStatus
}

// halfCloser is the subset of [*net.TCPConn] used for directional
// shutdown.
type halfCloser interface {
	CloseRead() error
	CloseWrite() error
}

func (c *Conn) shutdownTransport(how ShutdownHow) error {
	hc, ok := c.conn.(halfCloser)
	if !ok {
		return nil
	}
	switch how {
	case ShutdownRecv:
		return hc.CloseRead()
	case ShutdownBoth:
		if err := hc.CloseRead(); err != nil {
			hc.CloseWrite()
			return err
		}
		return hc.CloseWrite()
	default:
		return hc.CloseWrite()
	}
}

// Close releases the owned socket and session and returns the handle to
// [StateIdle]. Closing an idle handle is a no-op. Close also unblocks
// any pending [Conn.WaitEvent] on this handle.
func (c *Conn) Close() Status {
	if c.state == StateIdle {
		return statusOK
	}

	t0 := c.TimeNow()
	c.logCloseStart(t0)

	if c.session != nil {
		c.session.Close()
		c.session = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	if c.listener != nil {
		c.listener.Close()
		c.listener = nil
	}

	c.logCloseDone(t0)
	c.id = ""
	c.state = StateIdle
	return statusOK
}

// VerifyPeerCertificate reports whether the peer presented a
// certificate chain that validated against the trust anchors configured
// with [TLSContext.SetVerify].
//
// Fails closed: a plaintext connection, a context without verification
// enabled, or an incomplete handshake all report false.
func (c *Conn) VerifyPeerCertificate() bool {
	if c.state != StateConnected || c.session == nil || c.tlsctx == nil {
		return false
	}
	if !c.tlsctx.verify {
		return false
	}
	state := c.session.ConnectionState()
	return state.HandshakeComplete && len(state.VerifiedChains) > 0
}

func (c *Conn) logConnectStart(epnt Endpoint, t0 time.Time) {
	c.Logger.Info(
		"connectStart",
		slog.String("protocol", "tcp"),
		slog.String("remoteAddr", epnt.String()),
		slog.Time("t", t0),
	)
}

func (c *Conn) logConnectDone(epnt Endpoint, t0 time.Time, conn net.Conn, err error) {
	c.Logger.Info(
		"connectDone",
		slog.String("connID", c.id),
		slog.Any("err", err),
		slog.String("errClass", c.ErrClassifier.Classify(err)),
		slog.String("localAddr", safeconn.LocalAddr(conn)),
		slog.String("protocol", "tcp"),
		slog.String("remoteAddr", epnt.String()),
		slog.Time("t0", t0),
		slog.Time("t", c.TimeNow()),
	)
}

func (c *Conn) logHandshakeStart(t0 time.Time) {
	c.Logger.Info(
		"tlsHandshakeStart",
		slog.String("connID", c.id),
		slog.String("localAddr", safeconn.LocalAddr(c.conn)),
		slog.String("remoteAddr", safeconn.RemoteAddr(c.conn)),
		slog.String("tlsRole", c.tlsctx.Role().String()),
		slog.Time("t", t0),
	)
}

func (c *Conn) logHandshakeDone(t0 time.Time, err error) {
	c.Logger.Info(
		"tlsHandshakeDone",
		slog.String("connID", c.id),
		slog.Any("err", err),
		slog.String("errClass", c.ErrClassifier.Classify(err)),
		slog.String("localAddr", safeconn.LocalAddr(c.conn)),
		slog.String("remoteAddr", safeconn.RemoteAddr(c.conn)),
		slog.String("tlsRole", c.tlsctx.Role().String()),
		slog.Time("t0", t0),
		slog.Time("t", c.TimeNow()),
	)
}

func (c *Conn) logListenStart(epnt Endpoint, backlog int, t0 time.Time) {
	c.Logger.Info(
		"listenStart",
		slog.Int("backlog", backlog),
		slog.String("localAddr", epnt.String()),
		slog.String("protocol", "tcp"),
		slog.Time("t", t0),
	)
}

func (c *Conn) logListenDone(epnt Endpoint, backlog int, t0 time.Time, err error) {
	c.Logger.Info(
		"listenDone",
		slog.Int("backlog", backlog),
		slog.Any("err", err),
		slog.String("errClass", c.ErrClassifier.Classify(err)),
		slog.String("localAddr", epnt.String()),
		slog.String("protocol", "tcp"),
		slog.Time("t0", t0),
		slog.Time("t", c.TimeNow()),
	)
}

func (c *Conn) logAcceptStart(t0 time.Time) {
	c.Logger.Info(
		"acceptStart",
		slog.String("connID", c.id),
		slog.String("localAddr", c.LocalAddr()),
		slog.Time("t", t0),
	)
}

func (c *Conn) logAcceptDone(t0 time.Time, conn net.Conn, err error) {
	c.Logger.Info(
		"acceptDone",
		slog.String("connID", c.id),
		slog.Any("err", err),
		slog.String("errClass", c.ErrClassifier.Classify(err)),
		slog.String("localAddr", c.LocalAddr()),
		slog.String("remoteAddr", safeconn.RemoteAddr(conn)),
		slog.Time("t0", t0),
		slog.Time("t", c.TimeNow()),
	)
}

func (c *Conn) logSendStart(total int, t0 time.Time) {
	c.Logger.Debug(
		"sendStart",
		slog.String("connID", c.id),
		slog.Int("count", total),
		slog.Time("t", t0),
	)
}

func (c *Conn) logSendDone(total, count int, t0 time.Time, err error) {
	c.Logger.Debug(
		"sendDone",
		slog.String("connID", c.id),
		slog.Int("count", count),
		slog.Any("err", err),
		slog.String("errClass", c.ErrClassifier.Classify(err)),
		slog.Int("total", total),
		slog.Time("t0", t0),
		slog.Time("t", c.TimeNow()),
	)
}

func (c *Conn) logRecvStart(total int, t0 time.Time) {
	c.Logger.Debug(
		"recvStart",
		slog.String("connID", c.id),
		slog.Int("count", total),
		slog.Time("t", t0),
	)
}

func (c *Conn) logRecvDone(total, count int, t0 time.Time, err error) {
	c.Logger.Debug(
		"recvDone",
		slog.String("connID", c.id),
		slog.Int("count", count),
		slog.Any("err", err),
		slog.String("errClass", c.ErrClassifier.Classify(err)),
		slog.Int("total", total),
		slog.Time("t0", t0),
		slog.Time("t", c.TimeNow()),
	)
}

func (c *Conn) logDisconnectStart(how ShutdownHow, t0 time.Time) {
	c.Logger.Info(
		"disconnectStart",
		slog.String("connID", c.id),
		slog.Int("how", int(how)),
		slog.String("localAddr", safeconn.LocalAddr(c.conn)),
		slog.String("remoteAddr", safeconn.RemoteAddr(c.conn)),
		slog.Time("t", t0),
	)
}

func (c *Conn) logDisconnectDone(how ShutdownHow, t0 time.Time, tcpStatus, tlsStatus Status) {
	c.Logger.Info(
		"disconnectDone",
		slog.String("connID", c.id),
		slog.Int("how", int(how)),
		slog.String("tcpStatus", tcpStatus.String()),
		slog.String("tlsStatus", tlsStatus.String()),
		slog.Time("t0", t0),
		slog.Time("t", c.TimeNow()),
	)
}

func (c *Conn) logCloseStart(t0 time.Time) {
	c.Logger.Info(
		"closeStart",
		slog.String("connID", c.id),
		slog.String("localAddr", c.LocalAddr()),
		slog.String("remoteAddr", c.RemoteAddr()),
		slog.Time("t", t0),
	)
}

func (c *Conn) logCloseDone(t0 time.Time) {
	c.Logger.Info(
		"closeDone",
		slog.String("connID", c.id),
		slog.Time("t0", t0),
		slog.Time("t", c.TimeNow()),
	)
}

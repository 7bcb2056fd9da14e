// SPDX-License-Identifier: GPL-3.0-or-later

package unisock

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"log/slog"
	"math/big"
	"net"
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bassosimone/netstub"
	"github.com/bassosimone/slogstub"
	"github.com/bassosimone/tlsstub"
	"github.com/stretchr/testify/require"
)

// newCapturingLogger returns a logger that captures all log records into the
// returned slice. The caller can inspect the slice after exercising the code
// under test to verify which events were emitted.
func newCapturingLogger() (*slog.Logger, *[]slog.Record) {
	var records []slog.Record
	handler := &slogstub.FuncHandler{
		EnabledFunc: func(ctx context.Context, level slog.Level) bool {
			return true
		},
		HandleFunc: func(ctx context.Context, record slog.Record) error {
			records = append(records, record)
			return nil
		},
	}
	return slog.New(handler), &records
}

// logMessages flattens captured records into their messages.
func logMessages(records *[]slog.Record) []string {
	var messages []string
	for _, record := range *records {
		messages = append(messages, record.Message)
	}
	return messages
}

// newMinimalConn returns a [*netstub.FuncConn] with only LocalAddrFunc,
// RemoteAddrFunc, and CloseFunc set. This is the minimum needed for code
// that renders addresses during logging and closes the conn on teardown.
func newMinimalConn() *netstub.FuncConn {
	return &netstub.FuncConn{
		CloseFunc:      func() error { return nil },
		LocalAddrFunc:  func() net.Addr { return &net.TCPAddr{} },
		RemoteAddrFunc: func() net.Addr { return &net.TCPAddr{} },
	}
}

// newCapturingTLSEngine returns a [*tlsstub.FuncTLSEngine] that records
// the configuration handed to Client into *captured and then defers to
// the standard library engine.
func newCapturingTLSEngine(captured **tls.Config) *tlsstub.FuncTLSEngine[TLSConn] {
	return &tlsstub.FuncTLSEngine[TLSConn]{
		ClientFunc: func(conn net.Conn, config *tls.Config) TLSConn {
			*captured = config
			return tls.Client(conn, config)
		},
		NameFunc: func() string {
			return "mock"
		},
		ParrotFunc: func() string {
			return ""
		},
	}
}

// funcResolver implements [Resolver] with configurable functions.
type funcResolver struct {
	lookupNetIP func(ctx context.Context, network, host string) ([]netip.Addr, error)
	lookupPort  func(ctx context.Context, network, service string) (int, error)
}

var _ Resolver = &funcResolver{}

func (r *funcResolver) LookupNetIP(
	ctx context.Context, network, host string) ([]netip.Addr, error) {
	return r.lookupNetIP(ctx, network, host)
}

func (r *funcResolver) LookupPort(
	ctx context.Context, network, service string) (int, error) {
	return r.lookupPort(ctx, network, service)
}

// writeTestCertificate generates a self-signed certificate valid for
// localhost, 127.0.0.1, and ::1 and writes the certificate and key PEM
// files into dir, returning their paths. The certificate is its own
// trust anchor, so passing certFile to [TLSContext.SetVerify] makes the
// loopback handshake verifiable.
func writeTestCertificate(t *testing.T, dir string) (certFile, keyFile string) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "unisock test"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		DNSNames:              []string{"localhost"},
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1"), net.ParseIP("::1")},
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)

	certFile = filepath.Join(dir, "cert.pem")
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	require.NoError(t, os.WriteFile(certFile, certPEM, 0o600))

	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	keyFile = filepath.Join(dir, "key.pem")
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	require.NoError(t, os.WriteFile(keyFile, keyPEM, 0o600))
	return
}

// listenLoopback starts a listener on an ephemeral loopback port and
// returns it together with the endpoint to connect to.
func listenLoopback(t *testing.T, tlsctx *TLSContext, mode Mode) (*Conn, Endpoint) {
	server := NewConn(NewConfig(), tlsctx, DefaultSLogger())
	status := server.Listen(
		context.Background(),
		NewEndpoint(netip.MustParseAddr("127.0.0.1"), 0),
		mode,
		0,
	)
	require.True(t, status.OK(), status.String())

	ap, err := netip.ParseAddrPort(server.LocalAddr())
	require.NoError(t, err)
	return server, NewEndpoint(ap.Addr(), ap.Port())
}

// echoAccepted echoes received bytes back to the peer until the peer
// performs an orderly shutdown, then closes the connection.
func echoAccepted(conn *Conn) {
	defer conn.Close()
	for {
		buf := make([]byte, DefaultRecvSize)
		count, status := conn.Recv(buf)
		if !status.OK() {
			return
		}
		cursor := 0
		for cursor < count {
			if status := conn.Send(buf[:count], &cursor); !status.OK() {
				return
			}
		}
	}
}

// runEchoServer accepts a single connection in the background and
// echoes on it. The returned channel closes when the server goroutine
// is done.
func runEchoServer(t *testing.T, server *Conn) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn, status := server.Accept(context.Background(), ModeBlocking)
		if !status.OK() {
			return
		}
		echoAccepted(conn)
	}()
	return done
}

// SPDX-License-Identifier: GPL-3.0-or-later

package unisock

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"os"
)

// Role selects the TLS role of a [*TLSContext].
type Role int

// The possible [Role] values.
const (
	// RoleClient builds contexts for initiating TLS sessions.
	RoleClient = Role(iota)

	// RoleServer builds contexts for accepting TLS sessions.
	RoleServer
)

// String returns the name of the role.
func (r Role) String() string {
	switch r {
	case RoleServer:
		return "server"
	default:
		return "client"
	}
}

// MaxVerifyDepth is the maximum certificate chain length accepted when
// peer verification is enabled, counting the leaf and the root.
const MaxVerifyDepth = 4

// errChainTooDeep means the verified chain exceeds [MaxVerifyDepth].
var errChainTooDeep = errors.New("unisock: certificate chain exceeds maximum verify depth")

// NewTLSContext creates a reusable [*TLSContext] for the given role.
//
// The certFile and keyFile arguments name PEM files holding the local
// certificate chain and private key. Empty paths skip loading, which is
// the norm for clients. Passing the same path twice loads a combined
// PEM holding both. A loading failure leaves the context unusable:
// [TLSContext.Status] reports it and every session attempt fails with
// it rather than crashing.
//
// By default the context performs no peer verification; call
// [TLSContext.SetVerify] to enable it.
//
// A context may be shared by many connections. Each session clones the
// underlying configuration, so destroying the context never invalidates
// established sessions.
func NewTLSContext(role Role, certFile, keyFile string) *TLSContext {
	ctx := &TLSContext{
		Engine: TLSEngineStdlib{},
		config: &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: true,
		},
		role:   role,
		status: statusOK,
	}
	ctx.loadKeyPair(certFile, keyFile)
	return ctx
}

// TLSContext holds reusable TLS configuration shared by connections.
//
// The exported fields are safe to modify after construction but before
// creating the first session.
type TLSContext struct {
	// Engine is the [TLSEngine] creating client sessions.
	//
	// Set by [NewTLSContext] to [TLSEngineStdlib].
	Engine TLSEngine

	// config is the role-scoped base configuration.
	config *tls.Config

	// role is the configured [Role].
	role Role

	// status records the first configuration failure.
	status Status

	// verify is true after a successful [TLSContext.SetVerify].
	verify bool
}

// Role returns the configured role.
func (c *TLSContext) Role() Role {
	return c.role
}

// Status returns the first configuration failure, or a successful
// [Status] when the context is usable.
func (c *TLSContext) Status() Status {
	return c.status
}

// SetVerify enables peer certificate verification against the PEM trust
// anchors in trustFile, with chains limited to [MaxVerifyDepth]. An
// empty trustFile verifies against the system trust store, preferring
// the pool preloaded by [Startup]. A loading failure marks the context
// unusable.
func (c *TLSContext) SetVerify(trustFile string) Status {
	if !c.status.OK() {
		return c.status
	}
	pool, err := c.loadTrustAnchors(trustFile)
	if err != nil {
		c.status = newConfigStatus(err)
		return c.status
	}
	switch c.role {
	case RoleServer:
		c.config.ClientCAs = pool
		c.config.ClientAuth = tls.RequireAndVerifyClientCert
	default:
		c.config.InsecureSkipVerify = false
		c.config.RootCAs = pool
	}
	c.config.VerifyPeerCertificate = verifyChainDepth
	c.verify = true
	return statusOK
}

// clientSession wraps conn into a client TLS session targeting the
// given server name. The session owns an independent clone of the
// context configuration.
func (c *TLSContext) clientSession(conn net.Conn, serverName string) (TLSConn, Status) {
	if !c.status.OK() {
		return nil, c.status
	}
	if c.role != RoleClient {
		return nil, newConfigStatus(errors.New("unisock: not a client TLS context"))
	}
	config := c.config.Clone()
	config.ServerName = serverName
	return c.Engine.Client(conn, config), statusOK
}

// serverSession wraps conn into a server TLS session. The session owns
// an independent clone of the context configuration.
func (c *TLSContext) serverSession(conn net.Conn) (TLSConn, Status) {
	if !c.status.OK() {
		return nil, c.status
	}
	if c.role != RoleServer {
		return nil, newConfigStatus(errors.New("unisock: not a server TLS context"))
	}
	if len(c.config.Certificates) <= 0 {
		return nil, newConfigStatus(errors.New("unisock: server TLS context has no certificate"))
	}
	return tls.Server(conn, c.config.Clone()), statusOK
}

func (c *TLSContext) loadKeyPair(certFile, keyFile string) {
	if certFile == "" && keyFile == "" {
		return
	}
	// A single path loads a combined PEM with both materials.
	if certFile == "" {
		certFile = keyFile
	}
	if keyFile == "" {
		keyFile = certFile
	}
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		c.status = newConfigStatus(err)
		return
	}
	c.config.Certificates = []tls.Certificate{cert}
}

func (c *TLSContext) loadTrustAnchors(trustFile string) (*x509.CertPool, error) {
	if trustFile == "" {
		if pool := sharedRoots(); pool != nil {
			return pool, nil
		}
		return x509.SystemCertPool()
	}
	pem, err := os.ReadFile(trustFile)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("unisock: no trust anchors in %s", trustFile)
	}
	return pool, nil
}

// verifyChainDepth rejects verified chains longer than [MaxVerifyDepth].
// It runs after the standard chain validation performed by crypto/tls.
func verifyChainDepth(rawCerts [][]byte, verifiedChains [][]*x509.Certificate) error {
	for _, chain := range verifiedChains {
		if len(chain) > MaxVerifyDepth {
			return errChainTooDeep
		}
	}
	return nil
}

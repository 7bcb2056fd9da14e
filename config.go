// SPDX-License-Identifier: GPL-3.0-or-later

package unisock

import (
	"context"
	"net"
	"net/netip"
	"time"
)

// Dialer abstracts the [*net.Dialer] behavior.
//
// By making [*Conn] depend on an abstract implementation we allow for
// unit testing and for using alternative dialers.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// ListenConfig abstracts the [*net.ListenConfig] behavior.
//
// By making [*Conn] depend on an abstract implementation we allow for
// unit testing and for using alternative listener factories.
type ListenConfig interface {
	Listen(ctx context.Context, network, address string) (net.Listener, error)
}

// Resolver abstracts the [*net.Resolver] behavior.
//
// By making [*EndpointResolver] depend on an abstract implementation we
// allow for unit testing without touching the network.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
	LookupPort(ctx context.Context, network, service string) (int, error)
}

// Config holds common configuration for unisock constructors.
//
// Pass this to constructor functions to pre-wire dependencies.
// All fields have sensible defaults set by [NewConfig].
type Config struct {
	// Dialer is used by [Conn.Connect].
	//
	// Set by [NewConfig] to [*net.Dialer].
	Dialer Dialer

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewConfig] to [DefaultErrClassifier].
	ErrClassifier ErrClassifier

	// ListenConfig is used by [Conn.Listen].
	//
	// Set by [NewConfig] to [*net.ListenConfig].
	ListenConfig ListenConfig

	// Resolver is used by [*EndpointResolver].
	//
	// Set by [NewConfig] to [net.DefaultResolver].
	Resolver Resolver

	// TimeNow is the function to get the current time.
	//
	// Set by [NewConfig] to [time.Now].
	TimeNow func() time.Time
}

// NewConfig creates a [*Config] with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Dialer:        &net.Dialer{},
		ErrClassifier: DefaultErrClassifier,
		ListenConfig:  &net.ListenConfig{},
		Resolver:      net.DefaultResolver,
		TimeNow:       time.Now,
	}
}

// SPDX-License-Identifier: GPL-3.0-or-later

package unisock

import (
	"context"
	"log/slog"
	"net"
	"net/netip"
	"os"
	"time"

	"github.com/bassosimone/unisock/syserr"
)

// NewEndpointResolver returns a new [*EndpointResolver].
//
// The cfg argument contains the common configuration for unisock operations.
//
// The logger argument is the [SLogger] to use for structured logging.
func NewEndpointResolver(cfg *Config, logger SLogger) *EndpointResolver {
	return &EndpointResolver{
		ErrClassifier: cfg.ErrClassifier,
		Logger:        logger,
		Resolver:      cfg.Resolver,
		TimeNow:       cfg.TimeNow,
	}
}

// EndpointResolver maps host and port names to ordered [Endpoint] lists
// by wrapping system name resolution.
//
// All fields are safe to modify after construction but before first use.
// Fields must not be mutated concurrently with calls to the methods.
type EndpointResolver struct {
	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewEndpointResolver] from [Config.ErrClassifier].
	ErrClassifier ErrClassifier

	// Logger is the [SLogger] to use (configurable for testing or custom logging).
	//
	// Set by [NewEndpointResolver] to the user-provided logger.
	Logger SLogger

	// Resolver is the [Resolver] to use.
	//
	// Set by [NewEndpointResolver] from [Config.Resolver].
	Resolver Resolver

	// TimeNow is the function to get the current time (configurable for testing).
	//
	// Set by [NewEndpointResolver] from [Config.TimeNow].
	TimeNow func() time.Time
}

// Resolve maps a host name and a port name to an ordered list of TCP
// [Endpoint] values.
//
// The host may be a name, an IP literal, or empty. An empty host in
// passive mode yields the wildcard endpoints for listening; otherwise
// it yields the loopback endpoints. The port may be a decimal number or
// a service name such as "https".
//
// On failure the returned list is empty and the [Status] is non-OK.
func (r *EndpointResolver) Resolve(
	ctx context.Context, host, port string, passive bool) ([]Endpoint, Status) {
	t0 := r.TimeNow()
	r.logResolveStart(host, port, passive, t0)

	portno, err := r.Resolver.LookupPort(ctx, "tcp", port)
	if err != nil {
		r.logResolveDone(host, port, passive, t0, nil, err)
		return nil, newCodeStatus(syserr.EINVAL, ClassIO)
	}

	addrs, err := r.lookupAddrs(ctx, host, passive)
	if err != nil {
		r.logResolveDone(host, port, passive, t0, nil, err)
		return nil, newSysStatus(err, ClassIO)
	}

	endpoints := make([]Endpoint, 0, len(addrs))
	for _, addr := range addrs {
		endpoints = append(endpoints, NewEndpoint(addr.Unmap(), uint16(portno)))
	}
	r.logResolveDone(host, port, passive, t0, endpoints, nil)
	return endpoints, statusOK
}

// ResolveHostPort is like [EndpointResolver.Resolve] for a combined
// "host:port" string. IPv6 literals must be bracketed. A string without
// a port separator fails with an EINVAL-coded [Status].
func (r *EndpointResolver) ResolveHostPort(
	ctx context.Context, hostport string, passive bool) ([]Endpoint, Status) {
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		return nil, newCodeStatus(syserr.EINVAL, ClassIO)
	}
	return r.Resolve(ctx, host, port, passive)
}

// LocalHostName returns the machine host name, or an empty string when
// the name cannot be obtained.
func (r *EndpointResolver) LocalHostName() string {
	name, err := os.Hostname()
	if err != nil {
		return ""
	}
	return name
}

func (r *EndpointResolver) lookupAddrs(
	ctx context.Context, host string, passive bool) ([]netip.Addr, error) {
	if host == "" {
		if passive {
			return []netip.Addr{netip.IPv6Unspecified(), netip.IPv4Unspecified()}, nil
		}
		return []netip.Addr{netip.IPv6Loopback(), netip.MustParseAddr("127.0.0.1")}, nil
	}
	return r.Resolver.LookupNetIP(ctx, "ip", host)
}

func (r *EndpointResolver) logResolveStart(
	host, port string, passive bool, t0 time.Time) {
	r.Logger.Info(
		"resolveStart",
		slog.String("hostname", host),
		slog.Bool("passive", passive),
		slog.String("port", port),
		slog.Time("t", t0),
	)
}

func (r *EndpointResolver) logResolveDone(
	host, port string, passive bool, t0 time.Time, endpoints []Endpoint, err error) {
	addrs := make([]string, 0, len(endpoints))
	for _, epnt := range endpoints {
		addrs = append(addrs, epnt.String())
	}
	r.Logger.Info(
		"resolveDone",
		slog.Any("endpoints", addrs),
		slog.Any("err", err),
		slog.String("errClass", r.ErrClassifier.Classify(err)),
		slog.String("hostname", host),
		slog.Bool("passive", passive),
		slog.String("port", port),
		slog.Time("t0", t0),
		slog.Time("t", r.TimeNow()),
	)
}

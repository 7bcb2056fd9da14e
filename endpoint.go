// SPDX-License-Identifier: GPL-3.0-or-later

package unisock

import "net/netip"

// Family identifies the address family of an [Endpoint].
type Family int

// The possible [Family] values.
const (
	// FamilyUnspec marks the zero [Endpoint].
	FamilyUnspec = Family(iota)

	// FamilyINET marks an IPv4 endpoint.
	FamilyINET

	// FamilyINET6 marks an IPv6 endpoint.
	FamilyINET6
)

// String returns the name of the family.
func (f Family) String() string {
	switch f {
	case FamilyINET:
		return "inet"
	case FamilyINET6:
		return "inet6"
	default:
		return "unspec"
	}
}

// Endpoint is a resolved transport endpoint: an IP address plus a TCP
// port. The zero value is invalid.
//
// Construct endpoints with [NewEndpoint] or obtain them from an
// [*EndpointResolver].
type Endpoint struct {
	ap netip.AddrPort
}

// NewEndpoint creates an [Endpoint] from an address and port.
func NewEndpoint(addr netip.Addr, port uint16) Endpoint {
	return Endpoint{ap: netip.AddrPortFrom(addr, port)}
}

// Family returns the endpoint address family.
func (e Endpoint) Family() Family {
	switch {
	case e.ap.Addr().Is4() || e.ap.Addr().Is4In6():
		return FamilyINET
	case e.ap.Addr().IsValid():
		return FamilyINET6
	default:
		return FamilyUnspec
	}
}

// Addr returns the endpoint IP address.
func (e Endpoint) Addr() netip.Addr {
	return e.ap.Addr()
}

// Port returns the endpoint TCP port.
func (e Endpoint) Port() uint16 {
	return e.ap.Port()
}

// AddrPort returns the endpoint as a [netip.AddrPort].
func (e Endpoint) AddrPort() netip.AddrPort {
	return e.ap
}

// IsValid reports whether the endpoint carries a valid address.
func (e Endpoint) IsValid() bool {
	return e.ap.Addr().IsValid()
}

// String returns the "host:port" textual form, bracketing IPv6
// addresses as required by [net.Dial] style addresses.
func (e Endpoint) String() string {
	return e.ap.String()
}

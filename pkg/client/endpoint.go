package client

import (
	"fmt"
	"net"
	"net/netip"
)

// Endpoint is a remote RADIUS peer and the secret shared with it.
type Endpoint struct {
	Addr   net.Addr
	Secret string
}

// NewEndpoint resolves a "host:port" UDP address.
func NewEndpoint(addr, secret string) (Endpoint, error) {
	if secret == "" {
		return Endpoint{}, fmt.Errorf("endpoint %s: empty shared secret", addr)
	}
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return Endpoint{}, fmt.Errorf("failed to resolve address %s: %w", addr, err)
	}
	return Endpoint{Addr: udpAddr, Secret: secret}, nil
}

func (e Endpoint) String() string {
	if e.Addr == nil {
		return "<nil>"
	}
	return e.Addr.String()
}

// addrKey normalizes an address so IPv4 and IPv4-mapped IPv6 forms compare equal.
func addrKey(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	if udp, ok := addr.(*net.UDPAddr); ok {
		ap := udp.AddrPort()
		return netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port()).String()
	}
	return addr.String()
}

func sameAddr(a, b net.Addr) bool {
	return addrKey(a) == addrKey(b)
}

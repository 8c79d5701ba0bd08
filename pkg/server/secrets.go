package server

import (
	"fmt"
	"net"
	"net/netip"
	"sort"
	"sync"

	"github.com/vitalvas/radkit/pkg/packet"
)

// SecretProvider returns the secret shared with the client at remote.
// The request is parsed but not yet verified.
type SecretProvider interface {
	SharedSecret(remote net.Addr, req *packet.Packet) (string, bool)
}

// SecretProviderFunc is an adapter to allow use of ordinary functions as secret providers
type SecretProviderFunc func(remote net.Addr, req *packet.Packet) (string, bool)

// SharedSecret calls f(remote, req)
func (f SecretProviderFunc) SharedSecret(remote net.Addr, req *packet.Packet) (string, bool) {
	return f(remote, req)
}

type secretEntry struct {
	name    string
	network netip.Prefix
	secret  string
}

// StaticSecrets maps client networks to secrets; the longest matching prefix wins.
// Safe for concurrent use.
type StaticSecrets struct {
	mu      sync.RWMutex
	entries []secretEntry
}

func NewStaticSecrets() *StaticSecrets {
	return &StaticSecrets{}
}

// Add registers a client network given as an IP or CIDR.
func (s *StaticSecrets) Add(name, network, secret string) error {
	if secret == "" {
		return fmt.Errorf("client %q: empty shared secret", name)
	}
	prefix, err := parseNetwork(network)
	if err != nil {
		return fmt.Errorf("client %q: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, secretEntry{name: name, network: prefix, secret: secret})
	sort.SliceStable(s.entries, func(i, j int) bool {
		return s.entries[i].network.Bits() > s.entries[j].network.Bits()
	})
	return nil
}

// SharedSecret implements SecretProvider.
func (s *StaticSecrets) SharedSecret(remote net.Addr, _ *packet.Packet) (string, bool) {
	ip, ok := remoteIP(remote)
	if !ok {
		return "", false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.network.Contains(ip) {
			return e.secret, true
		}
	}
	return "", false
}

// Len returns the number of registered networks.
func (s *StaticSecrets) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// parseNetwork accepts an IP or CIDR
func parseNetwork(network string) (netip.Prefix, error) {
	if prefix, err := netip.ParsePrefix(network); err == nil {
		return netip.PrefixFrom(prefix.Addr().Unmap(), prefix.Bits()).Masked(), nil
	}
	addr, err := netip.ParseAddr(network)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("invalid client network %q", network)
	}
	addr = addr.Unmap()
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

func remoteIP(remote net.Addr) (netip.Addr, bool) {
	var ip net.IP
	switch addr := remote.(type) {
	case *net.UDPAddr:
		ip = addr.IP
	case *net.IPAddr:
		ip = addr.IP
	case *net.TCPAddr:
		ip = addr.IP
	default:
		return netip.Addr{}, false
	}
	a, ok := netip.AddrFromSlice(ip)
	if !ok {
		return netip.Addr{}, false
	}
	return a.Unmap(), true
}

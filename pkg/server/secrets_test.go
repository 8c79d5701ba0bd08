package server

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/radkit/pkg/packet"
)

func TestStaticSecrets(t *testing.T) {
	s := NewStaticSecrets()
	require.NoError(t, s.Add("lan", "10.0.0.0/8", "lan-secret"))
	require.NoError(t, s.Add("nas1", "10.1.2.3", "nas1-secret"))
	require.NoError(t, s.Add("v6", "2001:db8::/32", "v6-secret"))
	assert.Equal(t, 3, s.Len())

	assert.Error(t, s.Add("bad", "not-a-network", "x"))
	assert.Error(t, s.Add("empty", "192.0.2.1", ""))

	tests := []struct {
		name   string
		addr   net.Addr
		secret string
		found  bool
	}{
		{"longest prefix", &net.UDPAddr{IP: net.ParseIP("10.1.2.3"), Port: 1}, "nas1-secret", true},
		{"network", &net.UDPAddr{IP: net.ParseIP("10.9.9.9"), Port: 1}, "lan-secret", true},
		{"mapped ipv4", &net.UDPAddr{IP: net.ParseIP("::ffff:10.1.2.3"), Port: 1}, "nas1-secret", true},
		{"ipv6", &net.UDPAddr{IP: net.ParseIP("2001:db8::1"), Port: 1}, "v6-secret", true},
		{"unknown", &net.UDPAddr{IP: net.ParseIP("192.0.2.1"), Port: 1}, "", false},
		{"unsupported addr", &net.UnixAddr{Name: "/tmp/x", Net: "unixgram"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secret, ok := s.SharedSecret(tt.addr, nil)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.secret, secret)
		})
	}
}

func TestSecretProviderFunc(t *testing.T) {
	p := SecretProviderFunc(func(net.Addr, *packet.Packet) (string, bool) {
		return "fixed", true
	})
	secret, ok := p.SharedSecret(nil, nil)
	assert.True(t, ok)
	assert.Equal(t, "fixed", secret)
}

package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"layeh.com/radius"
)

// The checks below compare against layeh.com/radius, an independent implementation.

func TestUserPasswordInterop(t *testing.T) {
	secret := "interop-secret"

	ours, err := EncryptUserPassword([]byte("hunter2"), testRequestAuth, secret)
	require.NoError(t, err)

	theirs, err := radius.NewUserPassword([]byte("hunter2"), []byte(secret), testRequestAuth)
	require.NoError(t, err)
	assert.Equal(t, []byte(theirs), ours)

	plain, err := radius.UserPassword(radius.Attribute(ours), []byte(secret), testRequestAuth)
	require.NoError(t, err)
	assert.Equal(t, []byte("hunter2"), plain)
}

func TestTunnelPasswordInterop(t *testing.T) {
	secret := "interop-secret"
	salt := []byte{0x85, 0x1f}

	ours, err := EncryptTunnelPasswordWithSalt([]byte("tunnel-pw"), salt, testRequestAuth, secret)
	require.NoError(t, err)

	theirs, err := radius.NewTunnelPassword([]byte("tunnel-pw"), salt, []byte(secret), testRequestAuth)
	require.NoError(t, err)
	assert.Equal(t, []byte(theirs), ours)

	plain, gotSalt, err := radius.TunnelPassword(radius.Attribute(ours), []byte(secret), testRequestAuth)
	require.NoError(t, err)
	assert.Equal(t, []byte("tunnel-pw"), plain)
	assert.Equal(t, salt, gotSalt)
}

func TestAuthenticatorInterop(t *testing.T) {
	secret := "interop-secret"
	attrs := []byte{0x28, 0x06, 0x00, 0x00, 0x00, 0x01}

	// Accounting-Request
	req := append([]byte{4, 9, 0, 26}, make([]byte, 16)...)
	req = append(req, attrs...)
	copy(req[4:20], RequestAuthenticator(4, 9, 26, attrs, secret))
	assert.True(t, radius.IsAuthenticRequest(req, []byte(secret)))

	// Accounting-Response
	resp := append([]byte{5, 9, 0, 20}, make([]byte, 16)...)
	copy(resp[4:20], ResponseAuthenticator(5, 9, 20, req[4:20], nil, secret))
	assert.True(t, radius.IsAuthenticResponse(resp, req, []byte(secret)))
}

package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPasswordScenario(t *testing.T) {
	auth, err := RandomAuthenticator()
	require.NoError(t, err)

	cipher, err := EncryptUserPassword([]byte("myPw"), auth, "sharedSecret1")
	require.NoError(t, err)
	assert.Len(t, cipher, 16)
	assert.NotEqual(t, []byte("myPw"), cipher[:4])

	plain, err := DecryptUserPassword(cipher, auth, "sharedSecret1")
	require.NoError(t, err)
	assert.Equal(t, []byte("myPw"), plain)
}

func TestUserPasswordRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantLen  int
	}{
		{"empty", "", 16},
		{"short", "secret", 16},
		{"exact block", strings.Repeat("a", 16), 16},
		{"two blocks", strings.Repeat("b", 17), 32},
		{"maximum", strings.Repeat("c", MaxUserPasswordLength), MaxUserPasswordLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cipher, err := EncryptUserPassword([]byte(tt.password), testRequestAuth, "s3cr3t")
			require.NoError(t, err)
			assert.Len(t, cipher, tt.wantLen)

			plain, err := DecryptUserPassword(cipher, testRequestAuth, "s3cr3t")
			require.NoError(t, err)
			assert.Equal(t, tt.password, string(plain))
		})
	}
}

func TestUserPasswordErrors(t *testing.T) {
	_, err := EncryptUserPassword([]byte("pw"), testRequestAuth, "")
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, err = EncryptUserPassword([]byte("pw"), testRequestAuth[:4], "s")
	assert.ErrorIs(t, err, ErrInvalidAuthenticatorLength)

	_, err = EncryptUserPassword([]byte(strings.Repeat("x", MaxUserPasswordLength+1)), testRequestAuth, "s")
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = DecryptUserPassword(make([]byte, 15), testRequestAuth, "s")
	assert.ErrorIs(t, err, ErrInvalidCiphertext)

	_, err = DecryptUserPassword(make([]byte, 20), testRequestAuth, "s")
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestTunnelPasswordRoundTrip(t *testing.T) {
	for _, pw := range []string{"", "tunnel", strings.Repeat("t", 15), strings.Repeat("t", 40)} {
		data, err := EncryptTunnelPassword([]byte(pw), testRequestAuth, "secret")
		require.NoError(t, err)
		assert.Equal(t, byte(0x80), data[0]&0x80, "salt MSB must be set")
		assert.Zero(t, (len(data)-TunnelPasswordSaltLength)%16)

		plain, err := DecryptTunnelPassword(data, testRequestAuth, "secret")
		require.NoError(t, err)
		assert.Equal(t, pw, string(plain))
	}
}

func TestTunnelPasswordWithSalt(t *testing.T) {
	a, err := EncryptTunnelPasswordWithSalt([]byte("pw"), []byte{0x01, 0x02}, testRequestAuth, "secret")
	require.NoError(t, err)
	b, err := EncryptTunnelPasswordWithSalt([]byte("pw"), []byte{0x81, 0x02}, testRequestAuth, "secret")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, []byte{0x81, 0x02}, a[:2])
	assert.Len(t, a, 18)

	_, err = EncryptTunnelPasswordWithSalt([]byte("pw"), []byte{0x81}, testRequestAuth, "secret")
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestTunnelPasswordErrors(t *testing.T) {
	_, err := DecryptTunnelPassword(make([]byte, 17), testRequestAuth, "secret")
	assert.ErrorIs(t, err, ErrInvalidCiphertext)

	_, err = DecryptTunnelPassword(make([]byte, 2+20), testRequestAuth, "secret")
	assert.ErrorIs(t, err, ErrInvalidCiphertext)

	_, err = EncryptTunnelPassword([]byte(strings.Repeat("x", MaxTunnelPasswordLength+1)), testRequestAuth, "secret")
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	// decrypting with the wrong secret yields a garbage length octet sooner or later
	data, err := EncryptTunnelPasswordWithSalt([]byte("pw"), []byte{0x80, 0x00}, testRequestAuth, "secret")
	require.NoError(t, err)
	plain, err := DecryptTunnelPassword(data, testRequestAuth, "wrong")
	if err == nil {
		assert.NotEqual(t, "pw", string(plain))
	} else {
		assert.ErrorIs(t, err, ErrInvalidCiphertext)
	}
}

func TestCHAPPassword(t *testing.T) {
	challenge, err := CHAPChallenge()
	require.NoError(t, err)
	assert.Len(t, challenge, CHAPChallengeLength)

	chap := CHAPPassword(7, "password", challenge)
	assert.Len(t, chap, CHAPPasswordLength)
	assert.Equal(t, byte(7), chap[0])

	assert.True(t, VerifyCHAPPassword(chap, "password", challenge))
	assert.False(t, VerifyCHAPPassword(chap, "wrong", challenge))
	assert.False(t, VerifyCHAPPassword(chap[:16], "password", challenge))
}

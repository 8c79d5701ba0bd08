package crypto

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/rand"
	"errors"
	"fmt"
)

// AuthenticatorLength is the length of RADIUS authenticators in bytes
const AuthenticatorLength = 16

var (
	// ErrInvalidAuthenticatorLength indicates an authenticator that is not 16 octets
	ErrInvalidAuthenticatorLength = errors.New("invalid authenticator length")
	// ErrEmptySecret indicates a missing shared secret
	ErrEmptySecret = errors.New("shared secret must not be empty")
	// ErrInvalidCiphertext indicates an encrypted value with a bad length or layout
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
	// ErrPasswordTooLong indicates a password exceeding the codec limit
	ErrPasswordTooLong = errors.New("password too long")
)

// RandomAuthenticator generates a random Request Authenticator
func RandomAuthenticator() ([]byte, error) {
	auth := make([]byte, AuthenticatorLength)
	if _, err := rand.Read(auth); err != nil {
		return nil, fmt.Errorf("failed to generate random authenticator: %w", err)
	}
	return auth, nil
}

// ZeroAuthenticator returns 16 zero octets
func ZeroAuthenticator() []byte {
	return make([]byte, AuthenticatorLength)
}

// ResponseAuthenticator calculates the Response Authenticator as defined in RFC 2865
// Response Authenticator = MD5(Code + ID + Length + Request Authenticator + Response Attributes + Secret)
func ResponseAuthenticator(code, identifier byte, length int, requestAuth, attributes []byte, secret string) []byte {
	hash := md5.New()
	hash.Write([]byte{code, identifier, byte(length >> 8), byte(length)})
	hash.Write(requestAuth)
	hash.Write(attributes)
	hash.Write([]byte(secret))
	return hash.Sum(nil)
}

// RequestAuthenticator calculates the Request Authenticator of non Access-Request packets (RFC 2866)
// Request Authenticator = MD5(Code + ID + Length + 16 zero octets + Request Attributes + Secret)
func RequestAuthenticator(code, identifier byte, length int, attributes []byte, secret string) []byte {
	return ResponseAuthenticator(code, identifier, length, ZeroAuthenticator(), attributes, secret)
}

// EqualAuthenticator compares two authenticators in constant time
func EqualAuthenticator(a, b []byte) bool {
	return hmac.Equal(a, b)
}

// IsZero reports whether auth consists of zero octets only
func IsZero(auth []byte) bool {
	for _, b := range auth {
		if b != 0 {
			return false
		}
	}
	return true
}

// CheckAuthenticator validates the length of an authenticator
func CheckAuthenticator(auth []byte) error {
	if len(auth) != AuthenticatorLength {
		return fmt.Errorf("%w: expected %d octets, got %d", ErrInvalidAuthenticatorLength, AuthenticatorLength, len(auth))
	}
	return nil
}

package crypto

import (
	"crypto/hmac"
	"crypto/md5"
)

// Message-Authenticator implementation as defined in RFC 2869

const (
	// MessageAuthenticatorType is the attribute type of Message-Authenticator
	MessageAuthenticatorType = 80
	// MessageAuthenticatorLength is the length of the Message-Authenticator value
	MessageAuthenticatorLength = 16
)

// MessageAuthenticator calculates HMAC-MD5(secret, packet).
// The caller provides the packet with the Message-Authenticator value zeroed
// and the header authenticator set as the packet type requires.
func MessageAuthenticator(secret string, packet []byte) []byte {
	mac := hmac.New(md5.New, []byte(secret))
	mac.Write(packet)
	return mac.Sum(nil)
}

// VerifyMessageAuthenticator recomputes the HMAC over packet and compares it with received.
func VerifyMessageAuthenticator(secret string, packet, received []byte) bool {
	return hmac.Equal(MessageAuthenticator(secret, packet), received)
}

package packet

import "errors"

var (
	// ErrMalformedPacket indicates bytes that are not a valid RADIUS packet
	ErrMalformedPacket = errors.New("malformed packet")
	// ErrPacketTooLarge indicates a packet exceeding 4096 octets
	ErrPacketTooLarge = errors.New("packet too large")
	// ErrAuthenticatorMismatch indicates a failed request or response authenticator check
	ErrAuthenticatorMismatch = errors.New("authenticator mismatch")
	// ErrMessageAuthenticatorMismatch indicates a failed Message-Authenticator check
	ErrMessageAuthenticatorMismatch = errors.New("message authenticator mismatch")
	// ErrInvalidAuthenticator indicates a missing or wrongly sized authenticator
	ErrInvalidAuthenticator = errors.New("invalid authenticator")
	// ErrInvalidAccessRequest indicates an Access-Request with inconsistent authentication attributes
	ErrInvalidAccessRequest = errors.New("invalid access request")
)

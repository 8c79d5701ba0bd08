package attribute

import (
	"github.com/vitalvas/radkit/pkg/crypto"
	"github.com/vitalvas/radkit/pkg/dictionary"
)

// Well-known codes that always carry an encryption method regardless of the dictionary flags.
const (
	TypeUserPassword   = 2
	TypeTunnelPassword = 69

	AscendVendorID       = 529
	TypeAscendSendSecret = 214
)

// Codec transforms an attribute value between plaintext and its wire form.
// The tag octet is never part of the input.
type Codec interface {
	Encode(plain, requestAuth []byte, secret string) ([]byte, error)
	Decode(cipher, requestAuth []byte, secret string) ([]byte, error)
}

// NoneCodec leaves values untouched.
type NoneCodec struct{}

func (NoneCodec) Encode(plain, _ []byte, _ string) ([]byte, error) { return plain, nil }
func (NoneCodec) Decode(cipher, _ []byte, _ string) ([]byte, error) { return cipher, nil }

// UserPasswordCodec implements the RFC 2865 User-Password hiding.
type UserPasswordCodec struct{}

func (UserPasswordCodec) Encode(plain, requestAuth []byte, secret string) ([]byte, error) {
	return crypto.EncryptUserPassword(plain, requestAuth, secret)
}

func (UserPasswordCodec) Decode(cipher, requestAuth []byte, secret string) ([]byte, error) {
	return crypto.DecryptUserPassword(cipher, requestAuth, secret)
}

// TunnelPasswordCodec implements the RFC 2868 Tunnel-Password hiding.
type TunnelPasswordCodec struct{}

func (TunnelPasswordCodec) Encode(plain, requestAuth []byte, secret string) ([]byte, error) {
	return crypto.EncryptTunnelPassword(plain, requestAuth, secret)
}

func (TunnelPasswordCodec) Decode(cipher, requestAuth []byte, secret string) ([]byte, error) {
	return crypto.DecryptTunnelPassword(cipher, requestAuth, secret)
}

// AscendSendSecretCodec stands in for the unpublished Ascend algorithm.
// It is an identity transform kept separate from NoneCodec so the
// attribute still counts as encrypted.
type AscendSendSecretCodec struct{}

func (AscendSendSecretCodec) Encode(plain, _ []byte, _ string) ([]byte, error) {
	return append([]byte(nil), plain...), nil
}

func (AscendSendSecretCodec) Decode(cipher, _ []byte, _ string) ([]byte, error) {
	return append([]byte(nil), cipher...), nil
}

// CodecFor returns the codec implementing an encryption method.
func CodecFor(m dictionary.EncryptMethod) Codec {
	switch m {
	case dictionary.EncryptUserPassword:
		return UserPasswordCodec{}
	case dictionary.EncryptTunnelPassword:
		return TunnelPasswordCodec{}
	case dictionary.EncryptAscendSendSecret:
		return AscendSendSecretCodec{}
	default:
		return NoneCodec{}
	}
}

// EncryptMethodOf resolves the effective encryption method of a code.
func EncryptMethodOf(vendorID, typ int, t *dictionary.AttributeTemplate) dictionary.EncryptMethod {
	switch {
	case vendorID == dictionary.NoVendor && typ == TypeUserPassword:
		return dictionary.EncryptUserPassword
	case vendorID == dictionary.NoVendor && typ == TypeTunnelPassword:
		return dictionary.EncryptTunnelPassword
	case vendorID == AscendVendorID && typ == TypeAscendSendSecret:
		return dictionary.EncryptAscendSendSecret
	case t != nil:
		return t.Encrypt
	default:
		return dictionary.EncryptNone
	}
}

func isTagged(vendorID, typ int, t *dictionary.AttributeTemplate) bool {
	if vendorID == dictionary.NoVendor && typ == TypeTunnelPassword {
		return true
	}
	return t != nil && t.HasTag
}

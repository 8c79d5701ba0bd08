package crypto

import (
	"crypto/md5"
	"crypto/rand"
	"fmt"
)

const (
	blockSize = md5.Size

	// MaxUserPasswordLength is the longest User-Password plaintext (RFC 2865 5.2)
	MaxUserPasswordLength = 128
	// MaxTunnelPasswordLength is the longest Tunnel-Password plaintext (RFC 2868 3.5)
	MaxTunnelPasswordLength = 249
	// TunnelPasswordSaltLength is the length of the Tunnel-Password salt
	TunnelPasswordSaltLength = 2
)

// EncryptUserPassword hides a password as described in RFC 2865 5.2.
// The plaintext is NUL padded to a multiple of 16 octets (at least 16).
func EncryptUserPassword(plain, requestAuth []byte, secret string) ([]byte, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if err := CheckAuthenticator(requestAuth); err != nil {
		return nil, err
	}
	if len(plain) > MaxUserPasswordLength {
		return nil, fmt.Errorf("%w: %d octets, max %d", ErrPasswordTooLong, len(plain), MaxUserPasswordLength)
	}

	out := pad(plain)
	xorBlocks(out, []byte(secret), requestAuth, true)
	return out, nil
}

// DecryptUserPassword reverses EncryptUserPassword and strips the NUL padding.
func DecryptUserPassword(cipher, requestAuth []byte, secret string) ([]byte, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if err := CheckAuthenticator(requestAuth); err != nil {
		return nil, err
	}
	if len(cipher) < blockSize || len(cipher)%blockSize != 0 {
		return nil, fmt.Errorf("%w: User-Password length %d is not a positive multiple of %d", ErrInvalidCiphertext, len(cipher), blockSize)
	}

	out := append([]byte(nil), cipher...)
	xorBlocks(out, []byte(secret), requestAuth, false)
	return trimPadding(out), nil
}

// EncryptTunnelPassword hides a password as described in RFC 2868 3.5 using a fresh salt.
// The result is salt followed by the ciphertext; the tag octet is not included.
func EncryptTunnelPassword(plain, requestAuth []byte, secret string) ([]byte, error) {
	salt := make([]byte, TunnelPasswordSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return EncryptTunnelPasswordWithSalt(plain, salt, requestAuth, secret)
}

// EncryptTunnelPasswordWithSalt is EncryptTunnelPassword with a caller-chosen salt.
// The most significant bit of the salt is always set.
func EncryptTunnelPasswordWithSalt(plain, salt, requestAuth []byte, secret string) ([]byte, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if err := CheckAuthenticator(requestAuth); err != nil {
		return nil, err
	}
	if len(salt) != TunnelPasswordSaltLength {
		return nil, fmt.Errorf("%w: salt must be %d octets", ErrInvalidCiphertext, TunnelPasswordSaltLength)
	}
	if len(plain) > MaxTunnelPasswordLength {
		return nil, fmt.Errorf("%w: %d octets, max %d", ErrPasswordTooLong, len(plain), MaxTunnelPasswordLength)
	}

	s := []byte{salt[0] | 0x80, salt[1]}
	body := pad(append([]byte{byte(len(plain))}, plain...))
	xorBlocks(body, []byte(secret), append(append([]byte(nil), requestAuth...), s...), true)

	return append(s, body...), nil
}

// DecryptTunnelPassword reverses EncryptTunnelPassword.
// It requires at least one 16 octet block after the salt.
func DecryptTunnelPassword(data, requestAuth []byte, secret string) ([]byte, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if err := CheckAuthenticator(requestAuth); err != nil {
		return nil, err
	}
	if len(data) < TunnelPasswordSaltLength+blockSize {
		return nil, fmt.Errorf("%w: Tunnel-Password too short (%d octets)", ErrInvalidCiphertext, len(data))
	}
	if (len(data)-TunnelPasswordSaltLength)%blockSize != 0 {
		return nil, fmt.Errorf("%w: Tunnel-Password ciphertext length %d is not a multiple of %d",
			ErrInvalidCiphertext, len(data)-TunnelPasswordSaltLength, blockSize)
	}

	salt := data[:TunnelPasswordSaltLength]
	body := append([]byte(nil), data[TunnelPasswordSaltLength:]...)
	xorBlocks(body, []byte(secret), append(append([]byte(nil), requestAuth...), salt...), false)

	n := int(body[0])
	if n > len(body)-1 {
		return nil, fmt.Errorf("%w: Tunnel-Password length octet %d exceeds data", ErrInvalidCiphertext, n)
	}
	return body[1 : 1+n], nil
}

// xorBlocks applies the RFC 2865 block chain in place.
// b1 = MD5(secret + seed), bi = MD5(secret + c(i-1)); ci = pi XOR bi.
func xorBlocks(data, secret, seed []byte, encrypt bool) {
	prev := seed
	for i := 0; i < len(data); i += blockSize {
		hash := md5.New()
		hash.Write(secret)
		hash.Write(prev)
		b := hash.Sum(nil)

		block := data[i : i+blockSize]
		if encrypt {
			for j := range block {
				block[j] ^= b[j]
			}
			prev = block
		} else {
			next := append([]byte(nil), block...)
			for j := range block {
				block[j] ^= b[j]
			}
			prev = next
		}
	}
}

func pad(plain []byte) []byte {
	n := len(plain)
	if n == 0 || n%blockSize != 0 {
		n += blockSize - n%blockSize
	}
	out := make([]byte, n)
	copy(out, plain)
	return out
}

func trimPadding(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return b[:end]
}

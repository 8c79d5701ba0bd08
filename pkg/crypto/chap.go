package crypto

import (
	"crypto/md5"
	"crypto/rand"
	"crypto/subtle"
)

const (
	// CHAPChallengeLength is the default length of a CHAP challenge in bytes.
	CHAPChallengeLength = 16

	// CHAPPasswordLength is the length of CHAP-Password: 1 octet identifier + 16 octet MD5.
	CHAPPasswordLength = 17
)

// CHAPChallenge generates a random 16 octet CHAP challenge.
func CHAPChallenge() ([]byte, error) {
	challenge := make([]byte, CHAPChallengeLength)
	if _, err := rand.Read(challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

// CHAPPassword builds a CHAP-Password value: identifier + MD5(identifier + password + challenge).
func CHAPPassword(identifier byte, password string, challenge []byte) []byte {
	hash := md5.New()
	hash.Write([]byte{identifier})
	hash.Write([]byte(password))
	hash.Write(challenge)

	out := make([]byte, 0, CHAPPasswordLength)
	out = append(out, identifier)
	return hash.Sum(out)
}

// VerifyCHAPPassword checks a CHAP-Password value against a plaintext password.
func VerifyCHAPPassword(chapPassword []byte, password string, challenge []byte) bool {
	if len(chapPassword) != CHAPPasswordLength {
		return false
	}
	expected := CHAPPassword(chapPassword[0], password, challenge)
	return subtle.ConstantTimeCompare(chapPassword, expected) == 1
}

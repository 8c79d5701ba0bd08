package packet

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/vitalvas/radkit/pkg/attribute"
	"github.com/vitalvas/radkit/pkg/crypto"
	"github.com/vitalvas/radkit/pkg/dictionary"
	"github.com/vitalvas/radkit/pkg/log"
)

// AuthType is the authentication mechanism an Access-Request carries.
type AuthType int

const (
	AuthNone AuthType = iota
	AuthPAP
	AuthCHAP
	AuthEAP
	AuthARAP
)

var authTypeNames = map[AuthType]string{
	AuthNone: "NoAuth",
	AuthPAP:  "PAP",
	AuthCHAP: "CHAP",
	AuthEAP:  "EAP",
	AuthARAP: "ARAP",
}

func (t AuthType) String() string {
	if name, ok := authTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("AuthType(%d)", int(t))
}

var authAttributeTypes = map[int]AuthType{
	TypeUserPassword: AuthPAP,
	TypeCHAPPassword: AuthCHAP,
	TypeEAPMessage:   AuthEAP,
	TypeARAPPassword: AuthARAP,
}

// ErrUnsupportedAuthType is returned by CheckPassword for mechanisms that carry no verifiable password.
var ErrUnsupportedAuthType = errors.New("password check not supported for auth type")

// AuthType infers the authentication mechanism from the top-level attributes.
// A request carrying more than one mechanism is invalid.
func (p *Packet) AuthType() (AuthType, error) {
	found := AuthNone
	for _, a := range p.attributes {
		if a.VendorID() != dictionary.NoVendor {
			continue
		}
		t, ok := authAttributeTypes[a.Type()]
		if !ok || t == found {
			continue
		}
		if found != AuthNone {
			return AuthNone, fmt.Errorf("%w: both %s and %s attributes present", ErrInvalidAccessRequest, found, t)
		}
		found = t
	}
	return found, nil
}

// validateAccessRequest checks the attributes required by the inferred mechanism.
// decoding enables the checks that only hold for a received request.
func (p *Packet) validateAccessRequest(decoding bool, logger log.Logger) (AuthType, error) {
	t, err := p.AuthType()
	if err != nil {
		return t, err
	}

	count := func(typ int) int {
		n := 0
		for _, a := range p.attributes {
			if a.VendorID() == dictionary.NoVendor && a.Type() == typ {
				n++
			}
		}
		return n
	}

	switch t {
	case AuthPAP:
		if n := count(TypeUserPassword); n != 1 {
			return t, fmt.Errorf("%w: PAP requires exactly one User-Password, got %d", ErrInvalidAccessRequest, n)
		}
	case AuthCHAP:
		attrs := p.AttributesOf(dictionary.NoVendor, TypeCHAPPassword)
		if len(attrs) != 1 {
			return t, fmt.Errorf("%w: CHAP requires exactly one CHAP-Password, got %d", ErrInvalidAccessRequest, len(attrs))
		}
		if n := len(attrs[0].Value()); n != crypto.CHAPPasswordLength {
			return t, fmt.Errorf("%w: CHAP-Password must be %d octets, got %d", ErrInvalidAccessRequest, crypto.CHAPPasswordLength, n)
		}
	case AuthEAP:
		if decoding && p.countMessageAuthenticators() != 1 {
			return t, fmt.Errorf("%w: EAP requires exactly one Message-Authenticator, got %d", ErrInvalidAccessRequest, p.countMessageAuthenticators())
		}
	case AuthARAP:
		if n := count(TypeARAPPassword); n != 1 {
			return t, fmt.Errorf("%w: ARAP requires exactly one ARAP-Password, got %d", ErrInvalidAccessRequest, n)
		}
	case AuthNone:
		if decoding && p.countMessageAuthenticators() != 1 {
			logger.Warn("Access-Request without User-Password, CHAP-Password, ARAP-Password or EAP-Message should carry a Message-Authenticator")
		}
	}
	return t, nil
}

// NewAccessRequestPAP builds an Access-Request carrying User-Name and a plaintext User-Password.
// The password is encrypted by EncodeRequest.
func NewAccessRequestPAP(dict *dictionary.Dictionary, identifier uint8, user, password string, attrs ...*attribute.Attribute) (*Packet, error) {
	p, err := newAccessRequest(dict, identifier, user, attrs)
	if err != nil {
		return nil, err
	}
	return p.WithPAPPassword(password)
}

// NewAccessRequestCHAP builds an Access-Request carrying User-Name, a random
// CHAP-Challenge and the matching CHAP-Password.
func NewAccessRequestCHAP(dict *dictionary.Dictionary, identifier uint8, user, password string, attrs ...*attribute.Attribute) (*Packet, error) {
	p, err := newAccessRequest(dict, identifier, user, attrs)
	if err != nil {
		return nil, err
	}
	return p.WithCHAPPassword(password)
}

func newAccessRequest(dict *dictionary.Dictionary, identifier uint8, user string, attrs []*attribute.Attribute) (*Packet, error) {
	name, err := attribute.NewString(dict, dictionary.NoVendor, TypeUserName, user)
	if err != nil {
		return nil, err
	}
	all := append([]*attribute.Attribute{name}, attrs...)
	return New(dict, CodeAccessRequest, identifier, nil, all)
}

// WithPAPPassword returns a copy with any authentication attributes replaced by User-Password.
func (p *Packet) WithPAPPassword(password string) (*Packet, error) {
	if len(password) > crypto.MaxUserPasswordLength {
		return nil, fmt.Errorf("%w: %d octets, max %d", crypto.ErrPasswordTooLong, len(password), crypto.MaxUserPasswordLength)
	}
	pw, err := attribute.Create(p.dict, dictionary.NoVendor, TypeUserPassword, 0, []byte(password))
	if err != nil {
		return nil, err
	}
	return p.withoutAuthAttributes().AddAttribute(pw)
}

// WithCHAPPassword returns a copy with any authentication attributes replaced by
// a CHAP-Challenge and the CHAP-Password computed over it.
func (p *Packet) WithCHAPPassword(password string) (*Packet, error) {
	challenge, err := crypto.CHAPChallenge()
	if err != nil {
		return nil, err
	}
	id := make([]byte, 1)
	if _, err := rand.Read(id); err != nil {
		return nil, err
	}

	chapChallenge, err := attribute.Create(p.dict, dictionary.NoVendor, TypeCHAPChallenge, 0, challenge)
	if err != nil {
		return nil, err
	}
	chapPassword, err := attribute.Create(p.dict, dictionary.NoVendor, TypeCHAPPassword, 0, crypto.CHAPPassword(id[0], password, challenge))
	if err != nil {
		return nil, err
	}

	return p.withoutAuthAttributes().
		RemoveAttributes(dictionary.NoVendor, TypeCHAPChallenge).
		AddAttributes(chapChallenge, chapPassword)
}

func (p *Packet) withoutAuthAttributes() *Packet {
	out := p
	for typ := range authAttributeTypes {
		out = out.RemoveAttributes(dictionary.NoVendor, typ)
	}
	return out
}

// CheckPassword verifies a plaintext password against a decoded PAP or CHAP Access-Request.
// The CHAP challenge is CHAP-Challenge when present, the request authenticator otherwise.
func (p *Packet) CheckPassword(password string) (bool, error) {
	if p.code != CodeAccessRequest {
		return false, fmt.Errorf("%w: %s is not an Access-Request", ErrInvalidAccessRequest, p.code)
	}
	t, err := p.AuthType()
	if err != nil {
		return false, err
	}

	switch t {
	case AuthPAP:
		a, _ := p.Attribute(dictionary.NoVendor, TypeUserPassword)
		if a.Encoded() {
			return false, fmt.Errorf("%w: User-Password", attribute.ErrEncoded)
		}
		return subtle.ConstantTimeCompare(a.Value(), []byte(password)) == 1, nil
	case AuthCHAP:
		a, _ := p.Attribute(dictionary.NoVendor, TypeCHAPPassword)
		challenge := p.authenticator
		if c, ok := p.Attribute(dictionary.NoVendor, TypeCHAPChallenge); ok {
			challenge = c.Value()
		}
		if len(challenge) == 0 {
			return false, fmt.Errorf("%w: no CHAP challenge", ErrInvalidAccessRequest)
		}
		return crypto.VerifyCHAPPassword(a.Value(), password, challenge), nil
	default:
		return false, fmt.Errorf("%w: %s", ErrUnsupportedAuthType, t)
	}
}

package packet

import (
	"fmt"

	"github.com/vitalvas/radkit/pkg/attribute"
	"github.com/vitalvas/radkit/pkg/crypto"
	"github.com/vitalvas/radkit/pkg/dictionary"
	"github.com/vitalvas/radkit/pkg/log"
)

type codecOptions struct {
	logger log.Logger
}

// CodecOption configures packet encoding and decoding.
type CodecOption func(*codecOptions)

// WithLogger sets the logger used for skipped checks and validation warnings.
func WithLogger(logger log.Logger) CodecOption {
	return func(o *codecOptions) {
		o.logger = logger
	}
}

func newCodecOptions(opts []CodecOption) *codecOptions {
	o := &codecOptions{}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = log.OrDiscard(o.logger)
	return o
}

// EncodeRequest returns the request ready for the wire: encrypted attributes,
// Message-Authenticator and request authenticator.
//
// Access-Request and Status-Server keep an existing authenticator or get a random one,
// and always carry a Message-Authenticator. Other requests are encrypted against
// 16 zero octets and hashed into their authenticator.
// Encoding an encoded request again yields the same bytes.
func (p *Packet) EncodeRequest(secret string, opts ...CodecOption) (*Packet, error) {
	if secret == "" {
		return nil, crypto.ErrEmptySecret
	}
	o := newCodecOptions(opts)

	if p.code.UsesRandomAuthenticator() {
		return p.encodeRandomAuthRequest(secret, o)
	}

	zero := crypto.ZeroAuthenticator()
	attrs, err := encodeAttributes(p.attributes, zero, secret)
	if err != nil {
		return nil, err
	}
	out, err := New(p.dict, p.code, p.identifier, zero, attrs)
	if err != nil {
		return nil, err
	}
	if out.countMessageAuthenticators() > 0 {
		if out, err = out.withMessageAuthenticator(secret, zero); err != nil {
			return nil, err
		}
	}

	auth := crypto.RequestAuthenticator(byte(out.code), out.identifier, out.Len(), attribute.Marshal(out.attributes), secret)
	return out.WithAuthenticator(auth)
}

func (p *Packet) encodeRandomAuthRequest(secret string, o *codecOptions) (*Packet, error) {
	if p.code == CodeAccessRequest {
		if _, err := p.validateAccessRequest(false, o.logger); err != nil {
			return nil, err
		}
	}

	auth := p.authenticator
	if auth == nil {
		var err error
		if auth, err = crypto.RandomAuthenticator(); err != nil {
			return nil, err
		}
	}

	attrs, err := encodeAttributes(p.attributes, auth, secret)
	if err != nil {
		return nil, err
	}
	out, err := New(p.dict, p.code, p.identifier, auth, attrs)
	if err != nil {
		return nil, err
	}
	return out.withMessageAuthenticator(secret, auth)
}

// DecodeRequest verifies a received request and decrypts its attributes.
// Checks that fail on a packet whose attributes are already decrypted are
// skipped with an info log, so decoding twice is a no-op.
func (p *Packet) DecodeRequest(secret string, opts ...CodecOption) (*Packet, error) {
	if secret == "" {
		return nil, crypto.ErrEmptySecret
	}
	o := newCodecOptions(opts)

	if len(p.authenticator) != AuthenticatorLength {
		return nil, fmt.Errorf("%w: request authenticator missing", ErrInvalidAuthenticator)
	}

	if p.code.UsesRandomAuthenticator() {
		switch p.code {
		case CodeAccessRequest:
			if _, err := p.validateAccessRequest(true, o.logger); err != nil {
				return nil, err
			}
		case CodeStatusServer:
			if p.countMessageAuthenticators() != 1 {
				return nil, fmt.Errorf("%w: Status-Server must carry exactly one Message-Authenticator", ErrMalformedPacket)
			}
		}

		if err := p.verifyMessageAuthenticator(secret, p.authenticator, o.logger); err != nil {
			return nil, err
		}
		return p.decodeAttributes(p.authenticator, secret)
	}

	zero := crypto.ZeroAuthenticator()
	if err := p.verifyMessageAuthenticator(secret, zero, o.logger); err != nil {
		return nil, err
	}
	if err := p.verifyAuthenticator(secret, zero, o.logger); err != nil {
		return nil, err
	}
	return p.decodeAttributes(zero, secret)
}

// EncodeResponse returns the response ready for the wire, encrypted and
// authenticated against the authenticator of the request it answers.
// Access-Accept, Access-Reject and Access-Challenge always carry a Message-Authenticator.
func (p *Packet) EncodeResponse(secret string, requestAuth []byte, opts ...CodecOption) (*Packet, error) {
	if secret == "" {
		return nil, crypto.ErrEmptySecret
	}
	if len(requestAuth) != AuthenticatorLength {
		return nil, fmt.Errorf("%w: request authenticator must be %d octets, got %d", ErrInvalidAuthenticator, AuthenticatorLength, len(requestAuth))
	}

	attrs, err := encodeAttributes(p.attributes, requestAuth, secret)
	if err != nil {
		return nil, err
	}
	out, err := New(p.dict, p.code, p.identifier, nil, attrs)
	if err != nil {
		return nil, err
	}
	if p.code.IsAccessResponse() || out.countMessageAuthenticators() > 0 {
		if out, err = out.withMessageAuthenticator(secret, requestAuth); err != nil {
			return nil, err
		}
	}

	auth := crypto.ResponseAuthenticator(byte(out.code), out.identifier, out.Len(), requestAuth, attribute.Marshal(out.attributes), secret)
	return out.WithAuthenticator(auth)
}

// DecodeResponse verifies a received response against the request authenticator
// and decrypts its attributes.
func (p *Packet) DecodeResponse(secret string, requestAuth []byte, opts ...CodecOption) (*Packet, error) {
	if secret == "" {
		return nil, crypto.ErrEmptySecret
	}
	if len(requestAuth) != AuthenticatorLength {
		return nil, fmt.Errorf("%w: request authenticator must be %d octets, got %d", ErrInvalidAuthenticator, AuthenticatorLength, len(requestAuth))
	}
	if len(p.authenticator) != AuthenticatorLength {
		return nil, fmt.Errorf("%w: response authenticator missing", ErrInvalidAuthenticator)
	}
	o := newCodecOptions(opts)

	if err := p.verifyMessageAuthenticator(secret, requestAuth, o.logger); err != nil {
		return nil, err
	}
	if err := p.verifyAuthenticator(secret, requestAuth, o.logger); err != nil {
		return nil, err
	}
	return p.decodeAttributes(requestAuth, secret)
}

// verifyAuthenticator checks MD5(code, id, length, requestAuth, attributes, secret).
func (p *Packet) verifyAuthenticator(secret string, requestAuth []byte, logger log.Logger) error {
	expected := crypto.ResponseAuthenticator(byte(p.code), p.identifier, p.Len(), requestAuth, attribute.Marshal(p.attributes), secret)
	if crypto.EqualAuthenticator(expected, p.authenticator) {
		return nil
	}
	if p.HasDecodedAttributes() {
		logger.Info("skipping packet authenticator check: attributes have been decrypted already")
		return nil
	}
	return fmt.Errorf("%w: bad authenticator or shared secret", ErrAuthenticatorMismatch)
}

// verifyMessageAuthenticator checks the Message-Authenticator when present.
// headerAuth is the authenticator the sender placed in the header while computing it.
func (p *Packet) verifyMessageAuthenticator(secret string, headerAuth []byte, logger log.Logger) error {
	attrs := p.messageAuthenticators()
	switch len(attrs) {
	case 0:
		return nil
	case 1:
	default:
		return fmt.Errorf("%w: at most one Message-Authenticator allowed, got %d", ErrMalformedPacket, len(attrs))
	}

	received := attrs[0].Value()
	if len(received) != crypto.MessageAuthenticatorLength {
		return fmt.Errorf("%w: Message-Authenticator must be %d octets, got %d", ErrMalformedPacket, crypto.MessageAuthenticatorLength, len(received))
	}

	if crypto.VerifyMessageAuthenticator(secret, p.messageAuthenticatorInput(headerAuth), received) {
		return nil
	}
	if p.HasDecodedAttributes() {
		logger.Info("skipping Message-Authenticator check: attributes have been decrypted already")
		return nil
	}
	return ErrMessageAuthenticatorMismatch
}

// withMessageAuthenticator drops any Message-Authenticator, appends a zeroed one,
// computes the HMAC with headerAuth in the header and splices it into the value.
func (p *Packet) withMessageAuthenticator(secret string, headerAuth []byte) (*Packet, error) {
	zeroed, err := attribute.Create(p.dict, dictionary.NoVendor, TypeMessageAuthenticator, 0, make([]byte, crypto.MessageAuthenticatorLength))
	if err != nil {
		return nil, err
	}

	stripped := p.RemoveAttributes(dictionary.NoVendor, TypeMessageAuthenticator)
	attrs := append(stripped.Attributes(), zeroed)
	withZero, err := New(p.dict, p.code, p.identifier, p.authenticator, attrs)
	if err != nil {
		return nil, err
	}

	mac := crypto.MessageAuthenticator(secret, withZero.messageAuthenticatorInput(headerAuth))
	signed, err := attribute.Create(p.dict, dictionary.NoVendor, TypeMessageAuthenticator, 0, mac)
	if err != nil {
		return nil, err
	}

	attrs[len(attrs)-1] = signed
	return New(p.dict, p.code, p.identifier, p.authenticator, attrs)
}

// messageAuthenticatorInput is the packet with headerAuth in the header and
// every Message-Authenticator value zeroed.
func (p *Packet) messageAuthenticatorInput(headerAuth []byte) []byte {
	header, _ := BuildHeader(p.code, p.identifier, headerAuth, p.attributes)
	buf := make([]byte, 0, p.Len())
	buf = append(buf, header...)
	for _, a := range p.attributes {
		if isMessageAuthenticator(a) {
			buf = append(buf, TypeMessageAuthenticator, byte(attribute.HeaderLength+crypto.MessageAuthenticatorLength))
			buf = append(buf, make([]byte, crypto.MessageAuthenticatorLength)...)
			continue
		}
		buf = append(buf, a.Bytes()...)
	}
	return buf
}

func (p *Packet) messageAuthenticators() []*attribute.Attribute {
	var out []*attribute.Attribute
	for _, a := range p.attributes {
		if isMessageAuthenticator(a) {
			out = append(out, a)
		}
	}
	return out
}

func (p *Packet) countMessageAuthenticators() int {
	return len(p.messageAuthenticators())
}

func (p *Packet) decodeAttributes(auth []byte, secret string) (*Packet, error) {
	attrs := make([]*attribute.Attribute, len(p.attributes))
	for i, a := range p.attributes {
		d, err := a.Decode(auth, secret)
		if err != nil {
			return nil, err
		}
		attrs[i] = d
	}
	return New(p.dict, p.code, p.identifier, p.authenticator, attrs)
}

func encodeAttributes(attrs []*attribute.Attribute, auth []byte, secret string) ([]*attribute.Attribute, error) {
	out := make([]*attribute.Attribute, len(attrs))
	for i, a := range attrs {
		e, err := a.Encode(auth, secret)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func isMessageAuthenticator(a *attribute.Attribute) bool {
	return a.VendorID() == dictionary.NoVendor && a.Type() == TypeMessageAuthenticator
}

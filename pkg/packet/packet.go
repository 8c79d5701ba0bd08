package packet

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/vitalvas/radkit/pkg/attribute"
	"github.com/vitalvas/radkit/pkg/dictionary"
)

// Packet is an immutable RADIUS packet.
// Every mutator returns a new Packet and leaves the receiver untouched,
// so a request can be retransmitted or re-encoded while it is shared.
type Packet struct {
	dict          *dictionary.Dictionary
	code          Code
	identifier    uint8
	authenticator []byte
	attributes    []*attribute.Attribute
}

// New creates a packet. auth may be nil (no authenticator yet) or exactly 16 octets.
// Vendor sub-attributes are wrapped in their own Vendor-Specific attribute.
func New(dict *dictionary.Dictionary, code Code, identifier uint8, auth []byte, attrs []*attribute.Attribute) (*Packet, error) {
	wrapped, err := wrapSubAttributes(dict, attrs)
	if err != nil {
		return nil, err
	}
	if _, err := BuildHeader(code, identifier, auth, wrapped); err != nil {
		return nil, err
	}

	p := &Packet{
		dict:       dict,
		code:       code,
		identifier: identifier,
		attributes: wrapped,
	}
	if auth != nil {
		p.authenticator = append([]byte(nil), auth...)
	}
	return p, nil
}

// BuildHeader returns the 20 octet header for the given packet contents.
// A nil authenticator is written as zeros.
func BuildHeader(code Code, identifier uint8, auth []byte, attrs []*attribute.Attribute) ([]byte, error) {
	if auth != nil && len(auth) != AuthenticatorLength {
		return nil, fmt.Errorf("%w: must be %d octets, got %d", ErrInvalidAuthenticator, AuthenticatorLength, len(auth))
	}

	length := HeaderLength
	for _, a := range attrs {
		length += a.Len()
	}
	if length > MaxPacketLength {
		return nil, fmt.Errorf("%w: %d octets, max %d", ErrPacketTooLarge, length, MaxPacketLength)
	}

	header := make([]byte, HeaderLength)
	header[0] = byte(code)
	header[1] = identifier
	binary.BigEndian.PutUint16(header[2:4], uint16(length))
	copy(header[4:], auth)
	return header, nil
}

// Parse decodes a datagram. Encrypted attribute values stay encoded until
// DecodeRequest or DecodeResponse is called.
func Parse(dict *dictionary.Dictionary, data []byte) (*Packet, error) {
	if len(data) < MinPacketLength {
		return nil, fmt.Errorf("%w: packet too short: %d octets", ErrMalformedPacket, len(data))
	}
	if len(data) > MaxPacketLength {
		return nil, fmt.Errorf("%w: %d octets", ErrPacketTooLarge, len(data))
	}

	length := int(binary.BigEndian.Uint16(data[2:4]))
	if length < MinPacketLength || length > MaxPacketLength {
		return nil, fmt.Errorf("%w: invalid length in header: %d", ErrMalformedPacket, length)
	}
	if length != len(data) {
		return nil, fmt.Errorf("%w: packet length mismatch: header says %d, got %d", ErrMalformedPacket, length, len(data))
	}

	attrs, err := attribute.ReadAll(dict, dictionary.NoVendor, data[HeaderLength:length])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPacket, err)
	}

	return &Packet{
		dict:          dict,
		code:          Code(data[0]),
		identifier:    data[1],
		authenticator: append([]byte(nil), data[4:HeaderLength]...),
		attributes:    attrs,
	}, nil
}

// Bytes returns the wire form of the packet.
func (p *Packet) Bytes() []byte {
	// the header cannot fail: length and authenticator were checked on construction
	header, _ := BuildHeader(p.code, p.identifier, p.authenticator, p.attributes)
	return append(header, attribute.Marshal(p.attributes)...)
}

// Code returns the packet code.
func (p *Packet) Code() Code { return p.code }

// Identifier returns the packet identifier.
func (p *Packet) Identifier() uint8 { return p.identifier }

// Authenticator returns a copy of the authenticator, nil when unset.
func (p *Packet) Authenticator() []byte {
	if p.authenticator == nil {
		return nil
	}
	return append([]byte(nil), p.authenticator...)
}

// Dictionary returns the dictionary used to build attributes.
func (p *Packet) Dictionary() *dictionary.Dictionary { return p.dict }

// Len returns the encoded length of the packet.
func (p *Packet) Len() int {
	n := HeaderLength
	for _, a := range p.attributes {
		n += a.Len()
	}
	return n
}

// Attributes returns the top-level attributes.
func (p *Packet) Attributes() []*attribute.Attribute {
	return append([]*attribute.Attribute(nil), p.attributes...)
}

// FlatAttributes returns the attributes with Vendor-Specific containers expanded.
func (p *Packet) FlatAttributes() []*attribute.Attribute {
	return attribute.Flatten(p.attributes)
}

// Attribute returns the first attribute with the given code.
func (p *Packet) Attribute(vendorID, typ int) (*attribute.Attribute, bool) {
	return attribute.First(p.attributes, vendorID, typ)
}

// AttributesOf returns every attribute with the given code.
func (p *Packet) AttributesOf(vendorID, typ int) []*attribute.Attribute {
	return attribute.Find(p.attributes, vendorID, typ)
}

// AttributeByName returns the first attribute named in the dictionary.
func (p *Packet) AttributeByName(name string) (*attribute.Attribute, bool) {
	if p.dict == nil {
		return nil, false
	}
	t, ok := p.dict.TemplateByName(name)
	if !ok {
		return nil, false
	}
	return p.Attribute(t.VendorID, t.Type)
}

// WithAuthenticator returns a copy carrying auth.
func (p *Packet) WithAuthenticator(auth []byte) (*Packet, error) {
	return New(p.dict, p.code, p.identifier, auth, p.attributes)
}

// WithIdentifier returns a copy carrying another identifier.
func (p *Packet) WithIdentifier(identifier uint8) *Packet {
	c := *p
	c.identifier = identifier
	return &c
}

// WithAttributes returns a copy holding attrs instead of the current attributes.
func (p *Packet) WithAttributes(attrs []*attribute.Attribute) (*Packet, error) {
	return New(p.dict, p.code, p.identifier, p.authenticator, attrs)
}

// AddAttribute returns a copy with attr appended.
func (p *Packet) AddAttribute(attr *attribute.Attribute) (*Packet, error) {
	return p.AddAttributes(attr)
}

// AddAttributes returns a copy with attrs appended.
func (p *Packet) AddAttributes(attrs ...*attribute.Attribute) (*Packet, error) {
	all := make([]*attribute.Attribute, 0, len(p.attributes)+len(attrs))
	all = append(all, p.attributes...)
	all = append(all, attrs...)
	return p.WithAttributes(all)
}

// RemoveAttribute returns a copy without attributes equal to attr.
// A sub-attribute is removed from its container; an emptied container is dropped.
func (p *Packet) RemoveAttribute(attr *attribute.Attribute) *Packet {
	return p.removeMatching(func(a *attribute.Attribute) bool { return a.Equal(attr) })
}

// RemoveAttributes returns a copy without any attribute of the given code.
func (p *Packet) RemoveAttributes(vendorID, typ int) *Packet {
	return p.removeMatching(func(a *attribute.Attribute) bool {
		return a.VendorID() == vendorID && a.Type() == typ
	})
}

// RemoveLastAttribute returns a copy without the last top-level attribute of type typ.
func (p *Packet) RemoveLastAttribute(typ int) *Packet {
	for i := len(p.attributes) - 1; i >= 0; i-- {
		a := p.attributes[i]
		if a.VendorID() == dictionary.NoVendor && a.Type() == typ {
			attrs := make([]*attribute.Attribute, 0, len(p.attributes)-1)
			attrs = append(attrs, p.attributes[:i]...)
			attrs = append(attrs, p.attributes[i+1:]...)
			c := *p
			c.attributes = attrs
			return &c
		}
	}
	return p
}

func (p *Packet) removeMatching(match func(*attribute.Attribute) bool) *Packet {
	attrs := make([]*attribute.Attribute, 0, len(p.attributes))
	for _, a := range p.attributes {
		if match(a) {
			continue
		}
		if a.IsVSA() {
			var kept []*attribute.Attribute
			for _, c := range a.Children() {
				if !match(c) {
					kept = append(kept, c)
				}
			}
			if len(kept) == 0 {
				continue
			}
			if len(kept) != len(a.Children()) {
				// a subset of valid children always fits the original container
				vsa, err := a.WithChildren(kept...)
				if err == nil {
					a = vsa
				}
			}
		}
		attrs = append(attrs, a)
	}

	c := *p
	c.attributes = attrs
	return &c
}

// HasDecodedAttributes reports whether an encryptable attribute holds plaintext.
func (p *Packet) HasDecodedAttributes() bool {
	for _, a := range p.attributes {
		if a.HasDecoded() {
			return true
		}
	}
	return false
}

// String returns a multi-line representation of the packet
func (p *Packet) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s, ID %d, length %d", p.code, p.identifier, p.Len())
	for _, a := range p.attributes {
		sb.WriteString("\n  ")
		sb.WriteString(a.String())
	}
	return sb.String()
}

func wrapSubAttributes(dict *dictionary.Dictionary, attrs []*attribute.Attribute) ([]*attribute.Attribute, error) {
	out := make([]*attribute.Attribute, 0, len(attrs))
	for _, a := range attrs {
		if a == nil {
			return nil, fmt.Errorf("%w: nil attribute", ErrMalformedPacket)
		}
		if a.VendorID() != dictionary.NoVendor {
			vsa, err := attribute.NewVendorSpecific(dict, a.VendorID(), a)
			if err != nil {
				return nil, err
			}
			a = vsa
		}
		out = append(out, a)
	}
	return out, nil
}

package attribute

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"github.com/vitalvas/radkit/pkg/dictionary"
)

// Create builds an attribute from its plaintext value.
//
// The template registered for (vendorID, typ) selects the data type checks
// and whether tag is kept. Codes missing from the dictionary become octets
// attributes, so unknown attributes never fail to build.
func Create(dict *dictionary.Dictionary, vendorID, typ int, tag byte, value []byte) (*Attribute, error) {
	if vendorID == dictionary.NoVendor && typ == dictionary.VendorSpecificType {
		return parseVendorSpecific(dict, value)
	}

	a, err := newAttribute(dict, vendorID, typ, tag, value)
	if err != nil {
		return nil, err
	}
	if a.hasTag && a.Kind() == dictionary.DataTypeInteger && len(a.value) == 4 {
		// RFC 2868: the tag takes the high octet of a tagged integer
		if a.value[0] != 0 {
			return nil, fmt.Errorf("%s: %w: tagged integer %d exceeds 24 bits",
				a.Name(), ErrInvalidValue, binary.BigEndian.Uint32(a.value))
		}
		a.value = a.value[1:]
	}
	if err := validateValue(a.Kind(), a.hasTag, a.value); err != nil {
		return nil, fmt.Errorf("%s: %w", a.Name(), err)
	}
	return a, nil
}

// CreateEncoded builds an attribute from a value already in wire form.
// Values of encrypted attributes are kept as opaque ciphertext; other
// attributes are validated like Create.
func CreateEncoded(dict *dictionary.Dictionary, vendorID, typ int, tag byte, value []byte) (*Attribute, error) {
	if vendorID == dictionary.NoVendor && typ == dictionary.VendorSpecificType {
		return parseVendorSpecific(dict, value)
	}

	a, err := newAttribute(dict, vendorID, typ, tag, value)
	if err != nil {
		return nil, err
	}
	if a.IsEncrypted() {
		a.encoded = true
		return a, nil
	}
	if err := validateValue(a.Kind(), a.hasTag, a.value); err != nil {
		return nil, fmt.Errorf("%s: %w", a.Name(), err)
	}
	return a, nil
}

// Parse builds an attribute from its textual representation: enumeration
// names or decimals for integers, dotted addresses, addr/len prefixes and
// hex (optionally 0x prefixed) for octets.
func Parse(dict *dictionary.Dictionary, vendorID, typ int, tag byte, text string) (*Attribute, error) {
	t := lookupTemplate(dict, vendorID, typ)

	kind := dictionary.DataTypeOctets
	if t != nil {
		kind = t.DataType
	}

	value, err := parseText(t, kind, text)
	if err != nil {
		return nil, err
	}
	return Create(dict, vendorID, typ, tag, value)
}

// FromName resolves name in the dictionary and parses text as its value.
// Vendor sub-attributes are returned bare; see NewVendorSpecific and packet helpers.
func FromName(dict *dictionary.Dictionary, name, text string) (*Attribute, error) {
	if dict == nil {
		return nil, fmt.Errorf("%w: %s (no dictionary)", ErrUnknownAttribute, name)
	}
	t, ok := dict.TemplateByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAttribute, name)
	}
	return Parse(dict, t.VendorID, t.Type, 0, text)
}

// FromNameTagged is FromName for tagged attributes.
func FromNameTagged(dict *dictionary.Dictionary, name string, tag byte, text string) (*Attribute, error) {
	if dict == nil {
		return nil, fmt.Errorf("%w: %s (no dictionary)", ErrUnknownAttribute, name)
	}
	t, ok := dict.TemplateByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAttribute, name)
	}
	return Parse(dict, t.VendorID, t.Type, tag, text)
}

// NewInteger builds an integer attribute.
func NewInteger(dict *dictionary.Dictionary, vendorID, typ int, v uint32) (*Attribute, error) {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return Create(dict, vendorID, typ, 0, b)
}

// NewString builds a string attribute.
func NewString(dict *dictionary.Dictionary, vendorID, typ int, s string) (*Attribute, error) {
	return Create(dict, vendorID, typ, 0, []byte(s))
}

func newAttribute(dict *dictionary.Dictionary, vendorID, typ int, tag byte, value []byte) (*Attribute, error) {
	if vendorID < dictionary.NoVendor {
		return nil, fmt.Errorf("%w: invalid vendor ID %d", ErrInvalidValue, vendorID)
	}
	if typ < 0 || (vendorID == dictionary.NoVendor && typ > 255) {
		return nil, fmt.Errorf("%w: attribute type out of range: %d", ErrInvalidValue, typ)
	}

	t := lookupTemplate(dict, vendorID, typ)
	a := &Attribute{
		dict:     dict,
		template: t,
		vendorID: vendorID,
		typ:      typ,
		hasTag:   isTagged(vendorID, typ, t),
		value:    append([]byte(nil), value...),
	}
	if a.hasTag {
		a.tag = tag
	}

	if vendorID != dictionary.NoVendor {
		if v, ok := lookupVendor(dict, vendorID); ok {
			a.vendor = v
		}
		if a.vendor != nil && a.vendor.TypeSize < 4 && typ >= 1<<(8*a.vendor.TypeSize) {
			return nil, fmt.Errorf("%w: sub-attribute type %d does not fit vendor %s", ErrInvalidValue, typ, a.vendor.Name)
		}
		if a.Len() > MaxSubAttributeLength {
			return nil, fmt.Errorf("%w: %s is %d octets, max %d", ErrValueTooLong, a.Name(), a.Len(), MaxSubAttributeLength)
		}
		return a, nil
	}

	if len(a.value)+a.tagSize() > MaxValueLength {
		return nil, fmt.Errorf("%w: %s value is %d octets, max %d", ErrValueTooLong, a.Name(), len(a.value)+a.tagSize(), MaxValueLength)
	}
	return a, nil
}

func lookupTemplate(dict *dictionary.Dictionary, vendorID, typ int) *dictionary.AttributeTemplate {
	if dict == nil {
		return nil
	}
	t, ok := dict.Template(vendorID, typ)
	if !ok {
		return nil
	}
	return t
}

func lookupVendor(dict *dictionary.Dictionary, vendorID int) (*dictionary.Vendor, bool) {
	if dict == nil {
		return nil, false
	}
	return dict.Vendor(vendorID)
}

func validateValue(kind dictionary.DataType, tagged bool, value []byte) error {
	switch kind {
	case dictionary.DataTypeInteger:
		if want := integerSize(tagged); len(value) != want {
			return fmt.Errorf("%w: integer must be %d octets, got %d", ErrInvalidValue, want, len(value))
		}
	case dictionary.DataTypeIPAddr:
		if len(value) != net.IPv4len {
			return fmt.Errorf("%w: ipaddr must be 4 octets, got %d", ErrInvalidValue, len(value))
		}
	case dictionary.DataTypeIPv6Addr:
		if len(value) != net.IPv6len {
			return fmt.Errorf("%w: ipv6addr must be 16 octets, got %d", ErrInvalidValue, len(value))
		}
	case dictionary.DataTypeIPv6Prefix:
		if _, err := decodeIPv6Prefix(value); err != nil {
			return err
		}
	}
	return nil
}

// integerSize is the value length of an integer; a tag octet replaces the high octet.
func integerSize(tagged bool) int {
	if tagged {
		return 3
	}
	return 4
}

func parseText(t *dictionary.AttributeTemplate, kind dictionary.DataType, text string) ([]byte, error) {
	switch kind {
	case dictionary.DataTypeString:
		return []byte(text), nil
	case dictionary.DataTypeInteger:
		if t != nil {
			if v, ok := t.ValueByName(text); ok {
				return binary.BigEndian.AppendUint32(nil, v), nil
			}
		}
		v, err := strconv.ParseUint(strings.TrimSpace(text), 0, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer or known value", ErrInvalidValue, text)
		}
		return binary.BigEndian.AppendUint32(nil, uint32(v)), nil
	case dictionary.DataTypeIPAddr:
		ip := net.ParseIP(strings.TrimSpace(text)).To4()
		if ip == nil {
			return nil, fmt.Errorf("%w: %q is not an IPv4 address", ErrInvalidValue, text)
		}
		return ip, nil
	case dictionary.DataTypeIPv6Addr:
		ip := net.ParseIP(strings.TrimSpace(text))
		if ip == nil || ip.To4() != nil {
			return nil, fmt.Errorf("%w: %q is not an IPv6 address", ErrInvalidValue, text)
		}
		return ip.To16(), nil
	case dictionary.DataTypeIPv6Prefix:
		p, err := netip.ParsePrefix(strings.TrimSpace(text))
		if err != nil || !p.Addr().Is6() {
			return nil, fmt.Errorf("%w: %q is not an IPv6 prefix", ErrInvalidValue, text)
		}
		return encodeIPv6Prefix(p)
	default:
		s := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(text), "0x"), "0X")
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not hex encoded", ErrInvalidValue, text)
		}
		return b, nil
	}
}

// encodeIPv6Prefix writes the RFC 3162 form: reserved, prefix length, significant octets.
func encodeIPv6Prefix(p netip.Prefix) ([]byte, error) {
	if p != p.Masked() {
		return nil, fmt.Errorf("%w: bits outside of the prefix length must be zero: %s", ErrInvalidValue, p)
	}
	bits := p.Bits()
	addr := p.Addr().As16()
	n := (bits + 7) / 8

	out := make([]byte, 0, 2+n)
	out = append(out, 0, byte(bits))
	return append(out, addr[:n]...), nil
}

func decodeIPv6Prefix(b []byte) (netip.Prefix, error) {
	if len(b) < 2 || len(b) > 18 {
		return netip.Prefix{}, fmt.Errorf("%w: ipv6prefix must be 2-18 octets, got %d", ErrInvalidValue, len(b))
	}
	bits := int(b[1])
	if bits > 128 {
		return netip.Prefix{}, fmt.Errorf("%w: prefix length %d exceeds 128", ErrInvalidValue, bits)
	}
	if bits > (len(b)-2)*8 {
		return netip.Prefix{}, fmt.Errorf("%w: prefix length %d needs more than %d octets", ErrInvalidValue, bits, len(b)-2)
	}

	var addr [16]byte
	copy(addr[:], b[2:])
	p := netip.PrefixFrom(netip.AddrFrom16(addr), bits)
	if p != p.Masked() {
		return netip.Prefix{}, fmt.Errorf("%w: bits outside of the prefix length must be zero: %s", ErrInvalidValue, p)
	}
	return p, nil
}

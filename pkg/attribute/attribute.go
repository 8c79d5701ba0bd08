package attribute

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"github.com/vitalvas/radkit/pkg/dictionary"
)

const (
	// HeaderLength is the length of a top-level attribute header (Type + Length)
	HeaderLength = 2
	// MaxLength is the maximum encoded length of a top-level attribute
	MaxLength = 255
	// MaxValueLength is the maximum value length of a top-level attribute, tag included
	MaxValueLength = MaxLength - HeaderLength
	// VendorSpecificHeaderLength is the length of a VSA header (Type + Length + Vendor-Id)
	VendorSpecificHeaderLength = 6
	// MaxSubAttributeLength is the maximum encoded length of one vendor sub-attribute
	MaxSubAttributeLength = MaxLength - VendorSpecificHeaderLength
)

// Attribute is an immutable RADIUS attribute.
//
// The data type of the template selects how the value is validated and
// rendered (see Kind). A Vendor-Specific attribute additionally holds its
// decoded sub-attributes. Encoded marks a value that currently holds
// ciphertext; Encode and Decode use it to stay idempotent.
type Attribute struct {
	dict     *dictionary.Dictionary
	template *dictionary.AttributeTemplate
	vendor   *dictionary.Vendor

	vendorID int
	typ      int
	tag      byte
	hasTag   bool
	value    []byte
	encoded  bool

	// Vendor-Specific container state
	childVendorID int
	children      []*Attribute

	// anonymous sub-attribute of an unknown vendor, value is the raw VSA body
	anonymous bool
}

// VendorID returns the vendor of a sub-attribute, or dictionary.NoVendor.
func (a *Attribute) VendorID() int { return a.vendorID }

// Type returns the attribute type code.
func (a *Attribute) Type() int { return a.typ }

// Tag returns the RFC 2868 tag, zero when the attribute is not tagged.
func (a *Attribute) Tag() byte { return a.tag }

// HasTag reports whether a tag octet precedes the value on the wire.
func (a *Attribute) HasTag() bool { return a.hasTag }

// Encoded reports whether the value currently holds ciphertext.
func (a *Attribute) Encoded() bool { return a.encoded }

// Template returns the dictionary template, nil for unknown attributes.
func (a *Attribute) Template() *dictionary.AttributeTemplate { return a.template }

// Dictionary returns the dictionary the attribute was built with.
func (a *Attribute) Dictionary() *dictionary.Dictionary { return a.dict }

// Value returns a copy of the value octets, excluding header and tag.
func (a *Attribute) Value() []byte {
	return append([]byte(nil), a.value...)
}

// Len returns the encoded length of the attribute.
func (a *Attribute) Len() int {
	if a.anonymous {
		return len(a.value)
	}
	return a.headerSize() + a.tagSize() + len(a.value)
}

// Kind returns the data type driving validation and rendering.
func (a *Attribute) Kind() dictionary.DataType {
	switch {
	case a.IsVSA():
		return dictionary.DataTypeVSA
	case a.template != nil:
		return a.template.DataType
	default:
		return dictionary.DataTypeOctets
	}
}

// IsVSA reports whether the attribute is a Vendor-Specific container.
func (a *Attribute) IsVSA() bool {
	return a.vendorID == dictionary.NoVendor && a.typ == dictionary.VendorSpecificType
}

// IsEncrypted reports whether the attribute has a non-trivial encryption method.
func (a *Attribute) IsEncrypted() bool {
	return EncryptMethodOf(a.vendorID, a.typ, a.template) != dictionary.EncryptNone
}

// Anonymous reports whether the attribute is the undistinguished body of an unknown vendor VSA.
func (a *Attribute) Anonymous() bool { return a.anonymous }

// Name returns the dictionary name or a synthetic name for unknown attributes.
func (a *Attribute) Name() string {
	switch {
	case a.template != nil:
		return a.template.Name
	case a.IsVSA():
		return "Vendor-Specific"
	case a.vendorID == dictionary.NoVendor:
		return "Unknown-Attribute-" + strconv.Itoa(a.typ)
	default:
		return "Unknown-Sub-Attribute-" + strconv.Itoa(a.typ)
	}
}

// Int returns the value of an integer attribute.
func (a *Attribute) Int() (uint32, error) {
	if a.encoded {
		return 0, ErrEncoded
	}
	switch {
	case len(a.value) == 4:
		return binary.BigEndian.Uint32(a.value), nil
	case len(a.value) == 3 && a.hasTag:
		return uint32(a.value[0])<<16 | uint32(a.value[1])<<8 | uint32(a.value[2]), nil
	}
	return 0, fmt.Errorf("%w: integer must be %d octets, got %d", ErrInvalidValue, integerSize(a.hasTag), len(a.value))
}

// IP returns the value of an ipaddr or ipv6addr attribute.
func (a *Attribute) IP() (net.IP, error) {
	if a.encoded {
		return nil, ErrEncoded
	}
	if len(a.value) != net.IPv4len && len(a.value) != net.IPv6len {
		return nil, fmt.Errorf("%w: address must be 4 or 16 octets, got %d", ErrInvalidValue, len(a.value))
	}
	return net.IP(a.Value()), nil
}

// Prefix returns the value of an ipv6prefix attribute.
func (a *Attribute) Prefix() (netip.Prefix, error) {
	if a.encoded {
		return netip.Prefix{}, ErrEncoded
	}
	return decodeIPv6Prefix(a.value)
}

// ChildVendorID returns the vendor of the sub-attributes of a VSA.
func (a *Attribute) ChildVendorID() int { return a.childVendorID }

// Children returns the sub-attributes of a VSA.
func (a *Attribute) Children() []*Attribute {
	return append([]*Attribute(nil), a.children...)
}

// ValueString renders the value according to the data type.
func (a *Attribute) ValueString() string {
	if a.anonymous {
		return fmt.Sprintf("[Unparsable sub-attribute (vendorId %d, length %d)]", a.vendorID, len(a.value))
	}
	if a.encoded {
		return "[Encoded Value] 0x" + hex.EncodeToString(a.value)
	}

	switch a.Kind() {
	case dictionary.DataTypeString:
		return string(a.value)
	case dictionary.DataTypeInteger:
		v, err := a.Int()
		if err != nil {
			return "0x" + hex.EncodeToString(a.value)
		}
		if a.template != nil {
			if name, ok := a.template.ValueName(v); ok {
				return name
			}
		}
		return strconv.FormatUint(uint64(v), 10)
	case dictionary.DataTypeIPAddr, dictionary.DataTypeIPv6Addr:
		if ip, err := a.IP(); err == nil {
			return ip.String()
		}
	case dictionary.DataTypeIPv6Prefix:
		if p, err := a.Prefix(); err == nil {
			return p.String()
		}
	case dictionary.DataTypeVSA:
		parts := make([]string, 0, len(a.children))
		for _, c := range a.children {
			parts = append(parts, c.String())
		}
		return strings.Join(parts, ", ")
	}
	return "0x" + hex.EncodeToString(a.value)
}

func (a *Attribute) String() string {
	if a.IsVSA() {
		name := strconv.Itoa(a.childVendorID)
		if a.dict != nil {
			if v, ok := a.dict.Vendor(a.childVendorID); ok {
				name = v.Name
			}
		}
		return fmt.Sprintf("Vendor-Specific: Vendor %s [%s]", name, a.ValueString())
	}
	if a.hasTag {
		return fmt.Sprintf("%s:%d: %s", a.Name(), a.tag, a.ValueString())
	}
	return fmt.Sprintf("%s: %s", a.Name(), a.ValueString())
}

// Equal reports whether two attributes have the same code, tag, value and encoding state.
func (a *Attribute) Equal(o *Attribute) bool {
	if a == nil || o == nil {
		return a == o
	}
	return a.vendorID == o.vendorID &&
		a.typ == o.typ &&
		a.hasTag == o.hasTag &&
		a.tag == o.tag &&
		a.encoded == o.encoded &&
		a.anonymous == o.anonymous &&
		bytes.Equal(a.value, o.value)
}

func (a *Attribute) headerSize() int {
	if a.vendorID == dictionary.NoVendor || a.vendor == nil {
		return HeaderLength
	}
	return a.vendor.HeaderSize()
}

func (a *Attribute) tagSize() int {
	if a.hasTag {
		return 1
	}
	return 0
}

package attribute

import (
	"fmt"

	"github.com/vitalvas/radkit/pkg/dictionary"
)

// Bytes returns the wire form: type, length, optional tag, value.
// Sub-attributes use the type and length widths of their vendor.
func (a *Attribute) Bytes() []byte {
	if a.anonymous {
		return append([]byte(nil), a.value...)
	}

	n := a.Len()
	out := make([]byte, 0, n)

	if a.vendorID == dictionary.NoVendor || a.vendor == nil {
		out = append(out, byte(a.typ), byte(n))
	} else {
		out = append(out, a.vendor.EncodeType(a.typ)...)
		out = append(out, a.vendor.EncodeLength(n)...)
	}
	if a.hasTag {
		out = append(out, a.tag)
	}
	return append(out, a.value...)
}

// ReadAll splits data into attributes. vendorID is dictionary.NoVendor for
// a packet body or the vendor of a Vendor-Specific body. The body of a
// vendor missing from the dictionary is returned as one anonymous attribute.
//
// Values of encrypted attributes are kept as ciphertext (Encoded is true).
func ReadAll(dict *dictionary.Dictionary, vendorID int, data []byte) ([]*Attribute, error) {
	typeSize, lengthSize := 1, 1
	var vendor *dictionary.Vendor

	if vendorID != dictionary.NoVendor {
		v, ok := lookupVendor(dict, vendorID)
		if !ok {
			return []*Attribute{newAnonymous(dict, vendorID, data)}, nil
		}
		vendor = v
		typeSize, lengthSize = v.TypeSize, v.LengthSize
	}
	headerSize := typeSize + lengthSize

	var attrs []*Attribute
	for pos := 0; pos < len(data); {
		rest := data[pos:]
		if len(rest) < headerSize {
			return nil, fmt.Errorf("%w: %d octets remaining, need at least %d for a header",
				ErrMalformedAttribute, len(rest), headerSize)
		}

		var typ, length int
		if vendor != nil {
			typ = vendor.DecodeType(rest)
			length = vendor.DecodeLength(rest)
		} else {
			typ, length = int(rest[0]), int(rest[1])
		}

		if length < headerSize {
			return nil, fmt.Errorf("%w: length %d is shorter than the %d octet header (type %d)",
				ErrMalformedAttribute, length, headerSize, typ)
		}
		if length > len(rest) {
			return nil, fmt.Errorf("%w: length %d overruns the %d remaining octets (type %d)",
				ErrMalformedAttribute, length, len(rest), typ)
		}

		attr, err := readOne(dict, vendorID, typ, rest[headerSize:length])
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, attr)
		pos += length
	}

	return attrs, nil
}

func readOne(dict *dictionary.Dictionary, vendorID, typ int, body []byte) (*Attribute, error) {
	tagged := isTagged(vendorID, typ, lookupTemplate(dict, vendorID, typ))
	if tagged && len(body) == 0 {
		// no tag octet on the wire, keep it that way so Bytes reproduces the input
		a, err := CreateEncoded(dict, vendorID, typ, 0, body)
		if err != nil {
			return nil, err
		}
		a.hasTag = false
		return a, nil
	}

	var tag byte
	if tagged {
		tag, body = body[0], body[1:]
	}
	return CreateEncoded(dict, vendorID, typ, tag, body)
}

// Marshal serializes attributes back to back.
func Marshal(attrs []*Attribute) []byte {
	n := 0
	for _, a := range attrs {
		n += a.Len()
	}
	out := make([]byte, 0, n)
	for _, a := range attrs {
		out = append(out, a.Bytes()...)
	}
	return out
}

package attribute

import (
	"encoding/binary"
	"fmt"

	"github.com/vitalvas/radkit/pkg/dictionary"
)

// NewVendorSpecific wraps sub-attributes of one vendor in a Vendor-Specific attribute.
func NewVendorSpecific(dict *dictionary.Dictionary, childVendorID int, children ...*Attribute) (*Attribute, error) {
	if childVendorID < 0 {
		return nil, fmt.Errorf("%w: invalid vendor ID %d", ErrInvalidValue, childVendorID)
	}
	if len(children) == 0 {
		return nil, fmt.Errorf("%w: Vendor-Specific attribute needs at least one sub-attribute", ErrInvalidValue)
	}

	value := binary.BigEndian.AppendUint32(make([]byte, 0, 4), uint32(childVendorID))
	for _, c := range children {
		if c.vendorID != childVendorID {
			return nil, fmt.Errorf("%w: %s has vendor %d, container has %d", ErrVendorMismatch, c.Name(), c.vendorID, childVendorID)
		}
		value = append(value, c.Bytes()...)
	}
	if len(value) > MaxValueLength {
		return nil, fmt.Errorf("%w: Vendor-Specific value is %d octets, max %d", ErrValueTooLong, len(value), MaxValueLength)
	}

	return &Attribute{
		dict:          dict,
		template:      lookupTemplate(dict, dictionary.NoVendor, dictionary.VendorSpecificType),
		vendorID:      dictionary.NoVendor,
		typ:           dictionary.VendorSpecificType,
		value:         value,
		childVendorID: childVendorID,
		children:      append([]*Attribute(nil), children...),
	}, nil
}

// WithChildren returns a copy of the VSA holding children instead.
func (a *Attribute) WithChildren(children ...*Attribute) (*Attribute, error) {
	if !a.IsVSA() {
		return nil, fmt.Errorf("%w: %s is not a Vendor-Specific attribute", ErrInvalidValue, a.Name())
	}
	return NewVendorSpecific(a.dict, a.childVendorID, children...)
}

// parseVendorSpecific reads vendor ID and sub-attributes from a VSA value.
func parseVendorSpecific(dict *dictionary.Dictionary, value []byte) (*Attribute, error) {
	if len(value) < 5 {
		return nil, fmt.Errorf("%w: Vendor-Specific attribute should be greater than 6 octets, actual: %d",
			ErrMalformedAttribute, len(value)+HeaderLength)
	}
	if len(value) > MaxValueLength {
		return nil, fmt.Errorf("%w: Vendor-Specific value is %d octets, max %d", ErrValueTooLong, len(value), MaxValueLength)
	}

	childVendorID := int(binary.BigEndian.Uint32(value))
	children, err := ReadAll(dict, childVendorID, value[4:])
	if err != nil {
		return nil, fmt.Errorf("vendor %d: %w", childVendorID, err)
	}

	return &Attribute{
		dict:          dict,
		template:      lookupTemplate(dict, dictionary.NoVendor, dictionary.VendorSpecificType),
		vendorID:      dictionary.NoVendor,
		typ:           dictionary.VendorSpecificType,
		value:         append([]byte(nil), value...),
		childVendorID: childVendorID,
		children:      children,
	}, nil
}

// newAnonymous keeps the body of a VSA from an unknown vendor as undistinguished octets.
func newAnonymous(dict *dictionary.Dictionary, vendorID int, body []byte) *Attribute {
	return &Attribute{
		dict:      dict,
		vendorID:  vendorID,
		value:     append([]byte(nil), body...),
		anonymous: true,
	}
}

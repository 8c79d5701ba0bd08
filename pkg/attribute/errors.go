package attribute

import "errors"

var (
	// ErrInvalidValue indicates a value that does not fit the attribute data type
	ErrInvalidValue = errors.New("invalid attribute value")
	// ErrValueTooLong indicates an attribute that does not fit its length field
	ErrValueTooLong = errors.New("attribute value too long")
	// ErrMalformedAttribute indicates wire data that cannot be split into attributes
	ErrMalformedAttribute = errors.New("malformed attribute")
	// ErrUnknownAttribute indicates a name missing from the dictionary
	ErrUnknownAttribute = errors.New("unknown attribute")
	// ErrVendorMismatch indicates a sub-attribute added to a container of another vendor
	ErrVendorMismatch = errors.New("sub-attribute vendor does not match container")
	// ErrEncoded indicates a typed read of a value that is still encrypted
	ErrEncoded = errors.New("attribute value is encoded")
)

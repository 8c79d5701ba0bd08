package dictionary

import "errors"

var (
	// ErrDuplicateName indicates a different template already uses the attribute name.
	ErrDuplicateName = errors.New("duplicate attribute name")

	// ErrDuplicateVendor indicates a different vendor already uses the vendor ID.
	ErrDuplicateVendor = errors.New("duplicate vendor")

	// ErrInvalidVendor indicates a vendor definition violates its invariants.
	ErrInvalidVendor = errors.New("invalid vendor")

	// ErrInvalidTemplate indicates an attribute template violates its invariants.
	ErrInvalidTemplate = errors.New("invalid attribute template")
)

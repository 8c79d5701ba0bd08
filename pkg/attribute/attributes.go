package attribute

import "github.com/vitalvas/radkit/pkg/dictionary"

// Flatten expands Vendor-Specific attributes into their sub-attributes.
func Flatten(attrs []*Attribute) []*Attribute {
	out := make([]*Attribute, 0, len(attrs))
	for _, a := range attrs {
		if a.IsVSA() {
			out = append(out, a.children...)
			continue
		}
		out = append(out, a)
	}
	return out
}

// Filter returns the attributes matching fn, preserving order.
func Filter(attrs []*Attribute, fn func(*Attribute) bool) []*Attribute {
	var out []*Attribute
	for _, a := range attrs {
		if fn(a) {
			out = append(out, a)
		}
	}
	return out
}

// Find returns the attributes with the given code, searching inside
// Vendor-Specific attributes when vendorID names a vendor.
func Find(attrs []*Attribute, vendorID, typ int) []*Attribute {
	var out []*Attribute
	for _, a := range attrs {
		if a.vendorID == vendorID && a.typ == typ {
			out = append(out, a)
		}
		if a.IsVSA() && vendorID != dictionary.NoVendor {
			for _, c := range a.children {
				if c.vendorID == vendorID && c.typ == typ {
					out = append(out, c)
				}
			}
		}
	}
	return out
}

// First returns the first attribute with the given code.
func First(attrs []*Attribute, vendorID, typ int) (*Attribute, bool) {
	found := Find(attrs, vendorID, typ)
	if len(found) == 0 {
		return nil, false
	}
	return found[0], true
}

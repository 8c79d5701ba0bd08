package attribute

import "fmt"

// Encode returns the attribute with its value encrypted for the wire.
// Attributes without an encryption method and attributes already encoded
// are returned unchanged. Sub-attributes of a VSA are encoded individually.
func (a *Attribute) Encode(requestAuth []byte, secret string) (*Attribute, error) {
	if a.IsVSA() {
		children, changed, err := transformChildren(a.children, func(c *Attribute) (*Attribute, error) {
			return c.Encode(requestAuth, secret)
		})
		if err != nil || !changed {
			return a, err
		}
		return a.WithChildren(children...)
	}

	if a.encoded || a.anonymous || !a.IsEncrypted() {
		return a, nil
	}

	codec := CodecFor(EncryptMethodOf(a.vendorID, a.typ, a.template))
	cipher, err := codec.Encode(a.value, requestAuth, secret)
	if err != nil {
		return nil, fmt.Errorf("error encoding attribute %s: %w", a.Name(), err)
	}

	out, err := newAttribute(a.dict, a.vendorID, a.typ, a.tag, cipher)
	if err != nil {
		return nil, fmt.Errorf("error encoding attribute %s: %w", a.Name(), err)
	}
	out.encoded = true
	return out, nil
}

// Decode returns the attribute with its value decrypted.
// Attributes that are not encoded are returned unchanged.
func (a *Attribute) Decode(requestAuth []byte, secret string) (*Attribute, error) {
	if a.IsVSA() {
		children, changed, err := transformChildren(a.children, func(c *Attribute) (*Attribute, error) {
			return c.Decode(requestAuth, secret)
		})
		if err != nil || !changed {
			return a, err
		}
		return a.WithChildren(children...)
	}

	if !a.encoded {
		return a, nil
	}

	codec := CodecFor(EncryptMethodOf(a.vendorID, a.typ, a.template))
	plain, err := codec.Decode(a.value, requestAuth, secret)
	if err != nil {
		return nil, fmt.Errorf("error decoding attribute %s: %w", a.Name(), err)
	}

	out, err := Create(a.dict, a.vendorID, a.typ, a.tag, plain)
	if err != nil {
		return nil, fmt.Errorf("error decoding attribute %s: %w", a.Name(), err)
	}
	return out, nil
}

// HasDecoded reports whether the attribute, or one of its sub-attributes,
// is an encryptable attribute currently holding plaintext.
func (a *Attribute) HasDecoded() bool {
	if a.IsVSA() {
		for _, c := range a.children {
			if c.HasDecoded() {
				return true
			}
		}
		return false
	}
	return !a.anonymous && a.IsEncrypted() && !a.encoded
}

func transformChildren(children []*Attribute, fn func(*Attribute) (*Attribute, error)) ([]*Attribute, bool, error) {
	out := make([]*Attribute, len(children))
	changed := false
	for i, c := range children {
		n, err := fn(c)
		if err != nil {
			return nil, false, err
		}
		if n != c {
			changed = true
		}
		out[i] = n
	}
	return out, changed, nil
}

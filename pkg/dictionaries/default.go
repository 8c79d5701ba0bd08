package dictionaries

import (
	"fmt"

	"github.com/vitalvas/radkit/pkg/dictionary"
)

// VendorDefinition groups a vendor with its sub-attribute templates.
type VendorDefinition struct {
	Vendor     dictionary.Vendor
	Attributes []*dictionary.AttributeTemplate
}

// Vendors lists the vendor dictionaries loaded by NewDefault.
var Vendors = []*VendorDefinition{Ascend, WISPr, Mikrotik}

// NewDefault creates a dictionary pre-loaded with the standard RFC attributes
// and the bundled vendor dictionaries.
//
//	dict, err := dictionaries.NewDefault()
//	if err != nil {
//		return err
//	}
//	c, err := client.New(dict, client.WithBindAddr(":0"))
func NewDefault(opts ...dictionary.Option) (*dictionary.Dictionary, error) {
	dict := dictionary.New(opts...)

	if err := dict.AddTemplates(StandardAttributes...); err != nil {
		return nil, err
	}

	for _, def := range Vendors {
		if err := AddVendorDefinition(dict, def); err != nil {
			return nil, err
		}
	}

	return dict, nil
}

// AddVendorDefinition registers a vendor and its attributes.
func AddVendorDefinition(dict *dictionary.Dictionary, def *VendorDefinition) error {
	v := def.Vendor
	if err := dict.AddVendor(&v); err != nil {
		return err
	}
	for _, attr := range def.Attributes {
		t := *attr
		t.VendorID = v.ID
		if err := dict.AddTemplate(&t); err != nil {
			return fmt.Errorf("vendor %s: %w", v.Name, err)
		}
	}
	return nil
}

type templateOption func(*dictionary.AttributeTemplate)

func tagged(t *dictionary.AttributeTemplate) { t.HasTag = true }

func encrypted(m dictionary.EncryptMethod) templateOption {
	return func(t *dictionary.AttributeTemplate) { t.Encrypt = m }
}

func values(v map[string]uint32) templateOption {
	return func(t *dictionary.AttributeTemplate) { t.Values = v }
}

// std declares a top-level attribute.
func std(typ int, name string, dt dictionary.DataType, opts ...templateOption) *dictionary.AttributeTemplate {
	t := &dictionary.AttributeTemplate{VendorID: dictionary.NoVendor, Type: typ, Name: name, DataType: dt}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// sub declares a vendor sub-attribute; the vendor ID is filled in on registration.
func sub(typ int, name string, dt dictionary.DataType, opts ...templateOption) *dictionary.AttributeTemplate {
	t := &dictionary.AttributeTemplate{Type: typ, Name: name, DataType: dt}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

package dictionary

import (
	"fmt"
	"maps"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// NoVendor is the vendor ID of top-level (non vendor-specific) attributes.
const NoVendor = -1

// VendorSpecificType is the attribute type of the Vendor-Specific container.
const VendorSpecificType = 26

// DataType represents the declared data type of an attribute
type DataType string

const (
	DataTypeOctets     DataType = "octets"
	DataTypeString     DataType = "string"
	DataTypeInteger    DataType = "integer"
	DataTypeIPAddr     DataType = "ipaddr"
	DataTypeIPv6Addr   DataType = "ipv6addr"
	DataTypeIPv6Prefix DataType = "ipv6prefix"
	DataTypeVSA        DataType = "vsa"
)

// dataTypeAliases maps data types found in third-party dictionaries onto
// the closed set above.
var dataTypeAliases = map[string]DataType{
	"date":    DataTypeInteger,
	"time":    DataTypeInteger,
	"ifid":    DataTypeOctets,
	"abinary": DataTypeOctets,
	"tlv":     DataTypeOctets,
	"byte":    DataTypeOctets,
	"short":   DataTypeOctets,
	"text":    DataTypeString,
	"ip":      DataTypeIPAddr,
}

// ParseDataType resolves a data type name, accepting common aliases.
func ParseDataType(name string) (DataType, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch dt := DataType(n); dt {
	case DataTypeOctets, DataTypeString, DataTypeInteger, DataTypeIPAddr,
		DataTypeIPv6Addr, DataTypeIPv6Prefix, DataTypeVSA:
		return dt, nil
	}
	if dt, ok := dataTypeAliases[n]; ok {
		return dt, nil
	}
	return "", fmt.Errorf("%w: unknown data type %q", ErrInvalidTemplate, name)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *DataType) UnmarshalYAML(node *yaml.Node) error {
	dt, err := ParseDataType(node.Value)
	if err != nil {
		return err
	}
	*t = dt
	return nil
}

// EncryptMethod identifies the value transform applied to an attribute on the wire.
// The numeric values match the encrypt=N flag of dictionary files.
type EncryptMethod int

const (
	EncryptNone EncryptMethod = iota
	EncryptUserPassword
	EncryptTunnelPassword
	EncryptAscendSendSecret
)

var encryptNames = map[EncryptMethod]string{
	EncryptNone:             "none",
	EncryptUserPassword:     "user-password",
	EncryptTunnelPassword:   "tunnel-password",
	EncryptAscendSendSecret: "ascend-send-secret",
}

func (m EncryptMethod) String() string {
	if name, ok := encryptNames[m]; ok {
		return name
	}
	return "encrypt-" + strconv.Itoa(int(m))
}

// ParseEncryptMethod accepts either the numeric flag or the method name.
func ParseEncryptMethod(s string) (EncryptMethod, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return EncryptNone, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if _, ok := encryptNames[EncryptMethod(n)]; ok {
			return EncryptMethod(n), nil
		}
		return EncryptNone, fmt.Errorf("%w: encrypt flag out of range: %d", ErrInvalidTemplate, n)
	}
	for m, name := range encryptNames {
		if name == s {
			return m, nil
		}
	}
	return EncryptNone, fmt.Errorf("%w: unknown encrypt method %q", ErrInvalidTemplate, s)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *EncryptMethod) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseEncryptMethod(node.Value)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Vendor describes a vendor and the width of its sub-attribute header fields.
type Vendor struct {
	ID         int    `yaml:"id"`
	Name       string `yaml:"name"`
	TypeSize   int    `yaml:"type_size"`
	LengthSize int    `yaml:"length_size"`
}

// NewVendor creates a validated vendor definition.
func NewVendor(id int, name string, typeSize, lengthSize int) (*Vendor, error) {
	v := &Vendor{ID: id, Name: name, TypeSize: typeSize, LengthSize: lengthSize}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// Validate checks the vendor invariants.
func (v *Vendor) Validate() error {
	if v.ID < 0 {
		return fmt.Errorf("%w: vendor ID must not be negative: %d (%s)", ErrInvalidVendor, v.ID, v.Name)
	}
	if v.Name == "" {
		return fmt.Errorf("%w: vendor name empty (vendor %d)", ErrInvalidVendor, v.ID)
	}
	if v.TypeSize != 1 && v.TypeSize != 2 && v.TypeSize != 4 {
		return fmt.Errorf("%w: vendor type size must be 1, 2 or 4, got %d", ErrInvalidVendor, v.TypeSize)
	}
	if v.LengthSize != 0 && v.LengthSize != 1 && v.LengthSize != 2 {
		return fmt.Errorf("%w: vendor length size must be 0, 1 or 2, got %d", ErrInvalidVendor, v.LengthSize)
	}
	return nil
}

// HeaderSize returns the number of octets preceding a sub-attribute value.
func (v *Vendor) HeaderSize() int {
	return v.TypeSize + v.LengthSize
}

// EncodeType writes a sub-attribute type using the vendor type width.
func (v *Vendor) EncodeType(t int) []byte {
	switch v.TypeSize {
	case 2:
		return []byte{byte(t >> 8), byte(t)}
	case 4:
		return []byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)}
	default:
		return []byte{byte(t)}
	}
}

// EncodeLength writes a sub-attribute length using the vendor length width.
func (v *Vendor) EncodeLength(n int) []byte {
	switch v.LengthSize {
	case 0:
		return nil
	case 2:
		return []byte{byte(n >> 8), byte(n)}
	default:
		return []byte{byte(n)}
	}
}

// DecodeType reads a sub-attribute type from the start of b.
func (v *Vendor) DecodeType(b []byte) int {
	switch v.TypeSize {
	case 2:
		return int(b[0])<<8 | int(b[1])
	case 4:
		return int(b[0])<<24 | int(b[1])<<16 | int(b[2])<<8 | int(b[3])
	default:
		return int(b[0])
	}
}

// DecodeLength reads a sub-attribute length located right after the type field.
// With a zero length width the sub-attribute spans the rest of b.
func (v *Vendor) DecodeLength(b []byte) int {
	switch v.LengthSize {
	case 0:
		return len(b)
	case 2:
		return int(b[v.TypeSize])<<8 | int(b[v.TypeSize+1])
	default:
		return int(b[v.TypeSize])
	}
}

func (v *Vendor) clone() *Vendor {
	c := *v
	return &c
}

func (v *Vendor) String() string {
	return fmt.Sprintf("Vendor{id=%d, name=%s, format=%d,%d}", v.ID, v.Name, v.TypeSize, v.LengthSize)
}

// AttributeTemplate defines how one attribute kind is constructed and transformed.
type AttributeTemplate struct {
	VendorID int               `yaml:"vendor_id"`
	Type     int               `yaml:"id"`
	Name     string            `yaml:"name"`
	DataType DataType          `yaml:"data_type"`
	Encrypt  EncryptMethod     `yaml:"encrypt,omitempty"`
	HasTag   bool              `yaml:"has_tag,omitempty"`
	Values   map[string]uint32 `yaml:"values,omitempty"`

	names map[uint32]string
}

// Validate checks the template invariants.
func (t *AttributeTemplate) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: attribute name empty (type %d)", ErrInvalidTemplate, t.Type)
	}
	if t.VendorID < NoVendor {
		return fmt.Errorf("%w: invalid vendor ID %d for %s", ErrInvalidTemplate, t.VendorID, t.Name)
	}
	if t.Type < 0 || (t.VendorID == NoVendor && t.Type > 255) {
		return fmt.Errorf("%w: attribute type out of range: %d (%s)", ErrInvalidTemplate, t.Type, t.Name)
	}
	if t.DataType == "" {
		t.DataType = DataTypeOctets
	}
	if t.VendorID == NoVendor && t.Type == VendorSpecificType {
		t.DataType = DataTypeVSA
	}
	if _, ok := encryptNames[t.Encrypt]; !ok {
		return fmt.Errorf("%w: encrypt flag out of range: %d (%s)", ErrInvalidTemplate, t.Encrypt, t.Name)
	}
	return nil
}

// IsVSA reports whether the template describes the Vendor-Specific container.
func (t *AttributeTemplate) IsVSA() bool {
	return t.DataType == DataTypeVSA
}

// ValueName returns the enumeration name of an integer value.
func (t *AttributeTemplate) ValueName(v uint32) (string, bool) {
	names := t.names
	if names == nil {
		names = valueNames(t.Values)
	}
	name, ok := names[v]
	return name, ok
}

// ValueByName returns the integer value of an enumeration name.
func (t *AttributeTemplate) ValueByName(name string) (uint32, bool) {
	v, ok := t.Values[name]
	return v, ok
}

// clone copies the template and its value table. The reverse lookup
// table is never modified after registration and stays shared.
func (t *AttributeTemplate) clone() *AttributeTemplate {
	c := *t
	c.Values = maps.Clone(t.Values)
	return &c
}

func valueNames(values map[string]uint32) map[uint32]string {
	names := make(map[uint32]string, len(values))
	for name, v := range values {
		// lexically smallest name wins when a value has aliases
		if existing, ok := names[v]; ok && existing < name {
			continue
		}
		names[v] = name
	}
	return names
}

// Equal reports whether two templates describe the same attribute.
func (t *AttributeTemplate) Equal(o *AttributeTemplate) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.VendorID != o.VendorID || t.Type != o.Type || t.Name != o.Name ||
		t.DataType != o.DataType || t.Encrypt != o.Encrypt || t.HasTag != o.HasTag ||
		len(t.Values) != len(o.Values) {
		return false
	}
	for k, v := range t.Values {
		if ov, ok := o.Values[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

func (t *AttributeTemplate) String() string {
	return fmt.Sprintf("%s [%d,%d] %s, hasTag=%t, encrypt=%s",
		t.Name, t.VendorID, t.Type, t.DataType, t.HasTag, t.Encrypt)
}

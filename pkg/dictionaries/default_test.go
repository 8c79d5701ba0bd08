package dictionaries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/radkit/pkg/dictionary"
)

func TestNewDefault(t *testing.T) {
	dict, err := NewDefault()
	require.NoError(t, err)

	tests := []struct {
		name     string
		vendorID int
		typ      int
		dataType dictionary.DataType
	}{
		{"User-Name", dictionary.NoVendor, 1, dictionary.DataTypeString},
		{"Vendor-Specific", dictionary.NoVendor, 26, dictionary.DataTypeVSA},
		{"Acct-Status-Type", dictionary.NoVendor, 40, dictionary.DataTypeInteger},
		{"Message-Authenticator", dictionary.NoVendor, 80, dictionary.DataTypeOctets},
		{"Framed-IPv6-Prefix", dictionary.NoVendor, 97, dictionary.DataTypeIPv6Prefix},
		{"Ascend-Send-Secret", AscendVendorID, 214, dictionary.DataTypeString},
		{"WISPr-Location-Id", 14122, 1, dictionary.DataTypeString},
		{"Mikrotik-Group", 14988, 3, dictionary.DataTypeString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, ok := dict.TemplateByName(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.vendorID, tmpl.VendorID)
			assert.Equal(t, tt.typ, tmpl.Type)
			assert.Equal(t, tt.dataType, tmpl.DataType)

			byCode, ok := dict.Template(tt.vendorID, tt.typ)
			require.True(t, ok)
			assert.Equal(t, tt.name, byCode.Name)
		})
	}

	assert.Len(t, dict.Vendors(), len(Vendors))
}

func TestNewDefaultEncryptionFlags(t *testing.T) {
	dict, err := NewDefault()
	require.NoError(t, err)

	pw, _ := dict.TemplateByName("User-Password")
	assert.Equal(t, dictionary.EncryptUserPassword, pw.Encrypt)

	tp, _ := dict.TemplateByName("Tunnel-Password")
	assert.Equal(t, dictionary.EncryptTunnelPassword, tp.Encrypt)
	assert.True(t, tp.HasTag)

	ascend, _ := dict.TemplateByName("Ascend-Send-Secret")
	assert.Equal(t, dictionary.EncryptAscendSendSecret, ascend.Encrypt)

	tt, _ := dict.TemplateByName("Tunnel-Type")
	assert.True(t, tt.HasTag)
	name, ok := tt.ValueName(13)
	assert.True(t, ok)
	assert.Equal(t, "VLAN", name)
}

func TestNewDefaultIsolated(t *testing.T) {
	a, err := NewDefault()
	require.NoError(t, err)
	b, err := NewDefault()
	require.NoError(t, err)

	require.NoError(t, a.AddTemplate(&dictionary.AttributeTemplate{
		VendorID: dictionary.NoVendor, Type: 240, Name: "Site-Local", DataType: dictionary.DataTypeString,
	}))

	_, ok := b.TemplateByName("Site-Local")
	assert.False(t, ok)

	// tables are never mutated by registration
	for _, tmpl := range Mikrotik.Attributes {
		assert.Zero(t, tmpl.VendorID)
	}
}

func TestStandardAttributesUnique(t *testing.T) {
	seen := make(map[string]bool)
	codes := make(map[int]bool)
	for _, tmpl := range StandardAttributes {
		assert.False(t, seen[tmpl.Name], tmpl.Name)
		assert.False(t, codes[tmpl.Type], tmpl.Name)
		seen[tmpl.Name] = true
		codes[tmpl.Type] = true
		require.NoError(t, tmpl.Validate())
	}
}

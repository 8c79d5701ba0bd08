package packet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/radkit/pkg/attribute"
	"github.com/vitalvas/radkit/pkg/dictionaries"
	"github.com/vitalvas/radkit/pkg/dictionary"
)

const (
	testSecret       = "sharedSecret1"
	mikrotikVendorID = 14988
)

var testAuth = []byte{0x10, 0x0f, 0x0e, 0x0d, 0x0c, 0x0b, 0x0a, 0x09, 0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}

func newDict(t *testing.T) *dictionary.Dictionary {
	t.Helper()
	dict, err := dictionaries.NewDefault()
	require.NoError(t, err)
	return dict
}

func mustAttr(t *testing.T, dict *dictionary.Dictionary, name, value string) *attribute.Attribute {
	t.Helper()
	a, err := attribute.FromName(dict, name, value)
	require.NoError(t, err)
	return a
}

func TestCodeString(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{CodeAccessRequest, "Access-Request"},
		{CodeAccountingResponse, "Accounting-Response"},
		{CodeStatusServer, "Status-Server"},
		{CodeNASRebootRequest, "NAS-Reboot-Request"},
		{CodeCoANAK, "CoA-NAK"},
		{CodeProtocolError, "Protocol-Error"},
		{Code(100), "Unknown (100)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.String())
		})
	}

	assert.True(t, CodeCoARequest.IsRequest())
	assert.False(t, CodeCoAACK.IsRequest())
	assert.True(t, CodeAccessChallenge.IsAccessResponse())
	assert.False(t, Code(100).IsValid())
	assert.Equal(t, []Code{CodeDisconnectACK, CodeDisconnectNAK}, CodeDisconnectRequest.ExpectedResponse())
}

func TestNewAndBytes(t *testing.T) {
	dict := newDict(t)

	p, err := New(dict, CodeAccessRequest, 42, testAuth, []*attribute.Attribute{
		mustAttr(t, dict, "User-Name", "alice"),
		mustAttr(t, dict, "NAS-IP-Address", "192.0.2.1"),
	})
	require.NoError(t, err)

	b := p.Bytes()
	assert.Equal(t, p.Len(), len(b))
	assert.Equal(t, byte(CodeAccessRequest), b[0])
	assert.Equal(t, byte(42), b[1])
	assert.Equal(t, []byte{0, byte(20 + 7 + 6)}, b[2:4])
	assert.Equal(t, testAuth, b[4:20])
	assert.Equal(t, []byte{1, 7, 'a', 'l', 'i', 'c', 'e'}, b[20:27])
}

func TestNewRejectsBadAuthenticator(t *testing.T) {
	dict := newDict(t)

	_, err := New(dict, CodeAccessRequest, 1, []byte{1, 2, 3}, nil)
	assert.ErrorIs(t, err, ErrInvalidAuthenticator)
}

func TestLengthLimit(t *testing.T) {
	dict := newDict(t)
	value := strings.Repeat("x", attribute.MaxValueLength)

	var attrs []*attribute.Attribute
	// 15 attributes of 255 octets fit in 4096 with the header, the 16th does not
	for i := 0; i < 15; i++ {
		attrs = append(attrs, mustAttr(t, dict, "Reply-Message", value))
	}
	p, err := New(dict, CodeAccessAccept, 1, nil, attrs)
	require.NoError(t, err)
	assert.Equal(t, 20+15*255, p.Len())
	assert.Equal(t, p.Len(), len(p.Bytes()))

	_, err = p.AddAttribute(mustAttr(t, dict, "Reply-Message", value))
	assert.ErrorIs(t, err, ErrPacketTooLarge)
}

func TestParse(t *testing.T) {
	dict := newDict(t)

	p, err := New(dict, CodeAccountingRequest, 7, testAuth, []*attribute.Attribute{
		mustAttr(t, dict, "Acct-Status-Type", "Start"),
		mustAttr(t, dict, "Acct-Session-Id", "s-1"),
	})
	require.NoError(t, err)

	parsed, err := Parse(dict, p.Bytes())
	require.NoError(t, err)
	assert.Equal(t, CodeAccountingRequest, parsed.Code())
	assert.Equal(t, uint8(7), parsed.Identifier())
	assert.Equal(t, testAuth, parsed.Authenticator())
	assert.Equal(t, p.Bytes(), parsed.Bytes())

	status, ok := parsed.AttributeByName("Acct-Status-Type")
	require.True(t, ok)
	assert.Equal(t, "Start", status.ValueString())
}

func TestParseErrors(t *testing.T) {
	dict := newDict(t)

	valid := append([]byte{1, 1, 0, 26}, testAuth...)
	valid = append(valid, 1, 6, 'b', 'o', 'b', '!')

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short", valid[:19], ErrMalformedPacket},
		{"declared longer", append([]byte{1, 1, 0, 30}, valid[4:]...), ErrMalformedPacket},
		{"declared shorter", append([]byte{1, 1, 0, 20}, valid[4:]...), ErrMalformedPacket},
		{"attribute overrun", append(append([]byte{1, 1, 0, 24}, testAuth...), 1, 9, 'x', 'y'), ErrMalformedPacket},
		{"too large", make([]byte, MaxPacketLength+1), ErrPacketTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(dict, tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Parse(dict, valid)
	assert.NoError(t, err)
}

func TestUnknownAttributeRoundTrip(t *testing.T) {
	dict := newDict(t)

	data := append([]byte{4, 3, 0, 25}, testAuth...)
	data = append(data, 250, 5, 0xca, 0xfe, 0x01)

	p, err := Parse(dict, data)
	require.NoError(t, err)

	a, ok := p.Attribute(dictionary.NoVendor, 250)
	require.True(t, ok)
	assert.Equal(t, "Unknown-Attribute-250", a.Name())
	assert.Equal(t, data, p.Bytes())
}

func TestMutatorsReturnCopies(t *testing.T) {
	dict := newDict(t)

	orig, err := New(dict, CodeAccessRequest, 1, nil, []*attribute.Attribute{
		mustAttr(t, dict, "User-Name", "alice"),
		mustAttr(t, dict, "Reply-Message", "one"),
		mustAttr(t, dict, "Reply-Message", "two"),
	})
	require.NoError(t, err)
	origBytes := orig.Bytes()

	added, err := orig.AddAttribute(mustAttr(t, dict, "NAS-Identifier", "nas1"))
	require.NoError(t, err)
	assert.Len(t, added.Attributes(), 4)

	removed := orig.RemoveAttributes(dictionary.NoVendor, TypeReplyMessage)
	assert.Len(t, removed.Attributes(), 1)

	last := orig.RemoveLastAttribute(TypeReplyMessage)
	require.Len(t, last.Attributes(), 2)
	assert.Equal(t, "one", last.Attributes()[1].ValueString())

	single := orig.RemoveAttribute(mustAttr(t, dict, "Reply-Message", "one"))
	require.Len(t, single.Attributes(), 2)
	assert.Equal(t, "two", single.Attributes()[1].ValueString())

	withID := orig.WithIdentifier(9)
	assert.Equal(t, uint8(9), withID.Identifier())

	assert.Equal(t, origBytes, orig.Bytes())
	assert.Equal(t, uint8(1), orig.Identifier())
}

func TestVendorAttributesAreWrapped(t *testing.T) {
	dict := newDict(t)

	group := mustAttr(t, dict, "Mikrotik-Group", "admins")
	p, err := New(dict, CodeAccessAccept, 1, nil, []*attribute.Attribute{group})
	require.NoError(t, err)

	top := p.Attributes()
	require.Len(t, top, 1)
	assert.True(t, top[0].IsVSA())
	assert.Equal(t, mikrotikVendorID, top[0].ChildVendorID())

	found, ok := p.Attribute(mikrotikVendorID, 3)
	require.True(t, ok)
	assert.Equal(t, "admins", found.ValueString())

	flat := p.FlatAttributes()
	require.Len(t, flat, 1)
	assert.Equal(t, "Mikrotik-Group", flat[0].Name())

	stripped := p.RemoveAttributes(mikrotikVendorID, 3)
	assert.Empty(t, stripped.Attributes())
}

func TestRemoveSubAttributeKeepsSiblings(t *testing.T) {
	dict := newDict(t)

	vsa, err := attribute.NewVendorSpecific(dict, mikrotikVendorID,
		mustAttr(t, dict, "Mikrotik-Group", "admins"),
		mustAttr(t, dict, "Mikrotik-Rate-Limit", "10M/10M"),
	)
	require.NoError(t, err)

	p, err := New(dict, CodeAccessAccept, 1, nil, []*attribute.Attribute{vsa})
	require.NoError(t, err)

	out := p.RemoveAttributes(mikrotikVendorID, 3)
	require.Len(t, out.Attributes(), 1)
	children := out.Attributes()[0].Children()
	require.Len(t, children, 1)
	assert.Equal(t, "Mikrotik-Rate-Limit", children[0].Name())
}

func TestString(t *testing.T) {
	dict := newDict(t)

	p, err := New(dict, CodeAccessAccept, 3, nil, []*attribute.Attribute{
		mustAttr(t, dict, "Reply-Message", "welcome"),
	})
	require.NoError(t, err)

	s := p.String()
	assert.True(t, strings.HasPrefix(s, "Access-Accept, ID 3, length 29"))
	assert.Contains(t, s, "Reply-Message: welcome")
}

func TestBuildHeader(t *testing.T) {
	header, err := BuildHeader(CodeAccountingResponse, 5, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, append([]byte{5, 5, 0, 20}, bytes.Repeat([]byte{0}, 16)...), header)
}

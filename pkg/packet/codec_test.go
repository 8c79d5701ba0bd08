package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"layeh.com/radius"
	"layeh.com/radius/rfc2868"

	"github.com/vitalvas/radkit/pkg/attribute"
	"github.com/vitalvas/radkit/pkg/crypto"
	"github.com/vitalvas/radkit/pkg/dictionary"
)

func TestAccessRequestEncodeDecode(t *testing.T) {
	dict := newDict(t)

	req, err := NewAccessRequestPAP(dict, 10, "alice", "myPw")
	require.NoError(t, err)

	encoded, err := req.EncodeRequest(testSecret)
	require.NoError(t, err)
	require.Len(t, encoded.Authenticator(), AuthenticatorLength)

	pw, ok := encoded.Attribute(dictionary.NoVendor, TypeUserPassword)
	require.True(t, ok)
	assert.True(t, pw.Encoded())
	assert.Len(t, pw.Value(), 16)
	assert.NotEqual(t, []byte("myPw"), pw.Value())

	ma := encoded.AttributesOf(dictionary.NoVendor, TypeMessageAuthenticator)
	require.Len(t, ma, 1)

	received, err := Parse(dict, encoded.Bytes())
	require.NoError(t, err)

	decoded, err := received.DecodeRequest(testSecret)
	require.NoError(t, err)

	pw, ok = decoded.Attribute(dictionary.NoVendor, TypeUserPassword)
	require.True(t, ok)
	assert.False(t, pw.Encoded())
	assert.Equal(t, "myPw", pw.ValueString())

	valid, err := decoded.CheckPassword("myPw")
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = decoded.CheckPassword("other")
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestEncodeRequestIsIdempotent(t *testing.T) {
	dict := newDict(t)

	tests := []struct {
		name string
		code Code
	}{
		{"access", CodeAccessRequest},
		{"accounting", CodeAccountingRequest},
		{"status", CodeStatusServer},
		{"coa", CodeCoARequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(dict, tt.code, 5, nil, []*attribute.Attribute{
				mustAttr(t, dict, "User-Name", "bob"),
				mustAttr(t, dict, "NAS-Identifier", "nas1"),
			})
			require.NoError(t, err)

			first, err := p.EncodeRequest(testSecret)
			require.NoError(t, err)
			second, err := first.EncodeRequest(testSecret)
			require.NoError(t, err)
			assert.Equal(t, first.Bytes(), second.Bytes())

			decoded, err := second.DecodeRequest(testSecret)
			require.NoError(t, err)
			again, err := decoded.DecodeRequest(testSecret)
			require.NoError(t, err)
			assert.Equal(t, decoded.Bytes(), again.Bytes())
		})
	}
}

func TestEncodedPasswordRequestIsIdempotent(t *testing.T) {
	dict := newDict(t)

	req, err := NewAccessRequestPAP(dict, 1, "alice", "secret-password")
	require.NoError(t, err)

	first, err := req.EncodeRequest(testSecret)
	require.NoError(t, err)
	second, err := first.EncodeRequest(testSecret)
	require.NoError(t, err)
	assert.Equal(t, first.Bytes(), second.Bytes())

	decoded, err := second.DecodeRequest(testSecret)
	require.NoError(t, err)

	// the second decode sees plaintext passwords and skips the checks
	again, err := decoded.DecodeRequest(testSecret)
	require.NoError(t, err)
	assert.Equal(t, decoded.Bytes(), again.Bytes())
}

func TestAccountingRequestInterop(t *testing.T) {
	dict := newDict(t)

	p, err := New(dict, CodeAccountingRequest, 9, nil, []*attribute.Attribute{
		mustAttr(t, dict, "Acct-Status-Type", "Start"),
		mustAttr(t, dict, "Acct-Session-Id", "abc"),
	})
	require.NoError(t, err)

	encoded, err := p.EncodeRequest(testSecret)
	require.NoError(t, err)
	assert.True(t, radius.IsAuthenticRequest(encoded.Bytes(), []byte(testSecret)))

	_, err = encoded.DecodeRequest(testSecret)
	require.NoError(t, err)

	_, err = encoded.DecodeRequest("wrong-secret")
	assert.ErrorIs(t, err, ErrAuthenticatorMismatch)
}

func TestResponseEncodeDecode(t *testing.T) {
	dict := newDict(t)

	req, err := NewAccessRequestPAP(dict, 3, "alice", "pw")
	require.NoError(t, err)
	req, err = req.EncodeRequest(testSecret)
	require.NoError(t, err)

	tunnel, err := attribute.FromNameTagged(dict, "Tunnel-Password", 1, "tunnel-secret")
	require.NoError(t, err)

	resp, err := New(dict, CodeAccessAccept, req.Identifier(), nil, []*attribute.Attribute{
		mustAttr(t, dict, "Reply-Message", "welcome"),
		tunnel,
	})
	require.NoError(t, err)

	encoded, err := resp.EncodeResponse(testSecret, req.Authenticator())
	require.NoError(t, err)
	assert.Len(t, encoded.AttributesOf(dictionary.NoVendor, TypeMessageAuthenticator), 1)
	assert.True(t, radius.IsAuthenticResponse(encoded.Bytes(), req.Bytes(), []byte(testSecret)))

	again, err := encoded.EncodeResponse(testSecret, req.Authenticator())
	require.NoError(t, err)
	assert.Equal(t, encoded.Bytes(), again.Bytes())

	received, err := Parse(dict, encoded.Bytes())
	require.NoError(t, err)

	decoded, err := received.DecodeResponse(testSecret, req.Authenticator())
	require.NoError(t, err)

	tp, ok := decoded.Attribute(dictionary.NoVendor, attribute.TypeTunnelPassword)
	require.True(t, ok)
	assert.Equal(t, "tunnel-secret", tp.ValueString())
	assert.Equal(t, byte(1), tp.Tag())

	_, err = received.DecodeResponse("wrong-secret", req.Authenticator())
	assert.ErrorIs(t, err, ErrMessageAuthenticatorMismatch)
}

func TestTaggedIntegerInterop(t *testing.T) {
	dict := newDict(t)

	// layeh.com/radius -> radkit
	theirs := radius.New(radius.CodeAccessAccept, []byte(testSecret))
	require.NoError(t, rfc2868.TunnelType_Add(theirs, 1, rfc2868.TunnelType(13)))
	require.NoError(t, rfc2868.TunnelMediumType_Add(theirs, 1, rfc2868.TunnelMediumType(6)))
	raw, err := theirs.Encode()
	require.NoError(t, err)

	received, err := Parse(dict, raw)
	require.NoError(t, err)
	assert.Equal(t, raw, received.Bytes())

	decoded, err := received.DecodeResponse(testSecret, theirs.Authenticator[:])
	require.NoError(t, err)
	tt, ok := decoded.AttributeByName("Tunnel-Type")
	require.True(t, ok)
	assert.Equal(t, "VLAN", tt.ValueString())
	assert.Equal(t, byte(1), tt.Tag())
	medium, ok := decoded.AttributeByName("Tunnel-Medium-Type")
	require.True(t, ok)
	assert.Equal(t, "IEEE-802", medium.ValueString())

	// radkit -> layeh.com/radius
	vlan, err := attribute.FromNameTagged(dict, "Tunnel-Type", 2, "VLAN")
	require.NoError(t, err)
	resp, err := New(dict, CodeAccessAccept, 4, nil, []*attribute.Attribute{vlan})
	require.NoError(t, err)
	encoded, err := resp.EncodeResponse(testSecret, testAuth)
	require.NoError(t, err)

	parsed, err := radius.Parse(encoded.Bytes(), []byte(testSecret))
	require.NoError(t, err)
	tag, value, err := rfc2868.TunnelType_Lookup(parsed)
	require.NoError(t, err)
	assert.Equal(t, byte(2), tag)
	assert.Equal(t, rfc2868.TunnelType(13), value)
}

func TestTaggedAttributeWithoutBodyKeepsAuthenticator(t *testing.T) {
	dict := newDict(t)

	// Access-Accept carrying Tunnel-Client-Endpoint without tag octet or value
	attrs := []byte{66, 2}
	length := HeaderLength + len(attrs)
	auth := crypto.ResponseAuthenticator(byte(CodeAccessAccept), 8, length, testAuth, attrs, testSecret)

	raw := append([]byte{byte(CodeAccessAccept), 8, 0, byte(length)}, auth...)
	raw = append(raw, attrs...)

	received, err := Parse(dict, raw)
	require.NoError(t, err)
	assert.Equal(t, raw, received.Bytes())

	decoded, err := received.DecodeResponse(testSecret, testAuth)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded.Bytes())
}

func TestAccountingResponseAuthenticator(t *testing.T) {
	dict := newDict(t)

	req, err := New(dict, CodeAccountingRequest, 4, nil, nil)
	require.NoError(t, err)
	req, err = req.EncodeRequest(testSecret)
	require.NoError(t, err)

	resp, err := New(dict, CodeAccountingResponse, 4, nil, nil)
	require.NoError(t, err)
	encoded, err := resp.EncodeResponse(testSecret, req.Authenticator())
	require.NoError(t, err)
	assert.Empty(t, encoded.AttributesOf(dictionary.NoVendor, TypeMessageAuthenticator))

	_, err = encoded.DecodeResponse(testSecret, req.Authenticator())
	require.NoError(t, err)

	_, err = encoded.DecodeResponse(testSecret, crypto.ZeroAuthenticator())
	assert.ErrorIs(t, err, ErrAuthenticatorMismatch)
}

func TestResponseAuthenticatorBitFlip(t *testing.T) {
	dict := newDict(t)

	resp, err := New(dict, CodeAccessReject, 8, nil, []*attribute.Attribute{
		mustAttr(t, dict, "Reply-Message", "denied"),
	})
	require.NoError(t, err)

	first, err := resp.EncodeResponse(testSecret, testAuth)
	require.NoError(t, err)
	second, err := resp.EncodeResponse(testSecret, testAuth)
	require.NoError(t, err)
	assert.Equal(t, first.Authenticator(), second.Authenticator())

	for i := range testAuth {
		flipped := append([]byte(nil), testAuth...)
		flipped[i] ^= 0x01
		other, err := resp.EncodeResponse(testSecret, flipped)
		require.NoError(t, err)
		assert.NotEqual(t, first.Authenticator(), other.Authenticator(), "bit flip at %d", i)
	}

	tampered := first.Bytes()
	tampered[len(tampered)-20] ^= 0x01 // inside Reply-Message
	parsed, err := Parse(dict, tampered)
	require.NoError(t, err)
	_, err = parsed.DecodeResponse(testSecret, testAuth)
	assert.Error(t, err)
}

func TestMessageAuthenticatorRules(t *testing.T) {
	dict := newDict(t)
	ma := func() *attribute.Attribute {
		a, err := attribute.Create(dict, dictionary.NoVendor, TypeMessageAuthenticator, 0, make([]byte, 16))
		require.NoError(t, err)
		return a
	}

	t.Run("duplicate rejected", func(t *testing.T) {
		p, err := New(dict, CodeAccessAccept, 1, testAuth, []*attribute.Attribute{ma(), ma()})
		require.NoError(t, err)
		_, err = p.DecodeResponse(testSecret, testAuth)
		assert.ErrorIs(t, err, ErrMalformedPacket)
	})

	t.Run("existing value replaced", func(t *testing.T) {
		p, err := New(dict, CodeAccessRequest, 1, testAuth, []*attribute.Attribute{
			ma(), mustAttr(t, dict, "User-Name", "alice"),
		})
		require.NoError(t, err)

		encoded, err := p.EncodeRequest(testSecret)
		require.NoError(t, err)
		attrs := encoded.Attributes()
		require.Len(t, attrs, 2)
		assert.Equal(t, TypeMessageAuthenticator, attrs[1].Type())
		assert.NotEqual(t, make([]byte, 16), attrs[1].Value())
	})

	t.Run("status server requires one", func(t *testing.T) {
		p, err := New(dict, CodeStatusServer, 1, testAuth, nil)
		require.NoError(t, err)
		_, err = p.DecodeRequest(testSecret)
		assert.ErrorIs(t, err, ErrMalformedPacket)

		encoded, err := p.EncodeRequest(testSecret)
		require.NoError(t, err)
		_, err = encoded.DecodeRequest(testSecret)
		assert.NoError(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		p, err := New(dict, CodeAccessRequest, 1, nil, []*attribute.Attribute{
			mustAttr(t, dict, "User-Name", "alice"),
		})
		require.NoError(t, err)
		encoded, err := p.EncodeRequest(testSecret)
		require.NoError(t, err)

		_, err = encoded.DecodeRequest("another-secret")
		assert.ErrorIs(t, err, ErrMessageAuthenticatorMismatch)
	})
}

func TestAuthTypeInference(t *testing.T) {
	dict := newDict(t)
	attr := func(typ int, value []byte) *attribute.Attribute {
		a, err := attribute.Create(dict, dictionary.NoVendor, typ, 0, value)
		require.NoError(t, err)
		return a
	}

	tests := []struct {
		name    string
		attrs   []*attribute.Attribute
		want    AuthType
		wantErr bool
	}{
		{"none", nil, AuthNone, false},
		{"pap", []*attribute.Attribute{attr(TypeUserPassword, []byte("pw"))}, AuthPAP, false},
		{"chap", []*attribute.Attribute{attr(TypeCHAPPassword, make([]byte, 17))}, AuthCHAP, false},
		{"eap", []*attribute.Attribute{attr(TypeEAPMessage, []byte{2, 1, 0, 4})}, AuthEAP, false},
		{"arap", []*attribute.Attribute{attr(TypeARAPPassword, make([]byte, 16))}, AuthARAP, false},
		{"pap and chap", []*attribute.Attribute{
			attr(TypeUserPassword, []byte("pw")),
			attr(TypeCHAPPassword, make([]byte, 17)),
		}, AuthNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(dict, CodeAccessRequest, 1, nil, tt.attrs)
			require.NoError(t, err)

			got, err := p.AuthType()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAccessRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAccessRequestValidation(t *testing.T) {
	dict := newDict(t)
	attr := func(typ int, value []byte) *attribute.Attribute {
		a, err := attribute.Create(dict, dictionary.NoVendor, typ, 0, value)
		require.NoError(t, err)
		return a
	}

	t.Run("two user passwords", func(t *testing.T) {
		p, err := New(dict, CodeAccessRequest, 1, nil, []*attribute.Attribute{
			attr(TypeUserPassword, []byte("a")), attr(TypeUserPassword, []byte("b")),
		})
		require.NoError(t, err)
		_, err = p.EncodeRequest(testSecret)
		assert.ErrorIs(t, err, ErrInvalidAccessRequest)
	})

	t.Run("short chap password", func(t *testing.T) {
		p, err := New(dict, CodeAccessRequest, 1, nil, []*attribute.Attribute{
			attr(TypeCHAPPassword, make([]byte, 10)),
		})
		require.NoError(t, err)
		_, err = p.EncodeRequest(testSecret)
		assert.ErrorIs(t, err, ErrInvalidAccessRequest)
	})

	t.Run("eap without message authenticator", func(t *testing.T) {
		p, err := New(dict, CodeAccessRequest, 1, testAuth, []*attribute.Attribute{
			attr(TypeEAPMessage, []byte{2, 1, 0, 4}),
		})
		require.NoError(t, err)
		_, err = p.DecodeRequest(testSecret)
		assert.ErrorIs(t, err, ErrInvalidAccessRequest)

		encoded, err := p.EncodeRequest(testSecret)
		require.NoError(t, err)
		_, err = encoded.DecodeRequest(testSecret)
		assert.NoError(t, err)
	})
}

func TestCHAPRequest(t *testing.T) {
	dict := newDict(t)

	req, err := NewAccessRequestCHAP(dict, 2, "carol", "chap-pw")
	require.NoError(t, err)

	authType, err := req.AuthType()
	require.NoError(t, err)
	assert.Equal(t, AuthCHAP, authType)

	encoded, err := req.EncodeRequest(testSecret)
	require.NoError(t, err)
	decoded, err := encoded.DecodeRequest(testSecret)
	require.NoError(t, err)

	ok, err := decoded.CheckPassword("chap-pw")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = decoded.CheckPassword("wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	// switching to PAP drops the CHAP attributes
	pap, err := req.WithPAPPassword("pap-pw")
	require.NoError(t, err)
	authType, err = pap.AuthType()
	require.NoError(t, err)
	assert.Equal(t, AuthPAP, authType)
	_, hasChap := pap.Attribute(dictionary.NoVendor, TypeCHAPPassword)
	assert.False(t, hasChap)
}

func TestCodecRejectsBadInput(t *testing.T) {
	dict := newDict(t)

	p, err := New(dict, CodeAccountingResponse, 1, nil, nil)
	require.NoError(t, err)

	_, err = p.EncodeRequest("")
	assert.ErrorIs(t, err, crypto.ErrEmptySecret)

	_, err = p.EncodeResponse(testSecret, []byte{1, 2})
	assert.ErrorIs(t, err, ErrInvalidAuthenticator)

	_, err = p.DecodeResponse(testSecret, testAuth)
	assert.ErrorIs(t, err, ErrInvalidAuthenticator)
}

package server

import (
	"net"
	"time"

	"github.com/vitalvas/radkit/pkg/attribute"
	"github.com/vitalvas/radkit/pkg/client"
	"github.com/vitalvas/radkit/pkg/dictionary"
	"github.com/vitalvas/radkit/pkg/packet"
)

// Request is a verified, decoded request and where it came from.
type Request struct {
	// Packet has its attributes decrypted.
	Packet *packet.Packet
	// Client is the sender address and the secret it shares with us.
	Client     client.Endpoint
	LocalAddr  net.Addr
	Listener   string
	ReceivedAt time.Time
}

// Code returns the request code
func (r *Request) Code() packet.Code {
	return r.Packet.Code()
}

// GetAttribute returns all values for the given attribute name
func (r *Request) GetAttribute(name string) []*attribute.Attribute {
	var out []*attribute.Attribute
	for _, a := range r.Packet.FlatAttributes() {
		if a.Name() == name {
			out = append(out, a)
		}
	}
	return out
}

// Reply builds a response to this request with the given code and attributes.
func (r *Request) Reply(code packet.Code, attrs ...*attribute.Attribute) (*packet.Packet, error) {
	return packet.New(r.Packet.Dictionary(), code, r.Packet.Identifier(), nil, attrs)
}

// DefaultReply answers with the negative response for the request code,
// or the only possible one for accounting.
func (r *Request) DefaultReply(attrs ...*attribute.Attribute) (*packet.Packet, error) {
	return r.Reply(DefaultResponseCode(r.Code()), attrs...)
}

// DefaultResponseCode returns the response code used when a handler has nothing better.
func DefaultResponseCode(code packet.Code) packet.Code {
	switch code {
	case packet.CodeAccessRequest:
		return packet.CodeAccessReject
	case packet.CodeAccountingRequest:
		return packet.CodeAccountingResponse
	case packet.CodeDisconnectRequest:
		return packet.CodeDisconnectNAK
	case packet.CodeCoARequest:
		return packet.CodeCoANAK
	case packet.CodeStatusServer:
		return packet.CodeAccessAccept
	default:
		if expected := code.ExpectedResponse(); len(expected) > 0 {
			return expected[len(expected)-1]
		}
		return packet.CodeAccessReject
	}
}

// echoProxyState copies the request Proxy-State attributes, in order, into a
// response that carries none (RFC 2865 section 5.33).
func echoProxyState(req, resp *packet.Packet) (*packet.Packet, error) {
	states := req.AttributesOf(dictionary.NoVendor, packet.TypeProxyState)
	if len(states) == 0 {
		return resp, nil
	}
	if _, ok := resp.Attribute(dictionary.NoVendor, packet.TypeProxyState); ok {
		return resp, nil
	}
	return resp.AddAttributes(states...)
}

package client

import (
	"context"
	"fmt"
	"sort"

	"github.com/vitalvas/radkit/pkg/attribute"
	"github.com/vitalvas/radkit/pkg/packet"
)

// BuildRequest creates a request with a random identifier from attribute
// names and their text values. Attributes are added in name order.
func (c *Client) BuildRequest(code packet.Code, attributes map[string]string) (*packet.Packet, error) {
	identifier, err := NewIdentifier()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(attributes))
	for name := range attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	attrs := make([]*attribute.Attribute, 0, len(names))
	for _, name := range names {
		a, err := attribute.FromName(c.dict, name, attributes[name])
		if err != nil {
			return nil, fmt.Errorf("failed to add attribute %q: %w", name, err)
		}
		attrs = append(attrs, a)
	}

	return packet.New(c.dict, code, identifier, nil, attrs)
}

func (c *Client) request(ctx context.Context, code packet.Code, attributes map[string]string, endpoints []Endpoint) (*packet.Packet, error) {
	req, err := c.BuildRequest(code, attributes)
	if err != nil {
		return nil, err
	}
	return c.Exchange(ctx, req, endpoints...)
}

// AccessRequest sends an Access-Request. A plaintext User-Password is
// encrypted for each endpoint.
func (c *Client) AccessRequest(ctx context.Context, attributes map[string]string, endpoints ...Endpoint) (*packet.Packet, error) {
	return c.request(ctx, packet.CodeAccessRequest, attributes, endpoints)
}

// AccountingRequest sends an Accounting-Request.
func (c *Client) AccountingRequest(ctx context.Context, attributes map[string]string, endpoints ...Endpoint) (*packet.Packet, error) {
	return c.request(ctx, packet.CodeAccountingRequest, attributes, endpoints)
}

// CoA sends a CoA-Request (RFC 5176).
func (c *Client) CoA(ctx context.Context, attributes map[string]string, endpoints ...Endpoint) (*packet.Packet, error) {
	return c.request(ctx, packet.CodeCoARequest, attributes, endpoints)
}

// Disconnect sends a Disconnect-Request (RFC 5176).
func (c *Client) Disconnect(ctx context.Context, attributes map[string]string, endpoints ...Endpoint) (*packet.Packet, error) {
	return c.request(ctx, packet.CodeDisconnectRequest, attributes, endpoints)
}

// StatusServer sends a Status-Server probe (RFC 5997).
func (c *Client) StatusServer(ctx context.Context, endpoints ...Endpoint) (*packet.Packet, error) {
	return c.request(ctx, packet.CodeStatusServer, nil, endpoints)
}

package server

import (
	"context"
	"fmt"

	"github.com/vitalvas/radkit/pkg/client"
	"github.com/vitalvas/radkit/pkg/log"
	"github.com/vitalvas/radkit/pkg/packet"
)

// OriginResolver picks the upstream servers for a request, tried in order.
// No endpoints means the request is not proxied.
type OriginResolver interface {
	ResolveOrigin(r *Request) []client.Endpoint
}

// OriginResolverFunc is an adapter to allow use of ordinary functions as resolvers
type OriginResolverFunc func(r *Request) []client.Endpoint

// ResolveOrigin calls f(r)
func (f OriginResolverFunc) ResolveOrigin(r *Request) []client.Endpoint {
	return f(r)
}

// ProxyOption configures a ProxyHandler.
type ProxyOption func(*ProxyHandler)

// WithProxyLogger sets the proxy logger.
func WithProxyLogger(logger log.Logger) ProxyOption {
	return func(h *ProxyHandler) {
		h.logger = logger
	}
}

// ProxyHandler forwards requests to an origin server and relays its answer.
// The client appends and strips its own Proxy-State, so Proxy-State
// attributes of the original request come back unchanged.
type ProxyHandler struct {
	client   *client.Client
	resolver OriginResolver
	logger   log.Logger
}

// NewProxyHandler forwards through c to the origins picked by resolver.
func NewProxyHandler(c *client.Client, resolver OriginResolver, opts ...ProxyOption) *ProxyHandler {
	h := &ProxyHandler{
		client:   c,
		resolver: resolver,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = log.OrDiscard(h.logger)
	return h
}

// ServeRADIUS implements Handler.
func (h *ProxyHandler) ServeRADIUS(ctx context.Context, r *Request) (*packet.Packet, error) {
	origins := h.resolver.ResolveOrigin(r)
	if len(origins) == 0 {
		h.logger.Infof("no origin server for %s id %d from %s, dropping", r.Code(), r.Packet.Identifier(), r.Client)
		return nil, nil
	}

	h.logger.Debugf("forwarding %s id %d from %s to %s", r.Code(), r.Packet.Identifier(), r.Client, origins[0])

	upstream, err := h.client.Exchange(ctx, r.Packet, origins...)
	if err != nil {
		return nil, fmt.Errorf("proxy %s id %d: %w", r.Code(), r.Packet.Identifier(), err)
	}

	resp, err := packet.New(r.Packet.Dictionary(), upstream.Code(), upstream.Identifier(), upstream.Authenticator(), upstream.Attributes())
	if err != nil {
		return nil, fmt.Errorf("proxy %s id %d: rebuild response: %w", r.Code(), r.Packet.Identifier(), err)
	}
	return resp, nil
}

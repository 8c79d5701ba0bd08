// Package server answers RADIUS requests on one or more UDP sockets, with a
// duplicate-request cache and a forwarding proxy handler.
package server

import (
	"context"

	"github.com/vitalvas/radkit/pkg/packet"
)

// Handler answers a decoded request. A nil response with a nil error sends nothing.
// The server encodes the response with the client's secret.
type Handler interface {
	ServeRADIUS(ctx context.Context, r *Request) (*packet.Packet, error)
}

// HandlerFunc is an adapter to allow use of ordinary functions as RADIUS handlers
type HandlerFunc func(ctx context.Context, r *Request) (*packet.Packet, error)

// ServeRADIUS calls f(ctx, r)
func (f HandlerFunc) ServeRADIUS(ctx context.Context, r *Request) (*packet.Packet, error) {
	return f(ctx, r)
}

// Middleware wraps a Handler and returns a new Handler
type Middleware func(Handler) Handler

// Chain wraps h with the middlewares; the first one is outermost.
func Chain(h Handler, middlewares ...Middleware) Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

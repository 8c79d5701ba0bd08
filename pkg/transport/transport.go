// Package transport carries raw RADIUS datagrams between sockets and the
// client and server packet handlers.
package transport

import "net"

// Transport abstracts the datagram socket used by clients and servers.
type Transport interface {
	// Serve reads datagrams and calls handler for each one.
	// Blocks until the transport is closed or an error occurs.
	Serve(handler Handler) error

	// WriteTo sends a datagram to addr.
	WriteTo(data []byte, addr net.Addr) error

	// LocalAddr returns the local network address.
	LocalAddr() net.Addr

	// Close stops the transport and releases resources.
	// Blocks until all in-flight handlers complete.
	Close() error
}

// Handler is called for each received datagram.
// respond sends a reply back to remoteAddr.
type Handler func(data []byte, remoteAddr net.Addr, respond ResponderFunc)

// ResponderFunc sends response data back to the peer.
type ResponderFunc func(data []byte) error

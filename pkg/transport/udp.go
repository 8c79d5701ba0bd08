package transport

import (
	"errors"
	"fmt"
	"net"
	"sync"
)

// MaxDatagramSize is the largest RADIUS packet.
const MaxDatagramSize = 4096

// ErrClosed is returned when writing to a closed transport.
var ErrClosed = errors.New("transport closed")

// udpBufferPool provides reusable buffers for UDP packet reads
var udpBufferPool = sync.Pool{
	New: func() any {
		b := make([]byte, MaxDatagramSize)
		return &b
	},
}

// UDPTransport implements Transport over a PacketConn.
type UDPTransport struct {
	conn   net.PacketConn
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewUDPTransport creates a UDP transport from an existing PacketConn.
// The transport owns the connection and closes it on Close.
func NewUDPTransport(conn net.PacketConn) *UDPTransport {
	return &UDPTransport{
		conn: conn,
	}
}

// Listen opens a UDP socket on addr, ":0" picks an ephemeral port.
func Listen(addr string) (*UDPTransport, error) {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return NewUDPTransport(conn), nil
}

// Serve implements Transport.Serve for UDP.
// Runs a single read loop and spawns a goroutine for each packet.
func (t *UDPTransport) Serve(handler Handler) error {
	for {
		bufPtr := udpBufferPool.Get().(*[]byte)
		buffer := *bufPtr

		n, addr, err := t.conn.ReadFrom(buffer)
		if err != nil {
			udpBufferPool.Put(bufPtr)

			if t.isClosed() {
				return nil
			}

			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}

			return err
		}

		// Copy data to new slice before passing to goroutine
		data := make([]byte, n)
		copy(data, buffer[:n])
		udpBufferPool.Put(bufPtr)

		respond := func(respData []byte) error {
			return t.WriteTo(respData, addr)
		}

		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			handler(data, addr, respond)
		}()
	}
}

// WriteTo implements Transport.WriteTo.
func (t *UDPTransport) WriteTo(data []byte, addr net.Addr) error {
	if t.isClosed() {
		return ErrClosed
	}
	_, err := t.conn.WriteTo(data, addr)
	return err
}

// LocalAddr implements Transport.LocalAddr.
func (t *UDPTransport) LocalAddr() net.Addr {
	return t.conn.LocalAddr()
}

// Close implements Transport.Close.
// Closes the connection and waits for all in-flight handlers to complete.
func (t *UDPTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	err := t.conn.Close()
	t.wg.Wait()
	return err
}

func (t *UDPTransport) isClosed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.closed
}

// Package client sends RADIUS requests over one shared UDP socket, with
// retries on a timer wheel, Proxy-State correlation and endpoint failover.
package client

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/vitalvas/radkit/pkg/attribute"
	"github.com/vitalvas/radkit/pkg/crypto"
	"github.com/vitalvas/radkit/pkg/dictionary"
	"github.com/vitalvas/radkit/pkg/log"
	"github.com/vitalvas/radkit/pkg/packet"
	"github.com/vitalvas/radkit/pkg/timer"
	"github.com/vitalvas/radkit/pkg/transport"
)

// DefaultBindAddr binds the client socket to an ephemeral port on all interfaces.
const DefaultBindAddr = ":0"

// Option configures a Client.
type Option func(*Client)

// WithBindAddr sets the local address of the client socket.
func WithBindAddr(addr string) Option {
	return func(c *Client) {
		c.bindAddr = addr
	}
}

// WithTransport uses an existing transport instead of opening a UDP socket.
// The client closes it on Close.
func WithTransport(t transport.Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithLogger sets the client logger.
func WithLogger(logger log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeoutHandler sets the retry policy.
func WithTimeoutHandler(h TimeoutHandler) Option {
	return func(c *Client) {
		c.timeouts = h
	}
}

// WithWheel schedules timeouts on a shared wheel. The caller stops it.
func WithWheel(w *timer.Wheel) Option {
	return func(c *Client) {
		c.wheel = w
	}
}

// WithBlacklist skips endpoints that keep failing.
func WithBlacklist(b *Blacklist) Option {
	return func(c *Client) {
		c.blacklist = b
	}
}

// WithEventListener observes sends, timeouts and responses.
func WithEventListener(l EventListener) Option {
	return func(c *Client) {
		c.listener = l
	}
}

// WithProxyState controls the correlation token appended to every request.
// Enabled by default.
func WithProxyState(enabled bool) Option {
	return func(c *Client) {
		c.proxyState = enabled
	}
}

// WithMessageAuthenticator adds a Message-Authenticator to every request,
// not only to Access-Request and Status-Server.
func WithMessageAuthenticator(enabled bool) Option {
	return func(c *Client) {
		c.messageAuth = enabled
	}
}

// Client correlates responses to pending requests and retries on timeout.
// Safe for concurrent use.
type Client struct {
	dict        *dictionary.Dictionary
	transport   transport.Transport
	wheel       *timer.Wheel
	ownWheel    bool
	timeouts    TimeoutHandler
	blacklist   *Blacklist
	listener    EventListener
	logger      log.Logger
	bindAddr    string
	proxyState  bool
	messageAuth bool

	mu      sync.Mutex
	pending map[uuid.UUID]*pendingRequest
	closed  bool

	serveDone chan struct{}
}

type pendingRequest struct {
	token    uuid.UUID
	tokenSet bool
	endpoint Endpoint
	request  *packet.Packet
	data     []byte
	attempt  int
	timeout  *timer.Timeout
	done     func(resp *packet.Packet, err error)
}

// New creates a client and starts reading responses.
func New(dict *dictionary.Dictionary, opts ...Option) (*Client, error) {
	if dict == nil {
		return nil, errors.New("client: nil dictionary")
	}

	c := &Client{
		dict:       dict,
		bindAddr:   DefaultBindAddr,
		timeouts:   FixedTimeoutHandler{Attempts: DefaultAttempts, Timeout: DefaultTimeout},
		listener:   NopEventListener{},
		proxyState: true,
		pending:    make(map[uuid.UUID]*pendingRequest),
		serveDone:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = log.OrDiscard(c.logger)

	if c.transport == nil {
		t, err := transport.Listen(c.bindAddr)
		if err != nil {
			return nil, err
		}
		c.transport = t
	}
	if c.wheel == nil {
		c.wheel = timer.NewWheel(timer.DefaultTick, timer.DefaultSlots, timer.WithLogger(c.logger))
		c.ownWheel = true
	}

	go func() {
		defer close(c.serveDone)
		if err := c.transport.Serve(c.handleDatagram); err != nil {
			c.logger.Errorf("client transport stopped: %v", err)
		}
	}()

	c.logger.Debugf("RADIUS client listening on %s", c.transport.LocalAddr())
	return c, nil
}

// LocalAddr returns the address of the client socket.
func (c *Client) LocalAddr() string {
	return c.transport.LocalAddr().String()
}

// Dictionary returns the dictionary used to parse responses.
func (c *Client) Dictionary() *dictionary.Dictionary {
	return c.dict
}

// Communicate sends req to the endpoints in order until one answers.
// The request is encoded per endpoint with that endpoint's secret.
// The returned future fails with ErrNoEndpoints for an empty list and with
// ErrAllEndpointsFailed wrapping the last cause when every endpoint failed.
func (c *Client) Communicate(req *packet.Packet, endpoints ...Endpoint) *Future {
	f := newFuture()
	if len(endpoints) == 0 {
		f.complete(nil, ErrNoEndpoints)
		return f
	}
	c.try(f, req, endpoints, 0, nil, true)
	return f
}

// probe sends to a single endpoint even when it is blacklisted.
func (c *Client) probe(ctx context.Context, req *packet.Packet, ep Endpoint) (*packet.Packet, error) {
	f := newFuture()
	c.try(f, req, []Endpoint{ep}, 0, nil, false)
	return f.Wait(ctx)
}

// Exchange sends req and waits for the response or the end of ctx.
func (c *Client) Exchange(ctx context.Context, req *packet.Packet, endpoints ...Endpoint) (*packet.Packet, error) {
	return c.Communicate(req, endpoints...).Wait(ctx)
}

// try sends to endpoints[idx:] until one attempt chain starts.
// The completion callback of that chain moves on to the next endpoint.
func (c *Client) try(f *Future, req *packet.Packet, endpoints []Endpoint, idx int, lastErr error, checkBlacklist bool) {
	for ; idx < len(endpoints); idx++ {
		if f.isDone() {
			return
		}

		ep := endpoints[idx]
		if checkBlacklist && c.blacklist.Blacklisted(ep.Addr) {
			lastErr = fmt.Errorf("%w: %s", ErrEndpointBlacklisted, ep)
			c.logger.Debugf("skipping blacklisted endpoint %s", ep)
			continue
		}

		next := idx + 1
		err := c.send(f, req, ep, func(resp *packet.Packet, err error) {
			if err == nil {
				c.blacklist.Success(ep.Addr)
				f.complete(resp, nil)
				return
			}
			if errors.Is(err, ErrClientClosed) {
				f.complete(nil, err)
				return
			}
			if c.blacklist.Failure(ep.Addr) {
				c.logger.Warnf("endpoint %s blacklisted", ep)
			}
			c.logger.Debugf("endpoint %s failed: %v", ep, err)
			c.try(f, req, endpoints, next, err, checkBlacklist)
		})
		if err == nil {
			return
		}
		if errors.Is(err, ErrClientClosed) {
			f.complete(nil, err)
			return
		}
		lastErr = err
		c.logger.Debugf("endpoint %s failed: %v", ep, err)
	}

	f.complete(nil, fmt.Errorf("%w: %w", ErrAllEndpointsFailed, lastErr))
}

// send encodes req for ep, registers it and makes the first transmission.
// An error means nothing was registered.
func (c *Client) send(f *Future, req *packet.Packet, ep Endpoint, done func(*packet.Packet, error)) error {
	p := &pendingRequest{
		token:    uuid.New(),
		endpoint: ep,
		done:     done,
	}

	out := req
	if c.proxyState {
		state, err := attribute.Create(c.dict, dictionary.NoVendor, packet.TypeProxyState, 0, p.token[:])
		if err != nil {
			return err
		}
		if out, err = out.AddAttribute(state); err != nil {
			return err
		}
		p.tokenSet = true
	}
	if c.messageAuth {
		if _, ok := out.Attribute(dictionary.NoVendor, packet.TypeMessageAuthenticator); !ok {
			ma, err := attribute.Create(c.dict, dictionary.NoVendor, packet.TypeMessageAuthenticator, 0, make([]byte, crypto.MessageAuthenticatorLength))
			if err != nil {
				return err
			}
			if out, err = out.AddAttribute(ma); err != nil {
				return err
			}
		}
	}

	encoded, err := out.EncodeRequest(ep.Secret, packet.WithLogger(c.logger))
	if err != nil {
		return fmt.Errorf("failed to encode %s for %s: %w", req.Code(), ep, err)
	}
	p.request = encoded
	p.data = encoded.Bytes()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClientClosed
	}
	c.pending[p.token] = p
	c.mu.Unlock()

	if !f.setCancel(func() { c.abandon(p) }) {
		c.abandon(p)
		return nil
	}

	c.transmit(p)
	return nil
}

// transmit sends the stored bytes again and arms the timeout of the next attempt.
func (c *Client) transmit(p *pendingRequest) {
	c.mu.Lock()
	if c.pending[p.token] != p {
		c.mu.Unlock()
		return
	}
	p.attempt++
	attempt := p.attempt
	p.timeout = c.wheel.Schedule(c.timeouts.Delay(attempt), func() {
		c.onTimeout(p)
	})
	c.mu.Unlock()

	c.listener.PreSend(p.request, p.endpoint, attempt)
	if err := c.transport.WriteTo(p.data, p.endpoint.Addr); err != nil {
		c.finish(p, nil, fmt.Errorf("failed to send to %s: %w", p.endpoint, err))
	}
}

func (c *Client) onTimeout(p *pendingRequest) {
	c.mu.Lock()
	if c.pending[p.token] != p {
		c.mu.Unlock()
		return
	}
	attempt := p.attempt
	exhausted := attempt >= c.timeouts.MaxAttempts()
	if exhausted {
		delete(c.pending, p.token)
	}
	c.mu.Unlock()

	c.listener.AttemptTimeout(p.request, p.endpoint, attempt)

	if exhausted {
		p.done(nil, &TimeoutError{Attempts: attempt})
		return
	}

	c.logger.Debugf("retrying %s id %d to %s, attempt %d", p.request.Code(), p.request.Identifier(), p.endpoint, attempt+1)
	c.transmit(p)
}

// finish completes p once; later calls are ignored.
func (c *Client) finish(p *pendingRequest, resp *packet.Packet, err error) {
	c.mu.Lock()
	if c.pending[p.token] != p {
		c.mu.Unlock()
		return
	}
	delete(c.pending, p.token)
	t := p.timeout
	c.mu.Unlock()

	t.Cancel()
	p.done(resp, err)
}

// abandon drops p without completing it.
func (c *Client) abandon(p *pendingRequest) {
	c.mu.Lock()
	if c.pending[p.token] != p {
		c.mu.Unlock()
		return
	}
	delete(c.pending, p.token)
	t := p.timeout
	c.mu.Unlock()

	t.Cancel()
}

// Pending returns the number of requests awaiting a response.
func (c *Client) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *Client) handleDatagram(data []byte, remote net.Addr, _ transport.ResponderFunc) {
	resp, err := packet.Parse(c.dict, data)
	if err != nil {
		c.logger.Warnf("dropping datagram from %s: %v", remote, err)
		return
	}

	candidates, byToken := c.match(resp, remote)
	if len(candidates) == 0 {
		c.logger.Warnf("dropping unmatched %s id %d from %s", resp.Code(), resp.Identifier(), remote)
		return
	}

	for _, p := range candidates {
		decoded, err := resp.DecodeResponse(p.endpoint.Secret, p.request.Authenticator(), packet.WithLogger(c.logger))
		if err != nil {
			c.logger.Warnf("dropping %s id %d from %s: %v", resp.Code(), resp.Identifier(), remote, err)
			continue
		}
		if byToken {
			decoded = decoded.RemoveLastAttribute(packet.TypeProxyState)
		}
		c.listener.PostReceive(decoded, p.endpoint)
		c.finish(p, decoded, nil)
		return
	}
}

// match finds the pending requests a response may answer. A response carrying
// one of our Proxy-State tokens matches only that request; otherwise every
// request sent to the same address with the same identifier is a candidate.
func (c *Client) match(resp *packet.Packet, remote net.Addr) ([]*pendingRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if states := resp.AttributesOf(dictionary.NoVendor, packet.TypeProxyState); len(states) > 0 {
		if token, err := uuid.FromBytes(states[len(states)-1].Value()); err == nil {
			if p, ok := c.pending[token]; ok && p.tokenSet {
				if p.answeredBy(resp, remote) {
					return []*pendingRequest{p}, true
				}
				return nil, false
			}
		}
	}

	var out []*pendingRequest
	for _, p := range c.pending {
		if p.answeredBy(resp, remote) {
			out = append(out, p)
		}
	}
	return out, false
}

func (p *pendingRequest) answeredBy(resp *packet.Packet, remote net.Addr) bool {
	if p.request == nil || resp.Identifier() != p.request.Identifier() || !sameAddr(p.endpoint.Addr, remote) {
		return false
	}
	expected := p.request.Code().ExpectedResponse()
	if len(expected) == 0 {
		return true
	}
	for _, code := range expected {
		if resp.Code() == code {
			return true
		}
	}
	return false
}

// Close fails pending requests with ErrClientClosed, cancels their timers and
// closes the socket.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	pending := c.pending
	c.pending = make(map[uuid.UUID]*pendingRequest)
	c.mu.Unlock()

	for _, p := range pending {
		p.timeout.Cancel()
		p.done(nil, ErrClientClosed)
	}

	err := c.transport.Close()
	<-c.serveDone

	if c.ownWheel {
		c.wheel.Stop()
	}
	return err
}

// NewIdentifier returns a random packet identifier.
func NewIdentifier() (uint8, error) {
	b := make([]byte, 1)
	if _, err := rand.Read(b); err != nil {
		return 0, fmt.Errorf("failed to generate identifier: %w", err)
	}
	return b[0], nil
}

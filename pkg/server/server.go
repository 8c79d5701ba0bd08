package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vitalvas/radkit/pkg/client"
	"github.com/vitalvas/radkit/pkg/dictionary"
	"github.com/vitalvas/radkit/pkg/log"
	"github.com/vitalvas/radkit/pkg/packet"
	"github.com/vitalvas/radkit/pkg/transport"
)

// State represents the current state of the server
type State int32

const (
	StateStopped State = iota
	StateRunning
	StateStopping
)

// String returns a string representation of the server state
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

type listener struct {
	name      string
	transport transport.Transport
	handler   Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger log.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// Server reads requests from every listener, verifies them with the client
// secret and writes back the encoded handler response.
type Server struct {
	dict    *dictionary.Dictionary
	secrets SecretProvider
	logger  log.Logger

	mu        sync.Mutex
	listeners []*listener
	state     State
	cancel    context.CancelFunc
	done      chan struct{}
}

// New creates a server. Add listeners before calling Serve.
func New(dict *dictionary.Dictionary, secrets SecretProvider, opts ...Option) (*Server, error) {
	if dict == nil {
		return nil, errors.New("server: nil dictionary")
	}
	if secrets == nil {
		return nil, errors.New("server: nil secret provider")
	}

	s := &Server{
		dict:    dict,
		secrets: secrets,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = log.OrDiscard(s.logger)

	return s, nil
}

// Listen opens a UDP socket on addr served by h.
func (s *Server) Listen(name, addr string, h Handler) error {
	t, err := transport.Listen(addr)
	if err != nil {
		return fmt.Errorf("listener %s: %w", name, err)
	}
	if err := s.AddListener(name, t, h); err != nil {
		t.Close()
		return err
	}
	return nil
}

// AddListener serves an existing transport with h. The server closes it.
func (s *Server) AddListener(name string, t transport.Transport, h Handler) error {
	if h == nil {
		return fmt.Errorf("listener %s: nil handler", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateStopped {
		return fmt.Errorf("listener %s: server already running", name)
	}
	for _, l := range s.listeners {
		if l.name == name {
			return fmt.Errorf("listener %s: duplicate name", name)
		}
	}

	s.listeners = append(s.listeners, &listener{name: name, transport: t, handler: h})
	return nil
}

// Addr returns the local address of the named listener.
func (s *Server) Addr(name string) (net.Addr, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.listeners {
		if l.name == name {
			return l.transport.LocalAddr(), true
		}
	}
	return nil, false
}

// State returns the current server state
func (s *Server) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Serve runs every listener until ctx ends, Close is called or a listener fails.
// In-flight requests get a context that is cancelled on shutdown.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	switch {
	case s.state != StateStopped || s.done != nil:
		s.mu.Unlock()
		return ErrServerClosed
	case len(s.listeners) == 0:
		s.mu.Unlock()
		return ErrNoListeners
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.state = StateRunning
	listeners := append([]*listener(nil), s.listeners...)
	s.mu.Unlock()

	defer close(s.done)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	for _, l := range listeners {
		l := l
		s.logger.Infof("RADIUS listener %s on %s", l.name, l.transport.LocalAddr())

		g.Go(func() error {
			err := l.transport.Serve(func(data []byte, remote net.Addr, respond transport.ResponderFunc) {
				s.serveDatagram(gctx, l, data, remote, respond)
			})
			if err != nil {
				return fmt.Errorf("listener %s: %w", l.name, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		s.mu.Lock()
		s.state = StateStopping
		s.mu.Unlock()

		var errs []error
		for _, l := range listeners {
			if err := l.transport.Close(); err != nil {
				errs = append(errs, fmt.Errorf("listener %s: %w", l.name, err))
			}
		}
		return errors.Join(errs...)
	})

	err := g.Wait()

	s.mu.Lock()
	s.state = StateStopped
	s.mu.Unlock()

	s.logger.Info("RADIUS server stopped")
	return err
}

// Close stops Serve and waits for in-flight requests.
// A server that never served only closes its listeners.
func (s *Server) Close() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	if done == nil {
		// never served: mark as used so a later Serve fails
		s.done = make(chan struct{})
		close(s.done)
		listeners := s.listeners
		s.mu.Unlock()

		var errs []error
		for _, l := range listeners {
			errs = append(errs, l.transport.Close())
		}
		return errors.Join(errs...)
	}
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	<-done
	return nil
}

// serveDatagram handles one datagram. Every failure drops that datagram only.
func (s *Server) serveDatagram(ctx context.Context, l *listener, data []byte, remote net.Addr, respond transport.ResponderFunc) {
	receivedAt := time.Now()
	logger := s.logger.WithFields(map[string]any{
		"listener": l.name,
		"client":   remote.String(),
	})

	req, err := packet.Parse(s.dict, data)
	if err != nil {
		logger.Warnf("dropping datagram: %v", err)
		return
	}
	if !req.Code().IsRequest() {
		logger.Warnf("dropping %s: not a request", req.Code())
		return
	}

	secret, ok := s.secrets.SharedSecret(remote, req)
	if !ok {
		logger.Warnf("dropping %s id %d: %v", req.Code(), req.Identifier(), ErrUnknownClient)
		return
	}

	decoded, err := req.DecodeRequest(secret, packet.WithLogger(logger))
	if err != nil {
		logger.Warnf("dropping %s id %d: %v", req.Code(), req.Identifier(), err)
		return
	}

	r := &Request{
		Packet:     decoded,
		Client:     client.Endpoint{Addr: remote, Secret: secret},
		LocalAddr:  l.transport.LocalAddr(),
		Listener:   l.name,
		ReceivedAt: receivedAt,
	}

	resp, err := l.handler.ServeRADIUS(ctx, r)
	if err != nil {
		logger.Errorf("handler failed for %s id %d: %v", req.Code(), req.Identifier(), err)
		return
	}
	if resp == nil {
		logger.Debugf("no response for %s id %d", req.Code(), req.Identifier())
		return
	}

	withState, err := echoProxyState(decoded, resp)
	if err != nil {
		logger.Errorf("failed to add Proxy-State to %s for id %d: %v", resp.Code(), req.Identifier(), err)
		return
	}
	resp = withState

	encoded, err := resp.EncodeResponse(secret, decoded.Authenticator(), packet.WithLogger(logger))
	if err != nil {
		logger.Errorf("failed to encode %s for id %d: %v", resp.Code(), req.Identifier(), err)
		return
	}

	if err := respond(encoded.Bytes()); err != nil {
		logger.Warnf("failed to send %s id %d: %v", resp.Code(), resp.Identifier(), err)
	}
}

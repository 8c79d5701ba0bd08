package server

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/vitalvas/radkit/pkg/log"
	"github.com/vitalvas/radkit/pkg/packet"
	"github.com/vitalvas/radkit/pkg/timer"
)

// DefaultDedupTTL is how long an answered request is remembered.
const DefaultDedupTTL = 10 * time.Second

// DedupOption configures a DedupHandler.
type DedupOption func(*DedupHandler)

// WithDedupTTL sets how long responses are replayed.
func WithDedupTTL(ttl time.Duration) DedupOption {
	return func(h *DedupHandler) {
		h.ttl = ttl
	}
}

// WithDedupWheel evicts entries on a shared wheel. The caller stops it.
func WithDedupWheel(w *timer.Wheel) DedupOption {
	return func(h *DedupHandler) {
		h.wheel = w
	}
}

// WithDedupLogger sets the cache logger.
func WithDedupLogger(logger log.Logger) DedupOption {
	return func(h *DedupHandler) {
		h.logger = logger
	}
}

type dedupEntry struct {
	response *packet.Packet
	timeout  *timer.Timeout
}

// DedupHandler answers retransmitted requests from a cache of encoded responses.
// A request is a duplicate when identifier, client address and authenticator
// match one answered within the TTL. Retransmissions that arrive before the
// first response is stored reach the wrapped handler as well.
type DedupHandler struct {
	next     Handler
	ttl      time.Duration
	wheel    *timer.Wheel
	ownWheel bool
	logger   log.Logger

	mu      sync.Mutex
	entries map[string]*dedupEntry
}

// NewDedupHandler wraps next with the response cache.
func NewDedupHandler(next Handler, opts ...DedupOption) *DedupHandler {
	h := &DedupHandler{
		next:    next,
		ttl:     DefaultDedupTTL,
		entries: make(map[string]*dedupEntry),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = log.OrDiscard(h.logger)
	if h.ttl <= 0 {
		h.ttl = DefaultDedupTTL
	}
	if h.wheel == nil {
		h.wheel = timer.NewWheel(timer.DefaultTick, timer.DefaultSlots, timer.WithLogger(h.logger))
		h.ownWheel = true
	}
	return h
}

// Dedup returns the cache as a middleware.
func Dedup(opts ...DedupOption) Middleware {
	return func(next Handler) Handler {
		return NewDedupHandler(next, opts...)
	}
}

// ServeRADIUS implements Handler.
func (h *DedupHandler) ServeRADIUS(ctx context.Context, r *Request) (*packet.Packet, error) {
	key := dedupKey(r)

	h.mu.Lock()
	entry, ok := h.entries[key]
	h.mu.Unlock()

	if ok {
		h.logger.Debugf("duplicate %s id %d from %s, replaying cached %s",
			r.Code(), r.Packet.Identifier(), r.Client, entry.response.Code())
		return entry.response, nil
	}

	resp, err := h.next.ServeRADIUS(ctx, r)
	if err != nil || resp == nil {
		return resp, err
	}

	if resp, err = echoProxyState(r.Packet, resp); err != nil {
		return nil, err
	}

	// encoding here makes the replay byte-identical, the server's encode of an
	// encoded response is a no-op
	encoded, err := resp.EncodeResponse(r.Client.Secret, r.Packet.Authenticator(), packet.WithLogger(h.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to encode cached response: %w", err)
	}

	entry = &dedupEntry{response: encoded}

	h.mu.Lock()
	if _, exists := h.entries[key]; !exists {
		h.entries[key] = entry
		entry.timeout = h.wheel.Schedule(h.ttl, func() {
			h.evict(key, entry)
		})
	}
	h.mu.Unlock()

	return encoded, nil
}

func (h *DedupHandler) evict(key string, entry *dedupEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.entries[key] == entry {
		delete(h.entries, key)
	}
}

// Len returns the number of cached responses.
func (h *DedupHandler) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Close drops every entry and stops an owned wheel.
func (h *DedupHandler) Close() {
	h.mu.Lock()
	entries := h.entries
	h.entries = make(map[string]*dedupEntry)
	h.mu.Unlock()

	for _, e := range entries {
		e.timeout.Cancel()
	}
	if h.ownWheel {
		h.wheel.Stop()
	}
}

func dedupKey(r *Request) string {
	return fmt.Sprintf("%d|%s|%s", r.Packet.Identifier(), r.Client, hex.EncodeToString(r.Packet.Authenticator()))
}

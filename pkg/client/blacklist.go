package client

import (
	"net"
	"sync"
	"time"
)

const (
	DefaultBlacklistThreshold = 3
	DefaultBlacklistTTL       = 60 * time.Second
)

type blacklistEntry struct {
	failures int
	until    time.Time
}

// Blacklist stops sending to endpoints that keep failing.
// After threshold consecutive failures an address is skipped for ttl.
// A success resets the count. Safe for concurrent use.
type Blacklist struct {
	threshold int
	ttl       time.Duration
	now       func() time.Time

	mu      sync.Mutex
	entries map[string]*blacklistEntry
}

// NewBlacklist creates a blacklist. Non-positive values select the defaults.
func NewBlacklist(threshold int, ttl time.Duration) *Blacklist {
	if threshold <= 0 {
		threshold = DefaultBlacklistThreshold
	}
	if ttl <= 0 {
		ttl = DefaultBlacklistTTL
	}
	return &Blacklist{
		threshold: threshold,
		ttl:       ttl,
		now:       time.Now,
		entries:   make(map[string]*blacklistEntry),
	}
}

// Blacklisted reports whether addr is currently skipped.
// A nil blacklist never skips.
func (b *Blacklist) Blacklisted(addr net.Addr) bool {
	if b == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	key := addrKey(addr)
	e, ok := b.entries[key]
	if !ok || e.until.IsZero() {
		return false
	}
	if b.now().Before(e.until) {
		return true
	}
	// expired: give the endpoint another chance but remember it failed before
	e.until = time.Time{}
	e.failures = b.threshold - 1
	return false
}

// Failure records a failed exchange and reports whether addr is now blacklisted.
func (b *Blacklist) Failure(addr net.Addr) bool {
	if b == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	key := addrKey(addr)
	e, ok := b.entries[key]
	if !ok {
		e = &blacklistEntry{}
		b.entries[key] = e
	}
	e.failures++
	if e.failures >= b.threshold {
		e.until = b.now().Add(b.ttl)
		return true
	}
	return false
}

// Success clears the failure history of addr.
func (b *Blacklist) Success(addr net.Addr) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, addrKey(addr))
}

// Len returns the number of currently blacklisted addresses.
func (b *Blacklist) Len() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	n := 0
	for _, e := range b.entries {
		if !e.until.IsZero() && now.Before(e.until) {
			n++
		}
	}
	return n
}

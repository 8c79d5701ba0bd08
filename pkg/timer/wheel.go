// Package timer provides a hashed timer wheel shared by the client retry
// logic and the server response cache.
package timer

import (
	"context"
	"sync"
	"time"

	"github.com/vitalvas/radkit/pkg/log"
)

const (
	// DefaultTick is the default wheel resolution.
	DefaultTick = 10 * time.Millisecond
	// DefaultSlots is the default number of buckets.
	DefaultSlots = 512
)

type state int

const (
	statePending state = iota
	stateCancelled
	stateExpired
)

// Timeout is a handle to a scheduled callback.
type Timeout struct {
	wheel  *Wheel
	fn     func()
	slot   int
	rounds int
	state  state
}

// Cancel prevents the callback from running.
// It returns false when the callback already ran or was cancelled before.
func (t *Timeout) Cancel() bool {
	if t == nil || t.wheel == nil {
		return false
	}
	w := t.wheel
	w.mu.Lock()
	defer w.mu.Unlock()

	if t.state != statePending {
		return false
	}
	t.state = stateCancelled
	delete(w.buckets[t.slot], t)
	w.pending--
	return true
}

// Cancelled reports whether the timeout was cancelled.
func (t *Timeout) Cancelled() bool {
	if t == nil || t.wheel == nil {
		return true
	}
	t.wheel.mu.Lock()
	defer t.wheel.mu.Unlock()
	return t.state == stateCancelled
}

// Option configures a Wheel.
type Option func(*Wheel)

// WithLogger sets the wheel logger.
func WithLogger(logger log.Logger) Option {
	return func(w *Wheel) {
		w.logger = logger
	}
}

// Wheel schedules many short-lived callbacks on one goroutine.
// Delays are rounded up to whole ticks. Callbacks run on the wheel
// goroutine and must not block or call Stop.
type Wheel struct {
	tick    time.Duration
	buckets []map[*Timeout]struct{}
	logger  log.Logger

	mu      sync.Mutex
	cursor  int
	pending int
	stopped bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewWheel creates and starts a wheel. Non-positive values select the defaults.
func NewWheel(tick time.Duration, slots int, opts ...Option) *Wheel {
	if tick <= 0 {
		tick = DefaultTick
	}
	if slots <= 0 {
		slots = DefaultSlots
	}

	w := &Wheel{
		tick:    tick,
		buckets: make([]map[*Timeout]struct{}, slots),
		done:    make(chan struct{}),
	}
	for i := range w.buckets {
		w.buckets[i] = make(map[*Timeout]struct{})
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = log.OrDiscard(w.logger)

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	go w.run(ctx)

	return w
}

// Schedule runs fn once after delay. A delay of zero runs fn on the next tick.
// Scheduling on a stopped wheel returns a cancelled timeout.
func (w *Wheel) Schedule(delay time.Duration, fn func()) *Timeout {
	ticks := int((delay + w.tick - 1) / w.tick)
	if ticks < 1 {
		ticks = 1
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	t := &Timeout{wheel: w, fn: fn}
	if w.stopped {
		t.state = stateCancelled
		w.logger.Debug("timer wheel stopped, timeout not scheduled")
		return t
	}

	slots := len(w.buckets)
	t.slot = (w.cursor + ticks) % slots
	t.rounds = (ticks - 1) / slots
	w.buckets[t.slot][t] = struct{}{}
	w.pending++
	return t
}

// Pending returns the number of scheduled callbacks that have neither run nor been cancelled.
func (w *Wheel) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pending
}

// Stop halts the wheel and cancels every pending timeout.
// It returns the number of timeouts that were cancelled.
func (w *Wheel) Stop() int {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		<-w.done
		return 0
	}
	w.stopped = true

	n := 0
	for _, bucket := range w.buckets {
		for t := range bucket {
			t.state = stateCancelled
			delete(bucket, t)
			n++
		}
	}
	w.pending = 0
	w.mu.Unlock()

	w.cancel()
	<-w.done
	return n
}

func (w *Wheel) run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, t := range w.advance() {
				w.fire(t)
			}
		}
	}
}

// advance moves the cursor one slot and collects the expired timeouts.
func (w *Wheel) advance() []*Timeout {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.cursor = (w.cursor + 1) % len(w.buckets)
	bucket := w.buckets[w.cursor]

	var expired []*Timeout
	for t := range bucket {
		if t.rounds > 0 {
			t.rounds--
			continue
		}
		t.state = stateExpired
		delete(bucket, t)
		w.pending--
		expired = append(expired, t)
	}
	return expired
}

func (w *Wheel) fire(t *Timeout) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Errorf("timeout callback panicked: %v", r)
		}
	}()
	t.fn()
}

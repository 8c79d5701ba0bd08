package client

import (
	"context"
	"sync"

	"github.com/vitalvas/radkit/pkg/packet"
)

// Future is the deferred result of Communicate. It completes exactly once.
type Future struct {
	done chan struct{}

	mu        sync.Mutex
	completed bool
	resp      *packet.Packet
	err       error
	cancel    func()
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Done is closed once the result is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the result is available or ctx ends.
// When ctx ends first the request is abandoned and the context error returned.
func (f *Future) Wait(ctx context.Context) (*packet.Packet, error) {
	select {
	case <-f.done:
	case <-ctx.Done():
		f.Cancel(ctx.Err())
	}
	return f.Result()
}

// Result returns the outcome without blocking, ErrPending before completion.
func (f *Future) Result() (*packet.Packet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.completed {
		return nil, ErrPending
	}
	return f.resp, f.err
}

// Cancel fails the future with cause and stops the in-flight request.
// It returns false when the future had already completed.
func (f *Future) Cancel(cause error) bool {
	f.mu.Lock()
	if f.completed {
		f.mu.Unlock()
		return false
	}
	cancel := f.cancel
	f.finishLocked(nil, cause)
	f.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	return true
}

func (f *Future) complete(resp *packet.Packet, err error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completed {
		return false
	}
	f.finishLocked(resp, err)
	return true
}

func (f *Future) finishLocked(resp *packet.Packet, err error) {
	f.completed = true
	f.resp = resp
	f.err = err
	f.cancel = nil
	close(f.done)
}

// setCancel installs the hook that stops the current attempt.
// It returns false when the future already completed.
func (f *Future) setCancel(fn func()) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completed {
		return false
	}
	f.cancel = fn
	return true
}

func (f *Future) isDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

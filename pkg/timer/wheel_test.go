package timer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRuns(t *testing.T) {
	w := NewWheel(time.Millisecond, 8)
	defer w.Stop()

	done := make(chan struct{})
	w.Schedule(5*time.Millisecond, func() { close(done) })
	assert.Equal(t, 1, w.Pending())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout did not fire")
	}
	assert.Eventually(t, func() bool { return w.Pending() == 0 }, time.Second, time.Millisecond)
}

func TestZeroDelayRunsOnNextTick(t *testing.T) {
	w := NewWheel(time.Millisecond, 4)
	defer w.Stop()

	done := make(chan struct{})
	w.Schedule(0, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout did not fire")
	}
}

func TestDelayLongerThanOneRevolution(t *testing.T) {
	w := NewWheel(time.Millisecond, 4)
	defer w.Stop()

	start := time.Now()
	done := make(chan time.Duration, 1)
	w.Schedule(20*time.Millisecond, func() { done <- time.Since(start) })

	select {
	case elapsed := <-done:
		assert.GreaterOrEqual(t, elapsed, 15*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("timeout did not fire")
	}
}

func TestCancel(t *testing.T) {
	w := NewWheel(time.Millisecond, 8)
	defer w.Stop()

	var fired atomic.Bool
	timeout := w.Schedule(10*time.Millisecond, func() { fired.Store(true) })

	assert.True(t, timeout.Cancel())
	assert.False(t, timeout.Cancel())
	assert.True(t, timeout.Cancelled())
	assert.Equal(t, 0, w.Pending())

	time.Sleep(30 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestCancelAfterFire(t *testing.T) {
	w := NewWheel(time.Millisecond, 8)
	defer w.Stop()

	done := make(chan struct{})
	timeout := w.Schedule(time.Millisecond, func() { close(done) })
	<-done

	assert.False(t, timeout.Cancel())
	assert.False(t, timeout.Cancelled())
}

func TestStopCancelsPending(t *testing.T) {
	w := NewWheel(time.Millisecond, 8)

	var fired atomic.Int32
	for i := 0; i < 5; i++ {
		w.Schedule(time.Hour, func() { fired.Add(1) })
	}
	require.Equal(t, 5, w.Pending())

	assert.Equal(t, 5, w.Stop())
	assert.Equal(t, 0, w.Pending())
	assert.Equal(t, 0, w.Stop())

	late := w.Schedule(0, func() { fired.Add(1) })
	assert.True(t, late.Cancelled())
	assert.Equal(t, int32(0), fired.Load())
}

func TestCallbackPanicDoesNotStopWheel(t *testing.T) {
	w := NewWheel(time.Millisecond, 8)
	defer w.Stop()

	w.Schedule(time.Millisecond, func() { panic("boom") })

	done := make(chan struct{})
	w.Schedule(3*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("wheel stopped after panic")
	}
}

func TestRescheduleFromCallback(t *testing.T) {
	w := NewWheel(time.Millisecond, 8)
	defer w.Stop()

	var count atomic.Int32
	done := make(chan struct{})
	var step func()
	step = func() {
		if count.Add(1) == 3 {
			close(done)
			return
		}
		w.Schedule(time.Millisecond, step)
	}
	w.Schedule(time.Millisecond, step)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("chained timeouts did not complete")
	}
	assert.Equal(t, int32(3), count.Load())
}

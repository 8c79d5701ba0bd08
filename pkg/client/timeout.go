package client

import "time"

// TimeoutHandler is the retry policy of a request sent to one endpoint.
type TimeoutHandler interface {
	// MaxAttempts is the number of transmissions before giving up on the endpoint.
	MaxAttempts() int
	// Delay is how long to wait for a response after the given attempt, starting at 1.
	Delay(attempt int) time.Duration
}

const (
	DefaultAttempts = 3
	DefaultTimeout  = 3 * time.Second
)

// FixedTimeoutHandler waits the same time after every attempt.
type FixedTimeoutHandler struct {
	Attempts int
	Timeout  time.Duration
}

func (h FixedTimeoutHandler) MaxAttempts() int {
	if h.Attempts < 1 {
		return 1
	}
	return h.Attempts
}

func (h FixedTimeoutHandler) Delay(int) time.Duration {
	if h.Timeout < 0 {
		return 0
	}
	return h.Timeout
}

// BackoffTimeoutHandler multiplies the wait after each attempt, up to Max.
type BackoffTimeoutHandler struct {
	Attempts   int
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

func (h BackoffTimeoutHandler) MaxAttempts() int {
	if h.Attempts < 1 {
		return 1
	}
	return h.Attempts
}

func (h BackoffTimeoutHandler) Delay(attempt int) time.Duration {
	multiplier := h.Multiplier
	if multiplier < 1 {
		multiplier = 2
	}

	delay := float64(h.Initial)
	for i := 1; i < attempt; i++ {
		delay *= multiplier
		if h.Max > 0 && delay >= float64(h.Max) {
			return h.Max
		}
	}
	if h.Max > 0 && delay > float64(h.Max) {
		return h.Max
	}
	return time.Duration(delay)
}

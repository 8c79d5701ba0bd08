package client

import (
	"errors"
	"fmt"
)

var (
	ErrNoEndpoints         = errors.New("client send failed - no valid endpoints")
	ErrAllEndpointsFailed  = errors.New("client send failed - all endpoints failed")
	ErrTimeout             = errors.New("client send timeout")
	ErrEndpointBlacklisted = errors.New("endpoint blacklisted")
	ErrClientClosed        = errors.New("client closed")
	ErrPending             = errors.New("result not available yet")
)

// TimeoutError reports a request that got no valid response after every attempt.
// It matches ErrTimeout with errors.Is.
type TimeoutError struct {
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("client send timeout - max attempts reached: %d", e.Attempts)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

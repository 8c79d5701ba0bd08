package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vitalvas/radkit/pkg/packet"
)

// HealthStatus is the last probe outcome of one endpoint.
type HealthStatus struct {
	Address      string
	Healthy      bool
	LastCheck    time.Time
	FailureCount int64
	RTT          time.Duration
}

func (h HealthStatus) String() string {
	status := "unhealthy"
	if h.Healthy {
		status = "healthy"
	}

	return fmt.Sprintf("Server %s is %s (failures: %d, last check: %v)",
		h.Address, status, h.FailureCount, h.LastCheck)
}

// HealthChecker probes endpoints with Status-Server on an interval.
// Probes ignore the blacklist, so a recovered endpoint is cleared from it
// before its TTL runs out.
type HealthChecker struct {
	client    *Client
	endpoints []Endpoint
	interval  time.Duration
	timeout   time.Duration

	mu     sync.RWMutex
	status map[string]*HealthStatus

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewHealthChecker creates a health checker. Call Start to begin probing.
func NewHealthChecker(client *Client, endpoints []Endpoint, interval, timeout time.Duration) *HealthChecker {
	ctx, cancel := context.WithCancel(context.Background())

	status := make(map[string]*HealthStatus, len(endpoints))
	for _, ep := range endpoints {
		status[addrKey(ep.Addr)] = &HealthStatus{Address: ep.String(), Healthy: true}
	}

	return &HealthChecker{
		client:    client,
		endpoints: endpoints,
		interval:  interval,
		timeout:   timeout,
		status:    status,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start runs an initial probe round and then one per interval.
func (h *HealthChecker) Start() error {
	if h.interval <= 0 {
		return fmt.Errorf("health check interval must be positive, got %v", h.interval)
	}

	h.wg.Add(1)
	go h.healthCheckRoutine()

	return nil
}

// Stop ends probing and waits for the running round.
func (h *HealthChecker) Stop() error {
	h.cancel()
	h.wg.Wait()

	return nil
}

func (h *HealthChecker) healthCheckRoutine() {
	defer h.wg.Done()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.CheckAll()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-ticker.C:
			h.CheckAll()
		}
	}
}

// CheckAll probes every endpoint concurrently and waits for the results.
func (h *HealthChecker) CheckAll() {
	var wg sync.WaitGroup
	for _, ep := range h.endpoints {
		wg.Add(1)
		go func(ep Endpoint) {
			defer wg.Done()
			h.checkEndpoint(ep)
		}(ep)
	}
	wg.Wait()
}

func (h *HealthChecker) checkEndpoint(ep Endpoint) {
	ctx, cancel := context.WithTimeout(h.ctx, h.timeout)
	defer cancel()

	start := time.Now()
	err := h.sendProbe(ctx, ep)
	rtt := time.Since(start)

	h.mu.Lock()
	defer h.mu.Unlock()

	state := h.status[addrKey(ep.Addr)]
	state.LastCheck = time.Now()

	if err != nil {
		state.FailureCount++
		if state.Healthy {
			state.Healthy = false
			h.client.logger.Warnf("Server %s marked as unhealthy: %v", ep, err)
		}
		return
	}

	if !state.Healthy {
		h.client.logger.Infof("Server %s marked as healthy", ep)
	}
	state.Healthy = true
	state.FailureCount = 0
	state.RTT = rtt
}

func (h *HealthChecker) sendProbe(ctx context.Context, ep Endpoint) error {
	req, err := h.client.BuildRequest(packet.CodeStatusServer, nil)
	if err != nil {
		return err
	}
	_, err = h.client.probe(ctx, req, ep)
	if errors.Is(err, context.DeadlineExceeded) {
		h.client.blacklist.Failure(ep.Addr)
	}
	return err
}

// Status returns a snapshot keyed by endpoint address.
func (h *HealthChecker) Status() map[string]HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make(map[string]HealthStatus, len(h.status))
	for _, s := range h.status {
		out[s.Address] = *s
	}
	return out
}

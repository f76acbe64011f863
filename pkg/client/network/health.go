// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package network

import (
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// NodeBackoff configures how long an unhealthy node is avoided.
type NodeBackoff struct {
	MinBackoff time.Duration
	MaxBackoff time.Duration

	// MaxAttempts is the number of consecutive failures after which a node
	// is considered dead. Zero means unlimited.
	MaxAttempts int
}

// DefaultNodeBackoff is 250ms growing to an hour, for 10 attempts.
var DefaultNodeBackoff = NodeBackoff{
	MinBackoff:  250 * time.Millisecond,
	MaxBackoff:  time.Hour,
	MaxAttempts: 10,
}

// RecentlyPingedWindow is how long a successful request counts as a ping.
const RecentlyPingedWindow = 15 * time.Minute

// HealthState is the state of a node as observed by this client.
type HealthState int

const (
	// HealthUnused means the node has never been used. It is considered
	// healthy but not recently pinged.
	HealthUnused HealthState = iota

	// HealthUnhealthy means the last request to the node failed. The node is
	// avoided until its backoff expires; repeated failures increase the
	// backoff.
	HealthUnhealthy

	// HealthHealthy means the last request to the node succeeded.
	HealthHealthy
)

func (s HealthState) String() string {
	switch s {
	case HealthUnused:
		return "unused"
	case HealthUnhealthy:
		return "unhealthy"
	case HealthHealthy:
		return "healthy"
	}
	return "invalid"
}

// nodeHealth tracks the health of one node. It is shared by every request
// using the node, so all access goes through the mutex.
type nodeHealth struct {
	mu        sync.RWMutex
	state     HealthState
	backoff   *backoff.ExponentialBackOff
	healthyAt time.Time
	usedAt    time.Time
	attempts  int
}

func (h *nodeHealth) markUnhealthy(cfg NodeBackoff, now time.Time) (time.Duration, int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Preserve the backoff of a node that is already unhealthy
	if h.state != HealthUnhealthy || h.backoff == nil {
		h.backoff = backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(cfg.MinBackoff),
			backoff.WithMaxInterval(cfg.MaxBackoff),
			backoff.WithMaxElapsedTime(0),
		)
		h.attempts = 0
	}

	h.attempts++
	if cfg.MaxAttempts > 0 && h.attempts > cfg.MaxAttempts {
		slog.Debug("Node has reached the maximum number of attempts", "attempts", h.attempts, "module", "network")
	}

	next := h.backoff.NextBackOff()
	h.state = HealthUnhealthy
	h.healthyAt = now.Add(next)
	return next, h.attempts
}

func (h *nodeHealth) markHealthy(now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = HealthHealthy
	h.usedAt = now
	h.backoff = nil
	h.attempts = 0
}

func (h *nodeHealth) isHealthy(now time.Time) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.state == HealthUnhealthy {
		return h.healthyAt.Before(now)
	}
	return true
}

func (h *nodeHealth) recentlyPinged(now time.Time) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	switch h.state {
	case HealthHealthy:
		return now.Before(h.usedAt.Add(RecentlyPingedWindow))
	case HealthUnhealthy:
		// We got *something* from the node, even if we do not want to use it
		return now.Before(h.healthyAt)
	default:
		return false
	}
}

func (h *nodeHealth) snapshot() HealthState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

package monitor

import (
	"sync"
	"time"
)

// Cooldown is the per-vendor rate limiter. It is keyed by vendor name, not
// transaction id: the point is to bound volume from a noisy counterparty,
// not to dedup individual events (SeenSet does that).
type Cooldown struct {
	mu   sync.Mutex
	last map[string]time.Time
}

// NewCooldown creates an empty cooldown ledger.
func NewCooldown() *Cooldown {
	return &Cooldown{last: make(map[string]time.Time)}
}

// Permits reports whether a notification for vendor may be sent at now,
// given the configured window. A vendor that has never notified is always
// permitted.
func (c *Cooldown) Permits(vendor string, now time.Time, window time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	last, ok := c.last[vendor]
	if !ok {
		return true
	}
	return now.Sub(last) >= window
}

// Record stores the time of a successful notification. Call only after the
// sink accepted the alert; a failed attempt must not start the window.
func (c *Cooldown) Record(vendor string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last[vendor] = now
}

// Restore seeds the ledger from persisted state.
func (c *Cooldown) Restore(entries map[string]time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for vendor, at := range entries {
		c.last[vendor] = at
	}
}

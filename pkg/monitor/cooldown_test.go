package monitor_test

import (
	"testing"
	"time"

	"github.com/aviu16/mercury-bot/pkg/monitor"
	"github.com/stretchr/testify/assert"
)

func TestCooldown_UnknownVendorPermitted(t *testing.T) {
	c := monitor.NewCooldown()
	assert.True(t, c.Permits("AWS", time.Now(), 5*time.Minute))
}

func TestCooldown_WindowEnforced(t *testing.T) {
	c := monitor.NewCooldown()
	window := 300 * time.Second
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	c.Record("AWS", start)

	// 60 seconds later: still cooling down.
	assert.False(t, c.Permits("AWS", start.Add(60*time.Second), window))
	// Exactly at the boundary: permitted.
	assert.True(t, c.Permits("AWS", start.Add(300*time.Second), window))
	// Well past: permitted.
	assert.True(t, c.Permits("AWS", start.Add(400*time.Second), window))
	// Other vendors unaffected.
	assert.True(t, c.Permits("Stripe", start.Add(time.Second), window))
}

func TestCooldown_Restore(t *testing.T) {
	c := monitor.NewCooldown()
	last := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.Restore(map[string]time.Time{"AWS": last})

	assert.False(t, c.Permits("AWS", last.Add(time.Minute), 5*time.Minute))
	assert.True(t, c.Permits("AWS", last.Add(10*time.Minute), 5*time.Minute))
}

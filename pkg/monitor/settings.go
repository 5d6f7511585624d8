package monitor

import (
	"sync"

	"github.com/aviu16/mercury-bot/pkg/model"
)

// Settings holds the mutable notification settings. The dispatcher reads a
// snapshot per transaction; runtime controls (CLI, HTTP API) mutate it.
type Settings struct {
	mu      sync.RWMutex
	current model.NotificationSettings
}

// NewSettings wraps an initial settings value.
func NewSettings(initial model.NotificationSettings) *Settings {
	return &Settings{current: initial}
}

// Get returns a snapshot of the current settings.
func (s *Settings) Get() model.NotificationSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set replaces the settings wholesale.
func (s *Settings) Set(next model.NotificationSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = next
}

// Update applies fn to the settings under the lock and returns the result.
func (s *Settings) Update(fn func(*model.NotificationSettings)) model.NotificationSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.current)
	return s.current
}

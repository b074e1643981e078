package services

import (
	"sync"
)

// RunGuard is the mutual-exclusion flag shared by the campaign and keyword
// optimization passes. A trigger that arrives while a pass is active is
// skipped, not queued.
type RunGuard struct {
	mu      sync.Mutex
	running bool
}

func NewRunGuard() *RunGuard {
	return &RunGuard{}
}

// TryAcquire claims the guard, returning false if a pass is already active
func (g *RunGuard) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		return false
	}
	g.running = true
	return true
}

// Release clears the guard
func (g *RunGuard) Release() {
	g.mu.Lock()
	g.running = false
	g.mu.Unlock()
}

// IsRunning reports whether a pass is currently active
func (g *RunGuard) IsRunning() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}

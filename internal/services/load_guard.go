package services

import "sync"

// LoadGuard serializes view refreshes issued concurrently, e.g. an order-list
// reload racing an auth-state change. Every load captures a generation at
// start; only the load holding the latest generation may commit, so a slow,
// superseded request can never overwrite state written by a newer one.
type LoadGuard struct {
	mu  sync.Mutex
	gen uint64
}

// Begin starts a new load and invalidates all earlier ones.
func (g *LoadGuard) Begin() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gen++
	return g.gen
}

// Commit runs fn only if gen is still the latest. Reports whether it ran.
func (g *LoadGuard) Commit(gen uint64, fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if gen != g.gen {
		return false
	}
	fn()
	return true
}

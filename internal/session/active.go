package session

import "sync"

// ActiveState is a thread-safe holder for the focused node identifier,
// shared between the external setter (CLI flag, serve surface) and the
// session's active-node resolver.
type ActiveState struct {
	mu sync.RWMutex
	id string
	ok bool
}

// Set records the focused identifier. An empty identifier clears the
// focus.
func (a *ActiveState) Set(id string) {
	a.mu.Lock()
	a.id = id
	a.ok = id != ""
	a.mu.Unlock()
}

// Get returns the focused identifier, if any.
func (a *ActiveState) Get() (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.id, a.ok
}

// Resolver returns an ActiveFunc reading this state.
func (a *ActiveState) Resolver() ActiveFunc {
	return a.Get
}

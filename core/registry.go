package core

import "sync"

// registry maps event names to their handlers in registration order.
// Created empty at dispatcher construction, mutated only by On/Off, and
// never shared across dispatcher instances.
type registry struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func newRegistry() *registry {
	return &registry{handlers: make(map[string][]Handler)}
}

// add appends h to the entry for name, creating it if absent.
// Registering the same handler twice is allowed and results in two
// invocations per trigger.
func (r *registry) add(name string, h Handler) {
	r.mu.Lock()
	r.handlers[name] = append(r.handlers[name], h)
	r.mu.Unlock()
}

// remove drops every handler registered for name.
func (r *registry) remove(name string) {
	r.mu.Lock()
	delete(r.handlers, name)
	r.mu.Unlock()
}

// get returns a snapshot of the handlers for name, in registration order.
func (r *registry) get(name string) []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	hs := r.handlers[name]
	if len(hs) == 0 {
		return nil
	}
	out := make([]Handler, len(hs))
	copy(out, hs)
	return out
}

package event

import (
	"sort"
	"sync"
)

// listener is one registration of a handler for one event name.
type listener struct {
	subID   string
	handler Handler
}

// Registry maps event names to their listeners in registration order.
// It is thread-safe for concurrent access.
type Registry struct {
	mu        sync.RWMutex
	listeners map[string][]listener
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		listeners: make(map[string][]listener),
	}
}

// add appends a listener for name. Duplicates are kept.
func (r *Registry) add(name string, l listener) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.listeners[name] = append(r.listeners[name], l)
}

// Remove removes every listener registered under subID.
// Returns true if at least one listener was removed.
func (r *Registry) Remove(subID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := false
	for name, ls := range r.listeners {
		kept := ls[:0:0]
		for _, l := range ls {
			if l.subID == subID {
				removed = true
				continue
			}
			kept = append(kept, l)
		}

		// Clean up empty names
		if len(kept) == 0 {
			delete(r.listeners, name)
		} else {
			r.listeners[name] = kept
		}
	}
	return removed
}

// match returns the listeners for name.
// Returns a copy so handlers may change the registry during an emit.
func (r *Registry) match(name string) []listener {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ls := r.listeners[name]
	if len(ls) == 0 {
		return nil
	}

	result := make([]listener, len(ls))
	copy(result, ls)
	return result
}

// Count returns the number of listeners for name.
func (r *Registry) Count(name string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.listeners[name])
}

// CountAll returns the number of listeners across all names.
func (r *Registry) CountAll() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, ls := range r.listeners {
		n += len(ls)
	}
	return n
}

// Names returns the event names with at least one listener, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.listeners))
	for name := range r.listeners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a copy of the registry that shares no slices with r.
// Handlers themselves are shared.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clone := NewRegistry()
	for name, ls := range r.listeners {
		cp := make([]listener, len(ls))
		copy(cp, ls)
		clone.listeners[name] = cp
	}
	return clone
}

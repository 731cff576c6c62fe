package audit

import "sync"

// Ring is a capped, append-only buffer with FIFO eviction: once the cap is
// reached, appending evicts the oldest entry.
type Ring[T any] struct {
	mu    sync.RWMutex
	items []T
	cap   int
}

// NewRing creates a Ring with the given capacity.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Ring[T]{
		items: make([]T, 0, capacity),
		cap:   capacity,
	}
}

// Append adds an item, evicting the oldest when at capacity.
func (r *Ring[T]) Append(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.items) >= r.cap {
		copy(r.items, r.items[1:])
		r.items[len(r.items)-1] = item
		return
	}
	r.items = append(r.items, item)
}

// Len returns the current number of items.
func (r *Ring[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Cap returns the ring's capacity.
func (r *Ring[T]) Cap() int {
	return r.cap
}

// Items returns a snapshot of the items, oldest first.
func (r *Ring[T]) Items() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]T, len(r.items))
	copy(snapshot, r.items)
	return snapshot
}

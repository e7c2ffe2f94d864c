package utils

import (
	"sync"
	"time"
)

// entry pairs a stored value with its expiry deadline.
type entry[V any] struct {
	value    V
	deadline time.Time
}

// TTLMap is a thread-safe map whose entries expire after a fixed duration.
// Expired entries stop being visible immediately and are physically removed
// lazily, whenever a write touches the map after a sweep interval has
// passed. There is no background goroutine, so an idle map costs nothing.
type TTLMap[K comparable, V any] struct {
	mu        sync.RWMutex
	entries   map[K]entry[V]
	ttl       time.Duration
	nextSweep time.Time
}

// NewTTLMap creates a TTLMap whose entries live for ttl after each Set.
func NewTTLMap[K comparable, V any](ttl time.Duration) *TTLMap[K, V] {
	return &TTLMap[K, V]{
		entries:   make(map[K]entry[V]),
		ttl:       ttl,
		nextSweep: time.Now().Add(ttl),
	}
}

// Get returns the live value for key, if any. Expired entries read as absent.
func (m *TTLMap[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok || time.Now().After(e.deadline) {
		var zero V
		return zero, false
	}

	return e.value, true
}

// Set stores value under key and resets its expiry deadline.
func (m *TTLMap[K, V]) Set(key K, value V) {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = entry[V]{value: value, deadline: now.Add(m.ttl)}

	if now.After(m.nextSweep) {
		m.sweepLocked(now)
	}
}

// Delete removes key from the map.
func (m *TTLMap[K, V]) Delete(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
}

// Len reports the number of live entries.
func (m *TTLMap[K, V]) Len() int {
	now := time.Now()

	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0

	for _, e := range m.entries {
		if !now.After(e.deadline) {
			count++
		}
	}

	return count
}

// sweepLocked drops expired entries. Caller must hold the write lock.
func (m *TTLMap[K, V]) sweepLocked(now time.Time) {
	for key, e := range m.entries {
		if now.After(e.deadline) {
			delete(m.entries, key)
		}
	}

	m.nextSweep = now.Add(m.ttl)
}

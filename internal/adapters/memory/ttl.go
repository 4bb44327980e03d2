// Package memory provides process-local adapters used when Redis is not configured.
package memory

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// ttlMap is a mutex-guarded map whose entries expire. Expired entries are
// dropped on access and by a sweep that runs at most once per sweepEvery.
type ttlMap[V any] struct {
	mu         sync.Mutex
	items      map[string]entry[V]
	now        func() time.Time
	lastSweep  time.Time
	sweepEvery time.Duration
}

func newTTLMap[V any](now func() time.Time) *ttlMap[V] {
	if now == nil {
		now = time.Now
	}
	return &ttlMap[V]{
		items:      make(map[string]entry[V]),
		now:        now,
		sweepEvery: time.Minute,
	}
}

func (m *ttlMap[V]) get(key string) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	e, ok := m.items[key]
	if !ok {
		return zero, false
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.items, key)
		return zero, false
	}
	return e.value, true
}

func (m *ttlMap[V]) set(key string, v V, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	m.items[key] = entry[V]{value: v, expiresAt: m.now().Add(ttl)}
}

// setNX stores v only when key is absent or expired.
func (m *ttlMap[V]) setNX(key string, v V, ttl time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()

	now := m.now()
	if e, ok := m.items[key]; ok && now.Before(e.expiresAt) {
		return false
	}
	m.items[key] = entry[V]{value: v, expiresAt: now.Add(ttl)}
	return true
}

func (m *ttlMap[V]) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *ttlMap[V]) sweepLocked() {
	now := m.now()
	if now.Sub(m.lastSweep) < m.sweepEvery {
		return
	}
	m.lastSweep = now
	for k, e := range m.items {
		if !now.Before(e.expiresAt) {
			delete(m.items, k)
		}
	}
}

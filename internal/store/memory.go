// internal/store/memory.go
//
// In-memory implementation of KV.
// Used in tests and when STORE_BACKEND=memory; state is lost on restart.
//
// Characteristics:
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Expired entries are hidden on read and dropped lazily on the next write.
//   - Values are copied in and out so callers cannot alias stored bytes.

package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type memEntry struct {
	value     []byte
	expiresAt time.Time // zero = never
}

// memory is an in-memory map-based KV implementation.
type memory struct {
	mu      sync.RWMutex        // guards entries
	entries map[string]memEntry // keyed by full key
	now     func() time.Time    // overridable in tests
}

// NewMemory constructs a new in-memory KV.
func NewMemory() KV {
	return &memory{entries: make(map[string]memEntry), now: time.Now}
}

func (m *memory) live(e memEntry, now time.Time) bool {
	return e.expiresAt.IsZero() || now.Before(e.expiresAt)
}

// Get looks up a key, treating expired entries as missing.
func (m *memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	if !ok || !m.live(e, m.now()) {
		return nil, ErrNotFound
	}
	return append([]byte(nil), e.value...), nil
}

// Set adds or replaces a key.
func (m *memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweep(now)
	e := memEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	m.entries[key] = e
	return nil
}

// Delete removes a key.
func (m *memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Keys lists live keys with the given prefix.
func (m *memory) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := m.now()
	var out []string
	for k, e := range m.entries {
		if strings.HasPrefix(k, prefix) && m.live(e, now) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Close is a no-op.
func (m *memory) Close() error { return nil }

// sweep drops expired entries. Caller holds the write lock.
func (m *memory) sweep(now time.Time) {
	for k, e := range m.entries {
		if !m.live(e, now) {
			delete(m.entries, k)
		}
	}
}

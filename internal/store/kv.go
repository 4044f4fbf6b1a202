// internal/store/kv.go
//
// Durable key-value persistence used for sessions, per-scope settings and
// leaderboard tables.
//
// Backends:
//   - memory: map + RWMutex, lost on restart (tests, development).
//   - badger: embedded LSM store with native per-entry TTL (default).
//   - sqlite: single table with an expires_at column.
//
// All backends share the same contract: Get returns ErrNotFound for missing or
// expired keys, Set with ttl <= 0 never expires, Keys lists live keys by prefix
// in lexical order.

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by KV.Get for absent or expired keys.
var ErrNotFound = errors.New("not found")

// KV is the durable key-value collaborator.
type KV interface {
	// Get returns the stored value or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists live keys starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close releases backend resources.
	Close() error
}

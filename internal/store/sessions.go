package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/guessbot/internal/game"
)

// Sessions persists one game session per scope.
//
// Every Save rewrites the absolute expiry: active sessions get TTL, finished
// sessions get FinishedTTL so they are evicted shortly after the game ends.
// Nothing is cached; each call round-trips to the KV.
type Sessions struct {
	kv          KV
	keys        Keys
	ttl         time.Duration
	finishedTTL time.Duration
}

// NewSessions constructs a session store over kv.
func NewSessions(kv KV, keys Keys, ttl, finishedTTL time.Duration) *Sessions {
	return &Sessions{kv: kv, keys: keys, ttl: ttl, finishedTTL: finishedTTL}
}

// Get returns the stored session for scope, or nil if there is none.
func (s *Sessions) Get(ctx context.Context, scope string) (*game.Session, error) {
	b, err := s.kv.Get(ctx, s.keys.For(KindGame, scope))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess game.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", scope, err)
	}
	return &sess, nil
}

// Save writes sess under its scope and refreshes its expiry.
func (s *Sessions) Save(ctx context.Context, sess *game.Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.Scope, err)
	}
	ttl := s.ttl
	if sess.Finished {
		ttl = s.finishedTTL
	}
	return s.kv.Set(ctx, s.keys.For(KindGame, sess.Scope), b, ttl)
}

// Delete removes the session for scope.
func (s *Sessions) Delete(ctx context.Context, scope string) error {
	return s.kv.Delete(ctx, s.keys.For(KindGame, scope))
}

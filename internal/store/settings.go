package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// Settings holds per-scope preferences: selected word bank, selected
// equation category and whether the games are enabled at all. Values never
// expire.
type Settings struct {
	kv   KV
	keys Keys
}

// NewSettings constructs a settings store over kv.
func NewSettings(kv KV, keys Keys) *Settings {
	return &Settings{kv: kv, keys: keys}
}

func (s *Settings) getString(ctx context.Context, kind, scope string) (string, error) {
	b, err := s.kv.Get(ctx, s.keys.For(kind, scope))
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Wordbank returns the scope's selected word bank, "" if unset.
func (s *Settings) Wordbank(ctx context.Context, scope string) (string, error) {
	return s.getString(ctx, KindWordbank, scope)
}

// SetWordbank selects a word bank for scope.
func (s *Settings) SetWordbank(ctx context.Context, scope, name string) error {
	return s.kv.Set(ctx, s.keys.For(KindWordbank, scope), []byte(name), 0)
}

// Category returns the scope's selected equation category, "" if unset.
func (s *Settings) Category(ctx context.Context, scope string) (string, error) {
	return s.getString(ctx, KindCategory, scope)
}

// SetCategory selects an equation category for scope.
func (s *Settings) SetCategory(ctx context.Context, scope, name string) error {
	return s.kv.Set(ctx, s.keys.For(KindCategory, scope), []byte(name), 0)
}

// Enabled reports whether games are enabled in scope. Scopes without a stored
// flag are enabled; an unreadable flag is an error.
func (s *Settings) Enabled(ctx context.Context, scope string) (bool, error) {
	v, err := s.getString(ctx, KindEnabled, scope)
	if err != nil || v == "" {
		return true, err
	}
	on, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("decode enabled flag for %s: %w", scope, err)
	}
	return on, nil
}

// SetEnabled stores the enablement flag for scope.
func (s *Settings) SetEnabled(ctx context.Context, scope string, on bool) error {
	return s.kv.Set(ctx, s.keys.For(KindEnabled, scope), []byte(strconv.FormatBool(on)), 0)
}

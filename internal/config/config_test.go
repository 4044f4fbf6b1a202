package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	c, err := FromEnv(lookup(nil))
	require.NoError(t, err)

	assert.Equal(t, "5175", c.Port)
	assert.Equal(t, ":5175", c.Addr())
	assert.Equal(t, BackendBadger, c.StoreBackend)
	assert.Equal(t, "guessbot", c.KeyPrefix)
	assert.Equal(t, 30*time.Minute, c.SessionTTL)
	assert.Equal(t, time.Minute, c.FinishedTTL)
	assert.Equal(t, time.Second, c.ScopeCooldown)
	assert.Equal(t, 3*time.Second, c.PlayerCooldown)
	assert.Equal(t, DevSecret, c.JWTSecret)
	assert.True(t, c.DebugRoutes)
}

func TestFromEnv_Overrides(t *testing.T) {
	c, err := FromEnv(lookup(map[string]string{
		"PORT":               "9000",
		"STORE_BACKEND":      "SQLite",
		"SESSION_TTL":        "10m",
		"PLAYER_COOLDOWN":    "5",
		"SCOPE_COOLDOWN":     "0",
		"RENDER_CACHE_BYTES": "1024",
		"DEBUG_ROUTES":       "false",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", c.Port)
	assert.Equal(t, BackendSQLite, c.StoreBackend)
	assert.Equal(t, 10*time.Minute, c.SessionTTL)
	assert.Equal(t, 5*time.Second, c.PlayerCooldown)
	assert.Zero(t, c.ScopeCooldown)
	assert.EqualValues(t, 1024, c.RenderCacheBytes)
	assert.False(t, c.DebugRoutes)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown backend", map[string]string{"STORE_BACKEND": "redis"}},
		{"bad duration", map[string]string{"SESSION_TTL": "soon"}},
		{"negative cooldown", map[string]string{"PLAYER_COOLDOWN": "-1s"}},
		{"zero session ttl", map[string]string{"SESSION_TTL": "0s"}},
		{"zero finished ttl", map[string]string{"FINISHED_TTL": "0"}},
		{"bad int", map[string]string{"RENDER_CACHE_BYTES": "lots"}},
		{"bad bool", map[string]string{"DEBUG_ROUTES": "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(lookup(tt.env))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

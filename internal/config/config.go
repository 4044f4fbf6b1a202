// internal/config/config.go
//
// Process configuration read from the environment. A .env file in the
// working directory is loaded first when present.

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// DevSecret signs adapter tokens when BOT_JWT_SECRET is unset.
const DevSecret = "dev_secret_change_me"

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	StoreBackend string
	BadgerDir    string
	SQLitePath   string
	KeyPrefix    string

	SessionTTL     time.Duration
	FinishedTTL    time.Duration
	ScopeCooldown  time.Duration
	PlayerCooldown time.Duration

	JWTSecret         string
	AdminUser         string
	AdminPasswordHash string

	RenderCacheBytes int64
	WordsDir         string
	DebugRoutes      bool
}

// Load reads .env (if any) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, usually os.Getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	e := env{get: getenv}
	c := Config{
		Port:      e.str("PORT", "5175"),
		LogLevel:  e.str("LOG_LEVEL", "info"),
		LogFormat: e.str("LOG_FORMAT", "json"),

		StoreBackend: strings.ToLower(e.str("STORE_BACKEND", BackendBadger)),
		BadgerDir:    e.str("BADGER_DIR", "./data/badger"),
		SQLitePath:   e.str("SQLITE_PATH", "./data/guessbot.db"),
		KeyPrefix:    e.str("KEY_PREFIX", "guessbot"),

		SessionTTL:     e.duration("SESSION_TTL", 30*time.Minute),
		FinishedTTL:    e.duration("FINISHED_TTL", time.Minute),
		ScopeCooldown:  e.duration("SCOPE_COOLDOWN", time.Second),
		PlayerCooldown: e.duration("PLAYER_COOLDOWN", 3*time.Second),

		JWTSecret:         e.str("BOT_JWT_SECRET", DevSecret),
		AdminUser:         e.str("ADMIN_USER", "admin"),
		AdminPasswordHash: e.str("ADMIN_PASSWORD_HASH", ""),

		RenderCacheBytes: int64(e.int("RENDER_CACHE_BYTES", 32<<20)),
		WordsDir:         e.str("WORDS_DIR", ""),
		DebugRoutes:      e.bool("DEBUG_ROUTES", true),
	}
	if len(e.errs) > 0 {
		return c, errors.Join(e.errs...)
	}
	return c, c.Validate()
}

// Validate rejects settings the process cannot run with.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendBadger, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("%w: unknown STORE_BACKEND %q", ErrInvalid, c.StoreBackend)
	}
	for name, d := range map[string]time.Duration{
		"SESSION_TTL":     c.SessionTTL,
		"FINISHED_TTL":    c.FinishedTTL,
		"SCOPE_COOLDOWN":  c.ScopeCooldown,
		"PLAYER_COOLDOWN": c.PlayerCooldown,
	} {
		if d < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalid, name)
		}
	}
	if c.SessionTTL == 0 {
		return fmt.Errorf("%w: SESSION_TTL must be positive", ErrInvalid)
	}
	// A zero TTL means "keep forever" to the store, so finished games would never leave.
	if c.FinishedTTL == 0 {
		return fmt.Errorf("%w: FINISHED_TTL must be positive", ErrInvalid)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: BOT_JWT_SECRET is empty", ErrInvalid)
	}
	return nil
}

// Addr is the listen address for the HTTP adapter.
func (c Config) Addr() string { return ":" + c.Port }

// env collects parse errors so every bad variable is reported at once.
type env struct {
	get  func(string) string
	errs []error
}

func (e *env) str(k, def string) string {
	if v := strings.TrimSpace(e.get(k)); v != "" {
		return v
	}
	return def
}

func (e *env) int(k string, def int) int {
	v := strings.TrimSpace(e.get(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, k, v))
		return def
	}
	return n
}

// duration accepts Go durations ("90s") and bare seconds ("90").
func (e *env) duration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(e.get(k))
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%w: %s=%q is not a duration", ErrInvalid, k, v))
		return def
	}
	return d
}

func (e *env) bool(k string, def bool) bool {
	v := strings.TrimSpace(e.get(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalid, k, v))
		return def
	}
	return b
}

// Package cooldown throttles guesses per scope and per player.
//
// Each key gets its own token bucket holding a single token that refills once
// per window, so a key may act at most once per window. A Gate combines a
// scope-wide limiter with an independent per-player limiter.
package cooldown

import (
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Error reports a rejected action and how long to wait before retrying.
type Error struct {
	Wait  time.Duration
	Scope bool // true when the scope-wide window was the binding one
}

func (e *Error) Error() string {
	return fmt.Sprintf("cooling down, retry in %s", e.Wait.Round(100*time.Millisecond))
}

// Seconds rounds the wait up to whole seconds for user-facing messages.
func (e *Error) Seconds() int {
	return int(math.Ceil(e.Wait.Seconds()))
}

// keyed manages one limiter per key. A zero window disables limiting.
type keyed struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	window   time.Duration
}

func newKeyed(window time.Duration) *keyed {
	return &keyed{limiters: make(map[string]*rate.Limiter), window: window}
}

func (k *keyed) limiter(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, ok := k.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Every(k.window), 1)
		k.limiters[key] = l
	}
	return l
}

// reserve takes a token for key at now. The returned reservation is nil when
// limiting is disabled.
func (k *keyed) reserve(key string, now time.Time) (*rate.Reservation, time.Duration) {
	if k.window <= 0 {
		return nil, 0
	}
	r := k.limiter(key).ReserveN(now, 1)
	return r, r.DelayFrom(now)
}

// Gate applies the scope and player cooldowns together.
type Gate struct {
	scope  *keyed
	player *keyed
	now    func() time.Time
}

// New constructs a Gate. A zero window disables that limiter.
func New(scopeWindow, playerWindow time.Duration) *Gate {
	return &Gate{
		scope:  newKeyed(scopeWindow),
		player: newKeyed(playerWindow),
		now:    time.Now,
	}
}

// Check admits one guess by player in scope or returns *Error with the
// remaining wait. A rejected check consumes nothing from either window.
func (g *Gate) Check(scope, player string) error {
	now := g.now()
	sr, sWait := g.scope.reserve(scope, now)
	pr, pWait := g.player.reserve(scope+"|"+player, now)
	if sWait <= 0 && pWait <= 0 {
		return nil
	}
	if sr != nil {
		sr.CancelAt(now)
	}
	if pr != nil {
		pr.CancelAt(now)
	}
	if sWait >= pWait {
		return &Error{Wait: sWait, Scope: true}
	}
	return &Error{Wait: pWait}
}

// Forget drops the limiters of a scope, e.g. after its game ended.
func (g *Gate) Forget(scope string) {
	g.scope.mu.Lock()
	delete(g.scope.limiters, scope)
	g.scope.mu.Unlock()

	prefix := scope + "|"
	g.player.mu.Lock()
	for k := range g.player.limiters {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(g.player.limiters, k)
		}
	}
	g.player.mu.Unlock()
}

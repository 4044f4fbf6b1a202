package store

import "strings"

// Entity kinds used in key construction.
const (
	KindGame        = "game"
	KindWordbank    = "wordbank"
	KindCategory    = "category"
	KindEnabled     = "enabled"
	KindLeaderboard = "leaderboard"
)

// Keys builds namespaced keys of the form <prefix>:<kind>:<scope>.
type Keys struct {
	Prefix string
}

// For returns the key for kind and scope.
func (k Keys) For(kind, scope string) string {
	return k.KindPrefix(kind) + scope
}

// KindPrefix returns the shared prefix of every key of kind.
func (k Keys) KindPrefix(kind string) string {
	p := k.Prefix
	if p == "" {
		p = "guessbot"
	}
	return p + ":" + kind + ":"
}

// Scope extracts the scope from a key of kind, or "" if key is not of that kind.
func (k Keys) Scope(kind, key string) string {
	scope, ok := strings.CutPrefix(key, k.KindPrefix(kind))
	if !ok {
		return ""
	}
	return scope
}

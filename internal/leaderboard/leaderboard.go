// internal/leaderboard/leaderboard.go
//
// Per-scope win/play counters and rankings.
// Responsibilities:
//   - RecordResult: bump gamesPlayed for every participant and wins for the winner.
//   - Ranking: sort one scope's table by wins, games or win rate.
//   - GlobalRanking: merge every scope's table by player id, then rank.
//
// Tables live in the KV at <prefix>:leaderboard:<scope> without expiry. The
// global view is computed on read and never stored.

package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/robalobadob/guessbot/internal/store"
)

// MinGamesForRate is the number of games a player needs to appear in a
// win-rate ranking.
const MinGamesForRate = 3

// Entry is one player's record in one scope (or merged across scopes).
type Entry struct {
	PlayerID    string `json:"-"`
	DisplayName string `json:"displayName"`
	Wins        int    `json:"wins"`
	GamesPlayed int    `json:"gamesPlayed"`
}

// WinRate is wins/gamesPlayed as a percentage rounded to 2 decimals.
func (e Entry) WinRate() float64 {
	if e.GamesPlayed == 0 {
		return 0
	}
	return math.Round(float64(e.Wins)/float64(e.GamesPlayed)*100*100) / 100
}

// Table maps player id to entry.
type Table map[string]*Entry

// SortKey selects the primary ranking criterion.
type SortKey string

const (
	SortWins  SortKey = "wins"
	SortGames SortKey = "games"
	SortRate  SortKey = "rate"
)

// ParseSortKey accepts the canonical names plus a few chat aliases.
func ParseSortKey(s string) (SortKey, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wins", "win", "胜场":
		return SortWins, true
	case "games", "played", "plays", "场次":
		return SortGames, true
	case "rate", "winrate", "ratio", "胜率":
		return SortRate, true
	}
	return "", false
}

// Board reads and writes leaderboard tables.
type Board struct {
	kv   store.KV
	keys store.Keys
}

// New constructs a Board over kv.
func New(kv store.KV, keys store.Keys) *Board {
	return &Board{kv: kv, keys: keys}
}

// Table loads the table for scope; a missing table is empty.
func (b *Board) Table(ctx context.Context, scope string) (Table, error) {
	return b.load(ctx, b.keys.For(store.KindLeaderboard, scope))
}

func (b *Board) load(ctx context.Context, key string) (Table, error) {
	raw, err := b.kv.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return Table{}, nil
	}
	if err != nil {
		return nil, err
	}
	t := Table{}
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode leaderboard %s: %w", key, err)
	}
	for id, e := range t {
		if e == nil {
			delete(t, id)
			continue
		}
		e.PlayerID = id
	}
	return t, nil
}

func (b *Board) save(ctx context.Context, scope string, t Table) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode leaderboard %s: %w", scope, err)
	}
	return b.kv.Set(ctx, b.keys.For(store.KindLeaderboard, scope), raw, 0)
}

// RecordResult counts one finished game for scope.
//
// Every participant gets gamesPlayed+1 and their latest display name. The
// winner (if any) gets wins+1, and also gamesPlayed+1 when they were not
// among the participants of this call.
func (b *Board) RecordResult(ctx context.Context, scope string, participants map[string]string, winnerID, winnerName string) error {
	t, err := b.Table(ctx, scope)
	if err != nil {
		return err
	}

	for id, name := range participants {
		if id == "" {
			continue
		}
		e := t.upsert(id, name)
		e.GamesPlayed++
	}
	if winnerID != "" {
		e := t.upsert(winnerID, winnerName)
		if _, counted := participants[winnerID]; !counted {
			e.GamesPlayed++
		}
		e.Wins++
	}
	return b.save(ctx, scope, t)
}

func (t Table) upsert(id, name string) *Entry {
	e, ok := t[id]
	if !ok {
		e = &Entry{PlayerID: id}
		t[id] = e
	}
	if name != "" {
		e.DisplayName = name
	}
	return e
}

// Ranking returns scope's entries ordered by key, truncated to limit
// (limit <= 0 means no limit).
func (b *Board) Ranking(ctx context.Context, scope string, key SortKey, limit int) ([]Entry, error) {
	t, err := b.Table(ctx, scope)
	if err != nil {
		return nil, err
	}
	return Rank(t, key, limit), nil
}

// GlobalRanking merges every scope's table, summing wins and games per player.
// Scopes are visited in key order; the last non-empty display name wins.
func (b *Board) GlobalRanking(ctx context.Context, key SortKey, limit int) ([]Entry, error) {
	keys, err := b.kv.Keys(ctx, b.keys.KindPrefix(store.KindLeaderboard))
	if err != nil {
		return nil, err
	}
	merged := Table{}
	for _, k := range keys {
		t, err := b.load(ctx, k)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(t))
		for id := range t {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			e := t[id]
			m := merged.upsert(id, e.DisplayName)
			m.Wins += e.Wins
			m.GamesPlayed += e.GamesPlayed
		}
	}
	return Rank(merged, key, limit), nil
}

// Rank sorts a table.
//
//   - wins:  wins desc, gamesPlayed desc, player id asc.
//   - games: gamesPlayed desc, then player id asc.
//   - rate:  drops players under MinGamesForRate, then win rate desc,
//     gamesPlayed desc, player id asc.
//
// Player ids are compared with a locale-aware collator.
func Rank(t Table, key SortKey, limit int) []Entry {
	out := make([]Entry, 0, len(t))
	for id, e := range t {
		if key == SortRate && e.GamesPlayed < MinGamesForRate {
			continue
		}
		c := *e
		c.PlayerID = id
		out = append(out, c)
	}

	col := collate.New(language.Und)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch key {
		case SortGames:
			if a.GamesPlayed != b.GamesPlayed {
				return a.GamesPlayed > b.GamesPlayed
			}
		case SortRate:
			if ra, rb := a.WinRate(), b.WinRate(); ra != rb {
				return ra > rb
			}
			if a.GamesPlayed != b.GamesPlayed {
				return a.GamesPlayed > b.GamesPlayed
			}
		default:
			if a.Wins != b.Wins {
				return a.Wins > b.Wins
			}
			if a.GamesPlayed != b.GamesPlayed {
				return a.GamesPlayed > b.GamesPlayed
			}
		}
		if c := col.CompareString(a.PlayerID, b.PlayerID); c != 0 {
			return c < 0
		}
		return a.PlayerID < b.PlayerID
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

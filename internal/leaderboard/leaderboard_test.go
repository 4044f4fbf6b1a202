package leaderboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/guessbot/internal/store"
)

func newBoard(t *testing.T) (*Board, store.KV) {
	t.Helper()
	kv := store.NewMemory()
	return New(kv, store.Keys{Prefix: "t"}), kv
}

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.PlayerID
	}
	return out
}

func TestEntry_WinRate(t *testing.T) {
	assert.Equal(t, 0.0, Entry{}.WinRate())
	assert.Equal(t, 33.33, Entry{Wins: 1, GamesPlayed: 3}.WinRate())
	assert.Equal(t, 66.67, Entry{Wins: 2, GamesPlayed: 3}.WinRate())
	assert.Equal(t, 100.0, Entry{Wins: 4, GamesPlayed: 4}.WinRate())
}

func TestRecordResult(t *testing.T) {
	ctx := context.Background()
	b, _ := newBoard(t)

	require.NoError(t, b.RecordResult(ctx, "g1", map[string]string{"u1": "Alice", "u2": "Bob"}, "u1", "Alice"))
	require.NoError(t, b.RecordResult(ctx, "g1", map[string]string{"u2": "Bobby"}, "", ""))

	tbl, err := b.Table(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, tbl, 2)
	assert.Equal(t, Entry{PlayerID: "u1", DisplayName: "Alice", Wins: 1, GamesPlayed: 1}, *tbl["u1"])
	assert.Equal(t, Entry{PlayerID: "u2", DisplayName: "Bobby", Wins: 0, GamesPlayed: 2}, *tbl["u2"])
}

func TestRecordResult_WinnerNotParticipant(t *testing.T) {
	ctx := context.Background()
	b, _ := newBoard(t)

	require.NoError(t, b.RecordResult(ctx, "g1", map[string]string{"u1": "Alice"}, "u9", "Zed"))

	tbl, err := b.Table(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 1, tbl["u9"].Wins)
	assert.Equal(t, 1, tbl["u9"].GamesPlayed)
	assert.Equal(t, "Zed", tbl["u9"].DisplayName)
	assert.Equal(t, 1, tbl["u1"].GamesPlayed)
	assert.Equal(t, 0, tbl["u1"].Wins)
}

func TestRecordResult_EmptyNameKeepsLast(t *testing.T) {
	ctx := context.Background()
	b, _ := newBoard(t)

	require.NoError(t, b.RecordResult(ctx, "g1", map[string]string{"u1": "Alice"}, "", ""))
	require.NoError(t, b.RecordResult(ctx, "g1", map[string]string{"u1": ""}, "", ""))

	tbl, err := b.Table(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", tbl["u1"].DisplayName)
}

func TestRank_TieBreakByPlayerID(t *testing.T) {
	tbl := Table{
		"u2": {Wins: 2, GamesPlayed: 5},
		"u1": {Wins: 2, GamesPlayed: 5},
		"u3": {Wins: 3, GamesPlayed: 4},
		"u0": {Wins: 2, GamesPlayed: 6},
	}
	assert.Equal(t, []string{"u3", "u0", "u1", "u2"}, ids(Rank(tbl, SortWins, 0)))
	assert.Equal(t, []string{"u0", "u1", "u2", "u3"}, ids(Rank(tbl, SortGames, 0)))
	assert.Equal(t, []string{"u3", "u0"}, ids(Rank(tbl, SortWins, 2)))
}

func TestRank_RateFloor(t *testing.T) {
	tbl := Table{
		"perfect": {Wins: 2, GamesPlayed: 2},
		"steady":  {Wins: 2, GamesPlayed: 3},
		"busy":    {Wins: 4, GamesPlayed: 6},
		"cold":    {Wins: 0, GamesPlayed: 10},
	}
	got := Rank(tbl, SortRate, 0)
	// steady and busy share 66.67%; more games ranks first.
	assert.Equal(t, []string{"busy", "steady", "cold"}, ids(got))
	assert.NotContains(t, ids(got), "perfect")
}

func TestRank_RateTieBreaksOnGames(t *testing.T) {
	tbl := Table{
		"a": {Wins: 1, GamesPlayed: 3},
		"b": {Wins: 2, GamesPlayed: 6},
		"c": {Wins: 2, GamesPlayed: 6},
	}
	assert.Equal(t, []string{"b", "c", "a"}, ids(Rank(tbl, SortRate, 0)))
}

func TestRanking(t *testing.T) {
	ctx := context.Background()
	b, _ := newBoard(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, b.RecordResult(ctx, "g1", map[string]string{"u1": "Alice", "u2": "Bob"}, "u2", "Bob"))
	}
	require.NoError(t, b.RecordResult(ctx, "g1", map[string]string{"u1": "Alice"}, "u1", "Alice"))

	got, err := b.Ranking(ctx, "g1", SortWins, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "u2", got[0].PlayerID)
	assert.Equal(t, 3, got[0].Wins)
	assert.Equal(t, "u1", got[1].PlayerID)
	assert.Equal(t, 4, got[1].GamesPlayed)

	got, err = b.Ranking(ctx, "g1", SortGames, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, ids(got))

	got, err = b.Ranking(ctx, "empty", SortWins, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGlobalRanking(t *testing.T) {
	ctx := context.Background()
	b, kv := newBoard(t)

	require.NoError(t, b.RecordResult(ctx, "g1", map[string]string{"u1": "Alice", "u2": "Bob"}, "u1", "Alice"))
	require.NoError(t, b.RecordResult(ctx, "g2", map[string]string{"u1": "Ally", "u3": "Cy"}, "u3", "Cy"))
	require.NoError(t, b.RecordResult(ctx, "g2", map[string]string{"u1": "Ally"}, "u1", "Ally"))
	// Unrelated keys are ignored.
	require.NoError(t, kv.Set(ctx, "t:game:g1", []byte("{}"), 0))

	got, err := b.GlobalRanking(ctx, SortWins, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, Entry{PlayerID: "u1", DisplayName: "Ally", Wins: 2, GamesPlayed: 3}, got[0])
	assert.Equal(t, "u3", got[1].PlayerID)
	assert.Equal(t, "u2", got[2].PlayerID)

	got, err = b.GlobalRanking(ctx, SortRate, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, ids(got))

	// The merged view is not stored anywhere.
	keys, err := kv.Keys(ctx, "t:leaderboard:")
	require.NoError(t, err)
	assert.Equal(t, []string{"t:leaderboard:g1", "t:leaderboard:g2"}, keys)
}

func TestParseSortKey(t *testing.T) {
	for in, want := range map[string]SortKey{"": SortWins, "WINS": SortWins, "games": SortGames, "胜率": SortRate, "rate": SortRate} {
		got, ok := ParseSortKey(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseSortKey("elo")
	assert.False(t, ok)
}

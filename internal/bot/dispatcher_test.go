package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/guessbot/internal/game"
	"github.com/robalobadob/guessbot/internal/leaderboard"
	"github.com/robalobadob/guessbot/internal/store"
)

func groupEvent(user, text string) Event {
	return Event{Scope: "g1", UserID: user, UserName: "name-" + user, Text: text}
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		in, cmd, arg string
	}{
		{"wordle", "wordle", ""},
		{"Wordle 6", "wordle", "6"},
		{"猜算式 special", "equation", "special"},
		{"give up", "giveup", ""},
		{"GLOBAL RANK rate", "globalrank", "rate"},
		{"guess crane", "guess", "crane"},
		{"crane", "", "crane"},
		{"hello there", "", "hello there"},
	}
	for _, tt := range tests {
		cmd, arg := splitCommand(tt.in)
		assert.Equal(t, tt.cmd, cmd, tt.in)
		assert.Equal(t, tt.arg, arg, tt.in)
	}
}

func TestDispatcher_LetterFlow(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, harnessOpts{answers: map[game.Variant]string{game.VariantLetter: "crane"}})
	d := h.dispatcher

	// Chatter without a game is ignored.
	_, ok := d.Handle(ctx, groupEvent("u1", "crane"))
	assert.False(t, ok)

	r, ok := d.Handle(ctx, groupEvent("u1", "wordle 5"))
	require.True(t, ok)
	assert.Contains(t, r.Text, "5-letter word")

	// Chatter that does not look like a guess is still ignored.
	_, ok = d.Handle(ctx, groupEvent("u1", "hello there"))
	assert.False(t, ok)

	r, ok = d.Handle(ctx, groupEvent("u1", "About"))
	require.True(t, ok)
	assert.Contains(t, r.Text, "5 attempts left.")

	r, ok = d.Handle(ctx, groupEvent("u2", "guess xqzvw"))
	require.True(t, ok)
	assert.Contains(t, r.Text, "not in my word list")

	r, ok = d.Handle(ctx, groupEvent("u2", "crane"))
	require.True(t, ok)
	assert.Contains(t, r.Text, "name-u2 got it in 2/6!")

	r, ok = d.Handle(ctx, groupEvent("u1", "rank"))
	require.True(t, ok)
	assert.Contains(t, r.Text, "Leaderboard (by wins)\n1. name-u2  wins 1  games 1  rate 100.00%\n2. name-u1  wins 0  games 1  rate 0.00%")

	r, ok = d.Handle(ctx, groupEvent("u1", "rank rate"))
	require.True(t, ok)
	assert.Contains(t, r.Text, "nobody has played 3 games yet")

	r, ok = d.Handle(ctx, groupEvent("u1", "rank elo"))
	require.True(t, ok)
	assert.Contains(t, r.Text, "wins, games or rate")
}

func TestDispatcher_StartArguments(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, harnessOpts{})
	d := h.dispatcher

	r, ok := d.Handle(ctx, Event{Scope: "g1", Text: "equation special"})
	require.True(t, ok)
	assert.Contains(t, r.Text, "special equation")
	assert.Equal(t, "special", h.session(t, "g1").Category)

	r, ok = d.Handle(ctx, Event{Scope: "g2", Text: "equation 7"})
	require.True(t, ok)
	assert.Contains(t, r.Text, "7-character normal equation")

	r, ok = d.Handle(ctx, Event{Scope: "g3", Text: "wordle banana"})
	require.True(t, ok)
	assert.Contains(t, r.Text, "don't understand")
	assert.Nil(t, h.session(t, "g3"))

	r, ok = d.Handle(ctx, Event{Scope: "g4", Text: "猜成语"})
	require.True(t, ok)
	assert.Contains(t, r.Text, "4-character idiom")
}

func TestDispatcher_RoutesToRunningVariant(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, harnessOpts{answers: map[game.Variant]string{game.VariantIdiom: "一帆风顺"}})
	d := h.dispatcher

	d.Handle(ctx, groupEvent("u1", "idiom"))

	// Four Han characters route to the idiom game; ASCII words do not.
	_, ok := d.Handle(ctx, groupEvent("u1", "wait"))
	assert.False(t, ok)

	r, ok := d.Handle(ctx, groupEvent("u1", "风调雨顺"))
	require.True(t, ok)
	assert.Contains(t, r.Text, "9 attempts left.")

	r, ok = d.Handle(ctx, groupEvent("u1", "放弃"))
	require.True(t, ok)
	assert.Contains(t, r.Text, "The answer was 一帆风顺.")

	r, ok = d.Handle(ctx, groupEvent("u1", "give up"))
	require.True(t, ok)
	assert.Contains(t, r.Text, "No game is running")
}

func TestDispatcher_LoneCommandWordIsAGuess(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, harnessOpts{answers: map[game.Variant]string{game.VariantLetter: "crane"}})
	d := h.dispatcher

	d.Handle(ctx, groupEvent("u1", "wordle"))
	r, ok := d.Handle(ctx, groupEvent("u1", "guess"))
	require.True(t, ok)
	assert.Contains(t, r.Text, "5 attempts left.")
	assert.Equal(t, []string{"guess"}, h.session(t, "g1").Guesses)

	// With an argument it is still the command.
	r, ok = d.Handle(ctx, groupEvent("u1", "guess crane"))
	require.True(t, ok)
	assert.Contains(t, r.Text, "got it in 2/6!")

	h = newHarness(t, harnessOpts{answers: map[game.Variant]string{game.VariantLetter: "tidy"}})
	d = h.dispatcher
	d.Handle(ctx, groupEvent("u1", "wordle"))
	r, ok = d.Handle(ctx, groupEvent("u1", "rank"))
	require.True(t, ok)
	assert.Contains(t, r.Text, "4 attempts left.")
	assert.Equal(t, []string{"rank"}, h.session(t, "g1").Guesses)

	// Words that do not fit the game keep their command meaning.
	r, ok = d.Handle(ctx, groupEvent("u1", "wordbank"))
	require.True(t, ok)
	assert.Contains(t, r.Text, "Word bank: default.")
}

func TestDispatcher_EnableDisable(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, harnessOpts{})
	d := h.dispatcher

	r, ok := d.Handle(ctx, groupEvent("u1", "disable"))
	require.True(t, ok)
	assert.Contains(t, r.Text, "Only group admins")

	admin := groupEvent("boss", "disable")
	admin.Admin = true
	r, ok = d.Handle(ctx, admin)
	require.True(t, ok)
	assert.Equal(t, "Games disabled.", r.Text)

	_, ok = d.Handle(ctx, groupEvent("u1", "wordle"))
	assert.False(t, ok)
	assert.Nil(t, h.session(t, "g1"))

	// Private scopes ignore the group flag.
	_, ok = d.Handle(ctx, Event{Scope: "private:u1", Private: true, UserID: "u1", Text: "wordle"})
	assert.True(t, ok)

	admin.Text = "开启"
	r, ok = d.Handle(ctx, admin)
	require.True(t, ok)
	assert.Equal(t, "Games enabled.", r.Text)

	_, ok = d.Handle(ctx, groupEvent("u1", "wordle"))
	assert.True(t, ok)
	assert.NotNil(t, h.session(t, "g1"))
}

func TestDispatcher_CorruptEnabledFlag(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, harnessOpts{})
	require.NoError(t, h.kv.Set(ctx, store.Keys{Prefix: "test"}.For(store.KindEnabled, "g1"), []byte("garbage"), 0))

	r, ok := h.dispatcher.Handle(ctx, groupEvent("u1", "wordle"))
	require.True(t, ok)
	assert.Equal(t, genericFailure, r.Text)
	assert.Nil(t, h.session(t, "g1"))

	admin := groupEvent("boss", "enable")
	admin.Admin = true
	r, _ = h.dispatcher.Handle(ctx, admin)
	assert.Equal(t, "Games enabled.", r.Text)
}

func TestDispatcher_WordbankAndCategory(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, harnessOpts{})
	d := h.dispatcher

	r, _ := d.Handle(ctx, groupEvent("u1", "wordbank"))
	assert.Equal(t, "Word bank: default. Available: cet4, default.", r.Text)

	r, _ = d.Handle(ctx, groupEvent("u1", "wordbank klingon"))
	assert.Contains(t, r.Text, "Unknown word bank")

	r, _ = d.Handle(ctx, groupEvent("u1", "词库 CET4"))
	assert.Equal(t, "Word bank set to cet4.", r.Text)
	bank, err := h.settings.Wordbank(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "cet4", bank)

	r, _ = d.Handle(ctx, groupEvent("u1", "category"))
	assert.Equal(t, "Equation category: normal. Available: normal, special.", r.Text)

	r, _ = d.Handle(ctx, groupEvent("u1", "category special"))
	assert.Equal(t, "Equation category set to special.", r.Text)

	r, _ = d.Handle(ctx, groupEvent("u1", "category hard"))
	assert.Contains(t, r.Text, "Unknown category")
}

func TestDispatcher_GlobalRank(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, harnessOpts{})
	require.NoError(t, h.board.RecordResult(ctx, "g1", map[string]string{"u1": "Alice"}, "u1", "Alice"))
	require.NoError(t, h.board.RecordResult(ctx, "g2", map[string]string{"u1": "Alice", "u2": "Bob"}, "u2", "Bob"))

	r, ok := h.dispatcher.Handle(ctx, Event{Scope: "private:u3", Private: true, Text: "rank"})
	require.True(t, ok)
	assert.Contains(t, r.Text, "not ranked")

	r, ok = h.dispatcher.Handle(ctx, Event{Scope: "private:u3", Private: true, Text: "global rank games"})
	require.True(t, ok)
	assert.Contains(t, r.Text, "Global leaderboard (by games)\n1. Alice  wins 1  games 2")
}

func TestFormatRanking(t *testing.T) {
	got := FormatRanking("Leaderboard", leaderboard.SortWins, []leaderboard.Entry{
		{PlayerID: "u9", Wins: 2, GamesPlayed: 3},
	})
	assert.Equal(t, "Leaderboard (by wins)\n1. u9  wins 2  games 3  rate 66.67%", got)
	assert.Equal(t, "Leaderboard: no games recorded yet.", FormatRanking("Leaderboard", leaderboard.SortGames, nil))
}

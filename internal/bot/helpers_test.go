package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/guessbot/internal/game"
	"github.com/robalobadob/guessbot/internal/leaderboard"
	"github.com/robalobadob/guessbot/internal/render"
	"github.com/robalobadob/guessbot/internal/store"
	"github.com/robalobadob/guessbot/internal/words"
)

// fixedCorpus pins the answer per variant and defers everything else to the
// real corpus.
type fixedCorpus struct {
	*words.Corpus
	answers map[game.Variant]string
}

func (f fixedCorpus) RandomAnswer(v game.Variant, length int, category, bank string) (string, bool) {
	if a, ok := f.answers[v]; ok {
		return a, true
	}
	return f.Corpus.RandomAnswer(v, length, category, bank)
}

type failingRenderer struct{}

func (failingRenderer) Render(render.Board) ([]byte, error) { return nil, errors.New("no fonts") }

type brokenSessions struct{}

func (brokenSessions) Get(context.Context, string) (*game.Session, error) {
	return nil, errors.New("store unreachable")
}
func (brokenSessions) Save(context.Context, *game.Session) error { return errors.New("store unreachable") }
func (brokenSessions) Delete(context.Context, string) error      { return errors.New("store unreachable") }

type brokenBoard struct{}

func (brokenBoard) RecordResult(context.Context, string, map[string]string, string, string) error {
	return errors.New("store unreachable")
}

type harness struct {
	kv         store.KV
	sessions   *store.Sessions
	settings   *store.Settings
	board      *leaderboard.Board
	corpus     *words.Corpus
	letter     *Orchestrator
	equation   *Orchestrator
	idiom      *Orchestrator
	dispatcher *Dispatcher
}

type harnessOpts struct {
	answers  map[game.Variant]string
	renderer Renderer
	limiter  Limiter
	board    Leaderboard
}

func newHarness(t *testing.T, opts harnessOpts) *harness {
	t.Helper()
	c, err := words.Load("")
	require.NoError(t, err)

	kv := store.NewMemory()
	keys := store.Keys{Prefix: "test"}
	h := &harness{
		kv:       kv,
		sessions: store.NewSessions(kv, keys, 30*time.Minute, time.Minute),
		settings: store.NewSettings(kv, keys),
		board:    leaderboard.New(kv, keys),
		corpus:   c,
	}

	var board Leaderboard = h.board
	if opts.board != nil {
		board = opts.board
	}
	nop := zerolog.Nop()
	deps := Deps{
		Corpus:      fixedCorpus{Corpus: c, answers: opts.answers},
		Sessions:    h.sessions,
		Leaderboard: board,
		Renderer:    opts.renderer,
		Preferences: h.settings,
		Limiter:     opts.limiter,
		Locks:       NewScopeLocks(),
		Logger:      &nop,
	}
	h.letter = NewLetterGame(deps)
	h.equation = NewEquationGame(deps)
	h.idiom = NewIdiomGame(deps)
	h.dispatcher = NewDispatcher(DispatcherDeps{
		Games:    []*Orchestrator{h.letter, h.equation, h.idiom},
		Sessions: h.sessions,
		Settings: h.settings,
		Rankings: h.board,
		Catalog:  c,
		Logger:   &nop,
	})
	return h
}

func (h *harness) session(t *testing.T, scope string) *game.Session {
	t.Helper()
	s, err := h.sessions.Get(context.Background(), scope)
	require.NoError(t, err)
	return s
}

func statuses(cells []game.Cell) []game.Status {
	out := make([]game.Status, len(cells))
	for i, c := range cells {
		out[i] = c.Status
	}
	return out
}

package bot

import (
	"context"

	"github.com/robalobadob/guessbot/internal/game"
	"github.com/robalobadob/guessbot/internal/leaderboard"
	"github.com/robalobadob/guessbot/internal/render"
)

// Corpus supplies answers and judges guesses. It is read-only.
type Corpus interface {
	RandomAnswer(v game.Variant, length int, category, bank string) (string, bool)
	IsValidGuess(candidate string, v game.Variant, length int, category string) bool
	Gloss(v game.Variant, answer string) string
	Auxiliary(v game.Variant, word string) string
}

// CorpusCatalog lists the selectable word banks and equation categories.
type CorpusCatalog interface {
	Banks() []string
	HasBank(name string) bool
	Categories() []string
	HasCategory(name string) bool
}

// SessionStore persists one session per scope. Get returns (nil, nil) when
// the scope has no session.
type SessionStore interface {
	Get(ctx context.Context, scope string) (*game.Session, error)
	Save(ctx context.Context, s *game.Session) error
	Delete(ctx context.Context, scope string) error
}

// Leaderboard records finished games.
type Leaderboard interface {
	RecordResult(ctx context.Context, scope string, participants map[string]string, winnerID, winnerName string) error
}

// Rankings reads leaderboards.
type Rankings interface {
	Ranking(ctx context.Context, scope string, key leaderboard.SortKey, limit int) ([]leaderboard.Entry, error)
	GlobalRanking(ctx context.Context, key leaderboard.SortKey, limit int) ([]leaderboard.Entry, error)
}

// Renderer turns a board into an image.
type Renderer interface {
	Render(b render.Board) ([]byte, error)
}

// Preferences exposes the per-scope selections consulted when a game starts.
type Preferences interface {
	Wordbank(ctx context.Context, scope string) (string, error)
	Category(ctx context.Context, scope string) (string, error)
}

// Settings is the full per-scope settings store used by the dispatcher.
type Settings interface {
	Preferences
	SetWordbank(ctx context.Context, scope, name string) error
	SetCategory(ctx context.Context, scope, name string) error
	Enabled(ctx context.Context, scope string) (bool, error)
	SetEnabled(ctx context.Context, scope string, on bool) error
}

// Limiter throttles guesses. A rejection is a *cooldown.Error. Forget is
// called once a scope's game has finished.
type Limiter interface {
	Check(scope, player string) error
	Forget(scope string)
}

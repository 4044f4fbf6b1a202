// internal/bot/orchestrator.go
//
// Game state machine shared by the letter, equation and idiom games.
//
//	NONE --start--> ACTIVE --guess--> ACTIVE
//	                ACTIVE --guess--> FINISHED(win | loss)
//	                ACTIVE --abandon--> FINISHED(abandoned)
//
// Every operation runs under the scope's lock, so a read-modify-write cycle
// on a session never interleaves with another one for the same scope in this
// process. Finished sessions are recorded on the leaderboard (group scopes
// only) and re-saved with the store's short finished TTL, after which they
// disappear.
//
// Failures never escape: validation, conflict and cooldown rejections become
// guidance replies, collaborator faults are logged and answered with a
// generic notice.

package bot

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessbot/internal/cooldown"
	"github.com/robalobadob/guessbot/internal/game"
	"github.com/robalobadob/guessbot/internal/render"
)

const genericFailure = "Something went wrong on my side, please try again later."

// StartRequest asks for a new game. Length 0 and an empty Category select
// the defaults.
type StartRequest struct {
	Scope    string
	Private  bool
	Length   int
	Category string
}

// GuessRequest submits one guess.
type GuessRequest struct {
	Scope      string
	Private    bool
	PlayerID   string
	PlayerName string
	Text       string
}

// Reply is what goes back to the chat: text and, when rendering worked, a
// PNG board.
type Reply struct {
	Text  string
	Image []byte
}

// Deps are the collaborators of an orchestrator. Renderer, Preferences and
// Limiter are optional. Locks should be shared by all orchestrators serving
// the same scopes.
type Deps struct {
	Corpus      Corpus
	Sessions    SessionStore
	Leaderboard Leaderboard
	Renderer    Renderer
	Preferences Preferences
	Limiter     Limiter
	Locks       *ScopeLocks
	Logger      *zerolog.Logger
}

// Orchestrator drives one game variant.
type Orchestrator struct {
	rules    rules
	corpus   Corpus
	sessions SessionStore
	board    Leaderboard
	renderer Renderer
	prefs    Preferences
	limiter  Limiter
	locks    *ScopeLocks
	logger   zerolog.Logger
}

// NewLetterGame returns the orchestrator for letter-word games.
func NewLetterGame(d Deps) *Orchestrator { return newOrchestrator(letterRules{}, d) }

// NewEquationGame returns the orchestrator for equation games.
func NewEquationGame(d Deps) *Orchestrator { return newOrchestrator(equationRules{}, d) }

// NewIdiomGame returns the orchestrator for idiom games.
func NewIdiomGame(d Deps) *Orchestrator { return newOrchestrator(idiomRules{}, d) }

func newOrchestrator(r rules, d Deps) *Orchestrator {
	logger := log.Logger
	if d.Logger != nil {
		logger = *d.Logger
	}
	locks := d.Locks
	if locks == nil {
		locks = NewScopeLocks()
	}
	return &Orchestrator{
		rules:    r,
		corpus:   d.Corpus,
		sessions: d.Sessions,
		board:    d.Leaderboard,
		renderer: d.Renderer,
		prefs:    d.Preferences,
		limiter:  d.Limiter,
		locks:    locks,
		logger:   logger.With().Str("variant", string(r.variant())).Logger(),
	}
}

// Variant is the game type this orchestrator drives.
func (o *Orchestrator) Variant() game.Variant { return o.rules.variant() }

// Start begins a game in req.Scope unless one is already running there.
func (o *Orchestrator) Start(ctx context.Context, req StartRequest) Reply {
	unlock := o.locks.Lock(req.Scope)
	defer unlock()

	cur, err := o.sessions.Get(ctx, req.Scope)
	if err != nil {
		return o.fault(err, req.Scope, "load session")
	}
	if cur != nil && cur.Active() {
		return Reply{Text: fmt.Sprintf(
			"A %s game is already running here (%d/%d guesses used). Say \"give up\" to end it.",
			cur.Variant, cur.AttemptCount(), cur.MaxAttempts)}
	}

	answer, category, err := o.rules.choose(ctx, o, req)
	if errors.Is(err, game.ErrNoAnswer) {
		return Reply{Text: fmt.Sprintf("I have no %s for that length or category.", o.rules.name())}
	}
	if err != nil {
		return o.fault(err, req.Scope, "choose answer")
	}

	v := o.rules.variant()
	s, err := game.NewSession(req.Scope, v, category, answer, o.corpus.Auxiliary(v, answer))
	if err != nil {
		return o.fault(err, req.Scope, "create session")
	}
	if err := o.sessions.Save(ctx, s); err != nil {
		return o.fault(err, req.Scope, "save session")
	}

	o.logger.Info().Str("scope", req.Scope).Str("session", s.ID).Int("length", s.AnswerLength).Msg("game started")
	return o.withBoard(s, fmt.Sprintf("New game! Guess %s. You have %d attempts.", o.rules.describe(s), s.MaxAttempts))
}

// Guess scores one guess against the running game.
func (o *Orchestrator) Guess(ctx context.Context, req GuessRequest) Reply {
	guess := o.rules.normalize(req.Text)

	unlock := o.locks.Lock(req.Scope)
	defer unlock()

	s, err := o.sessions.Get(ctx, req.Scope)
	if err != nil {
		return o.fault(err, req.Scope, "load session")
	}
	if s == nil || !s.Active() {
		return Reply{Text: "No game is running here. Start one first."}
	}
	if s.Variant != o.rules.variant() {
		return Reply{Text: fmt.Sprintf("A %s game is running here, not a %s game.", s.Variant, o.rules.variant())}
	}

	if err := o.validate(s, guess); err != nil {
		return Reply{Text: o.explain(s, guess, err)}
	}
	if o.limiter != nil {
		if err := o.limiter.Check(req.Scope, req.PlayerID); err != nil {
			var ce *cooldown.Error
			if errors.As(err, &ce) {
				return Reply{Text: fmt.Sprintf("Slow down! Try again in %ds.", ce.Seconds())}
			}
			return o.fault(err, req.Scope, "check cooldown")
		}
	}

	cells, aux := o.rules.score(o, s, guess)
	outcome, err := s.Apply(guess, aux, req.PlayerID, req.PlayerName, cells)
	if err != nil {
		return o.fault(err, req.Scope, "apply guess")
	}

	var text string
	switch outcome {
	case game.OutcomeWin:
		if err := o.finish(ctx, s, req.Private, req.PlayerID, req.PlayerName); err != nil {
			return o.fault(err, req.Scope, "finish session")
		}
		who := req.PlayerName
		if who == "" {
			who = "You"
		}
		text = fmt.Sprintf("%s got it in %d/%d! %s", who, s.AttemptCount(), s.MaxAttempts, o.reveal(s))
	case game.OutcomeLoss:
		if err := o.finish(ctx, s, req.Private, "", ""); err != nil {
			return o.fault(err, req.Scope, "finish session")
		}
		text = "Out of attempts. " + o.reveal(s)
	default:
		if err := o.sessions.Save(ctx, s); err != nil {
			return o.fault(err, req.Scope, "save session")
		}
		text = fmt.Sprintf("%d attempts left.", s.Remaining())
	}
	return o.withBoard(s, text)
}

// Abandon ends the running game without a winner and reveals the answer.
func (o *Orchestrator) Abandon(ctx context.Context, scope string, private bool) Reply {
	unlock := o.locks.Lock(scope)
	defer unlock()

	s, err := o.sessions.Get(ctx, scope)
	if err != nil {
		return o.fault(err, scope, "load session")
	}
	if s == nil || !s.Active() {
		return Reply{Text: "No game is running here."}
	}
	if s.Variant != o.rules.variant() {
		return Reply{Text: fmt.Sprintf("A %s game is running here, not a %s game.", s.Variant, o.rules.variant())}
	}
	if err := s.Abandon(); err != nil {
		return o.fault(err, scope, "abandon session")
	}
	if err := o.finish(ctx, s, private, "", ""); err != nil {
		return o.fault(err, scope, "finish session")
	}
	return o.withBoard(s, "Game over. "+o.reveal(s))
}

// validate applies the shape and dictionary checks. Rejected guesses cost
// nothing.
func (o *Orchestrator) validate(s *game.Session, guess string) error {
	switch {
	case guess == "":
		return game.ErrInvalidGuess
	case utf8.RuneCountInString(guess) != s.AnswerLength:
		return game.ErrWrongLength
	case s.HasGuessed(guess):
		return game.ErrAlreadyGuessed
	case !o.corpus.IsValidGuess(guess, s.Variant, s.AnswerLength, s.Category):
		return game.ErrUnknownGuess
	}
	return nil
}

func (o *Orchestrator) explain(s *game.Session, guess string, err error) string {
	switch {
	case errors.Is(err, game.ErrWrongLength):
		return fmt.Sprintf("Your guess must be %d characters long.", s.AnswerLength)
	case errors.Is(err, game.ErrAlreadyGuessed):
		return fmt.Sprintf("%q was already guessed.", guess)
	case errors.Is(err, game.ErrUnknownGuess):
		if s.Variant == game.VariantEquation {
			return fmt.Sprintf("%q is not a true equation.", guess)
		}
		return fmt.Sprintf("%q is not in my %s list.", guess, o.rules.name())
	}
	return "That is not a valid guess."
}

// finish records the result for group scopes and stores the finished
// session, which the store keeps only briefly. The scope's cooldowns are
// released so the next game starts unthrottled. When the result cannot be
// recorded the session is left unsaved, so the finishing move can be retried.
func (o *Orchestrator) finish(ctx context.Context, s *game.Session, private bool, winnerID, winnerName string) error {
	if !private && o.board != nil && (len(s.Participants) > 0 || winnerID != "") {
		if err := o.board.RecordResult(ctx, s.Scope, s.Participants, winnerID, winnerName); err != nil {
			return fmt.Errorf("record result: %w", err)
		}
	}
	if err := o.sessions.Save(ctx, s); err != nil {
		return err
	}
	if o.limiter != nil {
		o.limiter.Forget(s.Scope)
	}
	o.logger.Info().
		Str("scope", s.Scope).
		Str("session", s.ID).
		Str("outcome", string(s.Outcome)).
		Int("attempts", s.AttemptCount()).
		Msg("game finished")
	return nil
}

func (o *Orchestrator) reveal(s *game.Session) string {
	text := fmt.Sprintf("The answer was %s.", s.Answer)
	if gloss := o.corpus.Gloss(s.Variant, s.Answer); gloss != "" {
		text += "\n" + gloss
	}
	return text
}

func (o *Orchestrator) boardOf(s *game.Session) render.Board {
	b := render.Board{
		Variant:      s.Variant,
		AnswerLength: s.AnswerLength,
		MaxAttempts:  s.MaxAttempts,
		Rows:         make([]render.Row, len(s.Guesses)),
	}
	for i := range s.Guesses {
		b.Rows[i] = o.rules.row(s, i)
	}
	return b
}

// withBoard attaches the rendered board, falling back to the text board when
// rendering is unavailable or fails.
func (o *Orchestrator) withBoard(s *game.Session, text string) Reply {
	b := o.boardOf(s)
	if o.renderer == nil {
		return Reply{Text: text + "\n" + render.Text(b)}
	}
	img, err := o.renderer.Render(b)
	if err != nil {
		o.logger.Error().Err(err).Str("scope", s.Scope).Str("session", s.ID).Msg("render board")
		return Reply{Text: text + "\n(render failed)\n" + render.Text(b)}
	}
	return Reply{Text: text, Image: img}
}

func (o *Orchestrator) fault(err error, scope, op string) Reply {
	o.logger.Error().Err(err).Str("scope", scope).Str("op", op).Msg("game operation failed")
	return Reply{Text: genericFailure}
}

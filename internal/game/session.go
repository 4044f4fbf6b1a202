// internal/game/session.go
//
// Session state for one play scope (a group or a private user).
// Responsibilities:
//   - Create sessions with variant-specific attempt budgets.
//   - Apply scored guesses and track playing → win/loss transitions.
//   - Abandon a running session.
//
// Notes:
//   - Sessions are plain JSON-serialisable values; persistence lives in the
//     store package and mutual exclusion in the bot package.
//   - Guesses and GuessAux are append-only and always the same length.

package game

import (
	"fmt"
	"time"
	"unicode/utf8"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Session holds the state of one game in one scope.
type Session struct {
	ID           string            `json:"id"`
	Scope        string            `json:"scope"`
	Variant      Variant           `json:"variant"`
	Category     string            `json:"category,omitempty"`
	Answer       string            `json:"answer"`
	AnswerAux    string            `json:"answerAux,omitempty"`
	Guesses      []string          `json:"guesses"`
	GuessAux     []string          `json:"guessAux"`
	MaxAttempts  int               `json:"maxAttempts"`
	AnswerLength int               `json:"answerLength"`
	Finished     bool              `json:"finished"`
	Outcome      Outcome           `json:"outcome,omitempty"`
	Participants map[string]string `json:"participants"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// letterAttempts maps word length to the attempt budget.
var letterAttempts = map[int]int{4: 5, 5: 6, 6: 7, 7: 8, 8: 9}

// idiomAttempts maps idiom length to the attempt budget.
var idiomAttempts = map[int]int{4: 10}

// MaxAttempts returns the attempt budget for an answer of the given length.
func MaxAttempts(v Variant, length int) int {
	switch v {
	case VariantLetter:
		if n, ok := letterAttempts[length]; ok {
			return n
		}
	case VariantIdiom:
		if n, ok := idiomAttempts[length]; ok {
			return n
		}
	case VariantEquation:
		switch {
		case length <= 8:
			return 6
		case length <= 11:
			return 7
		case length <= 14:
			return 8
		default:
			return 9
		}
	}
	return max(length+1, 6)
}

// NewSession constructs an active session for scope with the given answer.
// aux is the answer's derived data (idiom pinyin), empty for other variants.
func NewSession(scope string, v Variant, category, answer, aux string) (*Session, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("unknown variant %q", v)
	}
	if answer == "" {
		return nil, ErrNoAnswer
	}
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}
	n := utf8.RuneCountInString(answer)
	now := time.Now().UTC()
	return &Session{
		ID:           id,
		Scope:        scope,
		Variant:      v,
		Category:     category,
		Answer:       answer,
		AnswerAux:    aux,
		Guesses:      []string{},
		GuessAux:     []string{},
		MaxAttempts:  MaxAttempts(v, n),
		AnswerLength: n,
		Participants: map[string]string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Active reports whether the session still accepts guesses.
func (s *Session) Active() bool { return !s.Finished }

// AttemptCount is the number of accepted guesses.
func (s *Session) AttemptCount() int { return len(s.Guesses) }

// Remaining is the number of guesses left.
func (s *Session) Remaining() int { return max(s.MaxAttempts-len(s.Guesses), 0) }

// HasGuessed reports whether guess was already submitted.
func (s *Session) HasGuessed(guess string) bool {
	for _, g := range s.Guesses {
		if g == guess {
			return true
		}
	}
	return false
}

// Apply records an already validated and scored guess.
//
// State transitions:
//   - All cells correct → Finished, OutcomeWin.
//   - Else if the attempt budget is used up → Finished, OutcomeLoss.
func (s *Session) Apply(guess, aux, playerID, playerName string, cells []Cell) (Outcome, error) {
	if s.Finished {
		return s.Outcome, ErrGameFinished
	}
	if utf8.RuneCountInString(guess) != s.AnswerLength || len(cells) != s.AnswerLength {
		return OutcomeNone, ErrWrongLength
	}

	s.Guesses = append(s.Guesses, guess)
	s.GuessAux = append(s.GuessAux, aux)
	if s.Participants == nil {
		s.Participants = map[string]string{}
	}
	if playerID != "" {
		s.Participants[playerID] = playerName
	}
	s.UpdatedAt = time.Now().UTC()

	switch {
	case AllCorrect(cells):
		s.Finished, s.Outcome = true, OutcomeWin
	case len(s.Guesses) >= s.MaxAttempts:
		s.Finished, s.Outcome = true, OutcomeLoss
	}
	return s.Outcome, nil
}

// Abandon finishes an active session without a winner.
func (s *Session) Abandon() error {
	if s.Finished {
		return ErrGameFinished
	}
	s.Finished, s.Outcome = true, OutcomeAbandoned
	s.UpdatedAt = time.Now().UTC()
	return nil
}

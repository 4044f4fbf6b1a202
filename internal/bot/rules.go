package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/robalobadob/guessbot/internal/game"
	"github.com/robalobadob/guessbot/internal/pinyin"
	"github.com/robalobadob/guessbot/internal/render"
	"github.com/robalobadob/guessbot/internal/words"
)

// rules holds what differs between the three games: how answers are chosen,
// how raw guesses are cleaned up and scored, and how rows are drawn.
type rules interface {
	variant() game.Variant
	name() string
	normalize(text string) string
	choose(ctx context.Context, o *Orchestrator, req StartRequest) (answer, category string, err error)
	score(o *Orchestrator, s *game.Session, guess string) (cells []game.Cell, aux string)
	row(s *game.Session, i int) render.Row
	describe(s *game.Session) string
}

func plainRow(cells []game.Cell) render.Row { return render.Row{Cells: cells} }

// --- letter words ---

type letterRules struct{}

func (letterRules) variant() game.Variant { return game.VariantLetter }
func (letterRules) name() string          { return "word" }

func (letterRules) normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func (letterRules) choose(ctx context.Context, o *Orchestrator, req StartRequest) (string, string, error) {
	bank := ""
	if o.prefs != nil {
		b, err := o.prefs.Wordbank(ctx, req.Scope)
		if err != nil {
			return "", "", fmt.Errorf("load word bank selection: %w", err)
		}
		bank = b
	}
	if bank == "" {
		bank = words.DefaultBank
	}
	answer, ok := o.corpus.RandomAnswer(game.VariantLetter, req.Length, "", bank)
	if !ok {
		return "", "", game.ErrNoAnswer
	}
	return strings.ToLower(answer), bank, nil
}

func (letterRules) score(_ *Orchestrator, s *game.Session, guess string) ([]game.Cell, string) {
	return game.ScoreLetters(guess, s.Answer), ""
}

func (letterRules) row(s *game.Session, i int) render.Row {
	return plainRow(game.ScoreLetters(s.Guesses[i], s.Answer))
}

func (letterRules) describe(s *game.Session) string {
	return fmt.Sprintf("a %d-letter word (%s bank)", s.AnswerLength, s.Category)
}

// --- equations ---

type equationRules struct{}

func (equationRules) variant() game.Variant { return game.VariantEquation }
func (equationRules) name() string          { return "equation" }

func (equationRules) normalize(text string) string {
	return words.NormalizeEquation(text)
}

func (equationRules) choose(ctx context.Context, o *Orchestrator, req StartRequest) (string, string, error) {
	category := req.Category
	if category == "" && o.prefs != nil {
		c, err := o.prefs.Category(ctx, req.Scope)
		if err != nil {
			return "", "", fmt.Errorf("load category selection: %w", err)
		}
		category = c
	}
	if category == "" {
		category = words.CategoryNormal
	}
	answer, ok := o.corpus.RandomAnswer(game.VariantEquation, req.Length, category, "")
	if !ok {
		return "", "", game.ErrNoAnswer
	}
	return answer, category, nil
}

func (equationRules) score(_ *Orchestrator, s *game.Session, guess string) ([]game.Cell, string) {
	return game.ScoreEquation(guess, s.Answer), ""
}

func (equationRules) row(s *game.Session, i int) render.Row {
	return plainRow(game.ScoreEquation(s.Guesses[i], s.Answer))
}

func (equationRules) describe(s *game.Session) string {
	return fmt.Sprintf("a %d-character %s equation", s.AnswerLength, s.Category)
}

// --- idioms ---

type idiomRules struct{}

func (idiomRules) variant() game.Variant { return game.VariantIdiom }
func (idiomRules) name() string          { return "idiom" }

func (idiomRules) normalize(text string) string {
	return strings.Join(strings.Fields(text), "")
}

func (idiomRules) choose(_ context.Context, o *Orchestrator, req StartRequest) (string, string, error) {
	answer, ok := o.corpus.RandomAnswer(game.VariantIdiom, req.Length, "", "")
	if !ok {
		return "", "", game.ErrNoAnswer
	}
	return answer, "", nil
}

func (idiomRules) score(o *Orchestrator, s *game.Session, guess string) ([]game.Cell, string) {
	return game.ScoreIdiom(guess, s.Answer), o.corpus.Auxiliary(game.VariantIdiom, guess)
}

func (idiomRules) row(s *game.Session, i int) render.Row {
	r := plainRow(game.ScoreIdiom(s.Guesses[i], s.Answer))
	if i >= len(s.GuessAux) {
		return r
	}
	g := pinyin.ParseSequence(s.GuessAux[i])
	t := pinyin.ParseSequence(s.AnswerAux)
	marks := game.ScoreSyllables(g, t)
	if len(g) != s.AnswerLength || len(marks) != s.AnswerLength {
		return r
	}
	r.Pinyin = make([]string, len(g))
	for j, syl := range g {
		r.Pinyin[j] = syl.String()
	}
	r.Marks = marks
	return r
}

func (idiomRules) describe(s *game.Session) string {
	return fmt.Sprintf("a %d-character idiom", s.AnswerLength)
}

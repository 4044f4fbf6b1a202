// Package render turns a game board into something a chat can display: a PNG
// image, or plain text when image rendering is not possible.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robalobadob/guessbot/internal/game"
)

// ErrBadBoard is returned for boards whose shape is inconsistent.
var ErrBadBoard = errors.New("render: inconsistent board")

// Board is the plain description of a game state handed to a renderer.
type Board struct {
	Variant      game.Variant `json:"variant"`
	AnswerLength int          `json:"answerLength"`
	MaxAttempts  int          `json:"maxAttempts"`
	Rows         []Row        `json:"rows"`
}

// Row is one scored guess. Pinyin and Marks are set for idiom rows only and
// then have one entry per cell.
type Row struct {
	Cells  []game.Cell          `json:"cells"`
	Pinyin []string             `json:"pinyin,omitempty"`
	Marks  []game.SyllableMarks `json:"marks,omitempty"`
}

// Validate checks the board shape.
func (b Board) Validate() error {
	if b.AnswerLength <= 0 || b.MaxAttempts <= 0 {
		return fmt.Errorf("%w: length %d, attempts %d", ErrBadBoard, b.AnswerLength, b.MaxAttempts)
	}
	if len(b.Rows) > b.MaxAttempts {
		return fmt.Errorf("%w: %d rows for %d attempts", ErrBadBoard, len(b.Rows), b.MaxAttempts)
	}
	for i, r := range b.Rows {
		if len(r.Cells) != b.AnswerLength {
			return fmt.Errorf("%w: row %d has %d cells", ErrBadBoard, i, len(r.Cells))
		}
		if (len(r.Pinyin) != 0 && len(r.Pinyin) != b.AnswerLength) || (len(r.Marks) != 0 && len(r.Marks) != b.AnswerLength) {
			return fmt.Errorf("%w: row %d pinyin does not match cells", ErrBadBoard, i)
		}
	}
	return nil
}

func square(s game.Status) string {
	switch s {
	case game.StatusCorrect:
		return "🟩"
	case game.StatusPresent:
		return "🟨"
	default:
		return "⬜"
	}
}

func markLetter(s game.Status) string {
	switch s {
	case game.StatusCorrect:
		return "✓"
	case game.StatusPresent:
		return "~"
	default:
		return "·"
	}
}

// Text renders the board as emoji squares, one guess per line. Idiom rows
// get a second line with each syllable and its initial/final/tone marks.
func Text(b Board) string {
	var sb strings.Builder
	for _, r := range b.Rows {
		for _, c := range r.Cells {
			sb.WriteString(square(c.Status))
		}
		sb.WriteString("  ")
		for _, c := range r.Cells {
			sb.WriteString(c.Symbol)
		}
		sb.WriteByte('\n')

		if len(r.Pinyin) > 0 {
			parts := make([]string, len(r.Pinyin))
			for i, py := range r.Pinyin {
				parts[i] = py
				if i < len(r.Marks) {
					m := r.Marks[i]
					parts[i] += "(" + markLetter(m.Initial) + markLetter(m.Final) + markLetter(m.Tone) + ")"
				}
			}
			sb.WriteString(strings.Join(parts, " "))
			sb.WriteByte('\n')
		}
	}
	if left := b.MaxAttempts - len(b.Rows); left > 0 {
		fmt.Fprintf(&sb, "%d/%d attempts left", left, b.MaxAttempts)
	}
	return strings.TrimRight(sb.String(), "\n")
}

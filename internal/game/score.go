// internal/game/score.go
//
// Guess scoring for all three variants.
//
// Score implements the standard two-pass Wordle algorithm over arbitrary
// symbols (letters, equation characters, Han characters). ScoreSyllables adds
// the idiom-only pinyin layer on top of the character result.

package game

import (
	"strings"

	"github.com/robalobadob/guessbot/internal/pinyin"
)

// Score compares guess against target position by position.
//
// Pass 1:
//   - Mark exact matches as correct.
//   - Count the remaining (non-correct) target symbols.
//
// Pass 2:
//   - For each pending guess symbol: if an unclaimed occurrence remains,
//     mark present and decrement the count; otherwise mark absent.
//
// A symbol is therefore never marked correct/present more often than it occurs
// in the target. Unequal lengths yield an empty result.
func Score(guess, target []rune) []Cell {
	n := len(target)
	if len(guess) != n {
		return []Cell{}
	}
	res := make([]Cell, n)
	counts := make(map[rune]int, n)

	for i := 0; i < n; i++ {
		res[i].Symbol = string(guess[i])
		if guess[i] == target[i] {
			res[i].Status = StatusCorrect
		} else {
			res[i].Status = statusPending
			counts[target[i]]++
		}
	}

	for i := 0; i < n; i++ {
		if res[i].Status != statusPending {
			continue
		}
		if counts[guess[i]] > 0 {
			res[i].Status = StatusPresent
			counts[guess[i]]--
		} else {
			res[i].Status = StatusAbsent
		}
	}
	return res
}

// ScoreLetters scores a word guess case-insensitively. Cells carry the
// lower-cased letters.
func ScoreLetters(guess, target string) []Cell {
	return Score([]rune(strings.ToLower(guess)), []rune(strings.ToLower(target)))
}

// ScoreEquation scores an equation guess over its literal characters.
func ScoreEquation(guess, target string) []Cell {
	return Score([]rune(guess), []rune(target))
}

// ScoreIdiom scores an idiom guess over its characters.
func ScoreIdiom(guess, target string) []Cell {
	return Score([]rune(guess), []rune(target))
}

// ScoreSyllables scores each guess syllable's initial, final and tone against
// the target syllables. Each component is judged independently:
//
//   - initial/final: correct at the same position, present if any other
//     target position has it, else absent.
//   - tone: correct when tone and final both match in place. When only the
//     tone matches in place it is present if another position carries the same
//     tone+final pair, and otherwise still correct. When the tone differs it is
//     present if any other position carries that tone, else absent.
//
// Unequal lengths yield an empty result.
func ScoreSyllables(guess, target []pinyin.Syllable) []SyllableMarks {
	n := len(target)
	if len(guess) != n {
		return []SyllableMarks{}
	}
	out := make([]SyllableMarks, n)
	for i, g := range guess {
		t := target[i]
		out[i].Initial = componentStatus(i, target, func(s pinyin.Syllable) bool { return s.Initial == g.Initial })
		out[i].Final = componentStatus(i, target, func(s pinyin.Syllable) bool { return s.Final == g.Final })
		out[i].Tone = toneStatus(i, g, t, target)
	}
	return out
}

// componentStatus applies the in-place / elsewhere / nowhere rule for one
// syllable component.
func componentStatus(i int, target []pinyin.Syllable, match func(pinyin.Syllable) bool) Status {
	if match(target[i]) {
		return StatusCorrect
	}
	if elsewhere(i, target, match) {
		return StatusPresent
	}
	return StatusAbsent
}

func toneStatus(i int, g, t pinyin.Syllable, target []pinyin.Syllable) Status {
	switch {
	case g.Tone == t.Tone && g.Final == t.Final:
		return StatusCorrect
	case g.Tone == t.Tone:
		if elsewhere(i, target, func(s pinyin.Syllable) bool { return s.Tone == g.Tone && s.Final == g.Final }) {
			return StatusPresent
		}
		// Tone digit matches in place but its final does not; kept as correct.
		return StatusCorrect
	default:
		if elsewhere(i, target, func(s pinyin.Syllable) bool { return s.Tone == g.Tone }) {
			return StatusPresent
		}
		return StatusAbsent
	}
}

// elsewhere reports whether any target position other than i satisfies match.
func elsewhere(i int, target []pinyin.Syllable, match func(pinyin.Syllable) bool) bool {
	for j, s := range target {
		if j != i && match(s) {
			return true
		}
	}
	return false
}

// AllCorrect returns true if every cell is correct. An empty row is not a win.
func AllCorrect(cells []Cell) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if c.Status != StatusCorrect {
			return false
		}
	}
	return true
}

// internal/pinyin/pinyin.go
//
// Decomposes romanized Mandarin syllables into initial, final and tone.
// Accepts both diacritic form ("zhōng", precomposed or with combining marks)
// and numbered form ("zhong1").
//
// Notes:
//   - Parsing never fails; malformed input degrades to whatever prefix/remainder
//     split the initial table produces, and empty input yields the zero Syllable.
//   - Tone 0 means neutral / unknown.

package pinyin

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Syllable is one decomposed pinyin unit.
type Syllable struct {
	Initial string `json:"initial"`
	Final   string `json:"final"`
	Tone    int    `json:"tone"`
}

// initials is ordered so multi-letter initials are tried before the
// single letters they start with.
var initials = []string{
	"zh", "ch", "sh",
	"b", "p", "m", "f", "d", "t", "n", "l",
	"g", "k", "h", "j", "q", "x", "r",
	"z", "c", "s", "y", "w",
}

// toneMarks maps each tone-marked vowel to its base vowel and tone.
var toneMarks = map[rune]struct {
	base rune
	tone int
}{
	'ā': {'a', 1}, 'á': {'a', 2}, 'ǎ': {'a', 3}, 'à': {'a', 4},
	'ē': {'e', 1}, 'é': {'e', 2}, 'ě': {'e', 3}, 'è': {'e', 4},
	'ī': {'i', 1}, 'í': {'i', 2}, 'ǐ': {'i', 3}, 'ì': {'i', 4},
	'ō': {'o', 1}, 'ó': {'o', 2}, 'ǒ': {'o', 3}, 'ò': {'o', 4},
	'ū': {'u', 1}, 'ú': {'u', 2}, 'ǔ': {'u', 3}, 'ù': {'u', 4},
	'ǖ': {'ü', 1}, 'ǘ': {'ü', 2}, 'ǚ': {'ü', 3}, 'ǜ': {'ü', 4},
}

// Parse decomposes a single syllable.
func Parse(text string) Syllable {
	// Composed form, so a vowel followed by a combining tone mark matches toneMarks.
	text = norm.NFC.String(strings.ToLower(strings.TrimSpace(text)))
	if text == "" {
		return Syllable{}
	}

	plain, tone := stripTone(text)
	if tone == 0 {
		plain, tone = stripToneDigit(plain)
	}

	initial := ""
	for _, in := range initials {
		if strings.HasPrefix(plain, in) {
			initial = in
			break
		}
	}
	return Syllable{
		Initial: initial,
		Final:   plain[len(initial):],
		Tone:    tone,
	}
}

// ParseSequence splits text on whitespace and parses each token.
// Blank input yields an empty (non-nil) slice.
func ParseSequence(text string) []Syllable {
	fields := strings.Fields(text)
	out := make([]Syllable, 0, len(fields))
	for _, f := range fields {
		out = append(out, Parse(f))
	}
	return out
}

// String renders the numbered plain form, e.g. "zhong1". Neutral tone has no digit.
func (s Syllable) String() string {
	if s.Tone == 0 {
		return s.Initial + s.Final
	}
	return s.Initial + s.Final + strconv.Itoa(s.Tone)
}

// IsZero reports whether s came from empty input.
func (s Syllable) IsZero() bool {
	return s == Syllable{}
}

// stripTone replaces the first tone-marked vowel with its base vowel.
func stripTone(text string) (string, int) {
	tone := 0
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if m, ok := toneMarks[r]; ok && tone == 0 {
			tone = m.tone
			b.WriteRune(m.base)
			continue
		} else if ok {
			b.WriteRune(m.base)
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), tone
}

// stripToneDigit removes a trailing tone digit 1-4.
func stripToneDigit(text string) (string, int) {
	n := len(text)
	if n == 0 {
		return text, 0
	}
	if d := text[n-1]; d >= '1' && d <= '4' {
		return text[:n-1], int(d - '0')
	}
	return text, 0
}

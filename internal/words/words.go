// internal/words/words.go
//
// Read-only corpus for all three game variants.
//
// Responsibilities:
//   - Load letter word banks (embedded "default" and "cet4", plus any
//     <name>.txt found in an optional directory), the glossary, equation
//     lists per category and the idiom dictionary.
//   - Pick random answers and validate guesses per variant.
//   - Supply glosses (definitions, idiom pinyin) for the reveal message.
//
// Word lists:
//   - Lines are trimmed and lowercased; '#' starts a comment line.
//   - Only ASCII letter words are kept; each bank is indexed by length.
//   - A guess is valid when it appears in any bank.
//
// Loading happens once at startup; a Corpus is immutable afterwards and safe
// for concurrent use.

package words

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessbot/assets"
	"github.com/robalobadob/guessbot/internal/game"
	"github.com/robalobadob/guessbot/internal/pinyin"
)

const (
	DefaultBank     = "default"
	CategoryNormal  = "normal"
	CategorySpecial = "special"

	defaultLetterLength   = 5
	defaultEquationLength = 8
)

// bank is one named word list indexed by length.
type bank struct {
	byLength map[int][]string
	size     int
}

func newBank(list []string) *bank {
	b := &bank{byLength: map[int][]string{}}
	seen := make(map[string]struct{}, len(list))
	for _, w := range list {
		if !isAlpha(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		b.byLength[len(w)] = append(b.byLength[len(w)], w)
		b.size++
	}
	return b
}

// Corpus holds every loaded list.
type Corpus struct {
	banks     map[string]*bank
	allowed   map[string]struct{} // union of all banks
	glossary  map[string]string
	equations map[string]map[int][]string
	idioms    []assets.Idiom
	idiomIdx  map[string]assets.Idiom

	// randIndex returns a uniform index in [0, n).
	randIndex func(n int) int
}

// Load reads the embedded corpora and, when dir is non-empty, every
// <name>.txt in dir as an additional (or replacement) word bank.
func Load(dir string) (*Corpus, error) {
	c := &Corpus{
		banks:     map[string]*bank{},
		allowed:   map[string]struct{}{},
		equations: map[string]map[int][]string{},
		idiomIdx:  map[string]assets.Idiom{},
		randIndex: cryptoIndex,
	}

	for _, name := range assets.LetterBanks() {
		list, err := assets.LetterBank(name)
		if err != nil {
			return nil, fmt.Errorf("load bank %s: %w", name, err)
		}
		c.addBank(name, list)
	}
	if dir != "" {
		if err := c.loadDir(dir); err != nil {
			return nil, err
		}
	}
	if _, ok := c.banks[DefaultBank]; !ok {
		return nil, errors.New("words: default bank missing")
	}

	gl, err := assets.Glossary()
	if err != nil {
		return nil, fmt.Errorf("load glossary: %w", err)
	}
	c.glossary = gl

	for _, cat := range []string{CategoryNormal, CategorySpecial} {
		raw, err := assets.Equations(cat)
		if err != nil {
			return nil, fmt.Errorf("load equations %s: %w", cat, err)
		}
		byLen := map[int][]string{}
		for k, list := range raw {
			n, err := strconv.Atoi(k)
			if err != nil {
				return nil, fmt.Errorf("equations %s: bad length key %q", cat, k)
			}
			for _, eq := range list {
				if !IsValidEquation(eq, n) {
					log.Warn().Str("category", cat).Str("equation", eq).Msg("skipping invalid equation")
					continue
				}
				byLen[n] = append(byLen[n], eq)
			}
		}
		c.equations[cat] = byLen
	}

	idioms, err := assets.Idioms()
	if err != nil {
		return nil, fmt.Errorf("load idioms: %w", err)
	}
	for _, id := range idioms {
		if id.Word == "" || len(pinyin.ParseSequence(id.Pinyin)) != utf8.RuneCountInString(id.Word) {
			log.Warn().Str("idiom", id.Word).Msg("skipping idiom with mismatched pinyin")
			continue
		}
		if _, dup := c.idiomIdx[id.Word]; dup {
			continue
		}
		c.idioms = append(c.idioms, id)
		c.idiomIdx[id.Word] = id
	}

	s := c.Stats()
	log.Info().
		Interface("banks", s.Banks).
		Interface("equations", s.Equations).
		Int("idioms", s.Idioms).
		Msg("corpus loaded")
	return c, nil
}

func (c *Corpus) addBank(name string, list []string) {
	b := newBank(list)
	c.banks[name] = b
	for _, ws := range b.byLength {
		for _, w := range ws {
			c.allowed[w] = struct{}{}
		}
	}
}

// loadDir adds word banks from *.txt files in dir.
func (c *Corpus) loadDir(dir string) error {
	matches, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return err
	}
	for _, path := range matches {
		name := strings.TrimSuffix(filepath.Base(path), ".txt")
		list, err := assets.ReadLines(os.DirFS(dir), filepath.Base(path))
		if err != nil {
			return fmt.Errorf("load bank %s: %w", path, err)
		}
		c.addBank(name, list)
		log.Info().Str("bank", name).Str("path", path).Msg("word bank loaded from disk")
	}
	return nil
}

// cryptoIndex returns a cryptographically random index in [0, n).
func cryptoIndex(n int) int {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(nBig.Int64())
}

func (c *Corpus) pick(list []string) (string, bool) {
	if len(list) == 0 {
		return "", false
	}
	return list[c.randIndex(len(list))], true
}

// isAlpha reports whether s is a non-empty run of lowercase ASCII letters.
func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// Banks lists the available word bank names, sorted.
func (c *Corpus) Banks() []string {
	out := make([]string, 0, len(c.banks))
	for name := range c.banks {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// HasBank reports whether name is a loaded word bank.
func (c *Corpus) HasBank(name string) bool {
	_, ok := c.banks[name]
	return ok
}

// Categories lists the equation categories, sorted.
func (c *Corpus) Categories() []string {
	out := make([]string, 0, len(c.equations))
	for name := range c.equations {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// HasCategory reports whether name is an equation category.
func (c *Corpus) HasCategory(name string) bool {
	_, ok := c.equations[name]
	return ok
}

// RandomAnswer picks an answer for variant v.
//
//   - letter:   from bank (default bank when empty or unknown); length 0 means 5.
//   - equation: from category (normal when empty); length 0 means 8 for
//     normal and any available length otherwise.
//   - idiom:    any idiom; a non-zero length must match the idiom length.
//
// ok is false when nothing matches.
func (c *Corpus) RandomAnswer(v game.Variant, length int, category, bankName string) (string, bool) {
	switch v {
	case game.VariantLetter:
		b, ok := c.banks[bankName]
		if !ok {
			b = c.banks[DefaultBank]
		}
		if length == 0 {
			length = defaultLetterLength
		}
		return c.pick(b.byLength[length])

	case game.VariantEquation:
		if category == "" {
			category = CategoryNormal
		}
		byLen, ok := c.equations[category]
		if !ok {
			return "", false
		}
		if length == 0 && category == CategoryNormal {
			length = defaultEquationLength
		}
		if length != 0 {
			return c.pick(byLen[length])
		}
		lengths := make([]int, 0, len(byLen))
		for n, list := range byLen {
			if len(list) > 0 {
				lengths = append(lengths, n)
			}
		}
		if len(lengths) == 0 {
			return "", false
		}
		sort.Ints(lengths)
		return c.pick(byLen[lengths[c.randIndex(len(lengths))]])

	case game.VariantIdiom:
		if len(c.idioms) == 0 {
			return "", false
		}
		if length != 0 {
			var fit []string
			for _, id := range c.idioms {
				if utf8.RuneCountInString(id.Word) == length {
					fit = append(fit, id.Word)
				}
			}
			return c.pick(fit)
		}
		return c.idioms[c.randIndex(len(c.idioms))].Word, true
	}
	return "", false
}

// IsValidGuess reports whether candidate is an acceptable guess of the given
// length. The equation category does not restrict guesses: any true equation
// of the right length is accepted.
func (c *Corpus) IsValidGuess(candidate string, v game.Variant, length int, category string) bool {
	switch v {
	case game.VariantLetter:
		w := strings.ToLower(candidate)
		if len(w) != length || !isAlpha(w) {
			return false
		}
		_, ok := c.allowed[w]
		return ok
	case game.VariantEquation:
		return IsValidEquation(candidate, length)
	case game.VariantIdiom:
		if utf8.RuneCountInString(candidate) != length {
			return false
		}
		_, ok := c.idiomIdx[candidate]
		return ok
	}
	return false
}

// Gloss returns a short explanation of answer for the reveal message, or ""
// when none is known.
func (c *Corpus) Gloss(v game.Variant, answer string) string {
	switch v {
	case game.VariantLetter:
		return c.glossary[strings.ToLower(answer)]
	case game.VariantIdiom:
		id, ok := c.idiomIdx[answer]
		if !ok {
			return ""
		}
		if id.Explanation == "" {
			return id.Pinyin
		}
		return id.Pinyin + ": " + id.Explanation
	}
	return ""
}

// Auxiliary returns derived data stored alongside a word in a session: the
// space separated pinyin for idioms, "" otherwise.
func (c *Corpus) Auxiliary(v game.Variant, word string) string {
	if v != game.VariantIdiom {
		return ""
	}
	return c.idiomIdx[word].Pinyin
}

// Stats summarises the loaded corpus.
type Stats struct {
	Banks     map[string]int `json:"banks"`
	Equations map[string]int `json:"equations"`
	Idioms    int            `json:"idioms"`
	Glossary  int            `json:"glossary"`
}

// Stats returns word counts per bank and category.
func (c *Corpus) Stats() Stats {
	s := Stats{
		Banks:     make(map[string]int, len(c.banks)),
		Equations: make(map[string]int, len(c.equations)),
		Idioms:    len(c.idioms),
		Glossary:  len(c.glossary),
	}
	for name, b := range c.banks {
		s.Banks[name] = b.size
	}
	for cat, byLen := range c.equations {
		for _, list := range byLen {
			s.Equations[cat] += len(list)
		}
	}
	return s
}

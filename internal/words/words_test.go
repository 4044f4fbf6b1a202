package words

import (
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/guessbot/internal/game"
)

func loadCorpus(t *testing.T) *Corpus {
	t.Helper()
	c, err := Load("")
	require.NoError(t, err)
	return c
}

func TestLoad_Embedded(t *testing.T) {
	c := loadCorpus(t)

	assert.Equal(t, []string{"cet4", "default"}, c.Banks())
	assert.Equal(t, []string{"normal", "special"}, c.Categories())
	assert.True(t, c.HasBank("cet4"))
	assert.False(t, c.HasBank("klingon"))

	s := c.Stats()
	assert.Greater(t, s.Banks["default"], 2000)
	assert.Equal(t, 360, s.Equations["normal"])
	assert.Equal(t, 180, s.Equations["special"])
	assert.Equal(t, 80, s.Idioms)
	assert.NotZero(t, s.Glossary)
}

func TestLoad_Dir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tiny.txt"), []byte("# tiny\nQuokka\nzebra\n12345\n"), 0o644))

	c, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, c.HasBank("tiny"))
	assert.Equal(t, 2, c.Stats().Banks["tiny"])
	assert.True(t, c.IsValidGuess("QUOKKA", game.VariantLetter, 6, ""))

	c.randIndex = func(int) int { return 0 }
	got, ok := c.RandomAnswer(game.VariantLetter, 5, "", "tiny")
	require.True(t, ok)
	assert.Equal(t, "zebra", got)
}

func TestRandomAnswer_Letter(t *testing.T) {
	c := loadCorpus(t)

	for n := 4; n <= 8; n++ {
		w, ok := c.RandomAnswer(game.VariantLetter, n, "", "cet4")
		require.True(t, ok, n)
		assert.Len(t, w, n)
		assert.True(t, c.IsValidGuess(w, game.VariantLetter, n, ""))
	}

	w, ok := c.RandomAnswer(game.VariantLetter, 0, "", "")
	require.True(t, ok)
	assert.Len(t, w, 5)

	// Unknown banks fall back to the default bank.
	_, ok = c.RandomAnswer(game.VariantLetter, 5, "", "klingon")
	assert.True(t, ok)

	_, ok = c.RandomAnswer(game.VariantLetter, 15, "", "")
	assert.False(t, ok)
}

func TestRandomAnswer_Equation(t *testing.T) {
	c := loadCorpus(t)

	eq, ok := c.RandomAnswer(game.VariantEquation, 0, "", "")
	require.True(t, ok)
	assert.Len(t, eq, 8)
	assert.True(t, IsValidEquation(eq, 8))

	for _, n := range []int{5, 6, 7, 9, 10} {
		eq, ok := c.RandomAnswer(game.VariantEquation, n, CategoryNormal, "")
		require.True(t, ok, n)
		assert.Len(t, eq, n)
		assert.NotContains(t, eq, "**")
	}

	eq, ok = c.RandomAnswer(game.VariantEquation, 0, CategorySpecial, "")
	require.True(t, ok)
	assert.Contains(t, []int{12, 14, 16}, len(eq))
	assert.Contains(t, eq, "**")

	_, ok = c.RandomAnswer(game.VariantEquation, 0, "impossible", "")
	assert.False(t, ok)
	_, ok = c.RandomAnswer(game.VariantEquation, 13, CategorySpecial, "")
	assert.False(t, ok)
}

func TestRandomAnswer_Idiom(t *testing.T) {
	c := loadCorpus(t)

	w, ok := c.RandomAnswer(game.VariantIdiom, 0, "", "")
	require.True(t, ok)
	assert.Equal(t, 4, utf8.RuneCountInString(w))
	assert.NotEmpty(t, c.Auxiliary(game.VariantIdiom, w))

	_, ok = c.RandomAnswer(game.VariantIdiom, 4, "", "")
	assert.True(t, ok)
	_, ok = c.RandomAnswer(game.VariantIdiom, 5, "", "")
	assert.False(t, ok)
}

func TestIsValidGuess(t *testing.T) {
	c := loadCorpus(t)

	tests := []struct {
		name      string
		candidate string
		variant   game.Variant
		length    int
		want      bool
	}{
		{"letter word", "crane", game.VariantLetter, 5, true},
		{"letter word any case", "CrAnE", game.VariantLetter, 5, true},
		{"letter from other bank", "tidy", game.VariantLetter, 4, true},
		{"letter not a word", "xqzvw", game.VariantLetter, 5, false},
		{"letter wrong length", "crane", game.VariantLetter, 6, false},
		{"equation", "12/3=4", game.VariantEquation, 6, true},
		{"equation false", "12/3=5", game.VariantEquation, 6, false},
		{"equation wrong length", "1+2=3", game.VariantEquation, 6, false},
		{"idiom", "风调雨顺", game.VariantIdiom, 4, true},
		{"idiom unknown", "风风雨雨", game.VariantIdiom, 4, false},
		{"idiom wrong length", "一帆风顺", game.VariantIdiom, 5, false},
		{"unknown variant", "crane", game.Variant("chess"), 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsValidGuess(tt.candidate, tt.variant, tt.length, ""))
		})
	}
}

func TestGlossAndAuxiliary(t *testing.T) {
	c := loadCorpus(t)

	assert.Contains(t, c.Gloss(game.VariantLetter, "CRANE"), "bird")
	assert.Equal(t, "", c.Gloss(game.VariantLetter, "xqzvw"))
	assert.Equal(t, "", c.Gloss(game.VariantEquation, "1+2=3"))

	assert.Equal(t, "yī fān fēng shùn", c.Auxiliary(game.VariantIdiom, "一帆风顺"))
	assert.Equal(t, "fēng tiáo yǔ shùn", c.Auxiliary(game.VariantIdiom, "风调雨顺"))
	assert.Equal(t, "", c.Auxiliary(game.VariantLetter, "crane"))

	g := c.Gloss(game.VariantIdiom, "一帆风顺")
	assert.Contains(t, g, "yī fān fēng shùn: ")
	assert.Contains(t, g, "顺利")
}

package words

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"7", "7"},
		{"0", "0"},
		{"1+2*3", "7"},
		{"10-4-3", "3"},
		{"12/4/3", "1"},
		{"7/2", "7/2"},
		{"7/2*2", "7"},
		{"2**3**2", "512"},
		{"2*3**2", "18"},
		{"2**0", "1"},
		{"5-9", "-4"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Eval(tt.expr)
			require.NoError(t, err)
			want, _ := new(big.Rat).SetString(tt.want)
			assert.Zero(t, want.Cmp(got), "got %s", got.RatString())
		})
	}
}

func TestEval_Errors(t *testing.T) {
	tests := []struct {
		expr string
		want error
	}{
		{"", ErrMalformed},
		{"+1", ErrMalformed},
		{"1+", ErrMalformed},
		{"01+2", ErrMalformed},
		{"1++2", ErrMalformed},
		{"1*/2", ErrMalformed},
		{"1***2", ErrMalformed},
		{"2a", ErrMalformed},
		{"4/0", ErrDivisionByZero},
		{"4/(2-2)", ErrMalformed},
		{"2**17", ErrExponent},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := Eval(tt.expr)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestIsValidEquation(t *testing.T) {
	assert.True(t, IsValidEquation("1+2=3", 5))
	assert.True(t, IsValidEquation("1+2=3", 0))
	assert.True(t, IsValidEquation("3=1+2", 5))
	assert.True(t, IsValidEquation("2**3**2=512", 11))
	assert.True(t, IsValidEquation("7/2*2=7", 7))

	assert.False(t, IsValidEquation("1+2=4", 5))
	assert.False(t, IsValidEquation("1+2=3", 6))
	assert.False(t, IsValidEquation("1+2", 3))
	assert.False(t, IsValidEquation("3=3=3", 5))
	assert.False(t, IsValidEquation("1/0=0", 5))
	assert.False(t, IsValidEquation("=3", 2))
}

func TestNormalizeEquation(t *testing.T) {
	assert.Equal(t, "3*4=12", NormalizeEquation(" 3×4＝12 "))
	assert.Equal(t, "8/2=4", NormalizeEquation("８÷２=４"))
	assert.Equal(t, "2**3=8", NormalizeEquation("2^3 = 8"))
	assert.Equal(t, "2**3=8", NormalizeEquation("2**3=8"))
}

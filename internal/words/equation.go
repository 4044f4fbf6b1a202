// internal/words/equation.go
//
// Arithmetic checker for the equation game.
//
// Grammar (no whitespace, no parentheses, no unary minus):
//
//	equation := expr "=" expr
//	expr     := term   { ("+" | "-") term }
//	term     := power  { ("*" | "/") power }
//	power    := number [ "**" power ]        (right-associative)
//	number   := "0" | [1-9][0-9]*
//
// Values are exact rationals, so 7/2*2=7 holds. Exponents must be whole
// numbers in [0, maxExponent].

package words

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const maxExponent = 16

var (
	ErrMalformed      = errors.New("malformed equation")
	ErrDivisionByZero = errors.New("division by zero")
	ErrExponent       = errors.New("exponent out of range")
)

var equationReplacer = strings.NewReplacer(
	"×", "*", "÷", "/", "＝", "=", "＋", "+", "－", "-", "＊", "*", "／", "/", "^", "**", " ", "",
)

// NormalizeEquation maps common look-alike symbols to the ASCII operators
// and strips spaces.
func NormalizeEquation(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		if r >= '０' && r <= '９' {
			r = '0' + (r - '０')
		}
		b.WriteRune(r)
	}
	return equationReplacer.Replace(b.String())
}

// IsValidEquation reports whether s has exactly length characters and both
// sides of its single "=" evaluate to the same value. A length of 0 skips the
// length check.
func IsValidEquation(s string, length int) bool {
	if length > 0 && len(s) != length {
		return false
	}
	lhs, rhs, ok := strings.Cut(s, "=")
	if !ok || strings.Contains(rhs, "=") {
		return false
	}
	l, err := Eval(lhs)
	if err != nil {
		return false
	}
	r, err := Eval(rhs)
	if err != nil {
		return false
	}
	return l.Cmp(r) == 0
}

// Eval computes the exact value of an expression.
func Eval(expr string) (*big.Rat, error) {
	p := &parser{src: expr}
	v, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("%w: unexpected %q at %d", ErrMalformed, p.src[p.pos], p.pos)
	}
	return v, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *parser) peekPow() bool {
	return strings.HasPrefix(p.src[p.pos:], "**")
}

func (p *parser) expr() (*big.Rat, error) {
	v, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return v, nil
		}
		p.pos++
		r, err := p.term()
		if err != nil {
			return nil, err
		}
		if op == '+' {
			v.Add(v, r)
		} else {
			v.Sub(v, r)
		}
	}
}

func (p *parser) term() (*big.Rat, error) {
	v, err := p.power()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if (op != '*' && op != '/') || p.peekPow() {
			return v, nil
		}
		p.pos++
		r, err := p.power()
		if err != nil {
			return nil, err
		}
		if op == '*' {
			v.Mul(v, r)
			continue
		}
		if r.Sign() == 0 {
			return nil, ErrDivisionByZero
		}
		v.Quo(v, r)
	}
}

func (p *parser) power() (*big.Rat, error) {
	base, err := p.number()
	if err != nil {
		return nil, err
	}
	if !p.peekPow() {
		return new(big.Rat).SetInt(base), nil
	}
	p.pos += 2
	exp, err := p.power()
	if err != nil {
		return nil, err
	}
	if !exp.IsInt() || exp.Sign() < 0 || exp.Num().Cmp(big.NewInt(maxExponent)) > 0 {
		return nil, ErrExponent
	}
	out := new(big.Int).Exp(base, exp.Num(), nil)
	return new(big.Rat).SetInt(out), nil
}

func (p *parser) number() (*big.Int, error) {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	lit := p.src[start:p.pos]
	switch {
	case lit == "":
		return nil, fmt.Errorf("%w: number expected at %d", ErrMalformed, start)
	case len(lit) > 1 && lit[0] == '0':
		return nil, fmt.Errorf("%w: leading zero in %q", ErrMalformed, lit)
	}
	n, _ := new(big.Int).SetString(lit, 10)
	return n, nil
}

// Package numeral converts between numbers and vector numerals: a marker glyph
// followed by digit and extension glyphs drawn from the vocabulary.
//
// Encoding is not the inverse of decoding above 99: every string decodes to a
// single value, but several strings may decode to the same value and Encode
// picks only one of them. Round trips hold numerically, not textually.
package numeral

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"fuhao/internal/symtab"
)

const (
	fractionTolerance = 1e-3
	maxTensValue      = 99
)

// DecodeError reports a malformed vector numeral.
type DecodeError struct {
	Input     string
	Offending string // подстрока, на которой разбор остановился
	Reason    string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid numeral %q: %s %q", e.Input, e.Reason, e.Offending)
}

// Codec encodes and decodes numerals against one vocabulary.
type Codec struct {
	tab *symtab.Table
	n   *symtab.Numerals
	// обратные таблицы
	digitOf  map[rune]int
	vectorOf map[string]float64
}

// NewCodec builds a codec over tab.
func NewCodec(tab *symtab.Table) *Codec {
	n := tab.Numerals()
	c := &Codec{
		tab:      tab,
		n:        n,
		digitOf:  make(map[rune]int, len(n.Digits)),
		vectorOf: make(map[string]float64, len(n.Vectors)),
	}
	for d, r := range n.Digits {
		c.digitOf[r] = d
	}
	for _, v := range n.Vectors {
		c.vectorOf[v.Body] = v.Value
	}
	return c
}

var defaultCodec = sync.OnceValue(func() *Codec {
	return NewCodec(symtab.Default())
})

// Default returns the codec over the embedded vocabulary.
func Default() *Codec { return defaultCodec() }

// Encode uses the embedded vocabulary.
func Encode(value float64) string { return defaultCodec().Encode(value) }

// Decode uses the embedded vocabulary.
func Decode(text string) (float64, error) { return defaultCodec().Decode(text) }

// Encode renders value as a vector numeral. NaN has no vector and encodes to
// the bare marker, which Decode rejects.
func (c *Codec) Encode(value float64) string {
	marker := string(c.n.Marker)
	if math.IsNaN(value) {
		return marker
	}
	return marker + c.encodeBody(value)
}

func (c *Codec) encodeBody(v float64) string {
	// 1. константы
	for _, k := range c.n.Constants {
		if math.IsInf(k.Value, 0) || k.Tolerance == 0 {
			if v == k.Value {
				return string(k.Glyph)
			}
			continue
		}
		if math.Abs(v-k.Value) <= k.Tolerance {
			return string(k.Glyph)
		}
	}
	// 2. дроби
	for _, f := range c.n.Fractions {
		if math.Abs(v-f.Value) <= fractionTolerance {
			return string(f.Glyph)
		}
	}
	// 3. готовые векторы
	for _, vec := range c.n.Vectors {
		if v == vec.Value {
			return vec.Body
		}
	}

	isInt := v == math.Trunc(v) && !math.IsInf(v, 0)
	switch {
	case isInt && v >= 0 && v <= 9:
		return string(c.n.Digits[int(v)])
	case isInt && v >= -9 && v < 0:
		return string(c.n.ShortSign) + string(c.n.Digits[int(-v)])
	case isInt && v >= 10 && v <= maxTensValue:
		return c.encodeTens(int(v))
	}
	if isInt && v > 0 {
		if p, ok := exactPower(v); ok {
			if g, ok := c.n.Powers[p]; ok {
				return string(g)
			}
		}
	}
	if v < 0 {
		return string(c.n.Sign) + c.encodeBody(-v)
	}
	return c.positional(v)
}

// encodeTens: 10 -> 十, 12 -> 十二, 40 -> 四十, 42 -> 四十二.
func (c *Codec) encodeTens(v int) string {
	var b strings.Builder
	tens, units := v/10, v%10
	if tens > 1 {
		b.WriteRune(c.n.Digits[tens])
	}
	b.WriteRune(c.n.Tens)
	if units != 0 {
		b.WriteRune(c.n.Digits[units])
	}
	return b.String()
}

func (c *Codec) positional(v float64) string {
	var b strings.Builder
	for _, ch := range strconv.FormatFloat(v, 'f', -1, 64) {
		switch {
		case ch >= '0' && ch <= '9':
			b.WriteRune(c.n.Digits[ch-'0'])
		case ch == '.':
			b.WriteRune(c.n.Radix)
		}
	}
	return b.String()
}

func exactPower(v float64) (int, bool) {
	p := 0
	for v >= 10 && math.Mod(v, 10) == 0 {
		v /= 10
		p++
	}
	return p, v == 1
}

// Decode parses a vector numeral.
func (c *Codec) Decode(text string) (float64, error) {
	r, size := utf8.DecodeRuneInString(text)
	if text == "" || r != c.n.Marker {
		return 0, &DecodeError{Input: text, Offending: firstRune(text), Reason: "missing marker"}
	}
	body := text[size:]
	if body == "" {
		return 0, &DecodeError{Input: text, Offending: text, Reason: "empty numeral"}
	}
	return c.decodeBody(text, body)
}

func (c *Codec) decodeBody(input, body string) (float64, error) {
	if body == "" {
		return 0, &DecodeError{Input: input, Offending: input, Reason: "missing value"}
	}
	// 1. прямой поиск
	if v, ok := c.vectorOf[body]; ok {
		return v, nil
	}
	first, size := utf8.DecodeRuneInString(body)
	if size == len(body) {
		if v, ok := c.single(first); ok {
			return v, nil
		}
	}

	// 2. знак
	if first == c.n.Sign || first == c.n.ShortSign {
		v, err := c.decodeBody(input, body[size:])
		return -v, err
	}

	// проценты
	if last, lsize := utf8.DecodeLastRuneInString(body); last == c.n.Percent {
		v, err := c.decodeBody(input, body[:len(body)-lsize])
		return v / 100, err
	}

	// 3. десятки
	if i := strings.IndexRune(body, c.n.Tens); i >= 0 {
		return c.decodeTens(input, body[:i], body[i+utf8.RuneLen(c.n.Tens):])
	}

	// дробная часть
	if i := strings.IndexRune(body, c.n.Radix); i >= 0 {
		intPart, fracPart := body[:i], body[i+utf8.RuneLen(c.n.Radix):]
		whole := 0.0
		if intPart != "" {
			var err error
			if whole, err = c.digits(input, intPart); err != nil {
				return 0, err
			}
		}
		if fracPart == "" {
			return 0, &DecodeError{Input: input, Offending: string(c.n.Radix), Reason: "radix without fraction digits"}
		}
		frac, err := c.digits(input, fracPart)
		if err != nil {
			return 0, err
		}
		return whole + frac/math.Pow10(utf8.RuneCountInString(fracPart)), nil
	}

	// 4. позиционная запись
	return c.digits(input, body)
}

// single decodes a one-glyph body: digit, constant, fraction, alias or power of ten.
func (c *Codec) single(r rune) (float64, bool) {
	if d, ok := c.digitOf[r]; ok {
		return float64(d), true
	}
	e, ok := c.tab.Lookup(r)
	if !ok {
		return 0, false
	}
	switch e.Role {
	case symtab.RoleConstant, symtab.RoleFraction, symtab.RoleAlias:
		return e.Value, true
	case symtab.RolePower:
		return math.Pow10(int(e.Value)), true
	case symtab.RoleTens:
		return 10, true
	}
	return 0, false
}

func (c *Codec) decodeTens(input, left, right string) (float64, error) {
	tens, units := 1, 0
	if left != "" {
		d, ok := c.oneDigit(left)
		if !ok {
			return 0, &DecodeError{Input: input, Offending: left, Reason: "tens multiplier must be one digit"}
		}
		tens = d
	}
	if right != "" {
		d, ok := c.oneDigit(right)
		if !ok {
			return 0, &DecodeError{Input: input, Offending: right, Reason: "units after tens must be one digit"}
		}
		units = d
	}
	return float64(tens*10 + units), nil
}

func (c *Codec) oneDigit(s string) (int, bool) {
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) {
		return 0, false
	}
	d, ok := c.digitOf[r]
	return d, ok
}

// digits sums a positional run left to right.
func (c *Codec) digits(input, s string) (float64, error) {
	v := 0.0
	for _, r := range s {
		d, ok := c.digitOf[r]
		if !ok {
			return 0, &DecodeError{Input: input, Offending: string(r), Reason: "glyph outside the digit alphabet"}
		}
		v = v*10 + float64(d)
	}
	return v, nil
}

func firstRune(s string) string {
	if s == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(s)
	return s[:size]
}

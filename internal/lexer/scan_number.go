package lexer

import (
	"unicode/utf8"

	"fuhao/internal/token"
)

// scanNumber склеивает подряд идущие ASCII-цифры и числовые глифы в один токен.
// Точка входит в литерал только между двумя ASCII-цифрами ("3.14").
// Значение не вычисляется: ASCII разбирает strconv, глифы: numeral codec.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	prevDigit := false
	for !lx.cursor.EOF() {
		r, _ := lx.cursor.PeekRune()
		switch {
		case r < utf8.RuneSelf && isDec(byte(r)):
			lx.cursor.Bump()
			prevDigit = true
			continue
		case r == '.' && prevDigit:
			if _, b1, ok := lx.cursor.Peek2(); ok && isDec(b1) {
				lx.cursor.Bump()
				prevDigit = false
				continue
			}
		case lx.syms.IsNumeralGlyph(r):
			lx.cursor.BumpRune()
			prevDigit = false
			continue
		}
		break
	}
	return lx.token(token.Number, start)
}

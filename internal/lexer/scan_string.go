package lexer

import (
	"fuhao/internal/diag"
	"fuhao/internal/token"
)

// scanString: "...", '...', “...”, 「...」. Обратный слеш экранирует одну руну.
// Незакрытая строка тянется до EOF: токен остаётся String, плюс предупреждение.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	open := lx.cursor.BumpRune()
	closing, _ := closingQuote(open)
	for !lx.cursor.EOF() {
		r := lx.cursor.BumpRune()
		if r == closing {
			return lx.token(token.String, start)
		}
		if r == '\\' && !lx.cursor.EOF() {
			lx.cursor.BumpRune()
		}
	}
	tok := lx.token(token.String, start)
	lx.warnLex(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
	return tok
}

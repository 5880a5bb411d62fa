package lexer

import (
	"fuhao/internal/token"
)

// scanIdent сканирует идентификатор. Зарегистрированные глифы (ключевые слова,
// цифры, разделители) обрывают идентификатор: "函f" это Keyword + Ident.
func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.BumpRune()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b < 0x80 {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r, _ := lx.cursor.PeekRune()
		if !isIdentContinueRune(r) || lx.syms.IsRegistered(r) {
			break
		}
		lx.cursor.BumpRune()
	}
	return lx.token(token.Ident, start)
}

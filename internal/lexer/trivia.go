package lexer

import (
	"fuhao/internal/token"
)

// collectLeadingTrivia собирает подряд идущие пробелы перед значимым токеном.
// ' ', '\t', '\r' коалесцируются в один TriviaSpace; '\n' остаётся токеном.
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = nil
	for !lx.cursor.EOF() && isSpaceByte(lx.cursor.Peek()) {
		start := lx.cursor.Mark()
		for isSpaceByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.hold = append(lx.hold, token.Trivia{
			Kind: token.TriviaSpace,
			Span: sp,
			Text: string(lx.file.Content[sp.Start:sp.End]),
		})
	}
}

package parser

import (
	"fmt"
	"strconv"

	"fuhao/internal/diag"
	"fuhao/internal/source"
	"fuhao/internal/token"
)

// ParseError aborts the parse at the first missing token.
type ParseError struct {
	Expected string
	Got      string
	Line     uint32
	Col      uint32
	Span     source.Span
	Code     diag.Code
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: expected %s, got %s", e.Line, e.Col, e.Expected, e.Got)
}

// fail запоминает первую ошибку разбора и всегда возвращает false.
func (p *Parser) fail(expected string, got token.Token, code diag.Code) bool {
	if p.failure != nil {
		return false
	}
	if got.Kind == token.EOF {
		code = diag.SynUnexpectedEOF
	}
	p.failure = &ParseError{
		Expected: expected,
		Got:      describe(got),
		Line:     got.Line,
		Col:      got.Col,
		Span:     got.Span,
		Code:     code,
	}
	diag.ReportError(p.opts.Reporter, code, got.Span, "expected "+expected+", got "+p.failure.Got).Emit()
	return false
}

// expect: ожидаем конкретный токен. Если нет: фиксируем ParseError.
func (p *Parser) expect(k token.Kind, code diag.Code) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, p.fail(kindText(k), p.peek(), code)
}

// describe renders a token for messages: `"】"` or "end of input".
func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of input"
	case token.Newline:
		return "newline"
	}
	return strconv.Quote(tok.Text)
}

var delimiterText = map[token.Kind]string{
	token.LFence:   "【",
	token.RFence:   "】",
	token.LParen:   "(",
	token.RParen:   ")",
	token.LBracket: "[",
	token.RBracket: "]",
	token.LBrace:   "{",
	token.RBrace:   "}",
	token.LTitle:   "《",
	token.RTitle:   "》",
	token.LShell:   "〔",
	token.RShell:   "〕",
	token.Colon:    "':'",
	token.Ident:    "identifier",
}

// closerText names the close delimiter matching open.
func closerText(open token.Kind) string {
	if open.IsOpen() {
		return kindText(open + 1)
	}
	return kindText(open)
}

func kindText(k token.Kind) string {
	if s, ok := delimiterText[k]; ok {
		if k.IsClose() || k.IsOpen() {
			return strconv.Quote(s)
		}
		return s
	}
	return k.String()
}

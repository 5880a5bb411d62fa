// Package lexer turns source text into tokens using an injected glyph vocabulary.
package lexer

import (
	"unicode/utf8"

	"fuhao/internal/diag"
	"fuhao/internal/source"
	"fuhao/internal/symtab"
	"fuhao/internal/token"
)

type Lexer struct {
	file   *source.File
	syms   *symtab.Table
	cursor Cursor
	opts   Options
	look   *token.Token   // 1 элементный буфер для токена
	hold   []token.Trivia // накопленные leading trivia
	eof    *token.Token   // после EOF всегда возвращаем его же
}

// New creates a lexer over file. A nil table means symtab.Default().
func New(file *source.File, syms *symtab.Table, opts Options) *Lexer {
	if syms == nil {
		syms = symtab.Default()
	}
	return &Lexer{
		file:   file,
		syms:   syms,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next возвращает следующий **значимый** токен с уже собранным Leading.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	if lx.eof != nil {
		return *lx.eof
	}

	lx.collectLeadingTrivia()

	// хвостовые пробелы приклеиваем к EOF, чтобы trivia покрывали весь вход
	if lx.cursor.EOF() {
		tok := lx.token(token.EOF, lx.cursor.Mark())
		tok.Leading = lx.hold
		lx.hold = nil
		lx.eof = &tok
		return tok
	}

	start := lx.cursor.Mark()
	var tok token.Token
	r, size := lx.cursor.PeekRune()
	entry, known := lx.syms.Lookup(r)

	switch {
	case r == '\n':
		lx.cursor.Bump()
		tok = lx.token(token.Newline, start)

	case known && (entry.Role == symtab.RoleOpen || entry.Role == symtab.RoleClose || entry.Role == symtab.RoleSeparator):
		lx.cursor.BumpRune()
		tok = lx.token(entry.Kind, start)

	case known && entry.Role == symtab.RoleKeyword:
		lx.cursor.BumpRune()
		tok = lx.token(token.Keyword, start)
		tok.Category = entry.Category
		tok.Expanded = entry.Expansion

	case (r < utf8.RuneSelf && isDec(byte(r))) || (known && entry.Role.IsNumeral()):
		tok = lx.scanNumber()

	case !known && isIdentStartRune(r):
		tok = lx.scanIdent()

	case isQuote(r):
		tok = lx.scanString()

	default:
		lx.cursor.BumpRune()
		tok = lx.token(token.Unknown, start)
		if r == utf8.RuneError && size == 1 {
			lx.warnLex(diag.LexInvalidUTF8, tok.Span, "invalid UTF-8 byte")
		}
	}

	tok.Leading = lx.hold
	lx.hold = nil
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// All returns every remaining token, the terminating EOF included.
func (lx *Lexer) All() []token.Token {
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

// token builds a token for the text between start and the cursor.
func (lx *Lexer) token(kind token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
		Line: start.Line,
		Col:  start.Col,
	}
}

func isQuote(r rune) bool {
	_, ok := closingQuote(r)
	return ok
}

package token

import (
	"fuhao/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind     Kind
	Span     source.Span
	Text     string
	Line     uint32 // 1-based
	Col      uint32 // 1-based, в рунах
	Category Category
	Expanded string // раскрытие глифа словарём, пусто если нет
	Leading  []Trivia
}

// IsLiteral reports whether the token is a numeric or string literal.
func (t Token) IsLiteral() bool {
	return t.Kind == Number || t.Kind == String
}

// IsKeyword reports whether the token is a vocabulary keyword, optionally of the given categories.
func (t Token) IsKeyword(cats ...Category) bool {
	if t.Kind != Keyword {
		return false
	}
	if len(cats) == 0 {
		return true
	}
	for _, c := range cats {
		if t.Category == c {
			return true
		}
	}
	return false
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsEOF reports whether the token terminates the stream.
func (t Token) IsEOF() bool { return t.Kind == EOF }

// Package token defines lexical token kinds, keyword categories and trivia for the fuhao compiler.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Begin..End).
//   - Whitespace other than '\n' is carried as leading Trivia (TriviaSpace) and
//     never appears in the main token stream; newlines are explicit tokens.
//   - Keyword glyphs produce a single Keyword kind; the meaning lives in Token.Category.
//   - Numeral glyphs are never keywords: a run of them is one Number token.
package token

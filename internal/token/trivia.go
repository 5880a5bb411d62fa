package token

import "fuhao/internal/source"

type TriviaKind uint8

const (
	// TriviaSpace is a run of spaces, tabs and carriage returns.
	TriviaSpace TriviaKind = iota
)

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "Space"
	}
	return "Trivia(?)"
}

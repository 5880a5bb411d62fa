package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"fuhao/internal/source"
	"fuhao/internal/token"
)

type TokenOutput struct {
	Kind     string      `json:"kind"`
	Text     string      `json:"text,omitempty"`
	Span     source.Span `json:"span"`
	Line     uint32      `json:"line"`
	Col      uint32      `json:"col"`
	Category string      `json:"category,omitempty"`
	Expanded string      `json:"expanded,omitempty"`
	Leading  []string    `json:"leading,omitempty"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	var b strings.Builder
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)

		fmt.Fprintf(&b, "%3d: %-12s", i+1, tok.Kind.String())
		if tok.Text != "" {
			fmt.Fprintf(&b, " %q", tok.Text)
		}
		if tok.Kind == token.Keyword {
			fmt.Fprintf(&b, " [%s]", tok.Category)
		}
		if tok.Expanded != "" {
			fmt.Fprintf(&b, " => %s", tok.Expanded)
		}
		fmt.Fprintf(&b, " at %d:%d-%d:%d",
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col)

		if leading := triviaKinds(tok.Leading); len(leading) > 0 {
			fmt.Fprintf(&b, " (leading: %s)", strings.Join(leading, ", "))
		}
		b.WriteByte('\n')

		if tok.Kind == token.EOF {
			break
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out := TokenOutput{
			Kind:     tok.Kind.String(),
			Text:     tok.Text,
			Span:     tok.Span,
			Line:     tok.Line,
			Col:      tok.Col,
			Expanded: tok.Expanded,
			Leading:  triviaKinds(tok.Leading),
		}
		if tok.Kind == token.Keyword {
			out.Category = tok.Category.String()
		}
		output = append(output, out)

		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// triviaKinds возвращает nil вместо пустого среза: пустые массивы не попадают в JSON.
func triviaKinds(trivia []token.Trivia) []string {
	var out []string
	for _, tr := range trivia {
		out = append(out, tr.Kind.String())
	}
	return out
}

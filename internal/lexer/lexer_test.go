package lexer_test

import (
	"fmt"
	"strings"
	"testing"
	"testing/fstest"

	"fuhao/internal/diag"
	"fuhao/internal/lexer"
	"fuhao/internal/source"
	"fuhao/internal/symtab"
	"fuhao/internal/token"
)

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.fh", []byte(input))
	file := fs.Get(fileID)

	bag := diag.NewBag(100)
	lx := lexer.New(file, nil, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx, bag
}

// collectAllTokens собирает все токены до EOF
func collectAllTokens(lx *lexer.Lexer) []token.Token {
	return lx.All()
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// expectTokens проверяет последовательность токенов (без EOF)
func expectTokens(t *testing.T, input string, expected []token.Kind) []token.Token {
	t.Helper()
	lx, _ := makeTestLexer(input)
	tokens := collectAllTokens(lx)
	tokens = tokens[:len(tokens)-1]

	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d\nInput: %q\nTokens: %v",
			len(expected), len(tokens), input, tokensToString(tokens))
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("Token %d: expected %v, got %v (text: %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
	return tokens
}

// reconstruct склеивает trivia и текст токенов обратно в исходник
func reconstruct(tokens []token.Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		for _, tv := range tok.Leading {
			b.WriteString(tv.Text)
		}
		b.WriteString(tok.Text)
	}
	return b.String()
}

func TestFunctionDeclarationTokens(t *testing.T) {
	toks := expectTokens(t, "函【greet(name) 文【\"Hi\" name】 函】", []token.Kind{
		token.Keyword, token.LFence, token.Ident, token.LParen, token.Ident, token.RParen,
		token.Keyword, token.LFence, token.String, token.Ident, token.RFence,
		token.Keyword, token.RFence,
	})
	if toks[0].Category != token.CatFunction || toks[0].Expanded != "function" {
		t.Errorf("函 must carry its category: %+v", toks[0])
	}
	if toks[6].Category != token.CatText {
		t.Errorf("文 category = %v", toks[6].Category)
	}
}

func TestKeywordsStopIdentifiers(t *testing.T) {
	toks := expectTokens(t, "名字函abc", []token.Kind{token.Ident, token.Keyword, token.Ident})
	if toks[0].Text != "名字" || toks[2].Text != "abc" {
		t.Fatalf("unexpected split: %v", tokensToString(toks))
	}
}

func TestIdentifiers(t *testing.T) {
	tests := []string{"foo", "_bar", "$store", "x123", "camelCase", "名字", "café"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			toks := expectTokens(t, input, []token.Kind{token.Ident})
			if toks[0].Text != input {
				t.Errorf("text = %q", toks[0].Text)
			}
		})
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		text  string
	}{
		{"42", "42"},
		{"3.14", "3.14"},
		{"◈四十二", "◈四十二"},
		{"◈负一．五", "◈负一．五"},
		{"◈π", "◈π"},
		{"4二", "4二"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := expectTokens(t, tt.input, []token.Kind{token.Number})
			if toks[0].Text != tt.text {
				t.Errorf("text = %q, want %q", toks[0].Text, tt.text)
			}
		})
	}
	// точка без цифры после неё не входит в число
	expectTokens(t, "3.", []token.Kind{token.Number, token.Unknown})
}

func TestStrings(t *testing.T) {
	tests := []string{`"Hello"`, `'hi'`, `“你好”`, `「世界」`, `"a\"b"`, "\"two\nlines\""}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			lx, bag := makeTestLexer(input)
			toks := collectAllTokens(lx)
			if len(toks) != 2 || toks[0].Kind != token.String || toks[0].Text != input {
				t.Fatalf("unexpected tokens: %v", tokensToString(toks))
			}
			if bag.Len() != 0 {
				t.Fatalf("unexpected diagnostics: %+v", bag.Items())
			}
		})
	}
}

func TestUnterminatedString(t *testing.T) {
	lx, bag := makeTestLexer(`文【"oops】`)
	toks := collectAllTokens(lx)
	last := toks[len(toks)-2]
	if last.Kind != token.String || last.Text != `"oops】` {
		t.Fatalf("unterminated string must run to EOF: %v", tokensToString(toks))
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnterminatedString || bag.Items()[0].Severity != diag.SevWarning {
		t.Fatalf("expected one unterminated-string warning, got %+v", bag.Items())
	}
}

func TestSeparatorsAndDelimiters(t *testing.T) {
	expectTokens(t, "象【a：1，b: 2、c;3】", []token.Kind{
		token.Keyword, token.LFence,
		token.Ident, token.Colon, token.Number, token.Comma,
		token.Ident, token.Colon, token.Number, token.Comma,
		token.Ident, token.Comma, token.Number,
		token.RFence,
	})
	expectTokens(t, "《〔[{()}]〕》", []token.Kind{
		token.LTitle, token.LShell, token.LBracket, token.LBrace, token.LParen,
		token.RParen, token.RBrace, token.RBracket, token.RShell, token.RTitle,
	})
}

func TestNewlinesAreTokens(t *testing.T) {
	toks := expectTokens(t, "a\n\nb", []token.Kind{token.Ident, token.Newline, token.Newline, token.Ident})
	if toks[3].Line != 3 || toks[3].Col != 1 {
		t.Errorf("b position = %d:%d", toks[3].Line, toks[3].Col)
	}
}

func TestLineColumnCountsRunes(t *testing.T) {
	toks := expectTokens(t, "函【 x\n  文", []token.Kind{
		token.Keyword, token.LFence, token.Ident, token.Newline, token.Keyword,
	})
	want := [][2]uint32{{1, 1}, {1, 2}, {1, 4}, {1, 5}, {2, 3}}
	for i, w := range want {
		if toks[i].Line != w[0] || toks[i].Col != w[1] {
			t.Errorf("token %d (%q) at %d:%d, want %d:%d", i, toks[i].Text, toks[i].Line, toks[i].Col, w[0], w[1])
		}
	}
}

func TestUnknownCharacters(t *testing.T) {
	lx, bag := makeTestLexer("@ #")
	toks := collectAllTokens(lx)
	if len(toks) != 3 || toks[0].Kind != token.Unknown || toks[1].Kind != token.Unknown {
		t.Fatalf("unexpected tokens: %v", tokensToString(toks))
	}
	if bag.Len() != 0 {
		t.Fatalf("unknown characters are not errors: %+v", bag.Items())
	}

	lx, bag = makeTestLexer("a\xffb")
	toks = collectAllTokens(lx)
	if len(toks) != 4 || toks[1].Kind != token.Unknown || bag.Len() != 1 {
		t.Fatalf("invalid byte must become one Unknown token with a warning: %v %+v", tokensToString(toks), bag.Items())
	}
}

func TestTokensCoverInput(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"引【ui, net】\n界主【\n  文【\"Hello\"】 ◈四十二\n界】\n",
		"态【 count ← ◈〇 】\t\r\n",
		"\"unterminated",
		"@@@ ~ 猫",
		"样【button color: \"red\"】  ",
	}
	for _, input := range inputs {
		lx, _ := makeTestLexer(input)
		toks := collectAllTokens(lx)
		if got := reconstruct(toks); got != input {
			t.Errorf("reconstructed %q, want %q", got, input)
		}
		eofs := 0
		for i, tok := range toks {
			if tok.Kind == token.EOF {
				eofs++
				if i != len(toks)-1 || !tok.Span.Empty() {
					t.Errorf("EOF must be the last zero-length token")
				}
			}
			if got := input[tok.Span.Start:tok.Span.End]; got != tok.Text {
				t.Errorf("span/text mismatch: %q vs %q", got, tok.Text)
			}
		}
		if eofs != 1 {
			t.Errorf("expected exactly one EOF, got %d", eofs)
		}
	}
}

func TestNextAfterEOF(t *testing.T) {
	lx, _ := makeTestLexer("a")
	lx.Next()
	first := lx.Next()
	second := lx.Next()
	if first.Kind != token.EOF || second.Kind != token.EOF || first.Span != second.Span {
		t.Fatalf("EOF must repeat: %v %v", first, second)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("a b")
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("Peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("Next after Peek = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" || len(n.Leading) != 1 {
		t.Fatalf("expected b with leading space, got %+v", n)
	}
}

func TestInjectedVocabulary(t *testing.T) {
	tab, err := symtab.Load(fstest.MapFS{
		symtab.KeywordsFile: &fstest.MapFile{Data: []byte("[category]\n\"λ\" = \"function\"\n")},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("custom.fh", []byte("λ函")))
	toks := lexer.New(file, tab, lexer.Options{}).All()
	if toks[0].Kind != token.Keyword || toks[0].Category != token.CatFunction {
		t.Fatalf("λ must be a keyword in the custom vocabulary: %v", tokensToString(toks))
	}
	if toks[1].Kind != token.Ident || toks[1].Text != "函" {
		t.Fatalf("函 is a plain letter without the default vocabulary: %v", tokensToString(toks))
	}
}

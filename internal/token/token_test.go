package token_test

import (
	"testing"

	"fuhao/internal/source"
	"fuhao/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestIsLiteral(t *testing.T) {
	for _, k := range []token.Kind{token.Number, token.String} {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	for _, k := range []token.Kind{token.Ident, token.Keyword, token.LFence, token.Unknown} {
		if tok(k).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestIsKeywordWithCategories(t *testing.T) {
	fn := token.Token{Kind: token.Keyword, Category: token.CatFunction, Text: "函"}
	if !fn.IsKeyword() || !fn.IsKeyword(token.CatComponent, token.CatFunction) {
		t.Fatalf("function glyph should match its category")
	}
	if fn.IsKeyword(token.CatState) {
		t.Fatalf("function glyph must not match state")
	}
	if tok(token.Ident).IsKeyword() {
		t.Fatalf("Ident must not be keyword")
	}
}

func TestDelimiterKinds(t *testing.T) {
	tests := []struct {
		role string
		open bool
		want token.Kind
	}{
		{"fence", true, token.LFence},
		{"fence", false, token.RFence},
		{"paren", true, token.LParen},
		{"title", false, token.RTitle},
		{"shell", true, token.LShell},
	}
	for _, tt := range tests {
		got, ok := token.DelimiterKind(tt.role, tt.open)
		if !ok || got != tt.want {
			t.Errorf("DelimiterKind(%q,%v) = %v,%v want %v", tt.role, tt.open, got, ok, tt.want)
		}
		if tt.open != got.IsOpen() || tt.open == got.IsClose() {
			t.Errorf("%v open/close mismatch", got)
		}
	}
	if _, ok := token.DelimiterKind("angle", true); ok {
		t.Error("unknown role must not resolve")
	}
	if k, ok := token.SeparatorKind("colon"); !ok || k != token.Colon {
		t.Errorf("SeparatorKind(colon) = %v,%v", k, ok)
	}
}

func TestLookupCategory(t *testing.T) {
	for c := token.CatImport; c <= token.CatCompose; c++ {
		got, ok := token.LookupCategory(c.String())
		if !ok || got != c {
			t.Errorf("LookupCategory(%q) = %v,%v", c.String(), got, ok)
		}
	}
	if _, ok := token.LookupCategory("none"); ok {
		t.Error("none is not a real category")
	}
	if _, ok := token.LookupCategory("loop"); ok {
		t.Error("loop is not a category")
	}
}

func TestKindString(t *testing.T) {
	if token.LFence.String() != "LFence" || token.EOF.String() != "EOF" {
		t.Fatalf("unexpected names: %s %s", token.LFence, token.EOF)
	}
	if token.Kind(200).String() != "Kind(?)" {
		t.Fatalf("out of range kind must not panic")
	}
}

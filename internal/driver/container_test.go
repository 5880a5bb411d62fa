package driver

import (
	"context"
	"strings"
	"testing"

	"fuhao/internal/compiler"
	"fuhao/internal/symtab"
)

func TestSessionDefaults(t *testing.T) {
	s, err := NewSession(SessionConfig{NoCache: true})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if s.Symbols != symtab.Default() || s.Cache != nil || s.Memo == nil || s.Tracer == nil {
		t.Fatalf("session = %+v", s)
	}
	if s.Vocab != VocabDigest(symtab.Default()) {
		t.Error("vocab digest mismatch")
	}
}

func TestSessionVocabularyOverride(t *testing.T) {
	vocab := t.TempDir()
	writeFile(t, vocab, symtab.KeywordsFile, keywordsWithAlias)
	s, err := NewSession(SessionConfig{VocabularyDir: vocab, CacheDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if s.Cache == nil {
		t.Fatal("disk cache missing")
	}
	if s.Vocab == VocabDigest(symtab.Default()) {
		t.Error("override did not change the vocabulary digest")
	}

	src := writeFile(t, t.TempDir(), "alias.fh", "功【f() 1 功】\n")
	res, err := CompileFile(context.Background(), s.Compiler, src, compiler.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success || !strings.Contains(res.Go, "func f() any {") {
		t.Fatalf("result = %+v", res)
	}
}

func TestSessionBadVocabulary(t *testing.T) {
	if _, err := NewSession(SessionConfig{VocabularyDir: "/nonexistent/vocab", NoCache: true}); err == nil {
		t.Fatal("expected an error")
	}
}

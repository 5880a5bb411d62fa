package driver

import (
	"testing"

	"fuhao/internal/token"
)

func TestTokenizeAndParse(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.fh", "\ufeff函【f() 1 函】\r\n")
	tr, err := Tokenize(path, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(tr.Tokens); n == 0 || tr.Tokens[n-1].Kind != token.EOF {
		t.Fatalf("tokens = %v", tr.Tokens)
	}
	if string(tr.File.Content[:3]) == "\ufeff" {
		t.Error("BOM kept")
	}

	pr, err := Parse(path, nil, 0)
	if err != nil || pr.Err != nil {
		t.Fatalf("Parse = %v, %v", err, pr.Err)
	}
	fn := pr.Program.Body[0]
	if text, ok := fn.Expanded(); !ok || text == "" {
		t.Errorf("expansion missing on %T", fn)
	}

	bad := writeFile(t, t.TempDir(), "b.fh", "函【f() 1")
	pr, err = Parse(bad, nil, 0)
	if err != nil || pr.Err == nil || pr.Program != nil || !pr.Bag.HasErrors() {
		t.Fatalf("Parse bad = %+v, %v", pr, err)
	}

	if _, err := Tokenize("/nonexistent.fh", nil, 0); err == nil {
		t.Error("expected a load error")
	}
}

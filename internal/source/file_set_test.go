package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.fh", []byte("hello world"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}
	id2 := fs.Add("test.fh", []byte("hello universe"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	latestID, exists := fs.GetLatest("test.fh")
	if !exists || latestID != id2 {
		t.Fatalf("Expected latest ID %d, got %d (exists=%v)", id2, latestID, exists)
	}
	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Errorf("old version lost: %q", got)
	}
}

func TestPositionCountsRunes(t *testing.T) {
	fs := NewFileSet()
	// "函【" занимает 6 байт, но 2 колонки
	id := fs.AddVirtual("test.fh", []byte("函【f\n  x"))
	f := fs.Get(id)

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{3, LineCol{Line: 1, Col: 2}},
		{6, LineCol{Line: 1, Col: 3}},
		{7, LineCol{Line: 1, Col: 4}}, // сам '\n'
		{8, LineCol{Line: 2, Col: 1}},
		{10, LineCol{Line: 2, Col: 3}},
	}
	for _, tt := range tests {
		if got := f.Position(tt.off); got != tt.want {
			t.Errorf("Position(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.fh", []byte("ab\ncd"))
	start, end := fs.Resolve(Span{File: id, Start: 3, End: 5})
	if start != (LineCol{Line: 2, Col: 1}) || end != (LineCol{Line: 2, Col: 3}) {
		t.Fatalf("unexpected resolve: %+v %+v", start, end)
	}
}

func TestGetLine(t *testing.T) {
	f := &File{Content: []byte("one\ntwo\nthree")}
	f.LineIdx = buildLineIndex(f.Content)
	for i, want := range []string{"one", "two", "three", ""} {
		if got := f.GetLine(uint32(i + 1)); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", i+1, got, want)
		}
	}
	if got := f.GetLine(0); got != "" {
		t.Errorf("GetLine(0) = %q", got)
	}
}

func TestNormalize(t *testing.T) {
	// "é" в разложенной форме + BOM + CRLF
	raw := []byte("\xEF\xBB\xBFe\u0301\r\nx")
	got, flags := Normalize(raw)
	if string(got) != "\u00e9\nx" {
		t.Fatalf("unexpected content %q", got)
	}
	for _, f := range []FileFlags{FileHadBOM, FileNormalizedCRLF, FileNormalizedNFC} {
		if flags&f == 0 {
			t.Errorf("flag %d not set (flags=%b)", f, flags)
		}
	}

	plain, flags := Normalize([]byte("文【\"ok\"】"))
	if flags != 0 || string(plain) != "文【\"ok\"】" {
		t.Errorf("normalized text must stay untouched: %q flags=%b", plain, flags)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.fh")
	if err := os.WriteFile(path, []byte("a\r\nb"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a\nb" || !f.Flags.Has(FileNormalizedCRLF) {
		t.Fatalf("unexpected file: %q flags=%b", f.Content, f.Flags)
	}
	if _, err := fs.Load(filepath.Join(dir, "missing.fh")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSpanContainsAndCover(t *testing.T) {
	outer := Span{Start: 2, End: 10}
	if !outer.Contains(Span{Start: 2, End: 10}) || !outer.Contains(Span{Start: 4, End: 4}) {
		t.Error("Contains must accept inner spans")
	}
	if outer.Contains(Span{Start: 1, End: 3}) || outer.Contains(Span{File: 1, Start: 3, End: 4}) {
		t.Error("Contains must reject spans outside or in other files")
	}
	if got := (Span{Start: 5, End: 6}).Cover(Span{Start: 1, End: 3}); got != (Span{Start: 1, End: 6}) {
		t.Errorf("Cover = %v", got)
	}
}

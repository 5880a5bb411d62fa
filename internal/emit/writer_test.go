package emit

import "testing"

func TestWriterIndentAndLines(t *testing.T) {
	w := NewWriter(WriterOptions{IndentWidth: 2})
	if w.Line() != 1 {
		t.Fatalf("fresh writer on line %d", w.Line())
	}
	w.WriteLine("fn {")
	w.IndentPush()
	w.WriteString("a\nb")
	w.Newline()
	w.IndentPop()
	w.IndentPop() // ниже нуля не уходит
	w.WriteLine("}")
	want := "fn {\n  a\n  b\n}\n"
	if got := w.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if w.Line() != 5 {
		t.Errorf("line = %d, want 5", w.Line())
	}
}

func TestWriterBlankLineCollapses(t *testing.T) {
	w := NewWriter(WriterOptions{UseTabs: true})
	w.BlankLine() // пустой буфер: ничего
	w.WriteString("x")
	w.BlankLine()
	w.BlankLine()
	w.IndentPush()
	w.WriteRaw("y\nz")
	w.Newline()
	if got := w.String(); got != "x\n\ny\nz\n" {
		t.Fatalf("got %q", got)
	}
	if w.Line() != 5 {
		t.Errorf("line = %d", w.Line())
	}
}

func TestWriterSpace(t *testing.T) {
	w := NewWriter(WriterOptions{})
	w.Space()
	w.WriteString("a")
	w.Space()
	w.Space()
	w.WriteString("b")
	if got := w.String(); got != "a b" {
		t.Fatalf("got %q", got)
	}
}

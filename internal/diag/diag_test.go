package diag

import (
	"testing"

	"fuhao/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("./testdata/sample.fh", []byte("a\nb\n"))

	diags := []Diagnostic{
		NewError(SynMissingFence, source.Span{File: file, Start: 0, End: 1}, "first line\nsecond").
			WithNote(source.Span{File: file, Start: 2, End: 3}, "block opened here"),
		New(SevWarning, NumDecodeError, source.Span{File: file, Start: 2, End: 3}, "another"),
	}

	want := []string{
		"error SYN2004 testdata/sample.fh:1:1 first line second",
		"note SYN2004 testdata/sample.fh:2:1 block opened here",
		"warning NUM3001 testdata/sample.fh:2:1 another",
	}
	got := FormatShortDiagnostics(diags, fs, true)
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d: %q", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d:\nwant %q\n got %q", i, want[i], got[i])
		}
	}

	if got := FormatShort(diags[1], nil); got != "warning NUM3001 another" {
		t.Errorf("without file set: %q", got)
	}
}

func TestBagLimitSortDedup(t *testing.T) {
	b := NewBag(3)
	sp := func(start uint32) source.Span { return source.Span{Start: start, End: start + 1} }
	b.Add(New(SevWarning, NumDecodeError, sp(5), "late"))
	b.Add(NewError(SynUnexpectedToken, sp(1), "early"))
	b.Add(New(SevWarning, NumDecodeError, sp(5), "late"))
	if b.Add(NewError(SynUnexpectedToken, sp(9), "over limit")) {
		t.Fatal("bag must respect its limit")
	}

	b.Dedup()
	b.Sort()
	items := b.Items()
	if len(items) != 2 || items[0].Message != "early" || items[1].Message != "late" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if !b.HasErrors() || !b.HasWarnings() {
		t.Fatal("severity queries broken")
	}
	if got := b.Filter(SevError); len(got) != 1 {
		t.Fatalf("Filter(SevError) = %d items", len(got))
	}

	unlimited := NewBag(0)
	for i := 0; i < 100; i++ {
		unlimited.Add(New(SevInfo, ObsPhase, sp(uint32(i)), "phase"))
	}
	if unlimited.Len() != 100 {
		t.Fatalf("unlimited bag dropped items: %d", unlimited.Len())
	}
	b.Merge(unlimited)
	if b.Len() != 102 {
		t.Fatalf("merge lost items: %d", b.Len())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	rb := ReportWarning(BagReporter{Bag: bag}, LexUnterminatedString, source.Span{}, "unterminated").
		WithNote(source.Span{Start: 1, End: 2}, "opened here")
	rb.Emit()
	rb.Emit()
	if bag.Len() != 1 || len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("unexpected bag: %+v", bag.Items())
	}
}

func TestCodeIDs(t *testing.T) {
	tests := map[Code]string{
		LexUnterminatedString: "LEX1001",
		SynMissingFence:       "SYN2004",
		NumDecodeError:        "NUM3001",
		EmtUnsupportedNode:    "EMT4001",
		IOLoadFileError:       "IO5001",
		ObsTimings:            "OBS6001",
		UnknownCode:           "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if Code(9999).Title() != "Unknown error" {
		t.Error("unknown code must fall back to the default title")
	}
}

func TestSameIgnoresNotes(t *testing.T) {
	sp := source.Span{Start: 1, End: 2}
	d := NewError(EmtUnsupportedNode, sp, "unsupported")
	if !d.Same(d.WithNote(sp, "here")) {
		t.Error("notes must not matter")
	}
	if d.Same(New(SevWarning, EmtUnsupportedNode, sp, "unsupported")) {
		t.Error("severity must matter")
	}
}

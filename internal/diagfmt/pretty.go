package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"fuhao/internal/diag"
	"fuhao/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note, loc, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue),
		loc:    color.New(color.Bold),
		gutter: color.New(color.FgBlue, color.Bold),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.loc, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := prettyOne(w, d, fs, opts, pal); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) error {
	var b strings.Builder
	file := fileOf(fs, d.Primary)
	msg := d.Message
	if opts.Width > 0 {
		msg = runewidth.Truncate(msg, int(opts.Width), "...")
	}
	sev := pal.severity(d.Severity)
	if file != nil {
		start, _ := fs.Resolve(d.Primary)
		b.WriteString(pal.loc.Sprintf("%s:%d:%d:", displayPath(file, opts.PathMode, opts.BaseDir), start.Line, start.Col))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%s %s: %s\n", sev.Sprint(d.Severity.String()), sev.Sprint(d.Code.ID()), msg)
	if file != nil {
		writeSnippet(&b, file, fs, d.Primary, int(opts.Context), pal)
	}
	if opts.ShowNotes {
		for _, n := range d.Notes {
			b.WriteString(pal.note.Sprint("  = note: "))
			if nf := fileOf(fs, n.Span); nf != nil && !n.Span.Empty() {
				start, _ := fs.Resolve(n.Span)
				fmt.Fprintf(&b, "%s:%d:%d: ", displayPath(nf, opts.PathMode, opts.BaseDir), start.Line, start.Col)
			}
			b.WriteString(n.Msg)
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func fileOf(fs *source.FileSet, sp source.Span) *source.File {
	if fs == nil || int(sp.File) >= fs.Len() {
		return nil
	}
	return fs.Get(sp.File)
}

// writeSnippet печатает строку span с соседями и подчёркивание под ней.
// Ширина считается в колонках терминала: иероглиф занимает две.
func writeSnippet(b *strings.Builder, f *source.File, fs *source.FileSet, sp source.Span, context int, pal palette) {
	start, end := fs.Resolve(sp)
	lines := uint32(len(f.LineIdx) + 1)
	first, last := start.Line, start.Line
	if context > 0 {
		first = max(1, start.Line-uint32(min(context, int(start.Line)-1)))
		last = min(lines, start.Line+uint32(context))
	}
	gw := len(fmt.Sprint(last))
	blank := pal.gutter.Sprintf("%*s |", gw, "")
	b.WriteString(blank + "\n")
	for n := first; n <= last; n++ {
		raw := f.GetLine(n)
		fmt.Fprintf(b, "%s %s\n", pal.gutter.Sprintf("%*d |", gw, n), expandTabs(raw))
		if n != start.Line {
			continue
		}
		col := int(start.Col) - 1
		before := expandTabs(runeSlice(raw, 0, col))
		var marked string
		switch {
		case end.Line == start.Line:
			marked = runeSlice(raw, col, int(end.Col)-1)
		case end.Line > start.Line:
			marked = runeSlice(raw, col, len([]rune(raw)))
		}
		width := max(runewidth.StringWidth(expandTabs(marked)), 1)
		underline := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(b, "%s %s%s\n", blank, strings.Repeat(" ", runewidth.StringWidth(before)), pal.caret.Sprint(underline))
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func runeSlice(s string, from, to int) string {
	r := []rune(s)
	from = min(max(from, 0), len(r))
	to = min(max(to, from), len(r))
	return string(r[from:to])
}

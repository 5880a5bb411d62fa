package emit

import (
	"strings"

	"fortio.org/safecast"
)

// WriterOptions controls indentation of emitted text.
type WriterOptions struct {
	IndentWidth int
	UseTabs     bool
}

func (o WriterOptions) withDefaults() WriterOptions {
	if o.IndentWidth == 0 {
		o.IndentWidth = 4
	}
	return o
}

// Writer accumulates emitted output, tracks indentation and the current line.
type Writer struct {
	opt         WriterOptions
	buf         []byte
	indentLevel int
	atLineStart bool
	lines       int // завершённых строк в buf
}

// NewWriter creates a new emission writer.
func NewWriter(opt WriterOptions) *Writer {
	return &Writer{
		opt:         opt.withDefaults(),
		buf:         make([]byte, 0, 1024),
		atLineStart: true,
	}
}

// Bytes returns the accumulated output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) String() string {
	return string(w.buf)
}

// Line returns the 1-based line the next write lands on.
func (w *Writer) Line() uint32 {
	n, err := safecast.Conv[uint32](w.lines + 1)
	if err != nil {
		return 0
	}
	return n
}

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	if w.opt.UseTabs {
		for i := 0; i < w.indentLevel; i++ {
			w.buf = append(w.buf, '\t')
		}
	} else {
		for i, n := 0, w.indentLevel*w.opt.IndentWidth; i < n; i++ {
			w.buf = append(w.buf, ' ')
		}
	}
	w.atLineStart = false
}

// WriteString writes s, indenting every line that starts inside it.
func (w *Writer) WriteString(s string) {
	for s != "" {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			w.writeIndent()
			w.buf = append(w.buf, s...)
			return
		}
		if i > 0 {
			w.writeIndent()
			w.buf = append(w.buf, s[:i]...)
		}
		w.buf = append(w.buf, '\n')
		w.lines++
		w.atLineStart = true
		s = s[i+1:]
	}
}

// WriteRaw appends s without indentation; s comes from an external printer.
func (w *Writer) WriteRaw(s string) {
	if s == "" {
		return
	}
	w.buf = append(w.buf, s...)
	w.lines += strings.Count(s, "\n")
	w.atLineStart = s[len(s)-1] == '\n'
}

// WriteLine writes s followed by a newline.
func (w *Writer) WriteLine(s string) {
	w.WriteString(s)
	w.Newline()
}

// Space writes a single space if the output doesn't already end with whitespace.
func (w *Writer) Space() {
	if len(w.buf) == 0 {
		return
	}
	last := w.buf[len(w.buf)-1]
	if last == ' ' || last == '\n' || last == '\t' {
		return
	}
	w.buf = append(w.buf, ' ')
}

// Newline writes a newline.
func (w *Writer) Newline() {
	w.buf = append(w.buf, '\n')
	w.lines++
	w.atLineStart = true
}

// BlankLine ends the current line and leaves one empty line, never two.
func (w *Writer) BlankLine() {
	if len(w.buf) == 0 {
		return
	}
	if !w.atLineStart {
		w.Newline()
	}
	if n := len(w.buf); n >= 2 && w.buf[n-2] == '\n' {
		return
	}
	w.Newline()
}

// IndentPush increases the indentation level.
func (w *Writer) IndentPush() {
	w.indentLevel++
}

// IndentPop decreases the indentation level.
func (w *Writer) IndentPop() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}

package diag

import (
	"fmt"
	"path/filepath"
	"strings"

	"fuhao/internal/source"
)

// FormatShort renders one diagnostic as "severity CODE path:line:col message".
// Without a file set the location is omitted.
func FormatShort(d Diagnostic, fs *source.FileSet) string {
	return formatLine(d.Severity.Label(), d.Code, d.Primary, d.Message, fs)
}

// FormatShortDiagnostics renders diagnostics one per line in the given order.
// Notes follow their diagnostic with the "note" label.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, FormatShort(d, fs))
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			out = append(out, formatLine("note", d.Code, n.Span, n.Msg, fs))
		}
	}
	return out
}

func formatLine(label string, code Code, sp source.Span, msg string, fs *source.FileSet) string {
	msg = sanitizeMessage(msg)
	if fs == nil || int(sp.File) >= fs.Len() {
		return fmt.Sprintf("%s %s %s", label, code.ID(), msg)
	}
	file := fs.Get(sp.File)
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s %s %s:%d:%d %s", label, code.ID(), normalizePath(file.Path), start.Line, start.Col, msg)
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}

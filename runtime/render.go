package runtime

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Render writes v as an indented text tree. Colours are used only when w is
// a terminal.
func Render(w io.Writer, v any) error {
	r := &renderer{style: lipgloss.NewRenderer(w)}
	r.value(v, 0)
	_, err := io.WriteString(w, r.b.String())
	return err
}

type renderer struct {
	b     strings.Builder
	style *lipgloss.Renderer
}

func (r *renderer) line(depth int, s string) {
	r.b.WriteString(strings.Repeat("  ", depth))
	r.b.WriteString(s)
	r.b.WriteByte('\n')
}

func (r *renderer) value(v any, depth int) {
	switch v := v.(type) {
	case nil:
	case Fragment:
		for _, p := range v {
			r.value(p, depth)
		}
	case Element:
		r.element(v, depth)
	case Object:
		for _, f := range v {
			r.field(f, depth)
		}
	case []any:
		for _, e := range v {
			r.value(e, depth)
		}
	case func() any:
		r.value(v(), depth)
	default:
		r.line(depth, fmt.Sprint(v))
	}
}

func (r *renderer) element(el Element, depth int) {
	tag := r.style.NewStyle().Bold(true)
	if c, ok := el.Props.Get("color"); ok {
		tag = tag.Foreground(lipgloss.Color(fmt.Sprint(c)))
	}
	r.line(depth, "<"+tag.Render(el.Tag)+">")
	for _, f := range el.Props {
		r.field(f, depth+1)
	}
}

func (r *renderer) field(f Field, depth int) {
	switch v := f.Value.(type) {
	case Element, Object, Fragment, []any:
		r.line(depth, f.Key+":")
		r.value(v, depth+1)
	default:
		r.line(depth, fmt.Sprintf("%s: %v", f.Key, v))
	}
}

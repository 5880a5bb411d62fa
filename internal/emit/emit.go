// Package emit renders a target program as source text for one target.
//
// Emission never fails. A node a renderer has no rule for becomes a
// passthrough comment naming its kind, and the problem is returned as an
// *EmissionError alongside the text. Targets that need an entry point get a
// synthesized one.
package emit

import (
	"fmt"
	"slices"
	"strings"

	"fuhao/internal/diag"
	"fuhao/internal/target"
)

// Target selects a renderer.
type Target string

const (
	TargetGo    Target = "go"
	TargetRust  Target = "rust"
	TargetLLVM  Target = "llvm"
	TargetPlain Target = "plain"
)

// Targets lists every supported target in a stable order.
func Targets() []Target {
	return []Target{TargetGo, TargetRust, TargetLLVM, TargetPlain}
}

// Ext is the file extension of rendered output, dot included.
func (t Target) Ext() string {
	switch t {
	case TargetGo:
		return ".go"
	case TargetRust:
		return ".rs"
	case TargetLLVM:
		return ".ll"
	default:
		return ".txt"
	}
}

// ParseTarget maps a user-supplied name to a Target.
func ParseTarget(s string) (Target, error) {
	t := Target(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Targets(), t) {
		return t, nil
	}
	return "", &EmissionError{Target: Target(s)}
}

type Options struct {
	SourceMap   bool
	IndentWidth int  // rust, plain; 0: 4
	UseTabs     bool // rust, plain
}

// Mapping ties a generated line to the source position of a top-level declaration.
type Mapping struct {
	GeneratedLine uint32
	Source        target.Origin
	Name          string
}

type Output struct {
	Target    Target
	Text      string
	Errors    []*EmissionError
	SourceMap []Mapping // only with Options.SourceMap
}

// EmissionError reports a construct that has no rendering in Target.
// With an empty What it reports an unknown target.
type EmissionError struct {
	Target Target
	What   string
	Origin target.Origin
	Err    error // printer failure, if any
}

func (e *EmissionError) Error() string {
	if e.What == "" && e.Err == nil {
		return fmt.Sprintf("unknown target %q (want one of %s)", string(e.Target), targetList())
	}
	var at string
	if e.Origin != (target.Origin{}) {
		at = fmt.Sprintf(" at %d:%d", e.Origin.Line, e.Origin.Col)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: rendering %s%s: %v", e.Target, e.What, at, e.Err)
	}
	return fmt.Sprintf("%s: no rendering rule for %s%s", e.Target, e.What, at)
}

func (e *EmissionError) Unwrap() error { return e.Err }

// Code classifies the error for diagnostics.
func (e *EmissionError) Code() diag.Code {
	if e.What == "" && e.Err == nil {
		return diag.EmtUnknownTarget
	}
	return diag.EmtUnsupportedNode
}

func targetList() string {
	names := make([]string, 0, len(Targets()))
	for _, t := range Targets() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

// renderer turns a whole program into text; problems go to its recorder.
type renderer interface {
	render(p *target.Program) string
}

func newRenderer(t Target, opts Options, rec *recorder) renderer {
	wo := WriterOptions{IndentWidth: opts.IndentWidth, UseTabs: opts.UseTabs}
	switch t {
	case TargetGo:
		return newGoRenderer(rec)
	case TargetRust:
		return newRustRenderer(rec, wo)
	case TargetLLVM:
		return newLLVMRenderer(rec)
	case TargetPlain:
		return newPlainRenderer(rec, wo)
	default:
		return nil
	}
}

// Emit renders p for t.
func Emit(p *target.Program, t Target, opts Options) Output {
	out := Output{Target: t}
	rec := &recorder{target: t}
	r := newRenderer(t, opts, rec)
	if r == nil {
		out.Errors = []*EmissionError{{Target: t}}
		return out
	}
	if p == nil {
		p = &target.Program{}
	}
	out.Text = r.render(p)
	out.Errors = rec.errors
	if opts.SourceMap {
		out.SourceMap = rec.marks
	}
	return out
}

// recorder collects emission errors and source-map marks for one run.
type recorder struct {
	target Target
	errors []*EmissionError
	marks  []Mapping
}

// unsupported records n and returns the passthrough text for it.
func (r *recorder) unsupported(n *target.Unsupported) string {
	r.errors = append(r.errors, &EmissionError{Target: r.target, What: n.What, Origin: n.Pos()})
	return "unsupported: " + n.What
}

func (r *recorder) fail(n target.Node, err error) {
	e := &EmissionError{Target: r.target, What: "main", Err: err}
	if n != nil {
		e.What = declName(n)
		e.Origin = n.Pos()
	}
	r.errors = append(r.errors, e)
}

func (r *recorder) mark(line uint32, n target.Node) {
	r.marks = append(r.marks, Mapping{GeneratedLine: line, Source: n.Pos(), Name: declName(n)})
}

func declName(n target.Node) string {
	switch n := n.(type) {
	case *target.FuncDecl:
		return n.Name
	case *target.Import:
		return "import " + strings.Join(n.Names, ", ")
	case *target.BindingBlock:
		names := make([]string, len(n.Bindings))
		for i, b := range n.Bindings {
			names[i] = b.Name
		}
		return "state " + strings.Join(names, ", ")
	default:
		return n.Kind().String()
	}
}

// userMain returns the program's own main function, if any.
func userMain(p *target.Program) (*target.FuncDecl, bool) {
	for _, n := range p.Body {
		if fn, ok := n.(*target.FuncDecl); ok && fn.Name == "main" {
			return fn, true
		}
	}
	return nil, false
}

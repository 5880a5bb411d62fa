package emit

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"fuhao/internal/target"
)

// rustRenderer prints Rust by hand. Expression visits return the rendered
// expression; statement visits write to w and return "".
type rustRenderer struct {
	*recorder
	w       *Writer
	depth   int
	globals map[string]bool
	scopes  []map[string]bool
	inits   []string // выражения верхнего уровня, уходят в __init
}

func newRustRenderer(rec *recorder, opt WriterOptions) *rustRenderer {
	return &rustRenderer{recorder: rec, w: NewWriter(opt), globals: make(map[string]bool)}
}

func (r *rustRenderer) render(p *target.Program) string {
	target.Visit[string](p, r)
	return r.w.String()
}

func (r *rustRenderer) VisitProgram(p *target.Program) string {
	for _, n := range p.Body {
		if b, ok := n.(*target.BindingBlock); ok {
			for _, x := range b.Bindings {
				r.globals[x.Name] = true
			}
		}
	}
	r.w.WriteLine("// Code generated by fuhao. DO NOT EDIT.")
	r.w.WriteLine("#![allow(non_snake_case, non_upper_case_globals, unused)]")
	r.w.Newline()
	writeRustPrelude(r.w)
	for _, n := range p.Body {
		switch n.Kind() {
		case target.KindFuncDecl, target.KindBindingBlock:
			r.w.BlankLine()
		}
		switch n.Kind() {
		case target.KindExprStmt, target.KindComment, target.KindUnsupported:
		default:
			r.mark(r.w.Line(), n)
		}
		r.stmt(n)
	}
	if len(r.inits) > 0 {
		r.w.BlankLine()
		r.w.WriteLine("fn __init() {")
		r.w.IndentPush()
		for _, s := range r.inits {
			r.w.WriteLine(s)
		}
		r.w.IndentPop()
		r.w.WriteLine("}")
	}

	r.w.BlankLine()
	r.w.WriteLine("fn main() {")
	r.w.IndentPush()
	if len(r.inits) > 0 {
		r.w.WriteLine("__init();")
	}
	if fn, ok := userMain(p); ok {
		args := make([]string, len(fn.Params))
		for i := range args {
			args[i] = "rt::Value::Nil"
		}
		r.w.WriteLine(fmt.Sprintf("%s(%s);", rustName(fn.Name), strings.Join(args, ", ")))
	} else if fn, ok := p.Entry(); ok {
		r.w.WriteLine(fmt.Sprintf("rt::run(%s);", rustName(fn.Name)))
	}
	r.w.IndentPop()
	r.w.WriteLine("}")
	return ""
}

func (r *rustRenderer) stmt(n target.Node) {
	if s := target.Visit[string](n, r); s != "" {
		r.w.WriteLine("let _ = " + s + ";")
	}
}

func (r *rustRenderer) expr(n target.Node) string {
	if u, ok := n.(*target.Unsupported); ok {
		return "rt::Value::Nil /* " + strings.ReplaceAll(r.unsupported(u), "*/", "* /") + " */"
	}
	if s := target.Visit[string](n, r); s != "" {
		return s
	}
	return "rt::Value::Nil"
}

func (r *rustRenderer) exprs(ns []target.Node) string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = r.expr(n)
	}
	return strings.Join(out, ", ")
}

func (r *rustRenderer) comment(text string) {
	for _, l := range strings.Split(text, "\n") {
		r.w.WriteLine(strings.TrimRight("// "+l, " "))
	}
}

func (r *rustRenderer) local(name string) bool {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if r.scopes[i][name] {
			return true
		}
	}
	return false
}

// VisitImport: как rt.Import в Go, регистрация модулей в __init.
func (r *rustRenderer) VisitImport(n *target.Import) string {
	names := make([]string, len(n.Names))
	for i, name := range n.Names {
		names[i] = rustQuote(name)
	}
	s := "rt::import(&[" + strings.Join(names, ", ") + "]);"
	if r.depth == 0 {
		r.inits = append(r.inits, s)
	} else {
		r.w.WriteLine(s)
	}
	return ""
}

func (r *rustRenderer) VisitFuncDecl(n *target.FuncDecl) string {
	scope := make(map[string]bool, len(n.Params))
	params := make([]string, len(n.Params))
	for i, p := range n.Params {
		params[i] = rustName(p) + ": rt::Value"
		scope[p] = true
	}
	vis := "pub "
	if r.depth > 0 {
		vis = ""
	}
	r.w.WriteLine(fmt.Sprintf("%sfn %s(%s) -> rt::Value {", vis, rustName(n.Name), strings.Join(params, ", ")))
	r.w.IndentPush()
	r.depth++
	r.scopes = append(r.scopes, scope)
	for _, s := range n.Body {
		r.stmt(s)
	}
	if n.Result != nil {
		r.w.WriteLine(r.expr(n.Result))
	} else {
		r.w.WriteLine("rt::Value::Nil")
	}
	r.scopes = r.scopes[:len(r.scopes)-1]
	r.depth--
	r.w.IndentPop()
	r.w.WriteLine("}")
	return ""
}

// VisitBindingBlock: на верхнем уровне thread_local, внутри функции let mut.
func (r *rustRenderer) VisitBindingBlock(n *target.BindingBlock) string {
	if r.depth == 0 {
		r.w.WriteLine("thread_local! {")
		r.w.IndentPush()
		for _, b := range n.Bindings {
			r.w.WriteLine(fmt.Sprintf("static %s: std::cell::RefCell<rt::Value> = std::cell::RefCell::new(%s);",
				rustName(b.Name), r.value(b.Value)))
		}
		r.w.IndentPop()
		r.w.WriteLine("}")
		return ""
	}
	for _, b := range n.Bindings {
		r.w.WriteLine(fmt.Sprintf("let mut %s = %s;", rustName(b.Name), r.value(b.Value)))
		r.scopes[len(r.scopes)-1][b.Name] = true
	}
	return ""
}

func (r *rustRenderer) value(n target.Node) string {
	if n == nil {
		return "rt::Value::Nil"
	}
	return r.expr(n)
}

func (r *rustRenderer) VisitExprStmt(n *target.ExprStmt) string {
	if u, ok := n.X.(*target.Unsupported); ok {
		r.comment(r.unsupported(u))
		return ""
	}
	s := "let _ = " + r.expr(n.X) + ";"
	if r.depth == 0 {
		r.inits = append(r.inits, s)
	} else {
		r.w.WriteLine(s)
	}
	return ""
}

func (r *rustRenderer) VisitComment(n *target.Comment) string {
	r.comment(n.Text)
	return ""
}

func (r *rustRenderer) VisitStringLit(n *target.StringLit) string {
	return "rt::Value::from(" + rustQuote(n.Value) + ")"
}

func (r *rustRenderer) VisitNumberLit(n *target.NumberLit) string {
	return "rt::Value::from(" + rustFloat(n.Value) + ")"
}

func (r *rustRenderer) VisitArrayLit(n *target.ArrayLit) string {
	return "rt::Value::from(vec![" + r.exprs(n.Elements) + "])"
}

func (r *rustRenderer) VisitObjectLit(n *target.ObjectLit) string {
	fields := make([]string, len(n.Fields))
	for i, f := range n.Fields {
		fields[i] = "(" + rustQuote(f.Key) + ", " + r.expr(f.Value) + ")"
	}
	return "rt::obj(&[" + strings.Join(fields, ", ") + "])"
}

func (r *rustRenderer) VisitCallExpr(n *target.CallExpr) string {
	switch n.Callee {
	case target.ComposeCallee:
		return "rt::compose(vec![" + r.exprs(n.Args) + "])"
	case target.StyledCallee:
		return "rt::styled(" + r.exprs(n.Args) + ")"
	}
	return rustName(n.Callee) + "(" + r.exprs(n.Args) + ")"
}

func (r *rustRenderer) VisitIdent(n *target.Ident) string {
	name := rustName(n.Name)
	switch {
	case r.local(n.Name):
		return name + ".clone()"
	case r.globals[n.Name]:
		return name + ".with(|v| v.borrow().clone())"
	default:
		return "rt::lookup(" + rustQuote(n.Name) + ")"
	}
}

func (r *rustRenderer) VisitUnsupported(n *target.Unsupported) string {
	r.comment(r.unsupported(n))
	return ""
}

func rustFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "f64::NAN"
	case math.IsInf(v, 1):
		return "f64::INFINITY"
	case math.IsInf(v, -1):
		return "f64::NEG_INFINITY"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func rustQuote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u{%x}`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

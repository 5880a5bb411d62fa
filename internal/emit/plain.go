package emit

import (
	"strconv"
	"strings"

	"fuhao/internal/target"
)

// plainRenderer writes a readable outline of the program. It has no entry
// point to synthesize.
type plainRenderer struct {
	*recorder
	w *Writer
}

func newPlainRenderer(rec *recorder, opt WriterOptions) *plainRenderer {
	return &plainRenderer{recorder: rec, w: NewWriter(opt)}
}

func (r *plainRenderer) render(p *target.Program) string {
	target.Visit[string](p, r)
	return r.w.String()
}

func (r *plainRenderer) VisitProgram(p *target.Program) string {
	for _, n := range p.Body {
		switch n.Kind() {
		case target.KindComment, target.KindUnsupported:
		default:
			r.mark(r.w.Line(), n)
		}
		r.stmt(n)
	}
	return ""
}

func (r *plainRenderer) stmt(n target.Node) {
	if s := target.Visit[string](n, r); s != "" {
		r.w.WriteLine(s)
	}
}

func (r *plainRenderer) expr(n target.Node) string {
	if u, ok := n.(*target.Unsupported); ok {
		return "<" + r.unsupported(u) + ">"
	}
	if s := target.Visit[string](n, r); s != "" {
		return s
	}
	return "nil"
}

func (r *plainRenderer) exprs(ns []target.Node) string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = r.expr(n)
	}
	return strings.Join(out, ", ")
}

func (r *plainRenderer) VisitImport(n *target.Import) string {
	r.w.WriteLine("import " + n.Module + ": " + strings.Join(n.Names, ", "))
	return ""
}

func (r *plainRenderer) VisitFuncDecl(n *target.FuncDecl) string {
	r.w.WriteLine(n.Role.String() + " " + n.Name + "(" + strings.Join(n.Params, ", ") + ")")
	r.w.IndentPush()
	for _, s := range n.Body {
		r.stmt(s)
	}
	if n.Result != nil {
		r.w.WriteLine("result: " + r.expr(n.Result))
	}
	r.w.IndentPop()
	return ""
}

func (r *plainRenderer) VisitBindingBlock(n *target.BindingBlock) string {
	for _, b := range n.Bindings {
		if b.Value == nil {
			r.w.WriteLine("state " + b.Name)
			continue
		}
		r.w.WriteLine("state " + b.Name + " = " + r.expr(b.Value))
	}
	return ""
}

func (r *plainRenderer) VisitExprStmt(n *target.ExprStmt) string {
	if u, ok := n.X.(*target.Unsupported); ok {
		return r.VisitUnsupported(u)
	}
	return r.expr(n.X)
}

func (r *plainRenderer) VisitComment(n *target.Comment) string {
	for _, l := range strings.Split(n.Text, "\n") {
		r.w.WriteLine(strings.TrimRight("# "+l, " "))
	}
	return ""
}

func (r *plainRenderer) VisitStringLit(n *target.StringLit) string {
	return strconv.Quote(n.Value)
}

func (r *plainRenderer) VisitNumberLit(n *target.NumberLit) string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

func (r *plainRenderer) VisitArrayLit(n *target.ArrayLit) string {
	return "[" + r.exprs(n.Elements) + "]"
}

func (r *plainRenderer) VisitObjectLit(n *target.ObjectLit) string {
	fields := make([]string, len(n.Fields))
	for i, f := range n.Fields {
		fields[i] = f.Key + ": " + r.expr(f.Value)
	}
	return "{" + strings.Join(fields, ", ") + "}"
}

func (r *plainRenderer) VisitCallExpr(n *target.CallExpr) string {
	return n.Callee + "(" + r.exprs(n.Args) + ")"
}

func (r *plainRenderer) VisitIdent(n *target.Ident) string {
	return n.Name
}

func (r *plainRenderer) VisitUnsupported(n *target.Unsupported) string {
	r.w.WriteLine("# " + r.unsupported(n))
	return ""
}

package emit

import (
	"bytes"
	goast "go/ast"
	"go/format"
	gotoken "go/token"
	"math"
	"strconv"
	"strings"

	"fuhao/internal/target"
)

const goPlaceholder = "fuhaoPassthrough"

// goGen is what one node renders to in Go. Which field is set depends on
// where the node sits: declarations and comments at top level, statements
// inside a function, an expression anywhere a value is expected.
type goGen struct {
	decls   []goast.Decl
	stmts   []goast.Stmt
	expr    goast.Expr
	comment string
}

// Комментарии и unsupported нельзя выразить в go/ast без позиций, поэтому
// они печатаются как вызовы-заглушки и подменяются после format.Node.
type passthrough struct {
	text string
	stmt bool
}

type goRenderer struct {
	*recorder
	fset     *gotoken.FileSet
	lbrace   gotoken.Pos
	rbrace   gotoken.Pos
	depth    int
	pass     []passthrough
	usesRT   bool
	usesMath bool
	out      string
}

func newGoRenderer(rec *recorder) *goRenderer {
	// Скобки тел на разных строках: иначе printer сворачивает короткие
	// функции в одну строку и заглушки перестают занимать целую строку.
	fset := gotoken.NewFileSet()
	f := fset.AddFile("fuhao.go", -1, 2)
	f.SetLines([]int{0, 1})
	return &goRenderer{recorder: rec, fset: fset, lbrace: f.Pos(0), rbrace: f.Pos(1)}
}

func (r *goRenderer) block(list []goast.Stmt) *goast.BlockStmt {
	return &goast.BlockStmt{Lbrace: r.lbrace, List: list, Rbrace: r.rbrace}
}

func (r *goRenderer) render(p *target.Program) string {
	target.Visit[goGen](p, r)
	return r.out
}

type goChunk struct {
	text string
	node target.Node // nil для комментариев и main
}

func (r *goRenderer) VisitProgram(p *target.Program) goGen {
	var chunks []goChunk
	for _, n := range p.Body {
		g := target.Visit[goGen](n, r)
		if g.comment != "" {
			chunks = append(chunks, goChunk{text: g.comment})
		}
		for _, d := range g.decls {
			chunks = append(chunks, goChunk{text: r.format(d, n), node: n})
		}
	}
	chunks = append(chunks, goChunk{text: r.format(r.mainFunc(p), nil)})

	w := NewWriter(WriterOptions{UseTabs: true})
	w.WriteLine("// Code generated by fuhao. DO NOT EDIT.")
	w.Newline()
	w.WriteLine("package main")
	r.writeImports(w)
	for _, c := range chunks {
		w.BlankLine()
		if c.node != nil {
			r.mark(w.Line(), c.node)
		}
		w.WriteRaw(c.text)
		w.Newline()
	}
	r.out = w.String()
	return goGen{}
}

func (r *goRenderer) writeImports(w *Writer) {
	rt := `rt "` + target.RuntimeModule + `"`
	switch {
	case r.usesMath && r.usesRT:
		w.BlankLine()
		w.WriteLine("import (")
		w.WriteLine("\t\"math\"")
		w.Newline()
		w.WriteLine("\t" + rt)
		w.WriteLine(")")
	case r.usesMath:
		w.BlankLine()
		w.WriteLine(`import "math"`)
	case r.usesRT:
		w.BlankLine()
		w.WriteLine("import " + rt)
	}
}

// mainFunc builds the entry point. A user main is renamed and called from it.
func (r *goRenderer) mainFunc(p *target.Program) goast.Decl {
	var body []goast.Stmt
	if fn, ok := userMain(p); ok {
		body = append(body, &goast.ExprStmt{X: &goast.CallExpr{
			Fun:  goast.NewIdent(goName(fn.Name)),
			Args: goNils(len(fn.Params)),
		}})
	} else if fn, ok := p.Entry(); ok {
		body = append(body, &goast.ExprStmt{X: r.rtCall("Run", goast.NewIdent(goName(fn.Name)))})
	}
	return &goast.FuncDecl{
		Name: goast.NewIdent("main"),
		Type: &goast.FuncType{Params: &goast.FieldList{}},
		Body: r.block(body),
	}
}

func (r *goRenderer) format(d goast.Decl, n target.Node) string {
	var buf bytes.Buffer
	if err := format.Node(&buf, r.fset, d); err != nil {
		r.fail(n, err)
		return "// " + err.Error()
	}
	return r.expandPassthrough(buf.String())
}

// expandPassthrough replaces placeholder calls with comments.
func (r *goRenderer) expandPassthrough(src string) string {
	if !strings.Contains(src, goPlaceholder) {
		return src
	}
	lines := strings.Split(src, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, "\t")
		if id, ok := r.placeholderID(trimmed); ok && r.pass[id].stmt {
			indent := line[:len(line)-len(trimmed)]
			for _, text := range strings.Split(r.pass[id].text, "\n") {
				out = append(out, strings.TrimRight(indent+"// "+text, " "))
			}
			continue
		}
		out = append(out, line)
	}
	src = strings.Join(out, "\n")
	for id, p := range r.pass {
		if !p.stmt {
			src = strings.ReplaceAll(src, goPlaceholder+strconv.Itoa(id)+"()", "any(nil) /* "+p.text+" */")
		}
	}
	return src
}

func (r *goRenderer) placeholderID(s string) (int, bool) {
	rest, ok := strings.CutPrefix(s, goPlaceholder)
	if !ok {
		return 0, false
	}
	rest, ok = strings.CutSuffix(rest, "()")
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(rest)
	if err != nil || id < 0 || id >= len(r.pass) {
		return 0, false
	}
	return id, true
}

func (r *goRenderer) placeholder(text string, stmt bool) *goast.CallExpr {
	r.pass = append(r.pass, passthrough{text: strings.ReplaceAll(text, "*/", "* /"), stmt: stmt})
	return &goast.CallExpr{Fun: goast.NewIdent(goPlaceholder + strconv.Itoa(len(r.pass)-1))}
}

// comment renders text as a comment in the current position.
func (r *goRenderer) comment(text string) goGen {
	if r.depth == 0 {
		lines := strings.Split(text, "\n")
		for i, l := range lines {
			lines[i] = strings.TrimRight("// "+l, " ")
		}
		return goGen{comment: strings.Join(lines, "\n")}
	}
	return goGen{stmts: []goast.Stmt{&goast.ExprStmt{X: r.placeholder(text, true)}}}
}

// discard evaluates x for its effect: `var _ = x` on top, `_ = x` inside.
func (r *goRenderer) discard(x goast.Expr) goGen {
	if r.depth == 0 {
		return goGen{decls: []goast.Decl{&goast.GenDecl{
			Tok:   gotoken.VAR,
			Specs: []goast.Spec{&goast.ValueSpec{Names: []*goast.Ident{goast.NewIdent("_")}, Values: []goast.Expr{x}}},
		}}}
	}
	return goGen{stmts: []goast.Stmt{goBlank(x)}}
}

func (r *goRenderer) expr(n target.Node) goast.Expr {
	if u, ok := n.(*target.Unsupported); ok {
		return r.placeholder(r.unsupported(u), false)
	}
	if g := target.Visit[goGen](n, r); g.expr != nil {
		return g.expr
	}
	return goast.NewIdent("nil")
}

func (r *goRenderer) exprs(ns []target.Node) []goast.Expr {
	out := make([]goast.Expr, len(ns))
	for i, n := range ns {
		out[i] = r.expr(n)
	}
	return out
}

func (r *goRenderer) stmts(n target.Node) []goast.Stmt {
	g := target.Visit[goGen](n, r)
	if g.stmts == nil && g.expr != nil {
		return []goast.Stmt{goBlank(g.expr)}
	}
	return g.stmts
}

func (r *goRenderer) rtCall(name string, args ...goast.Expr) *goast.CallExpr {
	r.usesRT = true
	return &goast.CallExpr{Fun: goSel("rt", name), Args: args}
}

func (r *goRenderer) VisitImport(n *target.Import) goGen {
	args := make([]goast.Expr, len(n.Names))
	for i, name := range n.Names {
		args[i] = goString(name)
	}
	return r.discard(r.rtCall("Import", args...))
}

func (r *goRenderer) VisitFuncDecl(n *target.FuncDecl) goGen {
	params := make([]*goast.Ident, len(n.Params))
	for i, p := range n.Params {
		params[i] = goast.NewIdent(goName(p))
	}
	typ := &goast.FuncType{
		Params:  &goast.FieldList{},
		Results: &goast.FieldList{List: []*goast.Field{{Type: goast.NewIdent("any")}}},
	}
	if len(params) > 0 {
		typ.Params.List = []*goast.Field{{Names: params, Type: goast.NewIdent("any")}}
	}

	r.depth++
	var list []goast.Stmt
	for _, s := range n.Body {
		list = append(list, r.stmts(s)...)
	}
	var result goast.Expr = goast.NewIdent("nil")
	if n.Result != nil {
		result = r.expr(n.Result)
	}
	r.depth--
	body := r.block(append(list, &goast.ReturnStmt{Results: []goast.Expr{result}}))

	name := goName(n.Name)
	if r.depth == 0 {
		return goGen{decls: []goast.Decl{&goast.FuncDecl{Name: goast.NewIdent(name), Type: typ, Body: body}}}
	}
	return goGen{stmts: []goast.Stmt{
		&goast.AssignStmt{
			Lhs: []goast.Expr{goast.NewIdent(name)},
			Tok: gotoken.DEFINE,
			Rhs: []goast.Expr{&goast.FuncLit{Type: typ, Body: body}},
		},
		goBlank(goast.NewIdent(name)),
	}}
}

func (r *goRenderer) VisitBindingBlock(n *target.BindingBlock) goGen {
	specs := make([]goast.Spec, len(n.Bindings))
	for i, b := range n.Bindings {
		spec := &goast.ValueSpec{Names: []*goast.Ident{goast.NewIdent(goName(b.Name))}, Type: goast.NewIdent("any")}
		if b.Value != nil {
			spec.Values = []goast.Expr{r.expr(b.Value)}
		}
		specs[i] = spec
	}
	decl := &goast.GenDecl{Tok: gotoken.VAR, Specs: specs}
	if r.depth == 0 {
		return goGen{decls: []goast.Decl{decl}}
	}
	stmts := []goast.Stmt{&goast.DeclStmt{Decl: decl}}
	for _, b := range n.Bindings {
		stmts = append(stmts, goBlank(goast.NewIdent(goName(b.Name))))
	}
	return goGen{stmts: stmts}
}

func (r *goRenderer) VisitExprStmt(n *target.ExprStmt) goGen {
	if u, ok := n.X.(*target.Unsupported); ok {
		return r.comment(r.unsupported(u))
	}
	return r.discard(r.expr(n.X))
}

func (r *goRenderer) VisitComment(n *target.Comment) goGen {
	return r.comment(n.Text)
}

func (r *goRenderer) VisitStringLit(n *target.StringLit) goGen {
	return goGen{expr: goString(n.Value)}
}

func (r *goRenderer) VisitNumberLit(n *target.NumberLit) goGen {
	return goGen{expr: r.number(n.Value)}
}

func (r *goRenderer) number(v float64) goast.Expr {
	switch {
	case math.IsNaN(v):
		r.usesMath = true
		return &goast.CallExpr{Fun: goSel("math", "NaN")}
	case math.IsInf(v, 0):
		r.usesMath = true
		var sign goast.Expr = &goast.BasicLit{Kind: gotoken.INT, Value: "1"}
		if v < 0 {
			sign = &goast.UnaryExpr{Op: gotoken.SUB, X: sign}
		}
		return &goast.CallExpr{Fun: goSel("math", "Inf"), Args: []goast.Expr{sign}}
	case v < 0:
		return &goast.UnaryExpr{Op: gotoken.SUB, X: r.number(-v)}
	case v == math.Trunc(v) && v < 1e15:
		return &goast.BasicLit{Kind: gotoken.INT, Value: strconv.FormatFloat(v, 'f', -1, 64)}
	default:
		return &goast.BasicLit{Kind: gotoken.FLOAT, Value: strconv.FormatFloat(v, 'g', -1, 64)}
	}
}

func (r *goRenderer) VisitArrayLit(n *target.ArrayLit) goGen {
	return goGen{expr: &goast.CompositeLit{
		Type: &goast.ArrayType{Elt: goast.NewIdent("any")},
		Elts: r.exprs(n.Elements),
	}}
}

// VisitObjectLit: rt.Obj("k", v, ...) сохраняет порядок полей, map бы его потерял.
func (r *goRenderer) VisitObjectLit(n *target.ObjectLit) goGen {
	args := make([]goast.Expr, 0, 2*len(n.Fields))
	for _, f := range n.Fields {
		args = append(args, goString(f.Key), r.expr(f.Value))
	}
	return goGen{expr: r.rtCall("Obj", args...)}
}

func (r *goRenderer) VisitCallExpr(n *target.CallExpr) goGen {
	args := r.exprs(n.Args)
	switch n.Callee {
	case target.ComposeCallee, target.StyledCallee:
		return goGen{expr: r.rtCall(n.Callee, args...)}
	}
	return goGen{expr: &goast.CallExpr{Fun: goast.NewIdent(goName(n.Callee)), Args: args}}
}

func (r *goRenderer) VisitIdent(n *target.Ident) goGen {
	return goGen{expr: goast.NewIdent(goName(n.Name))}
}

// VisitUnsupported handles statement position; expressions go through expr.
func (r *goRenderer) VisitUnsupported(n *target.Unsupported) goGen {
	return r.comment(r.unsupported(n))
}

func goString(s string) *goast.BasicLit {
	return &goast.BasicLit{Kind: gotoken.STRING, Value: strconv.Quote(s)}
}

func goSel(x, sel string) *goast.SelectorExpr {
	return &goast.SelectorExpr{X: goast.NewIdent(x), Sel: goast.NewIdent(sel)}
}

func goBlank(x goast.Expr) goast.Stmt {
	return &goast.AssignStmt{Lhs: []goast.Expr{goast.NewIdent("_")}, Tok: gotoken.ASSIGN, Rhs: []goast.Expr{x}}
}

func goNils(n int) []goast.Expr {
	out := make([]goast.Expr, n)
	for i := range out {
		out[i] = goast.NewIdent("nil")
	}
	return out
}

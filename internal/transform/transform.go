// Package transform lowers the source tree into the target tree.
//
// Lowering is a pure function of its input apart from diagnostics: every node
// gets its expanded text (memoized on the node, so a second run sees the same
// result) and every numeric literal its decoded value. A numeral that does not
// decode becomes zero plus a warning.
package transform

import (
	"errors"
	"strconv"
	"strings"

	"fuhao/internal/ast"
	"fuhao/internal/diag"
	"fuhao/internal/numeral"
	"fuhao/internal/source"
	"fuhao/internal/symtab"
	"fuhao/internal/target"
)

type Options struct {
	Syms  *symtab.Table  // nil: symtab.Default()
	Codec *numeral.Codec // nil: codec over Syms
	File  *source.File   // для позиций; nil допустим
	// Reporter получает NUM-диагностики; nil допустим.
	Reporter diag.Reporter
}

// Lower transforms prog into a target program.
func Lower(prog *ast.Program, opts Options) *target.Program {
	if opts.Syms == nil {
		opts.Syms = symtab.Default()
	}
	if opts.Codec == nil {
		opts.Codec = numeral.NewCodec(opts.Syms)
	}
	l := &lowerer{opts: opts}
	ast.Walk(prog, func(n ast.Node) bool {
		n.Expand(opts.Syms.Expand)
		return true
	})
	return ast.Visit[target.Node](prog, l).(*target.Program)
}

// lowerer holds context for the lowering pass.
type lowerer struct {
	opts  Options
	depth int // вложенность объявлений; 0: верхний уровень
}

func (l *lowerer) origin(n ast.Node) target.Origin {
	if l.opts.File == nil {
		return target.Origin{}
	}
	lc := l.opts.File.Position(n.Span().Start)
	return target.Origin{Line: lc.Line, Col: lc.Col}
}

func (l *lowerer) lower(n ast.Node) target.Node {
	return ast.Visit[target.Node](n, l)
}

// expr lowers n in expression position, where declarations have no shape.
func (l *lowerer) expr(n ast.Node) target.Node {
	if !isExpression(n) {
		return l.unsupported(n)
	}
	return l.lower(n)
}

func (l *lowerer) exprs(ns []ast.Node) []target.Node {
	out := make([]target.Node, 0, len(ns))
	for _, n := range ns {
		out = append(out, l.expr(n))
	}
	return out
}

// stmt lowers a body entry; bare expressions become ExprStmt.
func (l *lowerer) stmt(n ast.Node) target.Node {
	if isExpression(n) {
		return target.At(&target.ExprStmt{X: l.expr(n)}, l.origin(n))
	}
	return l.lower(n)
}

func isExpression(n ast.Node) bool {
	switch n.Kind() {
	case ast.KindImport, ast.KindFunction, ast.KindComponent, ast.KindInterface,
		ast.KindUIInterface, ast.KindState, ast.KindDocumentation:
		return false
	default:
		return true
	}
}

func (l *lowerer) nested(fn func()) {
	l.depth++
	fn()
	l.depth--
}

func (l *lowerer) VisitProgram(n *ast.Program) target.Node {
	body := make([]target.Node, 0, len(n.Body))
	for _, s := range n.Body {
		body = append(body, l.stmt(s))
	}
	return target.At(&target.Program{Body: body}, l.origin(n))
}

func (l *lowerer) VisitImport(n *ast.ImportDeclaration) target.Node {
	if l.depth > 0 {
		return l.unsupported(n)
	}
	names := make([]string, len(n.Modules))
	for i, m := range n.Modules {
		names[i] = m.Expand(l.opts.Syms.Expand)
	}
	return target.At(&target.Import{Module: target.RuntimeModule, Names: names}, l.origin(n))
}

// VisitFunction: последнее выражение тела становится результатом.
func (l *lowerer) VisitFunction(n *ast.FunctionDeclaration) target.Node {
	fn := &target.FuncDecl{
		Name:   n.Name.Name,
		Params: identNames(n.Params),
		Role:   target.RoleFunction,
	}
	l.nested(func() {
		body := n.Body
		if k := len(body); k > 0 && isExpression(body[k-1]) {
			fn.Result = l.lower(body[k-1])
			body = body[:k-1]
		}
		for _, s := range body {
			fn.Body = append(fn.Body, l.stmt(s))
		}
	})
	return target.At(fn, l.origin(n))
}

func (l *lowerer) VisitComponent(n *ast.ComponentDeclaration) target.Node {
	fn := l.composed(n.Body, n)
	fn.Name = n.Name.Name
	fn.Params = identNames(n.Props)
	fn.Role = target.RoleComponent
	return fn
}

func (l *lowerer) VisitInterface(n *ast.InterfaceDeclaration) target.Node {
	fn := l.composed(n.Body, n)
	fn.Name = n.Name.Name
	fn.Role = target.RoleInterface
	return fn
}

func (l *lowerer) VisitUIInterface(n *ast.UIInterfaceDeclaration) target.Node {
	if l.depth > 0 {
		return l.unsupported(n)
	}
	fn := l.composed(n.Body, n)
	fn.Name = target.EntryName
	fn.Role = target.RoleEntry
	return fn
}

// composed builds a function that returns every body expression as one value.
func (l *lowerer) composed(body []ast.Node, n ast.Node) *target.FuncDecl {
	fn := target.At(&target.FuncDecl{}, l.origin(n))
	var exprs []target.Node
	l.nested(func() {
		for _, s := range body {
			if isExpression(s) {
				exprs = append(exprs, l.lower(s))
				continue
			}
			fn.Body = append(fn.Body, l.lower(s))
		}
	})
	switch len(exprs) {
	case 0:
	case 1:
		fn.Result = exprs[0]
	default:
		fn.Result = target.At(&target.CallExpr{Callee: target.ComposeCallee, Args: exprs}, l.origin(n))
	}
	return fn
}

func (l *lowerer) VisitState(n *ast.StateBlock) target.Node {
	block := &target.BindingBlock{Bindings: make([]target.Binding, len(n.Bindings))}
	for i, b := range n.Bindings {
		block.Bindings[i].Name = b.Name.Name
		if b.Value != nil {
			block.Bindings[i].Value = l.expr(b.Value)
		}
	}
	return target.At(block, l.origin(n))
}

func (l *lowerer) VisitText(n *ast.TextLiteral) target.Node {
	return target.At(&target.StringLit{Value: l.textOf(n)}, l.origin(n))
}

// textOf joins the parts of a text literal with single spaces.
func (l *lowerer) textOf(n *ast.TextLiteral) string {
	parts := make([]string, 0, len(n.Parts))
	for _, p := range n.Parts {
		switch p := p.(type) {
		case *ast.StringLiteral:
			parts = append(parts, p.Value)
		case *ast.NumericLiteral:
			parts = append(parts, strconv.FormatFloat(l.number(p), 'g', -1, 64))
		case *ast.TextLiteral:
			parts = append(parts, l.textOf(p))
		default:
			parts = append(parts, p.Expand(l.opts.Syms.Expand))
		}
	}
	return strings.Join(parts, " ")
}

func (l *lowerer) VisitArray(n *ast.ArrayLiteral) target.Node {
	return target.At(&target.ArrayLit{Elements: l.exprs(n.Elements)}, l.origin(n))
}

func (l *lowerer) VisitObject(n *ast.ObjectLiteral) target.Node {
	return target.At(l.object(n.Properties), l.origin(n))
}

func (l *lowerer) object(props []*ast.Property) *target.ObjectLit {
	obj := &target.ObjectLit{Fields: make([]target.Field, len(props))}
	for i, p := range props {
		obj.Fields[i] = target.Field{Key: p.Key, Value: l.expr(p.Value)}
	}
	return obj
}

func (l *lowerer) VisitStyled(n *ast.StyledElement) target.Node {
	o := l.origin(n)
	tag := target.At(&target.StringLit{Value: n.Tag.Name}, l.origin(n.Tag))
	props := target.At(l.object(n.Properties), o)
	return target.At(&target.CallExpr{Callee: target.StyledCallee, Args: []target.Node{tag, props}}, o)
}

func (l *lowerer) VisitDocumentation(n *ast.Documentation) target.Node {
	return target.At(&target.Comment{Text: n.Text}, l.origin(n))
}

func (l *lowerer) VisitIdentifier(n *ast.Identifier) target.Node {
	return target.At(&target.Ident{Name: n.Expand(l.opts.Syms.Expand)}, l.origin(n))
}

func (l *lowerer) VisitNumeric(n *ast.NumericLiteral) target.Node {
	return target.At(&target.NumberLit{Value: l.number(n)}, l.origin(n))
}

// number returns the decoded value, zero plus a warning when decoding fails.
func (l *lowerer) number(n *ast.NumericLiteral) float64 {
	v, err := n.Value(l.decode)
	if err == nil {
		return v
	}
	code := diag.NumBadLiteral
	var de *numeral.DecodeError
	if errors.As(err, &de) {
		code = diag.NumDecodeError
	}
	if l.opts.Reporter != nil {
		diag.ReportWarning(l.opts.Reporter, code, n.Span(), err.Error()).
			WithNote(n.Span(), "value replaced with 0").
			Emit()
	}
	return 0
}

func (l *lowerer) decode(raw string) (float64, error) {
	if isASCIINumber(raw) {
		return strconv.ParseFloat(raw, 64)
	}
	return l.opts.Codec.Decode(raw)
}

func isASCIINumber(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if (s[i] < '0' || s[i] > '9') && s[i] != '.' {
			return false
		}
	}
	return true
}

func (l *lowerer) VisitString(n *ast.StringLiteral) target.Node {
	return target.At(&target.StringLit{Value: n.Value}, l.origin(n))
}

func (l *lowerer) VisitWord(n *ast.Word) target.Node {
	return target.At(&target.StringLit{Value: n.Expand(l.opts.Syms.Expand)}, l.origin(n))
}

func (l *lowerer) VisitCall(n *ast.CallExpression) target.Node {
	return target.At(&target.CallExpr{Callee: n.Callee.Name, Args: l.exprs(n.Args)}, l.origin(n))
}

func (l *lowerer) VisitUnsupported(n *ast.Unsupported) target.Node {
	return l.unsupported(n)
}

func (l *lowerer) unsupported(n ast.Node) target.Node {
	return target.At(&target.Unsupported{What: n.Kind().String()}, l.origin(n))
}

func identNames(ids []*ast.Identifier) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Name
	}
	return out
}

package target

import "fmt"

// Visitor has one method per variant.
type Visitor[R any] interface {
	VisitProgram(*Program) R
	VisitImport(*Import) R
	VisitFuncDecl(*FuncDecl) R
	VisitBindingBlock(*BindingBlock) R
	VisitExprStmt(*ExprStmt) R
	VisitComment(*Comment) R
	VisitStringLit(*StringLit) R
	VisitNumberLit(*NumberLit) R
	VisitArrayLit(*ArrayLit) R
	VisitObjectLit(*ObjectLit) R
	VisitCallExpr(*CallExpr) R
	VisitIdent(*Ident) R
	VisitUnsupported(*Unsupported) R
}

// Visit dispatches n to the matching method of v.
func Visit[R any](n Node, v Visitor[R]) R {
	switch n := n.(type) {
	case *Program:
		return v.VisitProgram(n)
	case *Import:
		return v.VisitImport(n)
	case *FuncDecl:
		return v.VisitFuncDecl(n)
	case *BindingBlock:
		return v.VisitBindingBlock(n)
	case *ExprStmt:
		return v.VisitExprStmt(n)
	case *Comment:
		return v.VisitComment(n)
	case *StringLit:
		return v.VisitStringLit(n)
	case *NumberLit:
		return v.VisitNumberLit(n)
	case *ArrayLit:
		return v.VisitArrayLit(n)
	case *ObjectLit:
		return v.VisitObjectLit(n)
	case *CallExpr:
		return v.VisitCallExpr(n)
	case *Ident:
		return v.VisitIdent(n)
	case *Unsupported:
		return v.VisitUnsupported(n)
	}
	panic(fmt.Sprintf("target: unexpected node %T", n))
}

// Walk calls fn for n and its descendants in pre-order.
func Walk(n Node, fn func(Node)) {
	if n == nil {
		return
	}
	fn(n)
	switch n := n.(type) {
	case *Program:
		walkAll(n.Body, fn)
	case *FuncDecl:
		walkAll(n.Body, fn)
		Walk(n.Result, fn)
	case *BindingBlock:
		for _, b := range n.Bindings {
			Walk(b.Value, fn)
		}
	case *ExprStmt:
		Walk(n.X, fn)
	case *ArrayLit:
		walkAll(n.Elements, fn)
	case *ObjectLit:
		for _, f := range n.Fields {
			Walk(f.Value, fn)
		}
	case *CallExpr:
		walkAll(n.Args, fn)
	}
}

func walkAll(ns []Node, fn func(Node)) {
	for _, n := range ns {
		Walk(n, fn)
	}
}

package ast

import "fmt"

// Visitor has one method per variant. R is the result of a visit.
type Visitor[R any] interface {
	VisitProgram(*Program) R
	VisitImport(*ImportDeclaration) R
	VisitFunction(*FunctionDeclaration) R
	VisitComponent(*ComponentDeclaration) R
	VisitInterface(*InterfaceDeclaration) R
	VisitUIInterface(*UIInterfaceDeclaration) R
	VisitState(*StateBlock) R
	VisitText(*TextLiteral) R
	VisitArray(*ArrayLiteral) R
	VisitObject(*ObjectLiteral) R
	VisitStyled(*StyledElement) R
	VisitDocumentation(*Documentation) R
	VisitIdentifier(*Identifier) R
	VisitNumeric(*NumericLiteral) R
	VisitString(*StringLiteral) R
	VisitWord(*Word) R
	VisitCall(*CallExpression) R
	VisitUnsupported(*Unsupported) R
}

// Visit dispatches n to the matching method of v.
func Visit[R any](n Node, v Visitor[R]) R {
	switch n := n.(type) {
	case *Program:
		return v.VisitProgram(n)
	case *ImportDeclaration:
		return v.VisitImport(n)
	case *FunctionDeclaration:
		return v.VisitFunction(n)
	case *ComponentDeclaration:
		return v.VisitComponent(n)
	case *InterfaceDeclaration:
		return v.VisitInterface(n)
	case *UIInterfaceDeclaration:
		return v.VisitUIInterface(n)
	case *StateBlock:
		return v.VisitState(n)
	case *TextLiteral:
		return v.VisitText(n)
	case *ArrayLiteral:
		return v.VisitArray(n)
	case *ObjectLiteral:
		return v.VisitObject(n)
	case *StyledElement:
		return v.VisitStyled(n)
	case *Documentation:
		return v.VisitDocumentation(n)
	case *Identifier:
		return v.VisitIdentifier(n)
	case *NumericLiteral:
		return v.VisitNumeric(n)
	case *StringLiteral:
		return v.VisitString(n)
	case *Word:
		return v.VisitWord(n)
	case *CallExpression:
		return v.VisitCall(n)
	case *Unsupported:
		return v.VisitUnsupported(n)
	}
	panic(fmt.Sprintf("ast: unexpected node %T", n))
}

// Walk calls fn for n and its descendants in pre-order. Returning false from
// fn skips the children of that node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n Node) int {
	total := 0
	Walk(n, func(Node) bool {
		total++
		return true
	})
	return total
}

// Package ast defines the source syntax tree produced by the parser.
//
// Node is a closed sum type: every variant lives in this package and embeds
// base, whose unexported method seals the interface. Dispatch goes through
// Visitor, so adding a variant breaks every consumer until it handles it.
//
// Invariants:
//   - a node's span contains the spans of all its children;
//   - Children returns nodes in source order;
//   - Expand computes the expanded text once; later calls return the memo.
package ast

import (
	"fuhao/internal/source"
)

// Kind tags a node variant.
type Kind uint8

const (
	KindProgram Kind = iota
	KindImport
	KindFunction
	KindComponent
	KindUIInterface
	KindInterface
	KindState
	KindText
	KindArray
	KindObject
	KindStyled
	KindDocumentation
	KindIdentifier
	KindNumeric
	KindString
	KindWord
	KindCall
	KindUnsupported
)

var kindNames = [...]string{
	KindProgram:       "Program",
	KindImport:        "ImportDeclaration",
	KindFunction:      "FunctionDeclaration",
	KindComponent:     "ComponentDeclaration",
	KindUIInterface:   "UIInterfaceDeclaration",
	KindInterface:     "InterfaceDeclaration",
	KindState:         "StateBlock",
	KindText:          "TextLiteral",
	KindArray:         "ArrayLiteral",
	KindObject:        "ObjectLiteral",
	KindStyled:        "StyledElement",
	KindDocumentation: "Documentation",
	KindIdentifier:    "Identifier",
	KindNumeric:       "NumericLiteral",
	KindString:        "StringLiteral",
	KindWord:          "Word",
	KindCall:          "CallExpression",
	KindUnsupported:   "Unsupported",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Node is implemented only by the variants of this package.
type Node interface {
	Kind() Kind
	Span() source.Span
	// Raw is the exact source text of the node.
	Raw() string
	// Expand returns the expanded text, computing it with fn on first use only.
	Expand(fn func(string) string) string
	// Expanded returns the memoized expansion, if computed.
	Expanded() (string, bool)
	Children() []Node
	sealed()
}

type base struct {
	span     source.Span
	raw      string
	expanded *string
}

func newBase(span source.Span, raw string) base {
	return base{span: span, raw: raw}
}

func (b *base) Span() source.Span { return b.span }
func (b *base) Raw() string       { return b.raw }
func (*base) sealed()             {}

func (b *base) Expand(fn func(string) string) string {
	if b.expanded == nil {
		s := fn(b.raw)
		b.expanded = &s
	}
	return *b.expanded
}

func (b *base) Expanded() (string, bool) {
	if b.expanded == nil {
		return "", false
	}
	return *b.expanded, true
}

// nodes собирает непустые узлы в один срез.
func nodes[T Node](items ...[]T) []Node {
	var out []Node
	for _, list := range items {
		for _, n := range list {
			out = append(out, n)
		}
	}
	return out
}

// one возвращает срез из одного узла, если он не nil.
func one(n Node) []Node {
	if n == nil {
		return nil
	}
	return []Node{n}
}

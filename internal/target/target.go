// Package target defines the target-agnostic syntax tree handed from the
// transformer to the emitters.
//
// Like the source tree, Node is sealed. Renderers implement Visitor, so a new
// variant does not compile until every renderer handles it.
package target

import "fmt"

// RuntimeModule is the module every import is resolved against.
const RuntimeModule = "fuhao/runtime"

// EntryName is the function the root UI interface becomes.
const EntryName = "App"

// Runtime callees the transformer introduces.
const (
	// ComposeCallee joins several body expressions into one.
	ComposeCallee = "Compose"
	// StyledCallee wraps a styled element: Styled(tag, props).
	StyledCallee = "Styled"
)

// Origin is the source position a node was produced from; zero when synthesized.
type Origin struct {
	Line uint32
	Col  uint32
}

type Kind uint8

const (
	KindProgram Kind = iota
	KindImport
	KindFuncDecl
	KindBindingBlock
	KindExprStmt
	KindComment
	KindStringLit
	KindNumberLit
	KindArrayLit
	KindObjectLit
	KindCallExpr
	KindIdent
	KindUnsupported
)

var kindNames = [...]string{
	KindProgram:      "Program",
	KindImport:       "Import",
	KindFuncDecl:     "FuncDecl",
	KindBindingBlock: "BindingBlock",
	KindExprStmt:     "ExprStmt",
	KindComment:      "Comment",
	KindStringLit:    "StringLit",
	KindNumberLit:    "NumberLit",
	KindArrayLit:     "ArrayLit",
	KindObjectLit:    "ObjectLit",
	KindCallExpr:     "CallExpr",
	KindIdent:        "Ident",
	KindUnsupported:  "Unsupported",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

type Node interface {
	Kind() Kind
	Pos() Origin
	node()
}

type at struct{ origin Origin }

func (a *at) Pos() Origin     { return a.origin }
func (a *at) setPos(o Origin) { a.origin = o }
func (*at) node()             {}

// At stamps n with the source position it was produced from.
func At[T interface {
	Node
	setPos(Origin)
}](n T, o Origin) T {
	n.setPos(o)
	return n
}

// Program: top-level statements in source order.
type Program struct {
	at
	Body []Node
}

// Import pulls Names from RuntimeModule.
type Import struct {
	at
	Module string
	Names  []string
}

// FuncRole records which declaration a FuncDecl came from.
type FuncRole uint8

const (
	RoleFunction FuncRole = iota
	RoleComponent
	RoleInterface
	RoleEntry
)

func (r FuncRole) String() string {
	switch r {
	case RoleComponent:
		return "component"
	case RoleInterface:
		return "interface"
	case RoleEntry:
		return "entry"
	default:
		return "function"
	}
}

// FuncDecl: Body runs first, then Result (nil for none) is returned.
type FuncDecl struct {
	at
	Name   string
	Params []string
	Role   FuncRole
	Body   []Node
	Result Node
}

type Binding struct {
	Name  string
	Value Node // nil: zero value
}

// BindingBlock declares mutable bindings in order.
type BindingBlock struct {
	at
	Bindings []Binding
}

type ExprStmt struct {
	at
	X Node
}

type Comment struct {
	at
	Text string
}

type StringLit struct {
	at
	Value string
}

type NumberLit struct {
	at
	Value float64
}

type ArrayLit struct {
	at
	Elements []Node
}

type Field struct {
	Key   string
	Value Node
}

// ObjectLit keeps fields in insertion order.
type ObjectLit struct {
	at
	Fields []Field
}

type CallExpr struct {
	at
	Callee string
	Args   []Node
}

type Ident struct {
	at
	Name string
}

// Unsupported stands for a construct with no target shape. What names it.
type Unsupported struct {
	at
	What string
}

func (*Program) Kind() Kind      { return KindProgram }
func (*Import) Kind() Kind       { return KindImport }
func (*FuncDecl) Kind() Kind     { return KindFuncDecl }
func (*BindingBlock) Kind() Kind { return KindBindingBlock }
func (*ExprStmt) Kind() Kind     { return KindExprStmt }
func (*Comment) Kind() Kind      { return KindComment }
func (*StringLit) Kind() Kind    { return KindStringLit }
func (*NumberLit) Kind() Kind    { return KindNumberLit }
func (*ArrayLit) Kind() Kind     { return KindArrayLit }
func (*ObjectLit) Kind() Kind    { return KindObjectLit }
func (*CallExpr) Kind() Kind     { return KindCallExpr }
func (*Ident) Kind() Kind        { return KindIdent }
func (*Unsupported) Kind() Kind  { return KindUnsupported }

// HasMain reports whether p declares a function named main.
func (p *Program) HasMain() bool {
	for _, n := range p.Body {
		if fn, ok := n.(*FuncDecl); ok && fn.Name == "main" {
			return true
		}
	}
	return false
}

// Entry returns the entry component, if the program has one.
func (p *Program) Entry() (*FuncDecl, bool) {
	for _, n := range p.Body {
		if fn, ok := n.(*FuncDecl); ok && fn.Role == RoleEntry {
			return fn, true
		}
	}
	return nil, false
}

package ast

import (
	"fuhao/internal/source"
)

// Program is the root: top-level statements in source order.
type Program struct {
	base
	Body []Node
	// Skipped lists tokens dropped in expression position; never part of Body.
	Skipped []*Unsupported
}

func NewProgram(span source.Span, raw string, body []Node, skipped []*Unsupported) *Program {
	return &Program{base: newBase(span, raw), Body: body, Skipped: skipped}
}

func (*Program) Kind() Kind          { return KindProgram }
func (n *Program) Children() []Node { return n.Body }

// ImportDeclaration: 引【ui, net】
type ImportDeclaration struct {
	base
	Modules []*Identifier
}

func NewImport(span source.Span, raw string, modules []*Identifier) *ImportDeclaration {
	return &ImportDeclaration{base: newBase(span, raw), Modules: modules}
}

func (*ImportDeclaration) Kind() Kind          { return KindImport }
func (n *ImportDeclaration) Children() []Node { return nodes(n.Modules) }

// FunctionDeclaration: 函【name(params) body 函】
type FunctionDeclaration struct {
	base
	Name   *Identifier
	Params []*Identifier
	Body   []Node
}

func NewFunction(span source.Span, raw string, name *Identifier, params []*Identifier, body []Node) *FunctionDeclaration {
	return &FunctionDeclaration{base: newBase(span, raw), Name: name, Params: params, Body: body}
}

func (*FunctionDeclaration) Kind() Kind { return KindFunction }
func (n *FunctionDeclaration) Children() []Node {
	return append(nodes([]*Identifier{n.Name}, n.Params), n.Body...)
}

// ComponentDeclaration: 组【Name(props) body 组】
type ComponentDeclaration struct {
	base
	Name  *Identifier
	Props []*Identifier
	Body  []Node
}

func NewComponent(span source.Span, raw string, name *Identifier, props []*Identifier, body []Node) *ComponentDeclaration {
	return &ComponentDeclaration{base: newBase(span, raw), Name: name, Props: props, Body: body}
}

func (*ComponentDeclaration) Kind() Kind { return KindComponent }
func (n *ComponentDeclaration) Children() []Node {
	return append(nodes([]*Identifier{n.Name}, n.Props), n.Body...)
}

// InterfaceDeclaration: 界【Name body 界】
type InterfaceDeclaration struct {
	base
	Name *Identifier
	Body []Node
}

func NewInterface(span source.Span, raw string, name *Identifier, body []Node) *InterfaceDeclaration {
	return &InterfaceDeclaration{base: newBase(span, raw), Name: name, Body: body}
}

func (*InterfaceDeclaration) Kind() Kind { return KindInterface }
func (n *InterfaceDeclaration) Children() []Node {
	return append(nodes([]*Identifier{n.Name}), n.Body...)
}

// UIInterfaceDeclaration is the root UI interface: 界主【 body 界】
type UIInterfaceDeclaration struct {
	base
	Body []Node
}

func NewUIInterface(span source.Span, raw string, body []Node) *UIInterfaceDeclaration {
	return &UIInterfaceDeclaration{base: newBase(span, raw), Body: body}
}

func (*UIInterfaceDeclaration) Kind() Kind          { return KindUIInterface }
func (n *UIInterfaceDeclaration) Children() []Node { return n.Body }

// Binding is one "name ← value" pair of a state block; Value may be nil.
type Binding struct {
	Span  source.Span
	Name  *Identifier
	Value Node
}

// StateBlock: 态【a ← expr, b】
type StateBlock struct {
	base
	Bindings []*Binding
}

func NewState(span source.Span, raw string, bindings []*Binding) *StateBlock {
	return &StateBlock{base: newBase(span, raw), Bindings: bindings}
}

func (*StateBlock) Kind() Kind { return KindState }
func (n *StateBlock) Children() []Node {
	var out []Node
	for _, b := range n.Bindings {
		out = append(out, b.Name)
		out = append(out, one(b.Value)...)
	}
	return out
}

// TextLiteral: 文【"Hello" world】. Parts are strings, words and nested literals.
type TextLiteral struct {
	base
	Parts []Node
}

func NewText(span source.Span, raw string, parts []Node) *TextLiteral {
	return &TextLiteral{base: newBase(span, raw), Parts: parts}
}

func (*TextLiteral) Kind() Kind          { return KindText }
func (n *TextLiteral) Children() []Node { return n.Parts }

// ArrayLiteral: 列【a, b】 or [a, b]
type ArrayLiteral struct {
	base
	Elements []Node
}

func NewArray(span source.Span, raw string, elems []Node) *ArrayLiteral {
	return &ArrayLiteral{base: newBase(span, raw), Elements: elems}
}

func (*ArrayLiteral) Kind() Kind          { return KindArray }
func (n *ArrayLiteral) Children() []Node { return n.Elements }

// Property is one "key: value" entry; order is insertion order.
type Property struct {
	Span    source.Span
	Key     string
	KeySpan source.Span
	Value   Node
}

// ObjectLiteral: 象【k: v, …】
type ObjectLiteral struct {
	base
	Properties []*Property
}

func NewObject(span source.Span, raw string, props []*Property) *ObjectLiteral {
	return &ObjectLiteral{base: newBase(span, raw), Properties: props}
}

func (*ObjectLiteral) Kind() Kind { return KindObject }
func (n *ObjectLiteral) Children() []Node {
	return propertyValues(n.Properties)
}

// StyledElement: 样【button color: "red"】
type StyledElement struct {
	base
	Tag        *Identifier
	Properties []*Property
}

func NewStyled(span source.Span, raw string, tag *Identifier, props []*Property) *StyledElement {
	return &StyledElement{base: newBase(span, raw), Tag: tag, Properties: props}
}

func (*StyledElement) Kind() Kind { return KindStyled }
func (n *StyledElement) Children() []Node {
	return append([]Node{n.Tag}, propertyValues(n.Properties)...)
}

func propertyValues(props []*Property) []Node {
	out := make([]Node, 0, len(props))
	for _, p := range props {
		out = append(out, one(p.Value)...)
	}
	return out
}

// Documentation: 注【free text】. Text is the raw content between the fences.
type Documentation struct {
	base
	Text string
}

func NewDocumentation(span source.Span, raw, text string) *Documentation {
	return &Documentation{base: newBase(span, raw), Text: text}
}

func (*Documentation) Kind() Kind        { return KindDocumentation }
func (*Documentation) Children() []Node { return nil }

type Identifier struct {
	base
	Name string
}

func NewIdentifier(span source.Span, name string) *Identifier {
	return &Identifier{base: newBase(span, name), Name: name}
}

func (*Identifier) Kind() Kind        { return KindIdentifier }
func (*Identifier) Children() []Node { return nil }

// NumericLiteral holds ASCII digits or a vector numeral; the value is decoded lazily.
type NumericLiteral struct {
	base
	decoded bool
	value   float64
	err     error
}

func NewNumeric(span source.Span, raw string) *NumericLiteral {
	return &NumericLiteral{base: newBase(span, raw)}
}

func (*NumericLiteral) Kind() Kind        { return KindNumeric }
func (*NumericLiteral) Children() []Node { return nil }

// Value decodes the literal with fn on first use and memoizes the result.
func (n *NumericLiteral) Value(fn func(string) (float64, error)) (float64, error) {
	if !n.decoded {
		n.value, n.err = fn(n.raw)
		n.decoded = true
	}
	return n.value, n.err
}

// StringLiteral: Value is unquoted with escapes resolved.
type StringLiteral struct {
	base
	Value string
}

func NewString(span source.Span, raw, value string) *StringLiteral {
	return &StringLiteral{base: newBase(span, raw), Value: value}
}

func (*StringLiteral) Kind() Kind        { return KindString }
func (*StringLiteral) Children() []Node { return nil }

// Word is bare text inside a text literal.
type Word struct {
	base
}

func NewWord(span source.Span, raw string) *Word {
	return &Word{base: newBase(span, raw)}
}

func (*Word) Kind() Kind        { return KindWord }
func (*Word) Children() []Node { return nil }

// CallExpression: name(args)
type CallExpression struct {
	base
	Callee *Identifier
	Args   []Node
}

func NewCall(span source.Span, raw string, callee *Identifier, args []Node) *CallExpression {
	return &CallExpression{base: newBase(span, raw), Callee: callee, Args: args}
}

func (*CallExpression) Kind() Kind { return KindCall }
func (n *CallExpression) Children() []Node {
	return append([]Node{n.Callee}, n.Args...)
}

// Unsupported carries the span of a token the parser skipped.
type Unsupported struct {
	base
	// Token is the token kind name, e.g. "Unknown".
	Token string
}

func NewUnsupported(span source.Span, raw, tok string) *Unsupported {
	return &Unsupported{base: newBase(span, raw), Token: tok}
}

func (*Unsupported) Kind() Kind        { return KindUnsupported }
func (*Unsupported) Children() []Node { return nil }

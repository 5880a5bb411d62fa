package ast

import (
	"strings"
	"testing"

	"fuhao/internal/source"
)

func sp(start, end uint32) source.Span {
	return source.Span{File: 1, Start: start, End: end}
}

func TestExpandIsMemoized(t *testing.T) {
	id := NewIdentifier(sp(0, 3), "函abc")
	calls := 0
	expand := func(s string) string {
		calls++
		return strings.ReplaceAll(s, "函", "function")
	}
	if _, ok := id.Expanded(); ok {
		t.Fatal("expansion must be empty before the first Expand")
	}
	first := id.Expand(expand)
	second := id.Expand(func(s string) string { return "other" })
	if first != "functionabc" || second != first || calls != 1 {
		t.Fatalf("Expand not memoized: %q %q calls=%d", first, second, calls)
	}
	if got, ok := id.Expanded(); !ok || got != first {
		t.Fatalf("Expanded() = %q, %v", got, ok)
	}
}

func TestNumericValueIsMemoized(t *testing.T) {
	n := NewNumeric(sp(0, 2), "42")
	calls := 0
	decode := func(string) (float64, error) {
		calls++
		return 42, nil
	}
	n.Value(decode)
	v, err := n.Value(decode)
	if v != 42 || err != nil || calls != 1 {
		t.Fatalf("Value = %v, %v, calls=%d", v, err, calls)
	}
}

type kindCollector struct{ seen []Kind }

func (c *kindCollector) record(n Node) string {
	c.seen = append(c.seen, n.Kind())
	return n.Kind().String()
}

func (c *kindCollector) VisitProgram(n *Program) string                   { return c.record(n) }
func (c *kindCollector) VisitImport(n *ImportDeclaration) string          { return c.record(n) }
func (c *kindCollector) VisitFunction(n *FunctionDeclaration) string      { return c.record(n) }
func (c *kindCollector) VisitComponent(n *ComponentDeclaration) string    { return c.record(n) }
func (c *kindCollector) VisitInterface(n *InterfaceDeclaration) string    { return c.record(n) }
func (c *kindCollector) VisitUIInterface(n *UIInterfaceDeclaration) string { return c.record(n) }
func (c *kindCollector) VisitState(n *StateBlock) string                  { return c.record(n) }
func (c *kindCollector) VisitText(n *TextLiteral) string                  { return c.record(n) }
func (c *kindCollector) VisitArray(n *ArrayLiteral) string                { return c.record(n) }
func (c *kindCollector) VisitObject(n *ObjectLiteral) string              { return c.record(n) }
func (c *kindCollector) VisitStyled(n *StyledElement) string              { return c.record(n) }
func (c *kindCollector) VisitDocumentation(n *Documentation) string       { return c.record(n) }
func (c *kindCollector) VisitIdentifier(n *Identifier) string             { return c.record(n) }
func (c *kindCollector) VisitNumeric(n *NumericLiteral) string            { return c.record(n) }
func (c *kindCollector) VisitString(n *StringLiteral) string              { return c.record(n) }
func (c *kindCollector) VisitWord(n *Word) string                         { return c.record(n) }
func (c *kindCollector) VisitCall(n *CallExpression) string               { return c.record(n) }
func (c *kindCollector) VisitUnsupported(n *Unsupported) string           { return c.record(n) }

func TestVisitDispatchesEveryKind(t *testing.T) {
	id := NewIdentifier(sp(0, 1), "x")
	all := []Node{
		NewProgram(sp(0, 1), "x", nil, nil),
		NewImport(sp(0, 1), "x", nil),
		NewFunction(sp(0, 1), "x", id, nil, nil),
		NewComponent(sp(0, 1), "x", id, nil, nil),
		NewUIInterface(sp(0, 1), "x", nil),
		NewInterface(sp(0, 1), "x", id, nil),
		NewState(sp(0, 1), "x", nil),
		NewText(sp(0, 1), "x", nil),
		NewArray(sp(0, 1), "x", nil),
		NewObject(sp(0, 1), "x", nil),
		NewStyled(sp(0, 1), "x", id, nil),
		NewDocumentation(sp(0, 1), "x", "x"),
		id,
		NewNumeric(sp(0, 1), "1"),
		NewString(sp(0, 1), `"x"`, "x"),
		NewWord(sp(0, 1), "x"),
		NewCall(sp(0, 1), "x", id, nil),
		NewUnsupported(sp(0, 1), "@", "Unknown"),
	}
	c := &kindCollector{}
	for _, n := range all {
		if got := Visit[string](n, c); got != n.Kind().String() {
			t.Errorf("Visit(%T) = %q", n, got)
		}
	}
	if len(c.seen) != len(kindNames) {
		t.Fatalf("visited %d kinds, want %d", len(c.seen), len(kindNames))
	}
	for i, k := range c.seen {
		if k != Kind(i) {
			t.Errorf("kind %d visited as %v", i, k)
		}
	}
}

func TestChildrenOrderAndWalk(t *testing.T) {
	name := NewIdentifier(sp(3, 4), "f")
	param := NewIdentifier(sp(5, 6), "a")
	num := NewNumeric(sp(8, 9), "1")
	text := NewText(sp(10, 16), `文【"x"】`, []Node{NewString(sp(12, 15), `"x"`, "x")})
	fn := NewFunction(sp(0, 20), "", name, []*Identifier{param}, []Node{num, text})

	kids := fn.Children()
	if len(kids) != 4 || kids[0] != name || kids[1] != param || kids[2] != num || kids[3] != text {
		t.Fatalf("children out of order: %v", kids)
	}
	if Count(fn) != 6 {
		t.Errorf("Count = %d, want 6", Count(fn))
	}

	visited := 0
	Walk(fn, func(n Node) bool {
		visited++
		return n.Kind() != KindText
	})
	if visited != 5 {
		t.Errorf("Walk must not descend into pruned nodes: visited %d", visited)
	}
}

func TestStateChildrenSkipMissingValues(t *testing.T) {
	a := NewIdentifier(sp(3, 4), "a")
	b := NewIdentifier(sp(6, 7), "b")
	v := NewNumeric(sp(5, 6), "1")
	st := NewState(sp(0, 9), "", []*Binding{{Name: a, Value: v}, {Name: b}})
	if got := len(st.Children()); got != 3 {
		t.Fatalf("children = %d, want 3", got)
	}
}

func TestKindString(t *testing.T) {
	if KindStyled.String() != "StyledElement" || Kind(200).String() != "Kind(?)" {
		t.Fatalf("unexpected names: %s %s", KindStyled, Kind(200))
	}
}

package target

import "testing"

type counter map[Kind]int

func (c counter) bump(n Node) int { c[n.Kind()]++; return int(n.Kind()) }

func (c counter) VisitProgram(n *Program) int           { return c.bump(n) }
func (c counter) VisitImport(n *Import) int             { return c.bump(n) }
func (c counter) VisitFuncDecl(n *FuncDecl) int         { return c.bump(n) }
func (c counter) VisitBindingBlock(n *BindingBlock) int { return c.bump(n) }
func (c counter) VisitExprStmt(n *ExprStmt) int         { return c.bump(n) }
func (c counter) VisitComment(n *Comment) int           { return c.bump(n) }
func (c counter) VisitStringLit(n *StringLit) int       { return c.bump(n) }
func (c counter) VisitNumberLit(n *NumberLit) int       { return c.bump(n) }
func (c counter) VisitArrayLit(n *ArrayLit) int         { return c.bump(n) }
func (c counter) VisitObjectLit(n *ObjectLit) int       { return c.bump(n) }
func (c counter) VisitCallExpr(n *CallExpr) int         { return c.bump(n) }
func (c counter) VisitIdent(n *Ident) int               { return c.bump(n) }
func (c counter) VisitUnsupported(n *Unsupported) int   { return c.bump(n) }

func sample() *Program {
	app := At(&FuncDecl{
		Name: EntryName,
		Role: RoleEntry,
		Body: []Node{
			&BindingBlock{Bindings: []Binding{{Name: "n", Value: &NumberLit{Value: 1}}, {Name: "m"}}},
			&Comment{Text: "doc"},
		},
		Result: &CallExpr{Callee: "Compose", Args: []Node{
			&StringLit{Value: "Hello"},
			&ArrayLit{Elements: []Node{&Ident{Name: "x"}}},
			&ObjectLit{Fields: []Field{{Key: "k", Value: &Unsupported{What: "ImportDeclaration"}}}},
		}},
	}, Origin{Line: 3, Col: 1})
	return &Program{Body: []Node{
		&Import{Module: RuntimeModule, Names: []string{"ui"}},
		app,
		&ExprStmt{X: &Ident{Name: "y"}},
	}}
}

func TestWalkVisitsEveryNode(t *testing.T) {
	c := counter{}
	Walk(sample(), func(n Node) { Visit[int](n, c) })
	total := 0
	for _, v := range c {
		total += v
	}
	// Program Import FuncDecl BindingBlock NumberLit Comment CallExpr StringLit
	// ArrayLit Ident ObjectLit Unsupported ExprStmt Ident
	if total != 14 || c[KindIdent] != 2 {
		t.Fatalf("walk counts = %v", c)
	}
	if len(c) != len(kindNames) {
		t.Errorf("sample covers %d kinds, want %d", len(c), len(kindNames))
	}
}

func TestEntryAndMain(t *testing.T) {
	p := sample()
	fn, ok := p.Entry()
	if !ok || fn.Name != EntryName {
		t.Fatalf("Entry() = %v, %v", fn, ok)
	}
	if fn.Pos() != (Origin{Line: 3, Col: 1}) {
		t.Errorf("origin = %+v", fn.Pos())
	}
	if p.HasMain() {
		t.Error("sample has no main")
	}
	p.Body = append(p.Body, &FuncDecl{Name: "main"})
	if !p.HasMain() {
		t.Error("main not found")
	}
}

func TestKindNames(t *testing.T) {
	if KindObjectLit.String() != "ObjectLit" || Kind(99).String() != "Kind(99)" {
		t.Fatal("unexpected kind names")
	}
	if RoleEntry.String() != "entry" || RoleFunction.String() != "function" {
		t.Fatal("unexpected role names")
	}
}

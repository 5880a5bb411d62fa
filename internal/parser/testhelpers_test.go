package parser

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"fuhao/internal/ast"
	"fuhao/internal/diag"
	"fuhao/internal/lexer"
	"fuhao/internal/source"
)

func parseSource(t *testing.T, input string) (Result, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.fh", []byte(input)))
	bag := diag.NewBag(100)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, nil, lexer.Options{Reporter: rep})
	return ParseFile(file, lx, Options{Reporter: rep}), bag
}

func mustParse(t *testing.T, input string) *ast.Program {
	t.Helper()
	res, bag := parseSource(t, input)
	if res.Err != nil {
		t.Fatalf("unexpected parse error for %q: %v (%s)", input, res.Err, diagnosticsSummary(bag))
	}
	return res.Program
}

func mustFail(t *testing.T, input string) *ParseError {
	t.Helper()
	res, _ := parseSource(t, input)
	if res.Program != nil {
		t.Fatalf("expected ParseError for %q, got program %s", input, shape(res.Program))
	}
	var pe *ParseError
	if !errors.As(res.Err, &pe) {
		t.Fatalf("expected *ParseError for %q, got %v", input, res.Err)
	}
	return pe
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

// shape renders the tree as Kind(children...) for compact comparisons.
func shape(n ast.Node) string {
	children := n.Children()
	if len(children) == 0 {
		return n.Kind().String()
	}
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = shape(c)
	}
	return n.Kind().String() + "(" + strings.Join(parts, " ") + ")"
}

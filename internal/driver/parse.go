package driver

import (
	"fuhao/internal/ast"
	"fuhao/internal/diag"
	"fuhao/internal/lexer"
	"fuhao/internal/parser"
	"fuhao/internal/source"
	"fuhao/internal/symtab"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	// Program is nil when Err is set.
	Program *ast.Program
	Err     error
	Bag     *diag.Bag
}

// Parse loads and parses path. Every node of a successful parse carries its
// expanded text, so printers can show glyphs next to their words.
func Parse(path string, syms *symtab.Table, maxDiagnostics int) (*ParseResult, error) {
	if syms == nil {
		syms = symtab.Default()
	}
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	bag := diag.NewBag(maxDiagnostics)
	reporter := diag.BagReporter{Bag: bag}

	lx := lexer.New(file, syms, lexer.Options{Reporter: reporter})
	res := parser.ParseFile(file, lx, parser.Options{Reporter: reporter})
	if res.Program != nil {
		ast.Walk(res.Program, func(n ast.Node) bool {
			n.Expand(syms.Expand)
			return true
		})
	}
	return &ParseResult{
		FileSet: fs,
		File:    file,
		Program: res.Program,
		Err:     res.Err,
		Bag:     bag,
	}, nil
}

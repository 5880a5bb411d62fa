// Package testkit holds checks shared by parser, fuzz and compiler tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"fuhao/internal/ast"
	"fuhao/internal/source"
)

// CheckSpanInvariants verifies the spans of a parsed program:
//  1. every span belongs to sf and lies within its content
//  2. a node's span contains the spans of its children
//  3. siblings come in source order and do not overlap
//  4. skipped tokens lie within the program span
func CheckSpanInvariants(prog *ast.Program, sf *source.File) error {
	if prog == nil || sf == nil {
		return fmt.Errorf("nil program or file")
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	c := checker{file: sf.ID, size: size}
	if err := c.node(prog); err != nil {
		return err
	}
	ps := prog.Span()
	for _, u := range prog.Skipped {
		sp := u.Span()
		if err := c.span(u, sp); err != nil {
			return err
		}
		if sp.Start < ps.Start || sp.End > ps.End {
			return fmt.Errorf("skipped token %v is outside program span %v", sp, ps)
		}
	}
	return nil
}

type checker struct {
	file source.FileID
	size uint32
}

func (c checker) span(n ast.Node, sp source.Span) error {
	if sp.File != c.file {
		return fmt.Errorf("%s span file mismatch: got=%d want=%d", n.Kind(), sp.File, c.file)
	}
	if sp.End < sp.Start {
		return fmt.Errorf("%s span is inverted: %v", n.Kind(), sp)
	}
	if sp.End > c.size {
		return fmt.Errorf("%s span end beyond content: %d > %d", n.Kind(), sp.End, c.size)
	}
	return nil
}

func (c checker) node(n ast.Node) error {
	sp := n.Span()
	if err := c.span(n, sp); err != nil {
		return err
	}
	var prev source.Span
	for i, child := range n.Children() {
		cs := child.Span()
		if cs.Start < sp.Start || cs.End > sp.End {
			return fmt.Errorf("%s span %v is outside parent %s span %v", child.Kind(), cs, n.Kind(), sp)
		}
		if i > 0 && cs.Start < prev.End {
			return fmt.Errorf("%s span %v overlaps previous sibling %v", child.Kind(), cs, prev)
		}
		prev = cs
		if err := c.node(child); err != nil {
			return err
		}
	}
	return nil
}

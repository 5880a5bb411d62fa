package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"fuhao/internal/ast"
	"fuhao/internal/source"
)

type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Span     source.Span     `json:"span"`
	Line     uint32          `json:"line,omitempty"`
	Col      uint32          `json:"col,omitempty"`
	Text     string          `json:"text,omitempty"`
	Expanded string          `json:"expanded,omitempty"`
	Fields   map[string]any  `json:"fields,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

// treeNode: промежуточное дерево для псевдографики.
type treeNode struct {
	label    string
	children []*treeNode
}

// FormatASTPretty печатает дерево программы с раскрытием глифов.
func FormatASTPretty(w io.Writer, prog *ast.Program, fs *source.FileSet) error {
	if prog == nil {
		return fmt.Errorf("no program")
	}
	root := &treeNode{label: fmt.Sprintf("Program (span: %s)", formatSpan(prog.Span(), fs))}
	for i, n := range prog.Body {
		child := buildTreeNode(n, fs)
		child.label = fmt.Sprintf("[%d] %s", i, child.label)
		root.children = append(root.children, child)
	}
	if len(prog.Skipped) > 0 {
		skipped := &treeNode{label: "Skipped"}
		for _, u := range prog.Skipped {
			skipped.children = append(skipped.children, buildTreeNode(u, fs))
		}
		root.children = append(root.children, skipped)
	}

	var b strings.Builder
	b.WriteString(root.label)
	b.WriteByte('\n')
	writeTreeChildren(&b, root.children, "")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTreeChildren(b *strings.Builder, children []*treeNode, prefix string) {
	for i, c := range children {
		branch, next := "├─ ", "│  "
		if i == len(children)-1 {
			branch, next = "└─ ", "   "
		}
		b.WriteString(prefix + branch + c.label + "\n")
		writeTreeChildren(b, c.children, prefix+next)
	}
}

func buildTreeNode(n ast.Node, fs *source.FileSet) *treeNode {
	label := n.Kind().String()
	if s := summary(n); s != "" {
		label += " " + s
	}
	if exp, ok := n.Expanded(); ok && exp != n.Raw() && n.Kind() != ast.KindProgram {
		label += fmt.Sprintf(" => %q", oneLine(exp))
	}
	label += fmt.Sprintf(" (span: %s)", formatSpan(n.Span(), fs))
	node := &treeNode{label: label}

	switch n := n.(type) {
	case *ast.StateBlock:
		for _, bnd := range n.Bindings {
			bn := &treeNode{label: "Binding " + bnd.Name.Name}
			if bnd.Value != nil {
				bn.children = append(bn.children, buildTreeNode(bnd.Value, fs))
			}
			node.children = append(node.children, bn)
		}
		return node
	case *ast.ObjectLiteral:
		node.children = propertyTree(n.Properties, fs)
		return node
	case *ast.StyledElement:
		node.children = propertyTree(n.Properties, fs)
		return node
	case *ast.FunctionDeclaration, *ast.ComponentDeclaration, *ast.InterfaceDeclaration, *ast.CallExpression, *ast.ImportDeclaration:
		// имена и параметры уже в summary
		for _, c := range bodyOf(n) {
			node.children = append(node.children, buildTreeNode(c, fs))
		}
		return node
	}
	for _, c := range n.Children() {
		node.children = append(node.children, buildTreeNode(c, fs))
	}
	return node
}

func propertyTree(props []*ast.Property, fs *source.FileSet) []*treeNode {
	out := make([]*treeNode, 0, len(props))
	for _, p := range props {
		pn := &treeNode{label: "Property " + p.Key}
		if p.Value != nil {
			pn.children = append(pn.children, buildTreeNode(p.Value, fs))
		}
		out = append(out, pn)
	}
	return out
}

// bodyOf возвращает дочерние узлы без имени и параметров.
func bodyOf(n ast.Node) []ast.Node {
	switch n := n.(type) {
	case *ast.FunctionDeclaration:
		return n.Body
	case *ast.ComponentDeclaration:
		return n.Body
	case *ast.InterfaceDeclaration:
		return n.Body
	case *ast.CallExpression:
		return n.Args
	}
	return nil
}

func summary(n ast.Node) string {
	switch n := n.(type) {
	case *ast.ImportDeclaration:
		return identList(n.Modules)
	case *ast.FunctionDeclaration:
		return fmt.Sprintf("%s(%s)", identName(n.Name), identList(n.Params))
	case *ast.ComponentDeclaration:
		return fmt.Sprintf("%s(%s)", identName(n.Name), identList(n.Props))
	case *ast.InterfaceDeclaration:
		return identName(n.Name)
	case *ast.StyledElement:
		return identName(n.Tag)
	case *ast.CallExpression:
		return identName(n.Callee) + "(…)"
	case *ast.Identifier:
		return n.Name
	case *ast.NumericLiteral, *ast.Word:
		return n.Raw()
	case *ast.StringLiteral:
		return fmt.Sprintf("%q", n.Value)
	case *ast.Documentation:
		return fmt.Sprintf("%q", oneLine(n.Text))
	case *ast.Unsupported:
		return fmt.Sprintf("%s %q", n.Token, n.Raw())
	}
	return ""
}

func identName(id *ast.Identifier) string {
	if id == nil {
		return "<anon>"
	}
	return id.Name
}

func identList(ids []*ast.Identifier) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = identName(id)
	}
	return strings.Join(names, ", ")
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if r := []rune(s); len(r) > 60 {
		return string(r[:57]) + "..."
	}
	return s
}

// formatSpan печатает span как line:col-line:col, без FileSet как байты.
func formatSpan(span source.Span, fs *source.FileSet) string {
	if fileOf(fs, span) == nil {
		return span.String()
	}
	start, end := fs.Resolve(span)
	return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
}

// FormatASTJSON выводит дерево программы в JSON; fs может быть nil.
func FormatASTJSON(w io.Writer, prog *ast.Program, fs *source.FileSet) error {
	if prog == nil {
		return fmt.Errorf("no program")
	}
	out := ASTNodeOutput{Type: "Program", Span: prog.Span()}
	for _, n := range prog.Body {
		out.Children = append(out.Children, nodeJSON(n, fs))
	}
	if len(prog.Skipped) > 0 {
		skipped := make([]ASTNodeOutput, 0, len(prog.Skipped))
		for _, u := range prog.Skipped {
			skipped = append(skipped, nodeJSON(u, fs))
		}
		out.Fields = map[string]any{"skipped": skipped}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func nodeJSON(n ast.Node, fs *source.FileSet) ASTNodeOutput {
	out := ASTNodeOutput{
		Type: n.Kind().String(),
		Span: n.Span(),
		Text: n.Raw(),
	}
	if fileOf(fs, n.Span()) != nil {
		start, _ := fs.Resolve(n.Span())
		out.Line, out.Col = start.Line, start.Col
	}
	if exp, ok := n.Expanded(); ok && exp != n.Raw() {
		out.Expanded = exp
	}

	fields := map[string]any{}
	switch n := n.(type) {
	case *ast.ImportDeclaration:
		fields["modules"] = identList(n.Modules)
	case *ast.FunctionDeclaration:
		fields["name"] = identName(n.Name)
		fields["params"] = identList(n.Params)
	case *ast.ComponentDeclaration:
		fields["name"] = identName(n.Name)
		fields["props"] = identList(n.Props)
	case *ast.InterfaceDeclaration:
		fields["name"] = identName(n.Name)
	case *ast.StyledElement:
		fields["tag"] = identName(n.Tag)
		fields["properties"] = propertyJSON(n.Properties, fs)
	case *ast.ObjectLiteral:
		fields["properties"] = propertyJSON(n.Properties, fs)
	case *ast.StateBlock:
		bindings := make([]map[string]any, 0, len(n.Bindings))
		for _, b := range n.Bindings {
			entry := map[string]any{"name": b.Name.Name}
			if b.Value != nil {
				entry["value"] = nodeJSON(b.Value, fs)
			}
			bindings = append(bindings, entry)
		}
		fields["bindings"] = bindings
	case *ast.CallExpression:
		fields["callee"] = identName(n.Callee)
	case *ast.StringLiteral:
		fields["value"] = n.Value
	case *ast.Documentation:
		fields["text"] = n.Text
	case *ast.Unsupported:
		fields["token"] = n.Token
	}
	if len(fields) > 0 {
		out.Fields = fields
	}

	switch n.(type) {
	case *ast.StateBlock, *ast.ObjectLiteral, *ast.StyledElement:
		// дети уже в fields
		return out
	}
	for _, c := range bodyOrChildren(n) {
		out.Children = append(out.Children, nodeJSON(c, fs))
	}
	return out
}

func bodyOrChildren(n ast.Node) []ast.Node {
	switch n.(type) {
	case *ast.FunctionDeclaration, *ast.ComponentDeclaration, *ast.InterfaceDeclaration, *ast.CallExpression, *ast.ImportDeclaration:
		return bodyOf(n)
	}
	return n.Children()
}

func propertyJSON(props []*ast.Property, fs *source.FileSet) []map[string]any {
	out := make([]map[string]any, 0, len(props))
	for _, p := range props {
		entry := map[string]any{"key": p.Key}
		if p.Value != nil {
			entry["value"] = nodeJSON(p.Value, fs)
		}
		out = append(out, entry)
	}
	return out
}

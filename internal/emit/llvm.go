package emit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"fuhao/internal/target"
)

// Every value is an opaque runtime handle.
var llPtr = types.NewPointer(types.I8)

type llvmSig struct {
	ret      types.Type
	params   []types.Type
	variadic bool
}

// Внешние функции рантайма; объявляются по первому использованию.
var llvmRuntime = map[string]llvmSig{
	"rt_str":     {ret: llPtr, params: []types.Type{llPtr}},
	"rt_num":     {ret: llPtr, params: []types.Type{types.Double}},
	"rt_nil":     {ret: llPtr},
	"rt_array":   {ret: llPtr, params: []types.Type{types.I32}, variadic: true},
	"rt_obj":     {ret: llPtr, params: []types.Type{types.I32}, variadic: true},
	"rt_compose": {ret: llPtr, params: []types.Type{types.I32}, variadic: true},
	"rt_styled":  {ret: llPtr, params: []types.Type{llPtr, llPtr}},
	"rt_import":  {ret: types.Void, params: []types.Type{llPtr}},
	"rt_lookup":  {ret: llPtr, params: []types.Type{llPtr}},
	"rt_call":    {ret: llPtr, params: []types.Type{llPtr, types.I32}, variadic: true},
	"rt_run":     {ret: types.Void, params: []types.Type{types.NewPointer(types.NewFunc(llPtr))}},
}

// llvmRenderer builds an IR module with llir. Expression visits return the
// value they computed in the current block; statement visits return nil.
type llvmRenderer struct {
	*recorder
	m       *ir.Module
	fn      *ir.Func
	block   *ir.Block
	externs map[string]*ir.Func
	decls   map[*target.FuncDecl]*ir.Func
	funcs   []map[string]*ir.Func // [0]: верхний уровень
	scopes  []map[string]value.Value
	globals map[string]*ir.Global
	strs    map[string]*ir.Global
	init    *ir.Func
	initEnd *ir.Block
	notes   []string
}

func newLLVMRenderer(rec *recorder) *llvmRenderer {
	return &llvmRenderer{
		recorder: rec,
		m:        ir.NewModule(),
		externs:  make(map[string]*ir.Func),
		decls:    make(map[*target.FuncDecl]*ir.Func),
		funcs:    []map[string]*ir.Func{make(map[string]*ir.Func)},
		globals:  make(map[string]*ir.Global),
		strs:     make(map[string]*ir.Global),
	}
}

func (r *llvmRenderer) render(p *target.Program) string {
	target.Visit[value.Value](p, r)

	var b strings.Builder
	b.WriteString("; Code generated by fuhao. DO NOT EDIT.\n")
	for _, n := range r.notes {
		b.WriteString(n)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	header := strings.Count(b.String(), "\n")
	body := r.m.String()
	b.WriteString(body)
	r.markDefines(p, body, header)
	return b.String()
}

// markDefines finds the define line of every top-level function.
func (r *llvmRenderer) markDefines(p *target.Program, body string, offset int) {
	lines := make(map[string]int)
	for i, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "define ") {
			continue
		}
		if at := strings.Index(line, " @"); at >= 0 {
			name := line[at+1:]
			if paren := strings.Index(name, "("); paren >= 0 {
				lines[name[:paren]] = offset + i + 1
			}
		}
	}
	for _, n := range p.Body {
		fn, ok := n.(*target.FuncDecl)
		if !ok {
			continue
		}
		line, ok := lines[r.decls[fn].Ident()]
		if !ok {
			continue
		}
		if l, err := safecast.Conv[uint32](line); err == nil {
			r.mark(l, n)
		}
	}
}

func (r *llvmRenderer) VisitProgram(p *target.Program) value.Value {
	for _, n := range p.Body {
		switch n := n.(type) {
		case *target.FuncDecl:
			r.funcs[0][n.Name] = r.declare(llvmName(n.Name), n)
		case *target.BindingBlock:
			for _, b := range n.Bindings {
				if _, ok := r.globals[b.Name]; !ok {
					r.globals[b.Name] = r.m.NewGlobalDef(llvmName(b.Name), constant.NewNull(llPtr))
				}
			}
		}
	}
	for _, n := range p.Body {
		target.Visit[value.Value](n, r)
	}

	main := r.m.NewFunc("main", types.I32)
	entry := main.NewBlock("entry")
	if r.init != nil {
		r.initEnd.NewRet(nil)
		entry.NewCall(r.init)
	}
	if fn, ok := userMain(p); ok {
		args := make([]value.Value, len(fn.Params))
		for i := range args {
			args[i] = entry.NewCall(r.extern("rt_nil"))
		}
		entry.NewCall(r.decls[fn], args...)
	} else if fn, ok := p.Entry(); ok && len(fn.Params) == 0 {
		entry.NewCall(r.extern("rt_run"), r.decls[fn])
	}
	entry.NewRet(constant.NewInt(types.I32, 0))
	return nil
}

func (r *llvmRenderer) declare(name string, n *target.FuncDecl) *ir.Func {
	params := make([]*ir.Param, len(n.Params))
	for i, p := range n.Params {
		params[i] = ir.NewParam(p, llPtr)
	}
	f := r.m.NewFunc(name, llPtr, params...)
	r.decls[n] = f
	return f
}

func (r *llvmRenderer) extern(name string) *ir.Func {
	if f, ok := r.externs[name]; ok {
		return f
	}
	sig := llvmRuntime[name]
	params := make([]*ir.Param, len(sig.params))
	for i, t := range sig.params {
		params[i] = ir.NewParam(fmt.Sprintf("a%d", i), t)
	}
	f := r.m.NewFunc(name, sig.ret, params...)
	f.Sig.Variadic = sig.variadic
	r.externs[name] = f
	return f
}

func (r *llvmRenderer) call(name string, args ...value.Value) value.Value {
	return r.block.NewCall(r.extern(name), args...)
}

// inInit runs fn with the insertion point at the end of __init.
func (r *llvmRenderer) inInit(fn func()) {
	if r.init == nil {
		r.init = r.m.NewFunc("__init", types.Void)
		r.initEnd = r.init.NewBlock("entry")
	}
	saveFn, saveBlock := r.fn, r.block
	r.fn, r.block = r.init, r.initEnd
	fn()
	r.initEnd = r.block
	r.fn, r.block = saveFn, saveBlock
}

func (r *llvmRenderer) topLevel() bool { return r.fn == nil }

// stmt runs fn in the current function, or in __init on top level.
func (r *llvmRenderer) stmt(fn func()) {
	if r.topLevel() {
		r.inInit(fn)
		return
	}
	fn()
}

func (r *llvmRenderer) note(text string) {
	for _, l := range strings.Split(text, "\n") {
		r.notes = append(r.notes, strings.TrimRight("; "+l, " "))
	}
}

func (r *llvmRenderer) cstr(s string) value.Value {
	g, ok := r.strs[s]
	if !ok {
		data := constant.NewCharArrayFromString(s + "\x00")
		g = r.m.NewGlobalDef(fmt.Sprintf(".str.%d", len(r.strs)), data)
		g.Immutable = true
		r.strs[s] = g
	}
	zero := constant.NewInt(types.I64, 0)
	return r.block.NewGetElementPtr(g.ContentType, g, zero, zero)
}

func (r *llvmRenderer) count(n int) value.Value {
	return constant.NewInt(types.I32, int64(n))
}

func (r *llvmRenderer) expr(n target.Node) value.Value {
	if u, ok := n.(*target.Unsupported); ok {
		r.note(r.unsupported(u))
		return r.call("rt_nil")
	}
	if v := target.Visit[value.Value](n, r); v != nil {
		return v
	}
	return r.call("rt_nil")
}

func (r *llvmRenderer) exprs(ns []target.Node) []value.Value {
	out := make([]value.Value, len(ns))
	for i, n := range ns {
		out[i] = r.expr(n)
	}
	return out
}

func (r *llvmRenderer) VisitImport(n *target.Import) value.Value {
	r.stmt(func() {
		for _, name := range n.Names {
			r.call("rt_import", r.cstr(name))
		}
	})
	return nil
}

// VisitFuncDecl fills the body of a declared function. Nested functions are
// lifted to module level as outer.inner.
func (r *llvmRenderer) VisitFuncDecl(n *target.FuncDecl) value.Value {
	f, ok := r.decls[n]
	if !ok {
		return nil
	}
	saveFn, saveBlock := r.fn, r.block
	r.fn, r.block = f, f.NewBlock("entry")

	scope := make(map[string]value.Value, len(n.Params))
	for i, p := range n.Params {
		slot := r.block.NewAlloca(llPtr)
		r.block.NewStore(f.Params[i], slot)
		scope[p] = slot
	}
	nested := make(map[string]*ir.Func)
	for _, s := range n.Body {
		if inner, ok := s.(*target.FuncDecl); ok {
			nested[inner.Name] = r.declare(f.Name()+"."+llvmName(inner.Name), inner)
		}
	}
	// вложенная функция не видит слоты внешней
	saveScopes := r.scopes
	r.scopes = []map[string]value.Value{scope}
	r.funcs = append(r.funcs, nested)

	for _, s := range n.Body {
		target.Visit[value.Value](s, r)
	}
	var result value.Value
	if n.Result != nil {
		result = r.expr(n.Result)
	} else {
		result = r.call("rt_nil")
	}
	r.block.NewRet(result)

	r.scopes = saveScopes
	r.funcs = r.funcs[:len(r.funcs)-1]
	r.fn, r.block = saveFn, saveBlock
	return nil
}

func (r *llvmRenderer) VisitBindingBlock(n *target.BindingBlock) value.Value {
	if r.topLevel() {
		for _, b := range n.Bindings {
			if b.Value == nil {
				continue
			}
			g := r.globals[b.Name]
			r.inInit(func() { r.block.NewStore(r.expr(b.Value), g) })
		}
		return nil
	}
	scope := r.scopes[len(r.scopes)-1]
	for _, b := range n.Bindings {
		var v value.Value
		if b.Value != nil {
			v = r.expr(b.Value)
		} else {
			v = r.call("rt_nil")
		}
		slot := r.block.NewAlloca(llPtr)
		r.block.NewStore(v, slot)
		scope[b.Name] = slot
	}
	return nil
}

func (r *llvmRenderer) VisitExprStmt(n *target.ExprStmt) value.Value {
	if u, ok := n.X.(*target.Unsupported); ok {
		r.note(r.unsupported(u))
		return nil
	}
	r.stmt(func() { r.expr(n.X) })
	return nil
}

func (r *llvmRenderer) VisitComment(n *target.Comment) value.Value {
	r.note(n.Text)
	return nil
}

func (r *llvmRenderer) VisitStringLit(n *target.StringLit) value.Value {
	return r.call("rt_str", r.cstr(n.Value))
}

func (r *llvmRenderer) VisitNumberLit(n *target.NumberLit) value.Value {
	return r.call("rt_num", constant.NewFloat(types.Double, n.Value))
}

func (r *llvmRenderer) VisitArrayLit(n *target.ArrayLit) value.Value {
	args := append([]value.Value{r.count(len(n.Elements))}, r.exprs(n.Elements)...)
	return r.call("rt_array", args...)
}

func (r *llvmRenderer) VisitObjectLit(n *target.ObjectLit) value.Value {
	args := []value.Value{r.count(len(n.Fields))}
	for _, f := range n.Fields {
		args = append(args, r.cstr(f.Key), r.expr(f.Value))
	}
	return r.call("rt_obj", args...)
}

func (r *llvmRenderer) VisitCallExpr(n *target.CallExpr) value.Value {
	args := r.exprs(n.Args)
	switch {
	case n.Callee == target.ComposeCallee:
		return r.call("rt_compose", append([]value.Value{r.count(len(args))}, args...)...)
	case n.Callee == target.StyledCallee && len(args) == 2:
		return r.call("rt_styled", args...)
	}
	if f := r.lookupFunc(n.Callee); f != nil && len(f.Params) == len(args) {
		return r.block.NewCall(f, args...)
	}
	return r.call("rt_call", append([]value.Value{r.cstr(n.Callee), r.count(len(args))}, args...)...)
}

func (r *llvmRenderer) lookupFunc(name string) *ir.Func {
	for i := len(r.funcs) - 1; i >= 0; i-- {
		if f, ok := r.funcs[i][name]; ok {
			return f
		}
	}
	return nil
}

func (r *llvmRenderer) VisitIdent(n *target.Ident) value.Value {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if slot, ok := r.scopes[i][n.Name]; ok {
			return r.block.NewLoad(llPtr, slot)
		}
	}
	if g, ok := r.globals[n.Name]; ok {
		return r.block.NewLoad(llPtr, g)
	}
	if f := r.lookupFunc(n.Name); f != nil {
		return r.block.NewBitCast(f, llPtr)
	}
	return r.call("rt_lookup", r.cstr(n.Name))
}

func (r *llvmRenderer) VisitUnsupported(n *target.Unsupported) value.Value {
	r.note(r.unsupported(n))
	return nil
}

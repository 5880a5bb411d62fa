package emit_test

import (
	"errors"
	"math"
	"regexp"
	"strings"
	"testing"

	"fuhao/internal/diag"
	"fuhao/internal/emit"
	"fuhao/internal/lexer"
	"fuhao/internal/parser"
	"fuhao/internal/source"
	"fuhao/internal/target"
	"fuhao/internal/transform"
)

func lower(t *testing.T, input string) *target.Program {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.fh", []byte(input)))
	res := parser.ParseFile(file, lexer.New(file, nil, lexer.Options{}), parser.Options{})
	if res.Err != nil {
		t.Fatalf("parse %q: %v", input, res.Err)
	}
	return transform.Lower(res.Program, transform.Options{File: file})
}

func contains(t *testing.T, out emit.Output, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(out.Text, w) {
			t.Errorf("%s output lacks %q:\n%s", out.Target, w, out.Text)
		}
	}
}

const scenario = "引【ui】\n文【\"Hello\"】\n◈四十二\n"

func TestScenarioEveryTarget(t *testing.T) {
	prog := lower(t, scenario)
	tests := []struct {
		target emit.Target
		wants  []string
	}{
		{emit.TargetGo, []string{"package main", `rt "fuhao/runtime"`, `rt.Import("ui")`, `var _ = "Hello"`, "var _ = 42", "func main() {"}},
		{emit.TargetRust, []string{"mod rt {", `rt::import(&["ui"]);`, `rt::Value::from("Hello")`, "rt::Value::from(42.0)", "fn __init()", "fn main()"}},
		{emit.TargetLLVM, []string{`c"Hello\00"`, "@rt_import", "@rt_num(double 42", "define i32 @main()", "define void @__init()"}},
		{emit.TargetPlain, []string{"import fuhao/runtime: ui", `"Hello"`, "42"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.target), func(t *testing.T) {
			out := emit.Emit(prog, tt.target, emit.Options{})
			if len(out.Errors) != 0 {
				t.Fatalf("errors: %v", out.Errors)
			}
			contains(t, out, tt.wants...)
		})
	}
}

func TestGoFunctionsAndEntry(t *testing.T) {
	prog := lower(t, `函【add(a, b) 态【c ← a】 sum(a, b) 函】
组【Card(title) 文【"a"】 样【div color: "red"】 组】
界主【 Card("x") 界】`)
	out := emit.Emit(prog, emit.TargetGo, emit.Options{})
	contains(t, out,
		"func add(a, b any) any {",
		"var c any = a",
		"_ = c",
		"return sum(a, b)",
		`return rt.Compose("a", rt.Styled("div", rt.Obj("color", "red")))`,
		"func App() any {",
		"rt.Run(App)",
	)
}

func TestGoNumbers(t *testing.T) {
	prog := &target.Program{}
	for _, v := range []float64{0.5, -3, math.Inf(1)} {
		prog.Body = append(prog.Body, &target.ExprStmt{X: &target.NumberLit{Value: v}})
	}
	out := emit.Emit(prog, emit.TargetGo, emit.Options{})
	contains(t, out, "var _ = 0.5", "var _ = -3", "math.Inf(1)", `"math"`)
}

func TestUnsupportedBecomesCommentAndError(t *testing.T) {
	prog := lower(t, `界【Shell 引【net】 列【1, 引【x】】 界】`)
	for _, tgt := range emit.Targets() {
		t.Run(string(tgt), func(t *testing.T) {
			out := emit.Emit(prog, tgt, emit.Options{})
			if len(out.Errors) != 2 {
				t.Fatalf("errors = %v", out.Errors)
			}
			for _, e := range out.Errors {
				if e.What != "ImportDeclaration" || e.Target != tgt || e.Code() != diag.EmtUnsupportedNode {
					t.Errorf("error = %+v", e)
				}
			}
			contains(t, out, "unsupported: ImportDeclaration")
		})
	}
}

func TestGoPassthroughPositions(t *testing.T) {
	prog := lower(t, `函【f() 注【two
lines】 列【引【x】】 函】`)
	out := emit.Emit(prog, emit.TargetGo, emit.Options{})
	contains(t, out, "\t// two\n\t// lines\n", "[]any{any(nil) /* unsupported: ImportDeclaration */}")
	if strings.Contains(out.Text, "fuhaoPassthrough") {
		t.Fatalf("placeholder leaked:\n%s", out.Text)
	}
}

func TestGoPassthroughMarkerNotUserName(t *testing.T) {
	prog := lower(t, `函【fuhaoPassthrough0() 列【引【x】】 函】
函【xfuhaoPassthrough0() fuhaoPassthrough0() 函】`)
	out := emit.Emit(prog, emit.TargetGo, emit.Options{})
	contains(t, out,
		"func fuhaoPassthrough_0() any {",
		"func xfuhaoPassthrough_0() any {",
		"return fuhaoPassthrough_0()",
		"[]any{any(nil) /* unsupported: ImportDeclaration */}",
	)
}

func TestSynthesizedMain(t *testing.T) {
	withEntry := lower(t, "界主【 文【\"Hi\"】 界】")
	withMain := lower(t, "函【main(x) 1 函】")
	empty := lower(t, "1")
	tests := []struct {
		name   string
		prog   *target.Program
		target emit.Target
		want   string
	}{
		{"go entry", withEntry, emit.TargetGo, "func main() {\n\trt.Run(App)\n}"},
		{"go user main", withMain, emit.TargetGo, "func main() {\n\tmain_(nil)\n}"},
		{"go empty", empty, emit.TargetGo, "func main() {\n}"},
		{"rust entry", withEntry, emit.TargetRust, "    rt::run(App);\n"},
		{"rust user main", withMain, emit.TargetRust, "    main_(rt::Value::Nil);\n"},
		{"llvm entry", withEntry, emit.TargetLLVM, "@rt_run(i8* ()* @App)"},
		{"llvm user main", withMain, emit.TargetLLVM, "@main_(i8*"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contains(t, emit.Emit(tt.prog, tt.target, emit.Options{}), tt.want)
		})
	}
}

func TestPlainOutline(t *testing.T) {
	prog := lower(t, `函【add(a, b) 态【c】 注【sum】 sum(a, b) 函】
象【z: 1, a: 列【3, 2】】`)
	out := emit.Emit(prog, emit.TargetPlain, emit.Options{IndentWidth: 2})
	want := `function add(a, b)
  state c
  # sum
  result: sum(a, b)
{z: 1, a: [3, 2]}
`
	if out.Text != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out.Text, want)
	}
}

func TestRustValues(t *testing.T) {
	prog := lower(t, `态【g ← 象【k: "q\""】】
函【f(a) 态【l ← g】 列【a, l, free】 函】`)
	out := emit.Emit(prog, emit.TargetRust, emit.Options{})
	contains(t, out,
		`static g: std::cell::RefCell<rt::Value> = std::cell::RefCell::new(rt::obj(&[("k", rt::Value::from("q\""))]));`,
		"pub fn f(a: rt::Value) -> rt::Value {",
		"let mut l = g.with(|v| v.borrow().clone());",
		`rt::Value::from(vec![a.clone(), l.clone(), rt::lookup("free")])`,
	)
}

func TestRustPreludeDefinesRuntime(t *testing.T) {
	prog := lower(t, `引【ui】
组【Card(title) 文【"a"】 样【div color: "red"】 title 组】
界主【 Card(象【k: 1】) free 界】`)
	out := emit.Emit(prog, emit.TargetRust, emit.Options{})
	if strings.Contains(out.Text, "fuhao::runtime") {
		t.Fatalf("output depends on an external crate:\n%s", out.Text)
	}
	contains(t, out, "mod rt {", "    pub enum Value {", "        Nil,", "    pub fn run(root: fn() -> Value) {")

	used := regexp.MustCompile(`rt::([a-z_]+)\(`).FindAllStringSubmatch(out.Text, -1)
	if len(used) == 0 {
		t.Fatalf("no runtime calls:\n%s", out.Text)
	}
	for _, m := range used {
		if !strings.Contains(out.Text, "    pub fn "+m[1]+"(") {
			t.Errorf("rt::%s is not defined by the prelude", m[1])
		}
	}
	if !strings.HasPrefix(out.Text, "// Code generated by fuhao. DO NOT EDIT.\n#![allow(") {
		t.Errorf("crate attributes must precede the prelude:\n%s", out.Text)
	}

	tabs := emit.Emit(prog, emit.TargetRust, emit.Options{UseTabs: true})
	contains(t, tabs, "\tpub enum Value {\n\t\tNil,")
}

func TestLLVMFunctionsAndGlobals(t *testing.T) {
	prog := lower(t, `态【g ← 1】
函【outer(a) 函【inner(b) b 函】 inner(a) 函】
函【h() outer(g) 函】`)
	out := emit.Emit(prog, emit.TargetLLVM, emit.Options{})
	contains(t, out,
		"@g = global i8* null",
		"define i8* @outer(i8* %a)",
		"define i8* @outer.inner(i8* %b)",
		"call i8* @outer.inner(",
		"call i8* @outer(",
		"store i8* ",
	)
}

func TestSourceMap(t *testing.T) {
	prog := lower(t, "引【ui】\n\n函【f() 1 函】\n")
	for _, tgt := range emit.Targets() {
		t.Run(string(tgt), func(t *testing.T) {
			out := emit.Emit(prog, tgt, emit.Options{SourceMap: true})
			var fn *emit.Mapping
			for i := range out.SourceMap {
				if out.SourceMap[i].Name == "f" {
					fn = &out.SourceMap[i]
				}
			}
			if fn == nil {
				t.Fatalf("no mapping for f: %+v", out.SourceMap)
			}
			if fn.Source != (target.Origin{Line: 3, Col: 1}) {
				t.Errorf("source = %+v", fn.Source)
			}
			lines := strings.Split(out.Text, "\n")
			if int(fn.GeneratedLine) > len(lines) || !strings.Contains(lines[fn.GeneratedLine-1], "f(") {
				t.Errorf("line %d does not hold f:\n%s", fn.GeneratedLine, out.Text)
			}
		})
	}
	if out := emit.Emit(prog, emit.TargetGo, emit.Options{}); out.SourceMap != nil {
		t.Error("source map without the option")
	}
}

func TestUnknownTarget(t *testing.T) {
	out := emit.Emit(&target.Program{}, "cobol", emit.Options{})
	if out.Text != "" || len(out.Errors) != 1 || out.Errors[0].Code() != diag.EmtUnknownTarget {
		t.Fatalf("out = %+v", out)
	}
	_, err := emit.ParseTarget("cobol")
	var ee *emit.EmissionError
	if !errors.As(err, &ee) || !strings.Contains(err.Error(), "go, rust, llvm, plain") {
		t.Fatalf("err = %v", err)
	}
	if tgt, err := emit.ParseTarget(" Rust "); err != nil || tgt != emit.TargetRust {
		t.Fatalf("ParseTarget = %v, %v", tgt, err)
	}
}

func TestNames(t *testing.T) {
	prog := &target.Program{Body: []target.Node{
		&target.FuncDecl{Name: "type", Params: []string{"fn", "self"}, Result: &target.Ident{Name: "x-y"}},
	}}
	contains(t, emit.Emit(prog, emit.TargetGo, emit.Options{}), "func type_(fn, self any) any {", "return x_y")
	contains(t, emit.Emit(prog, emit.TargetRust, emit.Options{}), "pub fn r#type(r#fn: rt::Value, self_: rt::Value)")
}

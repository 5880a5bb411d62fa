package compiler_test

import (
	"strings"
	"sync"
	"testing"

	"fuhao/internal/compiler"
	"fuhao/internal/emit"
	"fuhao/internal/symtab"
	"fuhao/internal/trace"
)

const scenario = "引【ui】\n文【\"Hello\"】\n◈四十二\n"

func TestCompileScenario(t *testing.T) {
	res := compiler.Compile(scenario, compiler.Options{})
	if !res.Success {
		t.Fatalf("errors: %v", res.Errors)
	}
	for _, want := range []string{`"Hello"`, "var _ = 42", `"fuhao/runtime"`, "func main() {"} {
		if !strings.Contains(res.Go, want) {
			t.Errorf("go output lacks %q:\n%s", want, res.Go)
		}
	}
	if res.Rust != "" || res.LLVM != "" || res.Plain != "" {
		t.Error("unselected targets rendered")
	}
	if res.Diagnostics != nil || res.Errors != nil {
		t.Errorf("non-debug success surfaced %v / %v", res.Diagnostics, res.Errors)
	}
	if len(res.Timings.Phases) != 4 {
		t.Errorf("timings = %+v", res.Timings)
	}
}

func TestCompileEveryTarget(t *testing.T) {
	for _, tgt := range emit.Targets() {
		t.Run(string(tgt), func(t *testing.T) {
			res := compiler.Compile(scenario, compiler.Options{Target: tgt})
			if !res.Success || res.Text(tgt) == "" {
				t.Fatalf("result = %+v", res)
			}
		})
	}
}

func TestParseErrorFails(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  string
	}{
		{"function at EOF", `函【f() 文【"x"】`, "SYN2007"},
		{"bare close", `组【Card 文【"x"】 】`, "SYN2004"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := compiler.Compile(tt.input, compiler.Options{Path: "app.fh"})
			if res.Success || res.Go != "" {
				t.Fatalf("result = %+v", res)
			}
			if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], tt.code+" app.fh:1:") {
				t.Fatalf("errors = %q", res.Errors)
			}
			if res.Diagnostics != nil {
				t.Errorf("non-debug failure surfaced diagnostics %q", res.Diagnostics)
			}
		})
	}
}

func TestUnrecognizedCharacterCompiles(t *testing.T) {
	res := compiler.Compile("¤", compiler.Options{})
	if !res.Success || len(res.Errors) != 0 {
		t.Fatalf("result = %+v", res)
	}
}

func TestDebugPhases(t *testing.T) {
	res := compiler.Compile(`态【n ← 4二】`, compiler.Options{Debug: true})
	if !res.Success {
		t.Fatalf("errors: %v", res.Errors)
	}
	var phases []string
	decode := false
	for _, d := range res.Diagnostics {
		if i := strings.Index(d, "phase "); i >= 0 {
			phases = append(phases, d[i+len("phase "):strings.Index(d, ":")])
		}
		if strings.Contains(d, "NUM3001") {
			decode = true
		}
	}
	if got := strings.Join(phases, ","); got != "scan,parse,transform,emit" {
		t.Errorf("phases = %s in %q", got, res.Diagnostics)
	}
	if !decode {
		t.Errorf("decode warning missing: %q", res.Diagnostics)
	}
}

func TestRecoveredWarningsHiddenWithoutDebug(t *testing.T) {
	res := compiler.Compile(`态【n ← 4二】`, compiler.Options{})
	if !res.Success || res.Diagnostics != nil || res.Errors != nil {
		t.Fatalf("result = %+v", res)
	}
}

const unsupported = `界【Shell 引【net】 列【1, 引【x】】 界】`

func TestUnsupportedNodes(t *testing.T) {
	res := compiler.Compile(unsupported, compiler.Options{Debug: true})
	if !res.Success || !strings.Contains(res.Go, "unsupported: ImportDeclaration") {
		t.Fatalf("result = %+v", res)
	}
	n := 0
	for _, d := range res.Diagnostics {
		if strings.HasPrefix(d, "warning EMT4001 <input>:1:") {
			n++
		}
	}
	if n != 2 {
		t.Errorf("diagnostics = %q", res.Diagnostics)
	}

	strict := compiler.Compile(unsupported, compiler.Options{Strict: true})
	if strict.Success || strict.Go != "" || len(strict.Errors) != 2 {
		t.Fatalf("strict = %+v", strict)
	}
	if !strings.HasPrefix(strict.Errors[0], "error EMT4001") {
		t.Errorf("errors = %q", strict.Errors)
	}
}

func TestUnknownTarget(t *testing.T) {
	res := compiler.Compile(scenario, compiler.Options{Target: "cobol"})
	if res.Success || len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "EMT4002") {
		t.Fatalf("result = %+v", res)
	}
}

func TestFatalErrorSurvivesDiagnosticLimit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  compiler.Options
		code  string
	}{
		// OBS6002 фазы scan занимает единственное место в Bag
		{"strict emission", unsupported, compiler.Options{Strict: true, Debug: true, MaxDiagnostics: 1}, "EMT4001"},
		{"parse error", `函【f() 文【"x"】`, compiler.Options{Debug: true, MaxDiagnostics: 1}, "SYN2007"},
		{"unknown target", scenario, compiler.Options{Target: "cobol", Debug: true, MaxDiagnostics: 1}, "EMT4002"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := compiler.Compile(tt.input, tt.opts)
			if res.Success {
				t.Fatalf("result = %+v", res)
			}
			if len(res.Errors) != 1 || !strings.HasPrefix(res.Errors[0], "error "+tt.code) {
				t.Fatalf("errors = %q", res.Errors)
			}
			if res.Report == nil || !res.Report.HasErrors() {
				t.Errorf("report lacks the error: %+v", res.Report)
			}
			last := res.Diagnostics[len(res.Diagnostics)-1]
			if !strings.HasPrefix(last, "error "+tt.code) {
				t.Errorf("diagnostics = %q", res.Diagnostics)
			}
		})
	}
}

func TestSourceMapEntries(t *testing.T) {
	res := compiler.Compile("引【ui】\n\n函【f() 1 函】\n", compiler.Options{SourceMap: true})
	var found bool
	for _, e := range res.SourceMap {
		if e.Name == "f" && e.SourceLine == 3 && e.SourceCol == 1 && e.GeneratedLine > 0 {
			found = true
		}
	}
	if !found {
		t.Fatalf("source map = %+v", res.SourceMap)
	}
	if compiler.Compile(scenario, compiler.Options{}).SourceMap != nil {
		t.Error("source map without the option")
	}
}

func TestObserverOrder(t *testing.T) {
	var events []string
	obs := func(ev compiler.PhaseEvent) {
		s := "+"
		if ev.Status == compiler.PhaseEnd {
			s = "-"
		}
		events = append(events, s+ev.Name)
	}
	compiler.Compile(scenario, compiler.Options{Observer: obs})
	if got := strings.Join(events, " "); got != "+scan -scan +parse -parse +transform -transform +emit -emit" {
		t.Errorf("events = %s", got)
	}
	events = nil
	compiler.Compile(`函【f()`, compiler.Options{Observer: obs})
	if got := strings.Join(events, " "); got != "+scan -scan +parse -parse" {
		t.Errorf("events after parse failure = %s", got)
	}
}

func TestTracerSpans(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelPhase)
	compiler.Compile(scenario, compiler.Options{Tracer: ring})
	var root uint64
	passes := map[string]uint64{}
	for _, ev := range ring.Snapshot() {
		if ev.Kind != trace.KindSpanBegin {
			continue
		}
		switch ev.Scope {
		case trace.ScopeDriver:
			root = ev.SpanID
		case trace.ScopePass:
			passes[ev.Name] = ev.ParentID
		}
	}
	if root == 0 || len(passes) != 4 {
		t.Fatalf("root %d, passes %v", root, passes)
	}
	for name, parent := range passes {
		if parent != root {
			t.Errorf("pass %s parent = %d, want %d", name, parent, root)
		}
	}
}

func TestNormalizesInput(t *testing.T) {
	res := compiler.Compile("\ufeff引【ui】\r\n文【\"a\"】\r\n", compiler.Options{Target: emit.TargetPlain})
	if !res.Success || res.Plain != "import fuhao/runtime: ui\n\"a\"\n" {
		t.Fatalf("plain = %q (%v)", res.Plain, res.Errors)
	}
}

func TestConcurrentCompiles(t *testing.T) {
	c := compiler.New(symtab.Default())
	want := c.Compile(scenario, compiler.Options{}).Go
	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := c.Compile(scenario, compiler.Options{}).Go; got != want {
				errs <- got
			}
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Errorf("concurrent output differs:\n%s", got)
	}
}

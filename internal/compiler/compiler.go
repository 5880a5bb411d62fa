// Package compiler runs the whole pipeline on one source text: scan, parse,
// transform and emit.
//
// Compile never panics on user input and never touches the file system. Only
// a parse failure (or an emission failure in strict mode) makes a result
// unsuccessful; every other problem is recovered and reported as a
// diagnostic while the best achievable output is still produced.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"fortio.org/safecast"

	"fuhao/internal/diag"
	"fuhao/internal/emit"
	"fuhao/internal/lexer"
	"fuhao/internal/numeral"
	"fuhao/internal/observ"
	"fuhao/internal/parser"
	"fuhao/internal/source"
	"fuhao/internal/symtab"
	"fuhao/internal/target"
	"fuhao/internal/trace"
	"fuhao/internal/transform"
)

// DefaultPath names the virtual file when Options.Path is empty.
const DefaultPath = "<input>"

type Options struct {
	Target    emit.Target // пусто: emit.TargetGo
	Debug     bool        // фазовые диагностики и все восстановленные ошибки
	SourceMap bool
	// Strict делает EmissionError фатальной.
	Strict bool
	// Path только для сообщений; файл не читается.
	Path           string
	Tracer         trace.Tracer // nil: из контекста или Nop
	MaxDiagnostics int          // <= 0: без лимита
	IndentWidth    int
	UseTabs        bool
	Observer       PhaseObserver
}

// SourceMapEntry ties a generated line to the declaration it came from.
type SourceMapEntry struct {
	GeneratedLine uint32 `json:"generated_line" msgpack:"generated_line"`
	SourceLine    uint32 `json:"source_line" msgpack:"source_line"`
	SourceCol     uint32 `json:"source_col" msgpack:"source_col"`
	Name          string `json:"name,omitempty" msgpack:"name,omitempty"`
}

// Result carries the text for the selected target only; the other target
// fields stay empty.
type Result struct {
	Go          string           `json:"go,omitempty" msgpack:"go,omitempty"`
	Rust        string           `json:"rust,omitempty" msgpack:"rust,omitempty"`
	LLVM        string           `json:"llvm,omitempty" msgpack:"llvm,omitempty"`
	Plain       string           `json:"plain,omitempty" msgpack:"plain,omitempty"`
	SourceMap   []SourceMapEntry `json:"source_map,omitempty" msgpack:"source_map,omitempty"`
	Success     bool             `json:"success" msgpack:"success"`
	Diagnostics []string         `json:"diagnostics,omitempty" msgpack:"diagnostics,omitempty"`
	Errors      []string         `json:"errors,omitempty" msgpack:"errors,omitempty"`
	Timings     observ.Report    `json:"timings" msgpack:"timings"`

	// Report and Files keep every diagnostic of the run with resolvable
	// spans. Results served from a cache have neither.
	Report *diag.Bag        `json:"-" msgpack:"-"`
	Files  *source.FileSet `json:"-" msgpack:"-"`
}

// Text returns the output for t.
func (r *Result) Text(t emit.Target) string {
	switch t {
	case emit.TargetGo:
		return r.Go
	case emit.TargetRust:
		return r.Rust
	case emit.TargetLLVM:
		return r.LLVM
	case emit.TargetPlain:
		return r.Plain
	}
	return ""
}

func (r *Result) setText(t emit.Target, text string) {
	switch t {
	case emit.TargetGo:
		r.Go = text
	case emit.TargetRust:
		r.Rust = text
	case emit.TargetLLVM:
		r.LLVM = text
	case emit.TargetPlain:
		r.Plain = text
	}
}

// Compiler binds the pipeline to one vocabulary. It holds only read-only
// tables, so one Compiler serves any number of goroutines.
type Compiler struct {
	syms  *symtab.Table
	codec *numeral.Codec
}

// New creates a compiler over syms; nil means symtab.Default().
func New(syms *symtab.Table) *Compiler {
	if syms == nil {
		syms = symtab.Default()
	}
	return &Compiler{syms: syms, codec: numeral.NewCodec(syms)}
}

// Symbols returns the vocabulary the compiler was built with.
func (c *Compiler) Symbols() *symtab.Table { return c.syms }

var std = sync.OnceValue(func() *Compiler { return New(nil) })

// Compile runs the pipeline with the default vocabulary.
func Compile(src string, opts Options) Result {
	return std().Compile(src, opts)
}

// Compile runs the pipeline on src.
func (c *Compiler) Compile(src string, opts Options) Result {
	return c.CompileContext(context.Background(), src, opts)
}

// CompileContext is Compile with the tracer and parent span taken from ctx
// when opts.Tracer is nil. The context is not checked for cancellation:
// every phase is a single linear pass.
func (c *Compiler) CompileContext(ctx context.Context, src string, opts Options) Result {
	tgt := opts.Target
	if tgt == "" {
		tgt = emit.TargetGo
	}
	if opts.Path == "" {
		opts.Path = DefaultPath
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.FromContext(ctx)
	}

	r := run{
		c:     c,
		opts:  opts,
		tgt:   tgt,
		fs:    source.NewFileSet(),
		bag:   diag.NewBag(opts.MaxDiagnostics),
		timer: observ.NewTimer(),
	}
	root := trace.Begin(opts.Tracer, trace.ScopeDriver, "compile", trace.ParentSpan(ctx))
	root.WithExtra("path", opts.Path).WithExtra("target", string(tgt))
	res := r.compile(src, root.ID())
	root.End(fmt.Sprintf("success=%t", res.Success))
	return res
}

// run: состояние одной компиляции.
type run struct {
	c     *Compiler
	opts  Options
	tgt   emit.Target
	fs    *source.FileSet
	file  *source.File
	bag   *diag.Bag
	timer *observ.Timer
	// fatal провалил компиляцию; переживает лимит Bag.
	fatal *diag.Diagnostic
}

func (r *run) reporter() diag.Reporter {
	return diag.BagReporter{Bag: r.bag}
}

// failWith records d as the reason the compile failed; the first one wins.
func (r *run) failWith(d diag.Diagnostic) {
	r.bag.Add(d)
	if r.fatal == nil {
		r.fatal = &d
	}
}

func (r *run) compile(src string, parent uint64) Result {
	if _, err := emit.ParseTarget(string(r.tgt)); err != nil {
		r.failWith(diag.NewError(diag.EmtUnknownTarget, source.Span{}, err.Error()))
		return r.finish(Result{})
	}

	content, flags := source.Normalize([]byte(src))
	r.file = r.fs.Get(r.fs.Add(r.opts.Path, content, flags|source.FileVirtual))

	// scan: отдельный проход ради счётчика токенов и LEX-диагностик;
	// парсер сканирует заново без репортера.
	r.phase("scan", parent, func() string {
		toks := lexer.New(r.file, r.c.syms, lexer.Options{Reporter: r.reporter()}).All()
		return fmt.Sprintf("%d tokens", len(toks)-1)
	})

	var parsed parser.Result
	r.phase("parse", parent, func() string {
		lx := lexer.New(r.file, r.c.syms, lexer.Options{})
		parsed = parser.ParseFile(r.file, lx, parser.Options{Reporter: r.reporter()})
		if parsed.Err != nil {
			return "failed: " + parsed.Err.Error()
		}
		return fmt.Sprintf("%d top-level nodes, %d skipped", len(parsed.Program.Body), len(parsed.Program.Skipped))
	})
	if parsed.Err != nil {
		// парсер уже сообщил ошибку через reporter
		d := diag.NewError(diag.SynUnexpectedToken, source.Span{File: r.file.ID}, parsed.Err.Error())
		var pe *parser.ParseError
		if errors.As(parsed.Err, &pe) {
			d = diag.NewError(pe.Code, pe.Span, "expected "+pe.Expected+", got "+pe.Got)
		}
		r.fatal = &d
		return r.finish(Result{})
	}

	var lowered *target.Program
	r.phase("transform", parent, func() string {
		lowered = transform.Lower(parsed.Program, transform.Options{
			Syms:     r.c.syms,
			Codec:    r.c.codec,
			File:     r.file,
			Reporter: r.reporter(),
		})
		count := 0
		target.Walk(lowered, func(target.Node) { count++ })
		return fmt.Sprintf("%d target nodes", count)
	})

	var out emit.Output
	r.phase("emit", parent, func() string {
		out = emit.Emit(lowered, r.tgt, emit.Options{
			SourceMap:   r.opts.SourceMap,
			IndentWidth: r.opts.IndentWidth,
			UseTabs:     r.opts.UseTabs,
		})
		for _, e := range out.Errors {
			if r.opts.Strict {
				r.failWith(diag.NewError(e.Code(), r.spanAt(e.Origin), e.Error()))
				continue
			}
			r.bag.Add(diag.New(diag.SevWarning, e.Code(), r.spanAt(e.Origin), e.Error()))
		}
		return fmt.Sprintf("target %s, %d lines, %d unsupported", r.tgt, strings.Count(out.Text, "\n"), len(out.Errors))
	})
	if r.opts.Strict && len(out.Errors) > 0 {
		return r.finish(Result{})
	}

	res := Result{Success: true}
	res.setText(r.tgt, out.Text)
	for _, m := range out.SourceMap {
		res.SourceMap = append(res.SourceMap, SourceMapEntry{
			GeneratedLine: m.GeneratedLine,
			SourceLine:    m.Source.Line,
			SourceCol:     m.Source.Col,
			Name:          m.Name,
		})
	}
	return r.finish(res)
}

// phase measures fn, traces it as a pass span and, in debug mode, records
// the note fn returns as an OBS6002 diagnostic.
func (r *run) phase(name string, parent uint64, fn func() string) {
	r.observe(PhaseEvent{Name: name, Status: PhaseStart})
	span := trace.Begin(r.opts.Tracer, trace.ScopePass, name, parent)
	idx := r.timer.Begin(name)
	note := fn()
	r.timer.End(idx, note)
	span.End(note)
	ph := r.timer.Phases()[idx]
	r.observe(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: ph.Dur})
	if r.opts.Debug {
		msg := fmt.Sprintf("phase %s: %s (%.3f ms)", name, note, float64(ph.Dur.Microseconds())/1000)
		r.bag.Add(diag.New(diag.SevInfo, diag.ObsPhase, source.Span{File: r.file.ID}, msg))
	}
}

func (r *run) observe(ev PhaseEvent) {
	if r.opts.Observer != nil {
		r.opts.Observer(ev)
	}
}

// finish fills the diagnostic lists: everything in debug mode, errors only
// on failure otherwise.
func (r *run) finish(res Result) Result {
	res.Timings = r.timer.Report()

	items := r.bag.Items()
	if r.fatal != nil && !slices.ContainsFunc(items, r.fatal.Same) {
		// Bag упёрся в лимит раньше фатальной ошибки
		items = append(slices.Clone(items), *r.fatal)
	}
	report := diag.NewBag(0)
	for _, d := range items {
		report.Add(d)
	}
	res.Report, res.Files = report, r.fs

	if r.fatal != nil || report.HasErrors() {
		res.Success = false
		res.Go, res.Rust, res.LLVM, res.Plain = "", "", "", ""
		res.SourceMap = nil
	}
	if r.opts.Debug {
		res.Diagnostics = r.format(report.Items())
	}
	if !res.Success {
		res.Errors = r.format(report.Filter(diag.SevError))
	}
	return res
}

// spanAt turns a 1-based line/column (column in runes) back into a span
// of the compiled file.
func (r *run) spanAt(o target.Origin) source.Span {
	sp := source.Span{File: r.file.ID}
	if o.Line == 0 || int(o.Line) > len(r.file.LineIdx)+1 {
		return sp
	}
	start := 0
	if o.Line > 1 {
		start = int(r.file.LineIdx[o.Line-2]) + 1
	}
	rest := r.file.Content[start:]
	for col := uint32(1); col < o.Col && len(rest) > 0 && rest[0] != '\n'; col++ {
		_, size := utf8.DecodeRune(rest)
		rest = rest[size:]
		start += size
	}
	off, err := safecast.Conv[uint32](start)
	if err != nil {
		return sp
	}
	sp.Start, sp.End = off, off
	return sp
}

func (r *run) format(ds []diag.Diagnostic) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		fs := r.fs
		if d.Code == diag.ObsPhase || r.file == nil {
			fs = nil
		}
		out = append(out, diag.FormatShort(d, fs))
		for _, n := range d.Notes {
			out = append(out, "  note: "+n.Msg)
		}
	}
	return out
}

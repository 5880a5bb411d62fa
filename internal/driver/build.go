package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"fuhao/internal/compiler"
	"fuhao/internal/emit"
	"fuhao/internal/trace"
)

// SourceExt is the extension of source files picked up by ListSources.
const SourceExt = ".fh"

// BuildOptions configures BuildDir and BuildFiles.
type BuildOptions struct {
	// Compile is applied to every file; Path and Observer are set per file.
	Compile compiler.Options
	// OutDir receives the rendered files; empty means compile only.
	OutDir string
	Jobs   int // <= 0: GOMAXPROCS
	Cache  *DiskCache
	Memo   *ResultCache
	Vocab  Digest // VocabDigest словаря компилятора, часть ключа кэша
	// OnPhase and OnFile are called from worker goroutines.
	OnPhase func(rel string, ev compiler.PhaseEvent)
	OnFile  func(FileResult)
}

// FileResult is the outcome for one source file.
type FileResult struct {
	Path   string // как в списке файлов
	Rel    string // относительно корня сборки, через '/'
	Output string // записанный файл; пусто, если ничего не записано
	Result compiler.Result
	Cached bool
	Err    error // ввод-вывод
}

// Failed reports an I/O error or an unsuccessful compile.
func (r *FileResult) Failed() bool {
	return r.Err != nil || !r.Result.Success
}

// ListSources returns the sorted *.fh files under dir. Hidden directories
// are skipped.
func ListSources(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// BuildDir compiles every source file under dir in parallel.
func BuildDir(ctx context.Context, dir string, c *compiler.Compiler, opts BuildOptions) ([]FileResult, error) {
	files, err := ListSources(dir)
	if err != nil {
		return nil, err
	}
	return BuildFiles(ctx, dir, files, c, opts)
}

// BuildFiles compiles files in parallel; results keep the order of files.
// Per-file problems are reported in the results, the returned error is
// cancellation only.
func BuildFiles(ctx context.Context, base string, files []string, c *compiler.Compiler, opts BuildOptions) ([]FileResult, error) {
	if len(files) == 0 {
		return nil, nil
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = buildOne(gctx, base, path, c, &opts)
			if opts.OnFile != nil {
				opts.OnFile(results[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func buildOne(ctx context.Context, base, path string, c *compiler.Compiler, opts *BuildOptions) FileResult {
	rel := relPath(base, path)
	res := FileResult{Path: path, Rel: rel}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, rel, trace.ParentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)

	content, err := loadSource(path)
	if err != nil {
		res.Err = fmt.Errorf("failed to load file: %w", err)
		span.End("load error")
		return res
	}

	copts := opts.Compile
	copts.Path = rel
	key := CacheKey(content, copts, opts.Vocab)
	if opts.OnPhase != nil {
		copts.Observer = func(ev compiler.PhaseEvent) { opts.OnPhase(rel, ev) }
	}

	res.Result, res.Cached = lookup(opts, rel, key)
	if !res.Cached {
		res.Result = c.CompileContext(ctx, string(content), copts)
		opts.Memo.Put(rel, key, res.Result)
		// кэш на диске: оптимизация, его ошибки сборку не роняют
		_ = opts.Cache.Put(key, &DiskPayload{Path: rel, Target: string(targetOf(copts)), Result: res.Result})
	}

	if opts.OutDir != "" && res.Result.Success {
		res.Output, res.Err = writeOutput(opts.OutDir, rel, targetOf(copts), &res.Result)
	}
	span.WithExtra("cached", fmt.Sprint(res.Cached)).End(fmt.Sprintf("success=%t", !res.Failed()))
	return res
}

func lookup(opts *BuildOptions, rel string, key Digest) (compiler.Result, bool) {
	if r, ok := opts.Memo.Get(rel, key); ok {
		return r, true
	}
	var payload DiskPayload
	if ok, err := opts.Cache.Get(key, &payload); err == nil && ok && payload.Path == rel {
		opts.Memo.Put(rel, key, payload.Result)
		return payload.Result, true
	}
	return compiler.Result{}, false
}

func targetOf(opts compiler.Options) emit.Target {
	if opts.Target == "" {
		return emit.TargetGo
	}
	return opts.Target
}

// OutputPath maps a source path relative to the build root to its output file.
func OutputPath(outDir, rel string, t emit.Target) string {
	rel = strings.TrimSuffix(filepath.FromSlash(rel), SourceExt)
	return filepath.Join(outDir, rel+t.Ext())
}

func writeOutput(outDir, rel string, t emit.Target, res *compiler.Result) (string, error) {
	out := OutputPath(outDir, rel, t)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := os.WriteFile(out, []byte(res.Text(t)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", out, err)
	}
	if len(res.SourceMap) > 0 {
		data, err := json.MarshalIndent(res.SourceMap, "", "  ")
		if err != nil {
			return out, err
		}
		if err := os.WriteFile(out+".map.json", append(data, '\n'), 0o644); err != nil {
			return out, fmt.Errorf("failed to write source map: %w", err)
		}
	}
	return out, nil
}

func relPath(base, path string) string {
	if base != "" {
		if rel, err := filepath.Rel(base, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(filepath.Clean(path))
}

// Package buildpipeline orchestrates a project build and reports progress
// per file.
package buildpipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fuhao/internal/compiler"
	"fuhao/internal/driver"
)

// BuildRequest configures a build of a set of source files.
type BuildRequest struct {
	// BaseDir is the build root; outputs mirror the layout below it.
	BaseDir string
	// Files to compile; empty means every source under BaseDir.
	Files    []string
	Compiler *compiler.Compiler
	Options  driver.BuildOptions
	Progress ProgressSink
}

// BuildResult captures per-file results and summed stage timings.
type BuildResult struct {
	Files   []driver.FileResult
	Timings Timings
	Failed  int
	Cached  int
}

// Build compiles the requested files in parallel. Progress receives a queued
// event per file, a working event per stage and a final done/cached/error
// event. The error is reserved for discovery failures and cancellation.
func Build(ctx context.Context, req *BuildRequest) (*BuildResult, error) {
	if req == nil {
		return nil, fmt.Errorf("missing build request")
	}
	if req.Compiler == nil {
		req.Compiler = compiler.New(nil)
	}
	files := req.Files
	if len(files) == 0 {
		var err error
		if files, err = driver.ListSources(req.BaseDir); err != nil {
			return nil, fmt.Errorf("failed to list sources: %w", err)
		}
	}

	result := &BuildResult{}
	sink := req.Progress
	if sink == nil {
		sink = FuncSink(nil)
	}
	emitQueued(sink, DisplayNames(req.BaseDir, files))

	opts := req.Options
	userPhase, userFile := opts.OnPhase, opts.OnFile
	opts.OnPhase = func(rel string, ev compiler.PhaseEvent) {
		stage := Stage(ev.Name)
		switch ev.Status {
		case compiler.PhaseStart:
			sink.OnEvent(Event{File: rel, Stage: stage, Status: StatusWorking})
		case compiler.PhaseEnd:
			result.Timings.Add(stage, ev.Elapsed)
		}
		if userPhase != nil {
			userPhase(rel, ev)
		}
	}
	opts.OnFile = func(fr driver.FileResult) {
		sink.OnEvent(fileEvent(fr))
		if userFile != nil {
			userFile(fr)
		}
	}

	results, err := driver.BuildFiles(ctx, req.BaseDir, files, req.Compiler, opts)
	result.Files = results
	for i := range results {
		if results[i].Failed() {
			result.Failed++
		}
		if results[i].Cached {
			result.Cached++
		}
	}
	status := StatusDone
	if err != nil || result.Failed > 0 {
		status = StatusError
	}
	sink.OnEvent(Event{Stage: StageWrite, Status: status, Err: err})
	return result, err
}

func fileEvent(fr driver.FileResult) Event {
	ev := Event{File: fr.Rel, Stage: StageWrite, Status: StatusDone}
	switch {
	case fr.Err != nil:
		ev.Status, ev.Err = StatusError, fr.Err
	case !fr.Result.Success:
		ev.Status = StatusError
		if len(fr.Result.Errors) > 0 {
			ev.Err = fmt.Errorf("%s", fr.Result.Errors[0])
		}
	case fr.Cached:
		ev.Status = StatusCached
	}
	ev.Elapsed = totalElapsed(fr.Result)
	return ev
}

func totalElapsed(res compiler.Result) time.Duration {
	return time.Duration(res.Timings.TotalMS * float64(time.Millisecond))
}

func emitQueued(sink ProgressSink, files []string) {
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageScan, Status: StatusQueued})
	}
}

// DisplayNames turns paths into the slash-separated names used in progress
// events: relative to baseDir when below it, deduplicated and sorted.
func DisplayNames(baseDir string, files []string) []string {
	if len(files) == 0 {
		return files
	}
	normalized := make([]string, 0, len(files))
	seen := make(map[string]struct{}, len(files))

	base := strings.TrimSpace(baseDir)
	for _, file := range files {
		if file == "" {
			continue
		}
		path := filepath.Clean(file)
		if base != "" {
			if rel, err := filepath.Rel(base, path); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
				path = rel
			}
		}
		path = filepath.ToSlash(path)
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		normalized = append(normalized, path)
	}
	sort.Strings(normalized)
	return normalized
}

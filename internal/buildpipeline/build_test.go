package buildpipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"fuhao/internal/compiler"
	"fuhao/internal/driver"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func (s *recordingSink) last(file string) Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out Event
	for _, ev := range s.events {
		if ev.File == file {
			out = ev
		}
	}
	return out
}

func write(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestBuildReportsProgress(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "ok.fh", "文【\"a\"】\n")
	write(t, dir, "bad.fh", "函【f()\n")

	sink := &recordingSink{}
	memo := driver.NewResultCache(4)
	req := &BuildRequest{
		BaseDir:  dir,
		Progress: sink,
		Options:  driver.BuildOptions{OutDir: filepath.Join(dir, "out"), Memo: memo},
	}
	res, err := Build(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 2 || res.Failed != 1 || res.Cached != 0 {
		t.Fatalf("result = %+v", res)
	}
	if ev := sink.last("ok.fh"); ev.Status != StatusDone {
		t.Errorf("ok.fh last event = %+v", ev)
	}
	if ev := sink.last("bad.fh"); ev.Status != StatusError || ev.Err == nil {
		t.Errorf("bad.fh last event = %+v", ev)
	}
	if ev := sink.last(""); ev.Status != StatusError {
		t.Errorf("pipeline event = %+v", ev)
	}
	if !res.Timings.Has(StageParse) || !res.Timings.Has(StageEmit) {
		t.Error("stage timings missing")
	}

	// повторная сборка берёт результаты из памяти
	sink = &recordingSink{}
	req.Progress = sink
	res, err = Build(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if res.Cached != 2 {
		t.Errorf("cached = %d", res.Cached)
	}
	if ev := sink.last("ok.fh"); ev.Status != StatusCached {
		t.Errorf("ok.fh after rebuild = %+v", ev)
	}
}

func TestBuildExplicitFiles(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.fh", "1")
	write(t, dir, "b.fh", "2")
	var mu sync.Mutex
	var phases int
	res, err := Build(context.Background(), &BuildRequest{
		BaseDir:  dir,
		Files:    []string{filepath.Join(dir, "b.fh")},
		Compiler: compiler.New(nil),
		Options: driver.BuildOptions{OnPhase: func(string, compiler.PhaseEvent) {
			mu.Lock()
			phases++
			mu.Unlock()
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 1 || res.Files[0].Rel != "b.fh" || phases != 8 {
		t.Fatalf("files = %+v, phase events = %d", res.Files, phases)
	}
}

func TestDisplayNames(t *testing.T) {
	got := DisplayNames("/p", []string{"/p/b.fh", "/p/a/x.fh", "/p/b.fh", "", "/q/c.fh"})
	want := []string{"/q/c.fh", "a/x.fh", "b.fh"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltersScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v", tt.level, tt.scope, got)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel accepted garbage")
	}
}

func TestSpanEventsInRing(t *testing.T) {
	ring := NewRingTracer(8, LevelPhase)
	root := Begin(ring, ScopeDriver, "build", 0)
	child := Begin(ring, ScopePass, "parse", root.ID())
	child.WithExtra("tokens", "12").End("ok")
	Begin(ring, ScopeFile, "file:a.fh", root.ID()).End("") // отфильтровано
	root.End("")

	evs := ring.Snapshot()
	if len(evs) != 4 {
		t.Fatalf("events = %d", len(evs))
	}
	if evs[1].ParentID != evs[0].SpanID || evs[2].Extra["tokens"] != "12" || evs[2].Detail != "ok" {
		t.Fatalf("events = %+v", evs)
	}
	for i := 1; i < len(evs); i++ {
		if evs[i].Seq <= evs[i-1].Seq {
			t.Errorf("seq not increasing at %d", i)
		}
	}
}

func TestRingWraps(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopeNode, name, "", 0)
	}
	evs := ring.Snapshot()
	if len(evs) != 2 || evs[0].Name != "b" || evs[1].Name != "c" {
		t.Fatalf("snapshot = %+v", evs)
	}
}

func TestStreamFormats(t *testing.T) {
	var text, js bytes.Buffer
	multi := NewMultiTracer(LevelPhase,
		NewStreamTracer(&text, LevelPhase, FormatText),
		NewStreamTracer(&js, LevelPhase, FormatNDJSON))
	s := Begin(multi, ScopePass, "emit", 0)
	s.WithExtra("b", "2").WithExtra("a", "1").End("go")

	lines := strings.Split(strings.TrimSpace(text.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "→ emit") || !strings.HasSuffix(lines[1], "← emit (go) {a=1, b=2}") {
		t.Fatalf("text = %q", text.String())
	}
	var ev jsonEvent
	last := strings.Split(strings.TrimSpace(js.String()), "\n")[1]
	if err := json.Unmarshal([]byte(last), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != "end" || ev.Scope != "pass" || ev.Detail != "go" {
		t.Fatalf("ndjson = %+v", ev)
	}
}

func TestDisabledIsSilent(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr != Nop {
		t.Fatalf("New(off) = %v, %v", tr, err)
	}
	s := Begin(tr, ScopeDriver, "x", 0)
	if s.ID() != 0 || s.End("") != 0 {
		t.Fatal("disabled span is active")
	}
}

func TestContextPropagation(t *testing.T) {
	ring := NewRingTracer(4, LevelPhase)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) || FromContext(context.Background()) != Nop {
		t.Fatal("tracer lost")
	}
	s := Begin(ring, ScopeDriver, "root", 0)
	if ParentSpan(WithSpan(ctx, s)) != s.ID() || ParentSpan(ctx) != 0 {
		t.Fatal("span lost")
	}
}

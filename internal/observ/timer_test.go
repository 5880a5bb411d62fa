package observ

import (
	"strings"
	"testing"
	"time"
)

func fakeClock(step time.Duration) func() time.Time {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(time.Millisecond)
	scan := tm.Begin("scan")
	tm.End(scan, "12 tokens")
	parse := tm.Begin("parse")
	tm.End(parse, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "scan" || r.Phases[0].DurationMS != 1 {
		t.Fatalf("report = %+v", r)
	}
	if r.TotalMS != 2 {
		t.Errorf("total = %v", r.TotalMS)
	}
	s := tm.Summary()
	if !strings.Contains(s, "scan            1.000 ms  12 tokens") || !strings.Contains(s, "total") {
		t.Errorf("summary:\n%s", s)
	}
}

func TestEmptyTimer(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Fatalf("report = %+v", r)
	}
}

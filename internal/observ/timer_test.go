package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerAccumulatesPhases(t *testing.T) {
	tm := NewTimer()
	tm.Add("read", 2*time.Millisecond, "")
	tm.Add("process", time.Millisecond, "")
	tm.Add("read", 3*time.Millisecond, "2 files")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(r.Phases))
	}
	if r.Phases[0].Name != "read" || r.Phases[0].Count != 2 || r.Phases[0].DurationMS != 5 {
		t.Fatalf("unexpected read phase: %+v", r.Phases[0])
	}
	if r.Phases[0].Note != "2 files" {
		t.Fatalf("note not kept: %q", r.Phases[0].Note)
	}
	if r.TotalMS != 6 {
		t.Fatalf("expected total 6ms, got %v", r.TotalMS)
	}
	if s := tm.Summary(); !strings.Contains(s, "process") || !strings.Contains(s, "total") {
		t.Fatalf("summary misses phases:\n%s", s)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.Begin("read")("")
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Fatalf("nil timer reported phases: %+v", r)
	}
}

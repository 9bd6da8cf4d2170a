// Package observ accumulates per-phase wall time for a compilation.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Timer sums durations by phase name; phases are listed in the order they
// were first seen. One Timer may be shared by every worker of a build.
type Timer struct {
	mu    sync.Mutex
	order []string
	acc   map[string]*phaseAcc
}

type phaseAcc struct {
	total time.Duration
	runs  int
	note  string
}

func NewTimer() *Timer {
	return &Timer{acc: make(map[string]*phaseAcc, 8)}
}

// Begin starts timing name; call the returned func to stop.
func (t *Timer) Begin(name string) func(note string) {
	if t == nil {
		return func(string) {}
	}
	start := time.Now()
	return func(note string) { t.Add(name, time.Since(start), note) }
}

// Add records one run of name. A non-empty note replaces the previous one.
func (t *Timer) Add(name string, d time.Duration, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	a := t.acc[name]
	if a == nil {
		a = &phaseAcc{}
		t.acc[name] = a
		t.order = append(t.order, name)
	}
	a.total += d
	a.runs++
	if note != "" {
		a.note = note
	}
}

// PhaseReport — одна фаза в сериализуемом виде.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count"`
	Note       string  `json:"note,omitempty"`
}

type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report snapshots the timer. A nil or empty timer gives the zero Report.
func (t *Timer) Report() Report {
	var rep Report
	if t == nil {
		return rep
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var sum time.Duration
	for _, name := range t.order {
		a := t.acc[name]
		sum += a.total
		rep.Phases = append(rep.Phases, PhaseReport{Name: name, DurationMS: millis(a.total), Count: a.runs, Note: a.note})
	}
	rep.TotalMS = millis(sum)
	return rep
}

// Summary renders the report as an aligned table for terminals.
func (t *Timer) Summary() string {
	rep := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range rep.Phases {
		line := fmt.Sprintf("  %-12s %9.2f ms  x%d", p.Name, p.DurationMS, p.Count)
		if p.Note != "" {
			line += "  // " + p.Note
		}
		b.WriteString(line + "\n")
	}
	fmt.Fprintf(&b, "  %-12s %9.2f ms\n", "total", rep.TotalMS)
	return b.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

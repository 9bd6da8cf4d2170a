package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Tracer is the main interface for emitting trace events.
type Tracer interface {
	// Emit records a trace event. Must be goroutine-safe.
	Emit(ev *Event)
	// Close flushes and releases resources.
	Close() error
	Level() Level
	// Enabled returns true if tracing is active (Level > LevelOff).
	Enabled() bool
}

// Config holds tracer configuration.
type Config struct {
	Level      Level
	Format     Format
	Output     io.Writer // if nil, OutputPath is opened
	OutputPath string    // "-" or "" for stderr
}

// New creates a Tracer based on Config.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	format := cfg.Format
	if format == FormatAuto {
		format = FormatText
		if strings.HasSuffix(cfg.OutputPath, ".ndjson") {
			format = FormatNDJSON
		}
	}
	w, err := openOutput(cfg)
	if err != nil {
		return nil, err
	}
	return NewStreamTracer(w, cfg.Level, format), nil
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// Span is an open KindSpanBegin event.
type Span struct {
	t     Tracer
	scope Scope
	name  string
	path  string
	start time.Time
}

// Begin emits the begin event and returns the span to End.
func Begin(t Tracer, scope Scope, name, path string) *Span {
	s := &Span{t: t, scope: scope, name: name, path: path, start: time.Now()}
	if t.Enabled() {
		t.Emit(&Event{Time: s.start, Kind: KindSpanBegin, Scope: scope, Name: name, Path: path})
	}
	return s
}

// End emits the end event and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	d := time.Since(s.start)
	if s.t.Enabled() {
		s.t.Emit(&Event{Kind: KindSpanEnd, Scope: s.scope, Name: s.name, Path: s.path, Elapsed: d, Detail: detail})
	}
	return d
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stylc/internal/driver"
	"stylc/internal/trace"
)

// setupTracing creates the tracer named by --trace and --trace-level.
func setupTracing(cmd *cobra.Command) (trace.Tracer, error) {
	flags := cmd.Root().PersistentFlags()
	out, err := flags.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	if out == "" {
		return trace.Nop, nil
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	cfg := trace.Config{Level: level, OutputPath: out}
	if out == "-" {
		cfg.Output = cmd.ErrOrStderr()
	}
	return trace.New(cfg)
}

// traceObserver forwards driver phase boundaries to t.
func traceObserver(t trace.Tracer) driver.PhaseObserver {
	if !t.Enabled() {
		return nil
	}
	return func(ev driver.PhaseEvent) {
		kind := trace.KindSpanBegin
		if ev.Status == driver.PhaseEnd {
			kind = trace.KindSpanEnd
		}
		t.Emit(&trace.Event{Kind: kind, Scope: trace.ScopePhase, Name: ev.Name, Path: ev.Path, Elapsed: ev.Elapsed})
	}
}

// traceResults emits one file event per compiled stylesheet.
func traceResults(t trace.Tracer, results []*driver.FileResult) {
	if !t.Enabled() {
		return
	}
	for _, r := range results {
		detail := ""
		if r.Cached {
			detail = "cached"
		}
		t.Emit(&trace.Event{Kind: trace.KindPoint, Scope: trace.ScopeFile, Name: "compiled", Path: r.Path, Detail: detail})
	}
}

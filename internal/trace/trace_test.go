package trace

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeBuild, false},
		{LevelBuild, ScopeBuild, true},
		{LevelBuild, ScopeFile, false},
		{LevelFile, ScopeFile, true},
		{LevelFile, ScopePhase, false},
		{LevelPhase, ScopePhase, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel accepted an unknown level")
	}
	if l, err := ParseLevel("FILE"); err != nil || l != LevelFile {
		t.Errorf("ParseLevel(FILE) = %v, %v", l, err)
	}
}

func TestStreamText(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelFile, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	span := Begin(tr, ScopeBuild, "build", "")
	tr.Emit(&Event{Kind: KindPoint, Scope: ScopeFile, Name: "compiled", Path: "/a.st.css"})
	tr.Emit(&Event{Kind: KindPoint, Scope: ScopePhase, Name: "read"})
	span.End("3 files")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "#1     → build:build") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "  • file:compiled /a.st.css") {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], "← build:build (") || !strings.HasSuffix(lines[2], "ms) 3 files") {
		t.Errorf("line 2 = %q", lines[2])
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)
	tr.Emit(&Event{Kind: KindSpanBegin, Scope: ScopePhase, Name: "transform", Path: "/a.st.css"})

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if got["kind"] != "begin" || got["scope"] != "phase" || got["name"] != "transform" || got["path"] != "/a.st.css" {
		t.Errorf("unexpected event %v", got)
	}
	if got["seq"] != float64(1) {
		t.Errorf("seq = %v", got["seq"])
	}
}

func TestOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff, OutputPath: "/nonexistent/trace.out"})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Error("LevelOff tracer is enabled")
	}
	Begin(tr, ScopeBuild, "build", "").End("")
}

package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff   Level = iota // no tracing
	LevelBuild              // command boundaries
	LevelFile               // per-stylesheet events
	LevelPhase              // everything
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelBuild:
		return "build"
	case LevelFile:
		return "file"
	case LevelPhase:
		return "phase"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "off":
		return LevelOff, nil
	case "build":
		return LevelBuild, nil
	case "file":
		return LevelFile, nil
	case "phase":
		return LevelPhase, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|build|file|phase)", s)
	}
}

// ShouldEmit returns true if the given scope should emit at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	return l != LevelOff && Scope(l) >= scope
}

package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd
	// KindPoint represents an instant event.
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity of the event. Lower values are coarser.
type Scope uint8

const (
	ScopeBuild Scope = iota + 1 // whole command
	ScopeFile                   // one stylesheet
	ScopePhase                  // read, process, transform, print
)

func (s Scope) String() string {
	switch s {
	case ScopeBuild:
		return "build"
	case ScopeFile:
		return "file"
	case ScopePhase:
		return "phase"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time    time.Time     // wall-clock timestamp
	Seq     uint64        // assigned by the tracer, monotonic
	Kind    Kind          // event kind
	Scope   Scope         // granularity level
	Name    string        // e.g. "transform", "build"
	Path    string        // stylesheet, if any
	Elapsed time.Duration // set on KindSpanEnd
	Detail  string        // optional detail message
}

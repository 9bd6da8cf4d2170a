package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a compilation phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// Phase names reported by the Compiler.
const (
	PhaseRead      = "read"
	PhaseProcess   = "process"
	PhaseTransform = "transform"
	PhasePrint     = "print"
)

// PhaseEvent describes a timing phase boundary of one stylesheet.
type PhaseEvent struct {
	Path    string
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events emitted during Compile.
type PhaseObserver func(PhaseEvent)

package compiler

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a compilation phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a phase boundary of one Compile call.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration // только для PhaseEnd
}

// PhaseObserver receives phase events in order: scan, parse, transform, emit.
// A failed parse ends the sequence early.
type PhaseObserver func(PhaseEvent)

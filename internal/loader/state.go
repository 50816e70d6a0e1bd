package loader

import (
	"fmt"
	"time"
)

// Phase is the lifecycle position of the loader.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// MarshalText renders the phase by name in JSON payloads.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a phase name written by MarshalText.
func (p *Phase) UnmarshalText(text []byte) error {
	for _, candidate := range []Phase{PhaseIdle, PhaseLoading, PhaseReady, PhaseFailed} {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// transitions lists the phases reachable from each phase.
// Loading -> Loading happens when a newer run supersedes one in flight.
var transitions = map[Phase][]Phase{
	PhaseIdle:    {PhaseLoading},
	PhaseLoading: {PhaseLoading, PhaseReady, PhaseFailed},
	PhaseReady:   {PhaseLoading},
	PhaseFailed:  {PhaseLoading},
}

// IllegalTransitionError is returned when a phase change is not allowed.
type IllegalTransitionError struct {
	From Phase
	To   Phase
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal phase transition %s -> %s", e.From, e.To)
}

func transition(from, to Phase) (Phase, error) {
	for _, next := range transitions[from] {
		if next == to {
			return to, nil
		}
	}
	return from, &IllegalTransitionError{From: from, To: to}
}

// State is what subscribers observe: the phase, the error of the last run,
// and the most recently committed snapshot.
type State struct {
	Phase      Phase
	Err        error
	Message    string
	Snapshot   *Snapshot
	Generation uint64
	ChangedAt  time.Time
}

// Loading reports whether a run is in flight.
func (s State) Loading() bool {
	return s.Phase == PhaseLoading
}

// Failed reports whether the last run ended with an error.
func (s State) Failed() bool {
	return s.Phase == PhaseFailed
}

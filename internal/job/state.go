package job

import "fmt"

// State is a step of a job run.
type State int

const (
	StatePending State = iota
	StateFetching
	StateAggregated
	StateCheckPartition
	StateLoading
	StateSkipped
	StateCommitted
	StatePartialFailure
	StateLoadFailure
	StateFailed
)

var stateNames = map[State]string{
	StatePending:        "pending",
	StateFetching:       "fetching",
	StateAggregated:     "aggregated",
	StateCheckPartition: "check_partition",
	StateLoading:        "loading",
	StateSkipped:        "skipped",
	StateCommitted:      "committed",
	StatePartialFailure: "partial_failure",
	StateLoadFailure:    "load_failure",
	StateFailed:         "failed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText renders the state name in JSON status output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// transitions lists the legal next states of every non-terminal state.
var transitions = map[State][]State{
	StatePending:        {StateFetching, StateFailed},
	StateFetching:       {StateAggregated, StatePartialFailure},
	StateAggregated:     {StateCheckPartition},
	StateCheckPartition: {StateSkipped, StateLoading, StateLoadFailure},
	StateLoading:        {StateCommitted, StateLoadFailure},
}

// CanTransition reports whether from -> to is a legal step.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	_, ok := transitions[s]
	return !ok
}

// Succeeded reports whether s is a successful terminal state.
func (s State) Succeeded() bool {
	return s == StateSkipped || s == StateCommitted
}

// TransitionError is returned for an illegal state change.
type TransitionError struct {
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal transition %s -> %s", e.From, e.To)
}

// machine tracks the current state and the path taken.
type machine struct {
	state State
	trail []State
}

func newMachine() *machine {
	return &machine{state: StatePending, trail: []State{StatePending}}
}

func (m *machine) to(next State) error {
	if !CanTransition(m.state, next) {
		return &TransitionError{From: m.state, To: next}
	}
	m.state = next
	m.trail = append(m.trail, next)
	return nil
}

package quiz

import "fmt"

// State is a phase in the lifecycle of a quiz session
type State int

const (
	// StateLoading is the initial phase before the question order is fixed
	StateLoading State = iota
	// StateAwaitingInput shows the current question and accepts an answer
	StateAwaitingInput
	// StateShowingFeedback shows the grade of the last answer; input is locked
	StateShowingFeedback
	// StateCompleted is terminal: every question was answered
	StateCompleted
	// StateCancelled is terminal: the session was aborted without results
	StateCancelled
)

var stateNames = map[State]string{
	StateLoading:         "loading",
	StateAwaitingInput:   "awaiting_input",
	StateShowingFeedback: "showing_feedback",
	StateCompleted:       "completed",
	StateCancelled:       "cancelled",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText encodes the state by name so snapshots read well as JSON
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name written by MarshalText
func (s *State) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown quiz state %q", text)
}

// Terminal reports whether no further transitions are possible
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled
}

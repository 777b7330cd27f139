package workflow

// State represents an approval state in the reconciliation review lifecycle
type State string

const (
	StateOpen     State = "OPEN"
	StateInReview State = "IN_REVIEW"
	StateApproved State = "APPROVED"
	StateRejected State = "REJECTED"
)

var validStates = map[State]bool{
	StateOpen:     true,
	StateInReview: true,
	StateApproved: true,
	StateRejected: true,
}

// Approved is the only fully terminal state. Rejected closes the current
// review cycle but can be reopened when a follow-up correction arrives.
var terminalStates = map[State]bool{
	StateApproved: true,
}

// IsTerminal returns true if no further transition is defined for the state
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// IsValid returns true if the state is a valid review state
func (s State) IsValid() bool {
	return validStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

package workflow

// Trigger represents a reviewer event that can cause a state transition
type Trigger string

const (
	TriggerStartReview Trigger = "START_REVIEW"
	TriggerApprove     Trigger = "APPROVE"
	TriggerReject      Trigger = "REJECT"
	TriggerReopen      Trigger = "REOPEN"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}

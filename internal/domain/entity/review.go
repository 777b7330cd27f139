package entity

import "time"

// Review decision values recorded by a reviewer. DecisionInProgress marks
// the start of an evaluation; DecisionRequestFollowUp asks for a corrected
// re-review after rejection.
const (
	DecisionInProgress      = "IN_PROGRESS"
	DecisionApprove         = "APPROVE"
	DecisionReject          = "REJECT"
	DecisionRequestFollowUp = "REQUEST_FOLLOWUP"
)

// ReviewDecision is one reviewer action on a reconciliation result. A
// result may accumulate several decisions over re-review cycles; decisions
// are append-only and never mutated.
type ReviewDecision struct {
	ID                string     `json:"id"`
	ResultID          string     `json:"result_id"`
	ReviewerFirstName string     `json:"reviewer_first_name"`
	ReviewerLastName  string     `json:"reviewer_last_name"`
	ReviewDate        *time.Time `json:"review_date,omitempty"`
	Decision          string     `json:"decision"`
	Comment           string     `json:"comment"`
	CorrectiveAction  string     `json:"corrective_action"`
	FollowUpRequired  bool       `json:"follow_up_required"`
	FollowUpDate      *time.Time `json:"follow_up_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

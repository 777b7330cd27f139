package workflow

import (
	"context"
	"fmt"

	"github.com/procuredesk/order-reconciliation/internal/domain/entity"
)

type ctxKey int

const followUpKey ctxKey = iota

// NewReviewMachine builds the reconciliation review machine positioned at
// the given state:
//
//	open      --START_REVIEW--> in_review
//	in_review --APPROVE-------> approved
//	in_review --REJECT--------> rejected
//	rejected  --REOPEN--------> in_review (only with follow-up required)
//
// Approved has no outgoing transitions. A result never jumps from open
// straight to approved or rejected; every verdict passes through review.
func NewReviewMachine(initial State) StateMachine {
	b := NewBuilder()

	b.Configure(StateOpen).
		Permit(TriggerStartReview, StateInReview)

	b.Configure(StateInReview).
		Permit(TriggerApprove, StateApproved).
		Permit(TriggerReject, StateRejected)

	b.Configure(StateRejected).
		PermitIf(TriggerReopen, StateInReview, func(ctx context.Context) bool {
			required, _ := ctx.Value(followUpKey).(bool)
			return required
		})

	return b.Build(initial)
}

// TriggerForDecision maps a recorded review decision to its machine trigger.
func TriggerForDecision(decision string) (Trigger, error) {
	switch decision {
	case entity.DecisionInProgress:
		return TriggerStartReview, nil
	case entity.DecisionApprove:
		return TriggerApprove, nil
	case entity.DecisionReject:
		return TriggerReject, nil
	case entity.DecisionRequestFollowUp:
		return TriggerReopen, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDecision, decision)
	}
}

// Transition applies one review decision to the current state and returns
// the resulting state. It is pure: on any error the returned state equals
// the input state and the caller must not persist anything. Persistence of
// the new status is entirely the caller's concern.
func Transition(current State, decision string, followUpRequired bool) (State, error) {
	if !current.IsValid() {
		return current, fmt.Errorf("%w: %q", ErrInvalidState, current)
	}

	trigger, err := TriggerForDecision(decision)
	if err != nil {
		return current, err
	}

	ctx := context.WithValue(context.Background(), followUpKey, followUpRequired)
	m := NewReviewMachine(current)
	if err := m.Fire(ctx, trigger); err != nil {
		return current, err
	}
	return m.State(), nil
}

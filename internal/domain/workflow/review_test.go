package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/procuredesk/order-reconciliation/internal/domain/entity"
)

func TestTransition_Table(t *testing.T) {
	tests := []struct {
		name             string
		current          State
		decision         string
		followUpRequired bool
		want             State
		wantErr          error
	}{
		{"open to in_review", StateOpen, entity.DecisionInProgress, false, StateInReview, nil},
		{"in_review approve", StateInReview, entity.DecisionApprove, false, StateApproved, nil},
		{"in_review reject", StateInReview, entity.DecisionReject, false, StateRejected, nil},
		{"rejected reopen with follow-up", StateRejected, entity.DecisionRequestFollowUp, true, StateInReview, nil},
		{"rejected reopen without follow-up", StateRejected, entity.DecisionRequestFollowUp, false, StateRejected, ErrGuardFailed},
		{"open direct approve", StateOpen, entity.DecisionApprove, false, StateOpen, ErrInvalidTransition},
		{"open direct reject", StateOpen, entity.DecisionReject, false, StateOpen, ErrInvalidTransition},
		{"approved is terminal", StateApproved, entity.DecisionReject, false, StateApproved, ErrInvalidTransition},
		{"approved cannot reopen", StateApproved, entity.DecisionRequestFollowUp, true, StateApproved, ErrInvalidTransition},
		{"rejected cannot approve directly", StateRejected, entity.DecisionApprove, false, StateRejected, ErrInvalidTransition},
		{"unknown decision", StateOpen, "MAYBE", false, StateOpen, ErrUnknownDecision},
		{"invalid current state", State("LIMBO"), entity.DecisionApprove, false, State("LIMBO"), ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.current, tt.decision, tt.followUpRequired)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Transition() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Transition() unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("Transition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransition_ErrorLeavesStateUntouched(t *testing.T) {
	// A failed transition must return the input state so callers can
	// safely skip persistence.
	got, err := Transition(StateApproved, entity.DecisionReject, false)
	if err == nil {
		t.Fatal("expected error for transition out of approved")
	}
	if got != StateApproved {
		t.Errorf("state after failed transition = %v, want %v", got, StateApproved)
	}
}

func TestTransition_RejectedOnlyReachesInReview(t *testing.T) {
	m := NewReviewMachine(StateRejected)

	triggers := m.PermittedTriggers()
	if len(triggers) != 1 || triggers[0] != TriggerReopen {
		t.Errorf("PermittedTriggers() from rejected = %v, want [REOPEN]", triggers)
	}
}

func TestTransition_FullReviewCycle(t *testing.T) {
	m := NewReviewMachine(StateOpen)
	ctx := context.WithValue(context.Background(), followUpKey, true)

	steps := []struct {
		trigger       Trigger
		expectedState State
	}{
		{TriggerStartReview, StateInReview},
		{TriggerReject, StateRejected},
		{TriggerReopen, StateInReview},
		{TriggerApprove, StateApproved},
	}

	for i, step := range steps {
		if err := m.Fire(ctx, step.trigger); err != nil {
			t.Fatalf("Step %d: Fire(%v) failed: %v", i, step.trigger, err)
		}
		if m.State() != step.expectedState {
			t.Fatalf("Step %d: State = %v, want %v", i, m.State(), step.expectedState)
		}
	}

	if !m.State().IsTerminal() {
		t.Error("approved should be terminal")
	}
	if len(m.PermittedTriggers()) != 0 {
		t.Error("approved should have no permitted triggers")
	}
}

package workflow

import (
	"context"
	"fmt"
)

// GuardFunc evaluates whether a configured transition may fire.
type GuardFunc func(ctx context.Context) bool

// StateMachine tracks the current review state and validates transitions.
type StateMachine interface {
	// State returns the current state
	State() State

	// CanFire returns true if the trigger is permitted in the current state
	CanFire(trigger Trigger) bool

	// Fire attempts the trigger, transitioning to the new state if allowed
	Fire(ctx context.Context, trigger Trigger) error

	// PermittedTriggers returns all triggers configured for the current state
	PermittedTriggers() []Trigger
}

// Builder assembles the transition table before any machine is built.
// Machines built from the same builder are independent.
type Builder struct {
	table map[State]map[Trigger][]transition
}

type transition struct {
	to    State
	guard GuardFunc
}

// StateConfig configures the transitions leaving one state.
type StateConfig struct {
	builder *Builder
	from    State
}

// NewBuilder creates an empty state machine builder
func NewBuilder() *Builder {
	return &Builder{table: make(map[State]map[Trigger][]transition)}
}

// Configure returns the configuration for transitions leaving state
func (b *Builder) Configure(state State) StateConfig {
	if !state.IsValid() {
		panic(fmt.Sprintf("invalid state: %s", state))
	}
	if _, ok := b.table[state]; !ok {
		b.table[state] = make(map[Trigger][]transition)
	}
	return StateConfig{builder: b, from: state}
}

// Permit allows the trigger to transition to the target state unconditionally
func (c StateConfig) Permit(trigger Trigger, to State) StateConfig {
	return c.PermitIf(trigger, to, nil)
}

// PermitIf allows the trigger to transition to the target state when the
// guard passes
func (c StateConfig) PermitIf(trigger Trigger, to State, guard GuardFunc) StateConfig {
	if !to.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", to))
	}
	c.builder.table[c.from][trigger] = append(c.builder.table[c.from][trigger], transition{to: to, guard: guard})
	return c
}

// Build creates an independent machine positioned at the initial state
func (b *Builder) Build(initial State) StateMachine {
	if !initial.IsValid() {
		panic(fmt.Sprintf("invalid initial state: %s", initial))
	}

	// Copy the table so later builder changes cannot leak into the machine.
	table := make(map[State]map[Trigger][]transition, len(b.table))
	for state, triggers := range b.table {
		copied := make(map[Trigger][]transition, len(triggers))
		for trigger, ts := range triggers {
			copied[trigger] = append([]transition{}, ts...)
		}
		table[state] = copied
	}

	return &machine{current: initial, table: table}
}

type machine struct {
	current State
	table   map[State]map[Trigger][]transition
}

func (m *machine) State() State {
	return m.current
}

func (m *machine) CanFire(trigger Trigger) bool {
	// Guards need a context to evaluate; a configured transition counts.
	return len(m.table[m.current][trigger]) > 0
}

func (m *machine) Fire(ctx context.Context, trigger Trigger) error {
	transitions := m.table[m.current][trigger]
	if len(transitions) == 0 {
		return fmt.Errorf("%w: cannot fire %s from %s", ErrInvalidTransition, trigger, m.current)
	}

	for _, t := range transitions {
		if t.guard == nil || t.guard(ctx) {
			m.current = t.to
			return nil
		}
	}

	return fmt.Errorf("%w: %s from %s", ErrGuardFailed, trigger, m.current)
}

func (m *machine) PermittedTriggers() []Trigger {
	triggers := make([]Trigger, 0, len(m.table[m.current]))
	for trigger := range m.table[m.current] {
		triggers = append(triggers, trigger)
	}
	return triggers
}

// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fsm implements the finite-state machine (spec.md §4.4, C4):
// states, (state,event)-keyed transitions, per-state metadata/results,
// and workflow-level metadata. Transitions are keyed by a typed
// (from, event) pair rather than a "state:event" string, so an event
// name containing a separator character can never collide with another
// transition (spec.md §9, "String-keyed transitions").
package fsm

import "fmt"

// Status is a state's execution status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusExecuting Status = "executing"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Reserved state names used by linear and branching constructors.
const (
	Start    = "START"
	Complete = "COMPLETE"
	ErrorState = "ERROR"
)

// key is the typed (state, event) transition lookup key.
type key struct {
	state string
	event string
}

// String renders a human-readable debug form, e.g. "STEP_1 --next-->".
func (k key) String() string {
	return fmt.Sprintf("%s --%s-->", k.state, k.event)
}

// StateMetadata carries the per-state action description and bookkeeping
// the Workflow Instance/Engine reads while stepping the FSM.
type StateMetadata struct {
	Action     string
	Objective  string
	Parameters map[string]any
	Conditions map[string]any
	Status     Status
}

// FSM is a state set plus (state,event)-keyed transitions, with per-state
// metadata/results and workflow-level metadata.
type FSM struct {
	states       map[string]struct{}
	initial      string
	current      string
	transitions  map[key]string
	metadata     map[string]*StateMetadata
	results      map[string]any
	workflowMeta map[string]any
}

// New creates an FSM over the given state set, with initial as both the
// initial and current state. initial must be a member of states.
func New(states []string, initial string) (*FSM, error) {
	set := make(map[string]struct{}, len(states))
	for _, s := range states {
		set[s] = struct{}{}
	}
	if _, ok := set[initial]; !ok {
		return nil, fmt.Errorf("fsm: initial state %q not in state set", initial)
	}

	return &FSM{
		states:       set,
		initial:      initial,
		current:      initial,
		transitions:  make(map[key]string),
		metadata:     make(map[string]*StateMetadata),
		results:      make(map[string]any),
		workflowMeta: make(map[string]any),
	}, nil
}

// AddTransition registers (from, event) -> to. Both from and to must
// already be in the state set.
func (f *FSM) AddTransition(from, event, to string) error {
	if _, ok := f.states[from]; !ok {
		return fmt.Errorf("fsm: unknown from-state %q", from)
	}
	if _, ok := f.states[to]; !ok {
		return fmt.Errorf("fsm: unknown to-state %q", to)
	}
	f.transitions[key{state: from, event: event}] = to
	return nil
}

// States returns the FSM's state set as a slice, in no particular order.
func (f *FSM) States() []string {
	out := make([]string, 0, len(f.states))
	for s := range f.states {
		out = append(out, s)
	}
	return out
}

// HasState reports whether s is a member of the state set.
func (f *FSM) HasState(s string) bool {
	_, ok := f.states[s]
	return ok
}

// InitialState returns the FSM's initial state.
func (f *FSM) InitialState() string { return f.initial }

// CurrentState returns the FSM's current state.
func (f *FSM) CurrentState() string { return f.current }

// CanTransition reports whether (from, event) has a registered target.
func (f *FSM) CanTransition(from, event string) bool {
	_, ok := f.transitions[key{state: from, event: event}]
	return ok
}

// GetNextState returns the target of (from, event), if registered.
func (f *FSM) GetNextState(from, event string) (string, bool) {
	to, ok := f.transitions[key{state: from, event: event}]
	return to, ok
}

// Transition fires event from the current state, moving current to the
// target state and returning true. Returns false, leaving current state
// untouched, if no such transition is registered.
func (f *FSM) Transition(event string) bool {
	to, ok := f.GetNextState(f.current, event)
	if !ok {
		return false
	}
	f.current = to
	return true
}

// AvailableEvents lists every event with a registered transition out of
// state, in no particular order.
func (f *FSM) AvailableEvents(state string) []string {
	var out []string
	for k := range f.transitions {
		if k.state == state {
			out = append(out, k.event)
		}
	}
	return out
}

// IsTerminal reports whether state has no outgoing transitions.
func (f *FSM) IsTerminal(state string) bool {
	return len(f.AvailableEvents(state)) == 0
}

// Reset restores current to the initial state. Metadata/results/
// workflow metadata are left untouched, so a caller that wants a fully
// fresh run should build a new FSM instead.
func (f *FSM) Reset() {
	f.current = f.initial
}

// SetStateMetadata stores (or replaces) the metadata for state.
func (f *FSM) SetStateMetadata(state string, md StateMetadata) {
	m := md
	f.metadata[state] = &m
}

// StateMetadataFor returns the metadata stored for state, if any.
func (f *FSM) StateMetadataFor(state string) (*StateMetadata, bool) {
	md, ok := f.metadata[state]
	return md, ok
}

// SetStatus updates the status of state's metadata in place. No-op if
// the state has no metadata registered.
func (f *FSM) SetStatus(state string, status Status) {
	if md, ok := f.metadata[state]; ok {
		md.Status = status
	}
}

// SetResult records result under state. Recording a result never changes
// the state's status (spec.md §4.4).
func (f *FSM) SetResult(state string, result any) {
	f.results[state] = result
}

// Result returns the result recorded for state, if any.
func (f *FSM) Result(state string) (any, bool) {
	r, ok := f.results[state]
	return r, ok
}

// Results returns a copy of every recorded state -> result mapping.
func (f *FSM) Results() map[string]any {
	out := make(map[string]any, len(f.results))
	for k, v := range f.results {
		out[k] = v
	}
	return out
}

// SetWorkflowMetadata stores a workflow-level (not per-state) metadata
// value under key.
func (f *FSM) SetWorkflowMetadata(key string, value any) {
	f.workflowMeta[key] = value
}

// WorkflowMetadata returns the workflow-level metadata value under key.
func (f *FSM) WorkflowMetadata(key string) (any, bool) {
	v, ok := f.workflowMeta[key]
	return v, ok
}

// Validate checks the invariants from spec.md §8: initial and current
// states are members of the state set, and every transition's endpoints
// are too.
func (f *FSM) Validate() error {
	if !f.HasState(f.initial) {
		return fmt.Errorf("fsm: initial state %q not in state set", f.initial)
	}
	if !f.HasState(f.current) {
		return fmt.Errorf("fsm: current state %q not in state set", f.current)
	}
	for k, to := range f.transitions {
		if !f.HasState(k.state) {
			return fmt.Errorf("fsm: transition from unknown state %q", k.state)
		}
		if !f.HasState(to) {
			return fmt.Errorf("fsm: transition to unknown state %q", to)
		}
	}
	return nil
}

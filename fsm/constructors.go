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

package fsm

import "fmt"

// NewLinear builds an FSM from an ordered state list [s0, s1, ..., sN],
// wiring (si, "next") -> s(i+1) for each consecutive pair, with s0 as the
// initial state (spec.md §4.4).
func NewLinear(states []string) (*FSM, error) {
	if len(states) == 0 {
		return nil, fmt.Errorf("fsm: linear FSM needs at least one state")
	}

	f, err := New(states, states[0])
	if err != nil {
		return nil, err
	}

	for i := 0; i < len(states)-1; i++ {
		if err := f.AddTransition(states[i], "next", states[i+1]); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// BranchTransition is one explicit (from, event) -> to edge for
// NewBranching.
type BranchTransition struct {
	From  string
	Event string
	To    string
}

// NewBranching builds an FSM from an explicit state set and transition
// list, validating every transition's endpoints are in the state set and
// adding default pending metadata for every user state (any state other
// than START/COMPLETE/ERROR), per spec.md §4.4.
func NewBranching(states []string, initial string, transitions []BranchTransition) (*FSM, error) {
	f, err := New(states, initial)
	if err != nil {
		return nil, err
	}

	for _, t := range transitions {
		if err := f.AddTransition(t.From, t.Event, t.To); err != nil {
			return nil, fmt.Errorf("fsm: branching transition %s--%s-->%s: %w", t.From, t.Event, t.To, err)
		}
	}

	for _, s := range states {
		if s == Start || s == Complete || s == ErrorState {
			continue
		}
		f.SetStateMetadata(s, StateMetadata{Status: StatusPending})
	}

	return f, nil
}

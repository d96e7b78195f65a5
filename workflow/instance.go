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

package workflow

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kadirpekel/axiom/axerrors"
	"github.com/kadirpekel/axiom/fsm"
)

// Instance is a WorkflowInstance (spec.md §3): it owns exactly one FSM,
// tracks its own execution_state and execution_history, and optionally
// preserves the original YAML it was compiled from (C6 round-trip).
type Instance struct {
	ID             string
	mu             sync.Mutex
	Name           string
	FSM            *fsm.FSM
	ExecutionState ExecutionState
	History        []HistoryEntry
	OriginalYAML   string
	Metadata       map[string]any
}

// New creates a workflow instance wrapping f, in the "created" state.
func New(name string, f *fsm.FSM) *Instance {
	return &Instance{
		ID:             uuid.NewString(),
		Name:           name,
		FSM:            f,
		ExecutionState: StateCreated,
		Metadata:       map[string]any{},
	}
}

func (i *Instance) appendHistory(step string, payload any) {
	i.History = append(i.History, HistoryEntry{Step: step, Payload: payload, Timestamp: time.Now()})
}

// Execute runs the FSM loop (spec.md §4.5) driving state actions through
// solver. data is validated here first; invalid data ends the run in the
// error state without invoking solver.
func (i *Instance) Execute(data Data, solver Solver) Result {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := validate(data); err != nil {
		i.ExecutionState = StateError
		i.appendHistory("error", err.Error())
		return Result{Status: "failed", Error: err.Error(), WorkflowType: i.Name}
	}

	i.ExecutionState = StateExecuting
	i.appendHistory("start", data)

	if i.FSM == nil {
		err := fmt.Errorf("workflow %q: no fsm configured", i.Name)
		i.ExecutionState = StateError
		i.appendHistory("error", err.Error())
		return Result{Status: "failed", Error: err.Error(), WorkflowType: i.Name}
	}

	if err := i.runFSMLoop(solver); err != nil {
		i.ExecutionState = StateError
		i.appendHistory("error", err.Error())
		return Result{
			Status:       "failed",
			Error:        err.Error(),
			WorkflowType: i.Name,
			FinalState:   i.FSM.CurrentState(),
		}
	}

	result := Result{
		Status:         "completed",
		FinalState:     i.FSM.CurrentState(),
		PerStateResult: i.FSM.Results(),
		FSMResults:     i.FSM.Results(),
		WorkflowType:   i.Name,
	}
	i.ExecutionState = StateCompleted
	i.appendHistory("complete", result)
	return result
}

// runFSMLoop drives the FSM: while current is not COMPLETE/ERROR, either
// bootstrap via "next" (states with no metadata, e.g. START) or run the
// state's action and transition on "next" (spec.md §4.5 "FSM loop").
func (i *Instance) runFSMLoop(solver Solver) error {
	f := i.FSM
	for f.CurrentState() != fsm.Complete && f.CurrentState() != fsm.ErrorState {
		state := f.CurrentState()
		md, ok := f.StateMetadataFor(state)
		if !ok {
			if !f.Transition("next") {
				return fmt.Errorf("workflow: no transition out of %q", state)
			}
			continue
		}

		f.SetStatus(state, fsm.StatusExecuting)

		result, err := solver.SolveAction(md.Action, md.Objective, md.Parameters)
		if err != nil {
			f.SetStatus(state, fsm.StatusFailed)
			return axerrors.Wrap(axerrors.InternalError, "workflow.execute", fmt.Sprintf("state %q action %q failed", state, md.Action), err)
		}

		f.SetResult(state, result)
		f.SetStatus(state, fsm.StatusCompleted)

		if !f.Transition("next") {
			return fmt.Errorf("workflow: state %q completed but has no \"next\" transition", state)
		}
	}
	return nil
}

// validate checks data per spec.md §4.5 step 1.
func validate(data Data) error {
	if strings.TrimSpace(data.Problem) == "" {
		return axerrors.New(axerrors.InvalidArgument, "workflow.validate", "data.problem must be a non-empty string")
	}
	return nil
}

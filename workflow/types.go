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

// Package workflow implements the Workflow Instance & Engine (C5) and the
// Workflow Factory (C6) from spec.md §4.5-4.6: an FSM-driven execution
// engine plus a YAML-to-FSM compiler.
package workflow

import "time"

// ExecutionState is a WorkflowInstance's lifecycle state (spec.md §3).
type ExecutionState string

const (
	StateCreated   ExecutionState = "created"
	StateExecuting ExecutionState = "executing"
	StateCompleted ExecutionState = "completed"
	StateError     ExecutionState = "error"
)

// HistoryEntry is one append-only execution_history record.
type HistoryEntry struct {
	Step      string
	Timestamp time.Time
	Payload   any
}

// Data is the validated input to Instance.Execute: a problem statement
// plus optional parameters/resources (spec.md §4.5 step 1).
type Data struct {
	Problem    string
	Parameters map[string]any
	Resources  []string
}

// Result is what Execute returns on completion or failure.
type Result struct {
	Status         string // "completed" | "failed"
	FinalState     string
	PerStateResult map[string]any
	FSMResults     map[string]any
	Error          string
	WorkflowType   string
}

// Solver is the callback the engine invokes for each FSM state action
// (spec.md §4.5 step 3, §4.11 step 4): it re-enters Agent.solve at
// depth+1 with the state's action name, objective and parameters.
type Solver interface {
	SolveAction(action, objective string, parameters map[string]any) (any, error)
}

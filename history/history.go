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

// Package history implements Action History (C13, spec.md §3 "Action",
// §4.13): an append-only, depth-tagged action log with derived metrics
// and a successful-pattern recognizer. Every append also emits a
// structured audit line via zerolog.
package history

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Action is an immutable record appended to the history; never mutated
// after Append (spec.md §3).
type Action struct {
	Type             string
	Description      string
	Depth            int
	Timestamp        time.Time
	Result           any
	WorkflowID       string
	ProblemStatement string
	Success          bool
	ExecutionTime    time.Duration
	ErrorMessage     string
}

// Patterns are the successful-pattern recognizer flags (spec.md §4.13).
type Patterns struct {
	RecursiveDecomposition bool
	UserInteraction        bool
	ReasoningIntensive     bool
}

// Metrics are the derived metrics over the whole history.
type Metrics struct {
	TotalExecutionTime time.Duration
	ErrorRate          float64
	MaxDepth           int
	AgentSolveCalls    int
}

// History is the append-only Action History, owned by the root Agent
// and read by nested frames (spec.md §3 "Ownership").
type History struct {
	mu      sync.RWMutex
	actions []Action
	logger  zerolog.Logger
}

// New builds an empty History, logging audit lines through l (or the
// package-level zerolog logger if l is the zero value).
func New(l *zerolog.Logger) *History {
	logger := log.Logger
	if l != nil {
		logger = *l
	}
	return &History{logger: logger.With().Str("component", "action_history").Logger()}
}

// Append records a (never mutated) Action and emits an audit line.
func (h *History) Append(a Action) {
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}
	h.mu.Lock()
	h.actions = append(h.actions, a)
	h.mu.Unlock()

	h.logger.Info().
		Str("type", a.Type).
		Int("depth", a.Depth).
		Bool("success", a.Success).
		Dur("execution_time", a.ExecutionTime).
		Str("workflow_id", a.WorkflowID).
		Msg(a.Description)
}

// Len returns the number of recorded actions.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.actions)
}

// Recent returns the last n actions, oldest first.
func (h *History) Recent(n int) []Action {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if n >= len(h.actions) {
		n = len(h.actions)
	}
	out := make([]Action, n)
	copy(out, h.actions[len(h.actions)-n:])
	return out
}

// ByDepth returns every action recorded at exactly depth d.
func (h *History) ByDepth(d int) []Action {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var out []Action
	for _, a := range h.actions {
		if a.Depth == d {
			out = append(out, a)
		}
	}
	return out
}

// ByType returns every action recorded with the given type.
func (h *History) ByType(actionType string) []Action {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var out []Action
	for _, a := range h.actions {
		if a.Type == actionType {
			out = append(out, a)
		}
	}
	return out
}

// DerivedMetrics computes the spec.md §4.13 metrics over the full history.
func (h *History) DerivedMetrics() Metrics {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var m Metrics
	var errors int
	for _, a := range h.actions {
		m.TotalExecutionTime += a.ExecutionTime
		if !a.Success {
			errors++
		}
		if a.Depth > m.MaxDepth {
			m.MaxDepth = a.Depth
		}
		if a.Type == "agent_solve_call" {
			m.AgentSolveCalls++
		}
	}
	if len(h.actions) > 0 {
		m.ErrorRate = float64(errors) / float64(len(h.actions))
	}
	return m
}

// RecognizePatterns flags successful-pattern indicators (spec.md §4.13):
// recursive_decomposition when solve-calls exceed 2, user_interaction
// when any input action is present, reasoning_intensive when reasoning
// actions exceed 3.
func (h *History) RecognizePatterns() Patterns {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var solveCalls, inputActions, reasoningActions int
	for _, a := range h.actions {
		switch a.Type {
		case "agent_solve_call":
			solveCalls++
		case "input":
			inputActions++
		case "reasoning":
			reasoningActions++
		}
	}

	return Patterns{
		RecursiveDecomposition: solveCalls > 2,
		UserInteraction:        inputActions > 0,
		ReasoningIntensive:     reasoningActions > 3,
	}
}

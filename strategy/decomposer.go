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

package strategy

import (
	"fmt"
	"strings"

	"github.com/kadirpekel/axiom/fsm"
	"github.com/kadirpekel/axiom/plan"
	"github.com/kadirpekel/axiom/workflow"
)

// maxSubProblems bounds Decomposer's split, mirroring the original
// strategy's own cap on hierarchical fan-out.
const maxSubProblems = 10

// Decomposer is a supplemented strategy (not present in spec.md, carried
// over from the original hierarchical-decomposition strategy): it splits
// a problem along its own punctuation into an ordered sub-problem chain
// without an LLM round trip, cheaper than Recursive for clearly
// enumerable problems ("first do X, then Y, finally Z").
type Decomposer struct{}

// NewDecomposer builds a Decomposer strategy.
func NewDecomposer() *Decomposer { return &Decomposer{} }

func (d *Decomposer) Name() string { return "decomposer" }

// Confidence is high only when the problem text itself enumerates steps
// (clauses joined by "then", "and then", "; " or ". "); otherwise 0, so it
// never competes with Recursive/Planner on ordinary problems.
func (d *Decomposer) Confidence(problem string, ctx Context) float64 {
	parts := splitSteps(problem)
	if len(parts) >= 2 && len(parts) <= maxSubProblems {
		return 0.6
	}
	return 0
}

// CreatePlan builds a linear workflow whose steps' objectives are the
// sub-problem texts, each re-entering solve via action "solve".
func (d *Decomposer) CreatePlan(problem string, ctx Context) (plan.Plan, error) {
	parts := splitSteps(problem)
	if len(parts) < 2 {
		return plan.Manual{Content: problem, Meta: plan.Meta{Strategy: "decomposer"}}, nil
	}

	states := make([]string, 0, len(parts)+2)
	states = append(states, fsm.Start)
	for i := range parts {
		states = append(states, fmt.Sprintf("STEP_%d", i+1))
	}
	states = append(states, fsm.Complete)

	transitions := make([]fsm.BranchTransition, 0, len(parts)+1)
	prev := fsm.Start
	for i := range parts {
		state := fmt.Sprintf("STEP_%d", i+1)
		transitions = append(transitions, fsm.BranchTransition{From: prev, Event: "next", To: state})
		prev = state
	}
	transitions = append(transitions, fsm.BranchTransition{From: prev, Event: "next", To: fsm.Complete})

	f, err := fsm.NewBranching(states, fsm.Start, transitions)
	if err != nil {
		return nil, err
	}
	for i, part := range parts {
		state := fmt.Sprintf("STEP_%d", i+1)
		f.SetStateMetadata(state, fsm.StateMetadata{
			Action:    "solve",
			Objective: part,
			Status:    fsm.StatusPending,
		})
	}

	inst := workflow.New("decomposed-"+strings.ToLower(parts[0]), f)
	return plan.Workflow{
		Instance: inst,
		Meta:     plan.Meta{Strategy: "decomposer", Complexity: plan.ComplexityComplex, EstimatedDuration: "minutes"},
	}, nil
}

// splitSteps breaks problem along common enumeration connectives.
func splitSteps(problem string) []string {
	repl := strings.NewReplacer(
		" and then ", "|", " then ", "|", "; ", "|", ". ", "|",
	)
	normalized := repl.Replace(problem)
	raw := strings.Split(normalized, "|")

	out := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

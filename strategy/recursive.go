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
	"context"
	"fmt"
	"strings"

	"github.com/kadirpekel/axiom/plan"
	"github.com/kadirpekel/axiom/resource"
	"github.com/kadirpekel/axiom/workflow"
)

// DefaultMaxRecursionDepth is D_max (spec.md §4.8, §4.12).
const DefaultMaxRecursionDepth = 10

const recursivePromptTemplate = `Decompose this problem into an ordered sequence of sub-problems
that, solved one after another, solve the whole:

%s

Respond with a workflow YAML document:

workflow:
  name: <short name>
  steps:
    - id: step_1
      action: solve
      objective: <first sub-problem statement>
    - id: step_2
      action: solve
      objective: <second sub-problem statement>
`

// Recursive is the Recursive strategy (C8): good at decomposable
// problems, generates a workflow whose states re-enter solve. Enforces
// D_max and an identity cycle check; callers also gate depth via the
// Recursion Controller (spec.md §4.12) before reaching this strategy.
type Recursive struct {
	LLM     resource.Handle
	Factory *workflow.Factory
	DMax    int
}

// NewRecursive builds a Recursive strategy over llm with the default
// D_max.
func NewRecursive(llm resource.Handle) *Recursive {
	return &Recursive{LLM: llm, Factory: workflow.NewFactory(), DMax: DefaultMaxRecursionDepth}
}

func (r *Recursive) Name() string { return "recursive" }

// Confidence favors problems that look decomposable (multiple clauses)
// and backs off as depth approaches D_max, hitting 0 past it so the
// Selector's zero-confidence default naturally still resolves to
// Recursive only when nothing else can do better.
func (r *Recursive) Confidence(problem string, ctx Context) float64 {
	if ctx.Depth >= r.dmax() {
		return 0
	}
	markers := strings.Count(problem, ",") + strings.Count(strings.ToLower(problem), " and ") + strings.Count(strings.ToLower(problem), " then ")
	if markers == 0 {
		return 0.1
	}
	score := 0.4 + 0.1*float64(markers)
	if score > 0.7 {
		score = 0.7
	}
	return score
}

func (r *Recursive) dmax() int {
	if r.DMax > 0 {
		return r.DMax
	}
	return DefaultMaxRecursionDepth
}

// CreatePlan asks the LLM to decompose problem, materializes the result
// as a workflow plan whose step objectives re-enter solve (spec.md
// §4.8, §4.11 step 4).
func (r *Recursive) CreatePlan(problem string, ctx Context) (plan.Plan, error) {
	if isIdentity(problem, ctx.ProblemStatement) {
		return baseCasePlan(problem, r.dmax()), nil
	}
	if ctx.Depth > r.dmax() {
		return baseCasePlan(problem, r.dmax()), nil
	}

	resp, err := r.LLM.Query(context.Background(), resource.Request{
		Prompt: fmt.Sprintf(recursivePromptTemplate, problem),
	})
	if err != nil {
		return nil, err
	}

	raw := plan.Parse(resp.Content)
	meta := metaFromRaw(raw)
	meta.Strategy = "recursive"

	inst, ferr := r.Factory.FromYAML(raw.Solution)
	if ferr != nil {
		inst, ferr = r.Factory.FromYAML(resp.Content)
	}
	if ferr != nil {
		return plan.Manual{Content: resp.Content, Meta: meta}, nil
	}
	return plan.Workflow{Instance: inst, Meta: meta}, nil
}

// isIdentity implements the spec.md §4.12 identity check: case-
// insensitive, whitespace-normalized comparison against the parent
// problem statement.
func isIdentity(problem, parent string) bool {
	if parent == "" {
		return false
	}
	return normalizeForCompare(problem) == normalizeForCompare(parent)
}

func normalizeForCompare(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// baseCasePlan builds the Direct plan returned once D_max is exceeded or
// an identity loop is detected (spec.md §4.12).
func baseCasePlan(problem string, dmax int) plan.Plan {
	return plan.Direct{
		Content: fmt.Sprintf("Base case reached for: %s. Maximum recursion depth (%d) exceeded.", problem, dmax),
		Meta:    plan.Meta{Strategy: "recursive", Complexity: plan.ComplexitySimple, EstimatedDuration: "immediate"},
	}
}

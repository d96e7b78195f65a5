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
)

// DefaultMaxIterations is I_max (spec.md §4.8).
const DefaultMaxIterations = 10

const iteratePromptTemplate = `Refine your previous answer to this problem:

%s

Previous answer:
%s

Respond with only the improved answer text, or repeat the previous
answer verbatim if it cannot be improved further.`

const firstIteratePromptTemplate = `Answer this problem as best you can:

%s`

// Iterative refines a solution across bounded iterations, detecting
// identical-repeat loops and truncating (spec.md §4.8).
type Iterative struct {
	LLM  resource.Handle
	IMax int
}

// NewIterative builds an Iterative strategy over llm with the default
// I_max.
func NewIterative(llm resource.Handle) *Iterative {
	return &Iterative{LLM: llm, IMax: DefaultMaxIterations}
}

func (it *Iterative) Name() string { return "iterative" }

// Confidence is low and constant: Iterative is a fallback refinement
// strategy, not a first choice, unless explicitly selected by name.
func (it *Iterative) Confidence(problem string, ctx Context) float64 { return 0.2 }

func (it *Iterative) imax() int {
	if it.IMax > 0 {
		return it.IMax
	}
	return DefaultMaxIterations
}

// CreatePlan runs up to I_max refinement rounds, stopping early when two
// consecutive iterations produce the identical answer.
func (it *Iterative) CreatePlan(problem string, ctx Context) (plan.Plan, error) {
	var previous string
	for i := 0; i < it.imax(); i++ {
		var prompt string
		if i == 0 {
			prompt = fmt.Sprintf(firstIteratePromptTemplate, problem)
		} else {
			prompt = fmt.Sprintf(iteratePromptTemplate, problem, previous)
		}

		resp, err := it.LLM.Query(context.Background(), resource.Request{Prompt: prompt})
		if err != nil {
			return nil, err
		}

		current := strings.TrimSpace(resp.Content)
		if i > 0 && current == previous {
			break
		}
		previous = current
	}

	return plan.Direct{
		Content: previous,
		Meta:    plan.Meta{Strategy: "iterative", Complexity: plan.ComplexityModerate, EstimatedDuration: "minutes"},
	}, nil
}

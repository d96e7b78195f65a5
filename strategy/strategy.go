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

// Package strategy implements the Strategy Selector (C8) and the
// concrete strategies (C9 Planner, Recursive, Iterative, plus the
// supplemented Composer/Decomposer/Explorer) from spec.md §4.8-§4.9.
package strategy

import "github.com/kadirpekel/axiom/plan"

// Context is whatever the strategy needs to judge confidence and build a
// plan: the problem context fields relevant here, kept narrow so
// strategies don't depend on the full agent package (avoids an import
// cycle, since Agent depends on strategy).
type Context struct {
	ProblemStatement string
	Objective        string
	OriginalProblem  string
	Depth            int
	Constraints      map[string]any
	Assumptions      []string
}

// Strategy is a registered problem-solving approach (spec.md §4.8).
type Strategy interface {
	Name() string
	Confidence(problem string, ctx Context) float64
	CreatePlan(problem string, ctx Context) (plan.Plan, error)
}

// Selector asks each registered strategy for a confidence score and picks
// the highest, breaking ties by registration order, defaulting to
// "recursive" when every strategy returns 0 (spec.md §4.8).
type Selector struct {
	strategies []Strategy
}

// NewSelector builds a Selector over strategies in registration order.
func NewSelector(strategies ...Strategy) *Selector {
	return &Selector{strategies: strategies}
}

// Select returns the highest-confidence strategy for problem/ctx.
func (s *Selector) Select(problem string, ctx Context) Strategy {
	var best Strategy
	bestScore := -1.0
	for _, st := range s.strategies {
		score := st.Confidence(problem, ctx)
		if score > bestScore {
			bestScore = score
			best = st
		}
	}
	if bestScore <= 0 {
		for _, st := range s.strategies {
			if st.Name() == "recursive" {
				return st
			}
		}
	}
	return best
}

// ByName returns the registered strategy with the given name, if any.
func (s *Selector) ByName(name string) (Strategy, bool) {
	for _, st := range s.strategies {
		if st.Name() == name {
			return st, true
		}
	}
	return nil, false
}

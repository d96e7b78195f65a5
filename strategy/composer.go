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

import "github.com/kadirpekel/axiom/plan"

// Composer is a supplemented strategy (carried over from the original
// capability-composition strategy, not present in spec.md): rather than
// solving directly, it delegates to whichever of a fixed sub-strategy
// set scores highest for the problem, and re-tags the resulting plan's
// metadata as its own. This gives callers a single named strategy that
// internally shops across several others.
type Composer struct {
	Candidates []Strategy
}

// NewComposer builds a Composer over the given candidate strategies.
func NewComposer(candidates ...Strategy) *Composer {
	return &Composer{Candidates: candidates}
}

func (c *Composer) Name() string { return "composer" }

// Confidence is the best confidence among its candidates, scaled down
// slightly: Composer should only edge out a candidate strategy chosen
// directly when multiple candidates are plausibly competitive.
func (c *Composer) Confidence(problem string, ctx Context) float64 {
	best := 0.0
	above := 0
	for _, s := range c.Candidates {
		score := s.Confidence(problem, ctx)
		if score > 0 {
			above++
		}
		if score > best {
			best = score
		}
	}
	if above < 2 {
		return 0
	}
	return best * 0.9
}

// CreatePlan delegates to the highest-confidence candidate.
func (c *Composer) CreatePlan(problem string, ctx Context) (plan.Plan, error) {
	var chosen Strategy
	best := -1.0
	for _, s := range c.Candidates {
		score := s.Confidence(problem, ctx)
		if score > best {
			best = score
			chosen = s
		}
	}
	if chosen == nil {
		return plan.Manual{Content: problem, Meta: plan.Meta{Strategy: "composer"}}, nil
	}

	p, err := chosen.CreatePlan(problem, ctx)
	if err != nil {
		return nil, err
	}
	return retag(p, "composer"), nil
}

// retag rebuilds p with Meta.Strategy overwritten, since Plan variants
// are value types without a shared setter.
func retag(p plan.Plan, strategyName string) plan.Plan {
	switch v := p.(type) {
	case plan.Direct:
		v.Meta.Strategy = strategyName
		return v
	case plan.Code:
		v.Meta.Strategy = strategyName
		return v
	case plan.Workflow:
		v.Meta.Strategy = strategyName
		return v
	case plan.Delegate:
		v.Meta.Strategy = strategyName
		return v
	case plan.Escalate:
		v.Meta.Strategy = strategyName
		return v
	case plan.Input:
		v.Meta.Strategy = strategyName
		return v
	case plan.Manual:
		v.Meta.Strategy = strategyName
		return v
	default:
		return p
	}
}

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

	"github.com/mitchellh/mapstructure"

	"github.com/kadirpekel/axiom/plan"
	"github.com/kadirpekel/axiom/resource"
	"github.com/kadirpekel/axiom/workflow"
)

const maxPlannerAttempts = 3

const analysisPromptTemplate = `You are solving this problem:

%s

Choose exactly one plan kind: DIRECT, CODE, WORKFLOW, DELEGATE, ESCALATE, INPUT.
Respond with a YAML document:

plan: <DIRECT|CODE|WORKFLOW|DELEGATE|ESCALATE|INPUT>
confidence: <float 0..1>
reasoning: <string>
solution: <string>
details:
  complexity: <simple|moderate|complex|critical>
  estimated_duration: <immediate|minutes|hours|days>
`

// Planner is the Planner Strategy (C9): constant high confidence,
// produces a Plan by calling the LLM with an analysis prompt.
type Planner struct {
	LLM     resource.Handle
	Factory *workflow.Factory
}

// NewPlanner builds a Planner strategy over llm.
func NewPlanner(llm resource.Handle) *Planner {
	return &Planner{LLM: llm, Factory: workflow.NewFactory()}
}

func (p *Planner) Name() string { return "planner" }

func (p *Planner) Confidence(problem string, ctx Context) float64 { return 0.8 }

// CreatePlan implements spec.md §4.9: up to 3 attempts, a Workflow kind
// that fails to materialize is a parse failure and triggers a retry; on
// exhaustion of all attempts for a Workflow kind, falls back to Manual.
func (p *Planner) CreatePlan(problem string, ctx Context) (plan.Plan, error) {
	prompt := fmt.Sprintf(analysisPromptTemplate, problem)

	var lastRaw plan.Raw
	for attempt := 0; attempt < maxPlannerAttempts; attempt++ {
		resp, err := p.LLM.Query(context.Background(), resource.Request{Prompt: prompt})
		if err != nil {
			return nil, err
		}

		raw := plan.Parse(resp.Content)
		lastRaw = raw
		kind := plan.Normalize(raw.PlanField)
		meta := metaFromRaw(raw)

		built, ok := p.build(kind, raw, meta)
		if ok {
			return built, nil
		}
		// fall through: Workflow materialization failed, retry
	}

	return plan.Manual{Content: lastRaw.Solution, Meta: metaFromRaw(lastRaw)}, nil
}

func (p *Planner) build(kind plan.Kind, raw plan.Raw, meta plan.Meta) (plan.Plan, bool) {
	switch kind {
	case plan.KindDirect:
		if strings.TrimSpace(raw.Solution) != "" {
			return plan.Direct{Content: raw.Solution, Meta: meta}, true
		}
		return plan.Manual{Content: raw.Solution, Meta: meta}, true
	case plan.KindCode:
		return plan.Code{Content: raw.Solution, Meta: meta}, true
	case plan.KindWorkflow:
		inst, err := p.Factory.FromYAML(raw.Solution)
		if err != nil {
			return nil, false
		}
		return plan.Workflow{Instance: inst, Meta: meta}, true
	case plan.KindDelegate:
		target := raw.Solution
		if target == "" {
			target = "specialist"
		}
		return plan.Delegate{TargetAgent: target, Meta: meta}, true
	case plan.KindEscalate:
		reason := raw.Solution
		if reason == "" {
			reason = "ESCALATE"
		}
		return plan.Escalate{Reason: reason, Meta: meta}, true
	case plan.KindInput:
		return plan.Input{Prompt: raw.Solution, Meta: meta}, true
	default:
		return plan.Manual{Content: raw.Solution, Meta: meta}, true
	}
}

// planDetails mirrors the "details" block of the Planner's analysis
// prompt; mapstructure decodes the LLM's loosely-typed YAML map into it
// so a missing or misnamed key degrades to the zero value instead of a
// panic.
type planDetails struct {
	Complexity        string `mapstructure:"complexity"`
	EstimatedDuration string `mapstructure:"estimated_duration"`
}

func metaFromRaw(raw plan.Raw) plan.Meta {
	m := plan.Meta{
		Strategy:   "planner",
		Confidence: raw.Confidence,
		Reasoning:  raw.Reasoning,
	}
	var details planDetails
	if raw.Details != nil {
		_ = mapstructure.Decode(raw.Details, &details)
	}
	if details.Complexity != "" {
		m.Complexity = plan.Complexity(strings.ToLower(details.Complexity))
	}
	if details.EstimatedDuration != "" {
		m.EstimatedDuration = details.EstimatedDuration
	}
	if m.Complexity == "" {
		m.Complexity = plan.ComplexityModerate
	}
	if m.EstimatedDuration == "" {
		m.EstimatedDuration = "unknown"
	}
	return m
}

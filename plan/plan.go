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

// Package plan implements the Plan tagged union and the Plan Parser (C7)
// from spec.md §3 ("Plan") and §4.7.
package plan

import "github.com/kadirpekel/axiom/workflow"

// Kind is a Plan's tag (spec.md §3 "Plan").
type Kind string

const (
	KindDirect   Kind = "direct"
	KindCode     Kind = "code"
	KindWorkflow Kind = "workflow"
	KindDelegate Kind = "delegate"
	KindEscalate Kind = "escalate"
	KindInput    Kind = "input"
	KindManual   Kind = "manual"
)

// Complexity is the optional plan-metadata complexity band.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
	ComplexityCritical Complexity = "critical"
)

// Meta carries the optional per-plan metadata common to every variant
// (spec.md §3, "Each plan carries optional metadata").
type Meta struct {
	Strategy          string
	Confidence        float64
	Reasoning         string
	Complexity        Complexity
	EstimatedDuration string
}

// Plan is the tagged union over the seven plan kinds. Rather than a
// single struct with unused fields per variant, each kind is its own
// type implementing this interface; the Executor (C10) type-switches
// on the concrete plan type to dispatch (spec.md §9, "Plan as tagged union").
type Plan interface {
	Kind() Kind
	Metadata() Meta
}

// Direct returns content verbatim (spec.md §4.10).
type Direct struct {
	Content string
	Meta    Meta
}

func (p Direct) Kind() Kind     { return KindDirect }
func (p Direct) Metadata() Meta { return p.Meta }

// Code is sandbox-executable source.
type Code struct {
	Content string
	Meta    Meta
}

func (p Code) Kind() Kind     { return KindCode }
func (p Code) Metadata() Meta { return p.Meta }

// Workflow wraps either an already-materialized workflow.Instance or
// raw YAML to be materialized by the Executor (spec.md §3).
type Workflow struct {
	Instance *workflow.Instance
	YAML     string
	Meta     Meta
}

func (p Workflow) Kind() Kind     { return KindWorkflow }
func (p Workflow) Metadata() Meta { return p.Meta }

// Delegate names another agent to hand the problem to.
type Delegate struct {
	TargetAgent string
	Content     string
	Meta        Meta
}

func (p Delegate) Kind() Kind     { return KindDelegate }
func (p Delegate) Metadata() Meta { return p.Meta }

// Escalate hands the problem to a human.
type Escalate struct {
	Reason string
	Meta   Meta
}

func (p Escalate) Kind() Kind     { return KindEscalate }
func (p Escalate) Metadata() Meta { return p.Meta }

// Input prompts the user via the Input resource.
type Input struct {
	Prompt string
	Meta   Meta
}

func (p Input) Kind() Kind     { return KindInput }
func (p Input) Metadata() Meta { return p.Meta }

// Manual falls back to a direct LLM "solve-directly" call.
type Manual struct {
	Content string
	Meta    Meta
}

func (p Manual) Kind() Kind     { return KindManual }
func (p Manual) Metadata() Meta { return p.Meta }

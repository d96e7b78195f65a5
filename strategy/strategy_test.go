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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/axiom/llms"
	"github.com/kadirpekel/axiom/plan"
	"github.com/kadirpekel/axiom/resource"
)

type fixedStrategy struct {
	name string
	conf float64
	plan plan.Plan
}

func (f fixedStrategy) Name() string                                       { return f.name }
func (f fixedStrategy) Confidence(problem string, ctx Context) float64     { return f.conf }
func (f fixedStrategy) CreatePlan(problem string, ctx Context) (plan.Plan, error) {
	return f.plan, nil
}

func TestSelector_PicksHighestConfidence(t *testing.T) {
	a := fixedStrategy{name: "a", conf: 0.3}
	b := fixedStrategy{name: "b", conf: 0.9}
	s := NewSelector(a, b)
	chosen := s.Select("anything", Context{})
	assert.Equal(t, "b", chosen.Name())
}

func TestSelector_TieBreaksByRegistrationOrder(t *testing.T) {
	a := fixedStrategy{name: "a", conf: 0.5}
	b := fixedStrategy{name: "b", conf: 0.5}
	s := NewSelector(a, b)
	assert.Equal(t, "a", s.Select("x", Context{}).Name())
}

func TestSelector_DefaultsToRecursiveWhenAllZero(t *testing.T) {
	a := fixedStrategy{name: "a", conf: 0}
	rec := fixedStrategy{name: "recursive", conf: 0}
	s := NewSelector(a, rec)
	assert.Equal(t, "recursive", s.Select("x", Context{}).Name())
}

func newMockLLM(response string) resource.Handle {
	m := llms.NewMockProvider(response)
	_ = m.Initialize(context.Background())
	return m
}

func TestPlanner_CreatePlan_Direct(t *testing.T) {
	llm := newMockLLM("plan: DIRECT\nconfidence: 0.9\nreasoning: simple math\nsolution: \"4\"\n")
	p := NewPlanner(llm)
	result, err := p.CreatePlan("what is 2+2", Context{})
	require.NoError(t, err)
	d, ok := result.(plan.Direct)
	require.True(t, ok)
	assert.Equal(t, "4", d.Content)
}

func TestPlanner_CreatePlan_Code(t *testing.T) {
	llm := newMockLLM("plan: CODE\nsolution: \"print(2+2)\"\n")
	p := NewPlanner(llm)
	result, err := p.CreatePlan("compute 2+2 in python", Context{})
	require.NoError(t, err)
	c, ok := result.(plan.Code)
	require.True(t, ok)
	assert.Equal(t, "print(2+2)", c.Content)
}

func TestPlanner_CreatePlan_WorkflowRetryThenManual(t *testing.T) {
	llm := newMockLLM("plan: WORKFLOW\nsolution: \"not: [valid\"\n")
	p := NewPlanner(llm)
	result, err := p.CreatePlan("do a multi-step thing", Context{})
	require.NoError(t, err)
	_, ok := result.(plan.Manual)
	assert.True(t, ok)
}

func TestRecursive_IdentityLoopProducesBaseCase(t *testing.T) {
	llm := newMockLLM("plan: DIRECT\nsolution: should-not-be-used\n")
	r := NewRecursive(llm)
	result, err := r.CreatePlan("solve X", Context{ProblemStatement: "solve X", Depth: 2})
	require.NoError(t, err)
	d, ok := result.(plan.Direct)
	require.True(t, ok)
	assert.Contains(t, d.Content, "Base case reached")
}

func TestRecursive_ConfidenceZeroAtDMax(t *testing.T) {
	llm := newMockLLM("")
	r := NewRecursive(llm)
	r.DMax = 3
	assert.Equal(t, 0.0, r.Confidence("a, b, c", Context{Depth: 3}))
}

func TestDecomposer_SplitsEnumeratedSteps(t *testing.T) {
	d := NewDecomposer()
	conf := d.Confidence("first fetch the data; then clean it; finally report it", Context{})
	assert.Greater(t, conf, 0.0)

	result, err := d.CreatePlan("first fetch the data; then clean it; finally report it", Context{})
	require.NoError(t, err)
	w, ok := result.(plan.Workflow)
	require.True(t, ok)
	assert.True(t, w.Instance.FSM.HasState("STEP_1"))
	assert.True(t, w.Instance.FSM.HasState("STEP_3"))
}

func TestIterative_StopsOnIdenticalRepeat(t *testing.T) {
	llm := newMockLLM("same answer")
	it := NewIterative(llm)
	it.IMax = 5
	result, err := it.CreatePlan("refine this", Context{})
	require.NoError(t, err)
	d := result.(plan.Direct)
	assert.Equal(t, "same answer", d.Content)
}

func TestComposer_DelegatesToBestCandidate(t *testing.T) {
	weak := fixedStrategy{name: "weak", conf: 0.2, plan: plan.Direct{Content: "weak"}}
	strong := fixedStrategy{name: "strong", conf: 0.8, plan: plan.Direct{Content: "strong"}}
	c := NewComposer(weak, strong)

	assert.Greater(t, c.Confidence("x", Context{}), 0.0)
	result, err := c.CreatePlan("x", Context{})
	require.NoError(t, err)
	d := result.(plan.Direct)
	assert.Equal(t, "strong", d.Content)
	assert.Equal(t, "composer", d.Meta.Strategy)
}

func TestExplorer_ConfidenceOnKeyword(t *testing.T) {
	e := NewExplorer(newMockLLM("x"))
	assert.Greater(t, e.Confidence("please optimize this system", Context{}), 0.0)
	assert.Equal(t, 0.0, e.Confidence("say hi", Context{}))
}

func TestExplorer_CreatePlan_PicksLongestCandidate(t *testing.T) {
	e := NewExplorer(newMockLLM("a reasonably detailed candidate answer"))
	e.Candidates = 2
	result, err := e.CreatePlan("design a complex system", Context{})
	require.NoError(t, err)
	d := result.(plan.Direct)
	assert.Equal(t, "a reasonably detailed candidate answer", d.Content)
}

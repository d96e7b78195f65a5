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

package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/axiom/async"
	"github.com/kadirpekel/axiom/event"
	"github.com/kadirpekel/axiom/executor"
	"github.com/kadirpekel/axiom/history"
	"github.com/kadirpekel/axiom/llms"
	"github.com/kadirpekel/axiom/memory"
	"github.com/kadirpekel/axiom/plan"
	"github.com/kadirpekel/axiom/problemctx"
	"github.com/kadirpekel/axiom/resource"
	"github.com/kadirpekel/axiom/strategy"
	"github.com/kadirpekel/axiom/workflow"
)

func newTestAgent(t *testing.T, llm *llms.MockProvider, strategies ...strategy.Strategy) *Agent {
	t.Helper()
	res := resource.NewRegistry()
	require.NoError(t, res.Register("llm", llm))

	sel := strategy.NewSelector(strategies...)
	ex := executor.New(executor.Resources{LLM: llm}, nil)

	a := New(Config{
		Name:       "test-agent",
		Memory:     memory.New(),
		Events:     event.NewBus(nil),
		Resources:  res,
		Strategies: sel,
		Executor:   ex,
		Controller: problemctx.NewController(10),
		History:    history.New(nil),
		Pool:       async.NewPool(4),
	})
	ex.Solver = a
	require.NoError(t, a.Acquire(context.Background()))
	t.Cleanup(func() { _ = a.Release(context.Background()) })
	return a
}

type fixedPlanStrategy struct {
	name string
	conf float64
	plan plan.Plan
}

func (f fixedPlanStrategy) Name() string { return f.name }
func (f fixedPlanStrategy) Confidence(problem string, ctx strategy.Context) float64 {
	return f.conf
}
func (f fixedPlanStrategy) CreatePlan(problem string, ctx strategy.Context) (plan.Plan, error) {
	return f.plan, nil
}

// Scenario 1: direct answer.
func TestSolve_DirectAnswer(t *testing.T) {
	llm := llms.NewMockProvider("")
	s := fixedPlanStrategy{name: "planner", conf: 0.9, plan: plan.Direct{Content: "4"}}
	a := newTestAgent(t, llm, s)

	result, err := a.Solve("What is 2+2?")
	require.NoError(t, err)
	assert.Equal(t, "4", result)
}

// Scenario 4: escalate.
func TestSolve_Escalate(t *testing.T) {
	llm := llms.NewMockProvider("")
	s := fixedPlanStrategy{name: "planner", conf: 0.9, plan: plan.Escalate{Reason: "needs a doctor"}}
	a := newTestAgent(t, llm, s)

	result, err := a.Solve("Diagnose patient with symptom X")
	require.NoError(t, err)
	assert.Equal(t, "Problem 'Diagnose patient with symptom X' escalated to human for manual intervention", result)
}

// Scenario 5: delegate.
func TestSolve_Delegate(t *testing.T) {
	llm := llms.NewMockProvider("")
	s := fixedPlanStrategy{name: "planner", conf: 0.9, plan: plan.Delegate{TargetAgent: "finance"}}
	a := newTestAgent(t, llm, s)

	result, err := a.Solve("Reconcile Q3 books")
	require.NoError(t, err)
	assert.Equal(t, "Delegated problem 'Reconcile Q3 books' to agent: finance", result)
}

// recursingStrategy always re-enters the agent one level deeper, with a
// strictly-distinct objective each time so identity-loop detection never
// short-circuits it — only the depth cap can stop it.
type recursingStrategy struct{ agent *Agent }

func (recursingStrategy) Name() string { return "planner" }
func (recursingStrategy) Confidence(problem string, ctx strategy.Context) float64 {
	return 0.9
}
func (r recursingStrategy) CreatePlan(problem string, ctx strategy.Context) (plan.Plan, error) {
	result, err := r.agent.SolveAction("solve", problem+" (recurse)", nil)
	if err != nil {
		return nil, err
	}
	content, _ := result.(string)
	return plan.Direct{Content: content}, nil
}

// Scenario 6: depth cap.
func TestSolve_DepthCap(t *testing.T) {
	llm := llms.NewMockProvider("")
	a := newTestAgent(t, llm)
	a.strategies = strategy.NewSelector(recursingStrategy{agent: a})
	a.controller = problemctx.NewController(3)

	result, err := a.Solve("diagnose the system")
	require.NoError(t, err)
	assert.Contains(t, result, "Base case reached for:")
	assert.Contains(t, result, "Maximum recursion depth (3) exceeded")
	assert.Equal(t, 3, a.history.DerivedMetrics().MaxDepth)
}

// fakeCodeResource stands in for a Python sandbox that always reports
// success with a fixed result, so scenario 2 (code execution) exercises
// the Code plan path without an actual interpreter.
type fakeCodeResource struct{ output string }

func (f fakeCodeResource) Capability() resource.Capability { return resource.CapabilityCoding }
func (f fakeCodeResource) Initialize(ctx context.Context) error { return nil }
func (f fakeCodeResource) Query(ctx context.Context, req resource.Request) (resource.Response, error) {
	return resource.Response{Success: true, Content: f.output}, nil
}
func (f fakeCodeResource) ListTools(ctx context.Context) ([]resource.ToolDescriptor, error) {
	return nil, nil
}
func (f fakeCodeResource) Stop(ctx context.Context) error    { return nil }
func (f fakeCodeResource) Cleanup(ctx context.Context) error { return nil }

// Scenario 2: code execution.
func TestSolve_CodeExecution(t *testing.T) {
	llm := llms.NewMockProvider("")
	res := resource.NewRegistry()
	require.NoError(t, res.Register("llm", llm))
	coding := fakeCodeResource{output: "120"}
	require.NoError(t, res.Register("coding", coding))

	s := fixedPlanStrategy{name: "planner", conf: 0.9, plan: plan.Code{Content: "import math\nprint(math.factorial(5))"}}
	sel := strategy.NewSelector(s)
	ex := executor.New(executor.Resources{LLM: llm, Coding: coding}, nil)

	a := New(Config{
		Name:       "code-agent",
		Memory:     memory.New(),
		Events:     event.NewBus(nil),
		Resources:  res,
		Strategies: sel,
		Executor:   ex,
		Controller: problemctx.NewController(10),
		History:    history.New(nil),
		Pool:       async.NewPool(4),
	})
	ex.Solver = a
	require.NoError(t, a.Acquire(context.Background()))
	t.Cleanup(func() { _ = a.Release(context.Background()) })

	result, err := a.Solve("What is 5 factorial?")
	require.NoError(t, err)
	assert.Contains(t, result, "120")
}

// Scenario 3: a two-step workflow.
func TestSolveWorkflow_TwoSteps(t *testing.T) {
	llm := llms.NewMockProvider("")
	s := fixedPlanStrategy{name: "planner", conf: 0.9, plan: plan.Direct{Content: "ok"}}
	a := newTestAgent(t, llm, s)

	fa := workflow.NewFactory()
	inst, err := fa.FromYAML(`workflow:
  name: equipment-check
  steps:
    - id: step_1
      action: solve
      objective: check sensor readings for Line 3
    - id: step_2
      action: solve
      objective: summarize equipment status for Line 3
`)
	require.NoError(t, err)

	var states []string
	for _, s := range inst.FSM.States() {
		states = append(states, s)
	}
	assert.Contains(t, states, "START")
	assert.Contains(t, states, "STEP_step_1")
	assert.Contains(t, states, "STEP_step_2")
	assert.Contains(t, states, "COMPLETE")

	result, err := a.SolveWorkflow(inst)
	require.NoError(t, err)
	assert.Contains(t, result, "completed")
	assert.Equal(t, workflow.StateCompleted, inst.ExecutionState)
	assert.Len(t, inst.History, 2)
}

func TestAcquireRelease_Idempotent(t *testing.T) {
	llm := llms.NewMockProvider("")
	res := resource.NewRegistry()
	require.NoError(t, res.Register("llm", llm))

	a := New(Config{
		Name:       "idempotent-agent",
		Events:     event.NewBus(nil),
		Resources:  res,
		Strategies: strategy.NewSelector(),
		Executor:   executor.New(executor.Resources{LLM: llm}, nil),
		Controller: problemctx.NewController(10),
		History:    history.New(nil),
		Pool:       async.NewPool(1),
	})

	require.NoError(t, a.Acquire(context.Background()))
	require.NoError(t, a.Release(context.Background()))
	require.NoError(t, a.Release(context.Background()))
	assert.Equal(t, "cleaned_up", a.Metrics().CurrentStep)
}

func TestRememberRecall(t *testing.T) {
	llm := llms.NewMockProvider("")
	a := newTestAgent(t, llm)
	assert.Equal(t, Missing, a.Recall("absent"))
	a.Remember("k", "v1")
	a.Remember("k", "v2")
	assert.Equal(t, "v2", a.Recall("k"))
}

func TestChat_AppendsConversationTurn(t *testing.T) {
	llm := llms.NewMockProvider("hello there")
	a := newTestAgent(t, llm)
	reply, err := a.Chat("hi")
	require.NoError(t, err)
	assert.Equal(t, "hello there", reply)
	assert.Equal(t, 1, a.memory.GetStatistics().TotalTurns)
}

func TestSolveAsync_DeliversResult(t *testing.T) {
	llm := llms.NewMockProvider("")
	s := fixedPlanStrategy{name: "planner", conf: 0.9, plan: plan.Direct{Content: "4"}}
	a := newTestAgent(t, llm, s)

	delivered := make(chan async.Result, 1)
	pr := a.SolveAsync("What is 2+2?", func(r async.Result) { delivered <- r })
	r := pr.Await()
	assert.Equal(t, "4", r.Value)
	assert.Equal(t, "4", (<-delivered).Value)
}

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

package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/axiom/llms"
	"github.com/kadirpekel/axiom/plan"
	"github.com/kadirpekel/axiom/workflow"
)

type stubSolver struct{}

func (stubSolver) SolveAction(action, objective string, parameters map[string]any) (any, error) {
	return "ok", nil
}

func newLLM(fallback string) *llms.MockProvider {
	m := llms.NewMockProvider(fallback)
	_ = m.Initialize(context.Background())
	return m
}

func TestExecute_Direct(t *testing.T) {
	e := New(Resources{}, stubSolver{})
	out, err := e.Execute(context.Background(), "2+2", plan.Direct{Content: "4"})
	require.NoError(t, err)
	assert.Equal(t, "4", out)
}

func TestExecute_Delegate(t *testing.T) {
	e := New(Resources{}, stubSolver{})
	out, err := e.Execute(context.Background(), "write a report", plan.Delegate{TargetAgent: "writer"})
	require.NoError(t, err)
	assert.Equal(t, "Delegated problem 'write a report' to agent: writer", out)
}

func TestExecute_Escalate(t *testing.T) {
	e := New(Resources{}, stubSolver{})
	out, err := e.Execute(context.Background(), "sign this contract", plan.Escalate{Reason: "needs a human"})
	require.NoError(t, err)
	assert.Equal(t, "Problem 'sign this contract' escalated to human for manual intervention", out)
}

func TestExecute_Manual(t *testing.T) {
	llm := newLLM("42")
	e := New(Resources{LLM: llm}, stubSolver{})
	out, err := e.Execute(context.Background(), "the answer", plan.Manual{Content: "unused"})
	require.NoError(t, err)
	assert.Equal(t, "Manual solution: 42", out)
}

func TestExecute_Workflow(t *testing.T) {
	fa := workflow.NewFactory()
	inst, err := fa.FromYAML(`workflow:
  name: one-step
  steps:
    - id: only
      action: solve
      objective: do the thing
`)
	require.NoError(t, err)

	e := New(Resources{}, stubSolver{})
	out, err := e.Execute(context.Background(), "do the thing", plan.Workflow{Instance: inst})
	require.NoError(t, err)
	assert.Contains(t, out, "one-step")
}

func TestExecuteLegacy_AgentPrefix(t *testing.T) {
	e := New(Resources{}, stubSolver{})
	out, err := e.ExecuteLegacy(context.Background(), "p", "agent:specialist")
	require.NoError(t, err)
	assert.Contains(t, out, "specialist")
}

func TestExecuteLegacy_Escalate(t *testing.T) {
	e := New(Resources{}, stubSolver{})
	out, err := e.ExecuteLegacy(context.Background(), "p", "TYPE_ESCALATE")
	require.NoError(t, err)
	assert.Contains(t, out, "escalated")
}

func TestExecuteLegacy_DefaultsToManual(t *testing.T) {
	llm := newLLM("done")
	e := New(Resources{LLM: llm}, stubSolver{})
	out, err := e.ExecuteLegacy(context.Background(), "p", "some-other-string")
	require.NoError(t, err)
	assert.Equal(t, "Manual solution: done", out)
}

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

package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/axiom/axerrors"
	"github.com/kadirpekel/axiom/fsm"
)

var errBoom = errors.New("boom")

const twoStepYAML = `workflow:
  name: greet-and-farewell
  description: two step demo
  steps:
    - id: greet
      action: say_hello
      objective: greet the user
      parameters:
        name: world
    - id: farewell
      action: say_bye
      objective: send them off
`

func TestFactory_FromYAML_TwoStep(t *testing.T) {
	fa := NewFactory()
	inst, err := fa.FromYAML(twoStepYAML)
	require.NoError(t, err)

	assert.Equal(t, "greet-and-farewell", inst.Name)
	assert.Equal(t, twoStepYAML, inst.OriginalYAML)
	assert.True(t, inst.FSM.HasState("STEP_greet"))
	assert.True(t, inst.FSM.HasState("STEP_farewell"))
	assert.True(t, inst.FSM.CanTransition(fsm.Start, "next"))
	assert.True(t, inst.FSM.CanTransition("STEP_greet", "next"))
	assert.True(t, inst.FSM.CanTransition("STEP_farewell", "next"))

	md, ok := inst.FSM.StateMetadataFor("STEP_greet")
	require.True(t, ok)
	assert.Equal(t, "say_hello", md.Action)
	assert.Equal(t, "world", md.Parameters["name"])
}

func TestFactory_FromYAML_FencedBlock(t *testing.T) {
	fa := NewFactory()
	inst, err := fa.FromYAML("Here is the plan:\n```yaml\n" + twoStepYAML + "```\nDone.")
	require.NoError(t, err)
	assert.Equal(t, "greet-and-farewell", inst.Name)
}

func TestFactory_FromYAML_ErrorStep(t *testing.T) {
	yml := `workflow:
  name: with-error-step
  steps:
    - id: a
      action: do_a
      error_step: b
    - id: b
      action: do_b
`
	fa := NewFactory()
	inst, err := fa.FromYAML(yml)
	require.NoError(t, err)
	assert.True(t, inst.FSM.CanTransition("STEP_a", "error"))
	to, ok := inst.FSM.GetNextState("STEP_a", "error")
	require.True(t, ok)
	assert.Equal(t, "STEP_b", to)
}

func TestFactory_FromYAML_MissingWorkflowKey(t *testing.T) {
	fa := NewFactory()
	_, err := fa.FromYAML("name: oops\n")
	require.Error(t, err)
	assert.Equal(t, axerrors.InvalidFormat, axerrors.KindOf(err))
}

func TestFactory_FromYAML_MissingName(t *testing.T) {
	fa := NewFactory()
	_, err := fa.FromYAML("workflow:\n  steps:\n    - id: a\n")
	require.Error(t, err)
	assert.Equal(t, axerrors.InvalidFormat, axerrors.KindOf(err))
}

func TestFactory_FromYAML_StepsNotList(t *testing.T) {
	fa := NewFactory()
	_, err := fa.FromYAML("workflow:\n  name: x\n  steps: not-a-list\n")
	require.Error(t, err)
	assert.Equal(t, axerrors.InvalidFormat, axerrors.KindOf(err))
}

func TestInstance_Execute_Success(t *testing.T) {
	fa := NewFactory()
	inst, err := fa.FromYAML(twoStepYAML)
	require.NoError(t, err)

	result := inst.Execute(Data{Problem: "greet then say bye"}, &recordingSolver{})
	assert.Equal(t, "completed", result.Status)
	assert.Equal(t, fsm.Complete, result.FinalState)
	assert.Len(t, result.PerStateResult, 2)
	assert.Equal(t, StateCompleted, inst.ExecutionState)
	assert.Equal(t, "start", inst.History[0].Step)
	assert.Equal(t, "complete", inst.History[len(inst.History)-1].Step)
}

func TestInstance_Execute_InvalidData(t *testing.T) {
	fa := NewFactory()
	inst, err := fa.FromYAML(twoStepYAML)
	require.NoError(t, err)

	result := inst.Execute(Data{Problem: "  "}, &recordingSolver{})
	assert.Equal(t, "failed", result.Status)
	assert.Equal(t, StateError, inst.ExecutionState)
}

func TestInstance_Execute_SolverFailure(t *testing.T) {
	fa := NewFactory()
	inst, err := fa.FromYAML(twoStepYAML)
	require.NoError(t, err)

	result := inst.Execute(Data{Problem: "x"}, &failingSolver{failOn: "say_hello"})
	assert.Equal(t, "failed", result.Status)
	md, _ := inst.FSM.StateMetadataFor("STEP_greet")
	assert.Equal(t, fsm.StatusFailed, md.Status)
}

type recordingSolver struct{ calls []string }

func (r *recordingSolver) SolveAction(action, objective string, parameters map[string]any) (any, error) {
	r.calls = append(r.calls, action)
	return "ok:" + action, nil
}

type failingSolver struct{ failOn string }

func (f *failingSolver) SolveAction(action, objective string, parameters map[string]any) (any, error) {
	if action == f.failOn {
		return nil, errBoom
	}
	return "ok", nil
}

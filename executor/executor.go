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

// Package executor implements the Executor (C10) dispatch table from
// spec.md §4.10: one action per Plan kind.
package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kadirpekel/axiom/plan"
	"github.com/kadirpekel/axiom/resource"
	"github.com/kadirpekel/axiom/workflow"
)

const defaultCodeTimeoutSeconds = 30

// Resources is the narrow resource surface the Executor needs: one
// handle per capability kind, looked up by the caller (Agent Core) so
// this package stays decoupled from the full resource.Registry.
type Resources struct {
	LLM    resource.Handle
	Coding resource.Handle
	Input  resource.Handle
}

// Executor dispatches a typed Plan to its concrete action.
type Executor struct {
	Resources Resources
	Factory   *workflow.Factory
	Solver    workflow.Solver
}

// New builds an Executor over res; solver is what workflow state actions
// re-enter (spec.md §4.5 step 3, typically the owning Agent).
func New(res Resources, solver workflow.Solver) *Executor {
	return &Executor{Resources: res, Factory: workflow.NewFactory(), Solver: solver}
}

// Execute dispatches p per spec.md §4.10's table.
func (e *Executor) Execute(ctx context.Context, problem string, p plan.Plan) (string, error) {
	switch v := p.(type) {
	case plan.Direct:
		return v.Content, nil
	case plan.Code:
		return e.executeCode(ctx, v.Content)
	case plan.Workflow:
		return e.executeWorkflow(problem, v)
	case plan.Delegate:
		return fmt.Sprintf("Delegated problem '%s' to agent: %s", problem, v.TargetAgent), nil
	case plan.Escalate:
		return fmt.Sprintf("Problem '%s' escalated to human for manual intervention", problem), nil
	case plan.Input:
		return e.executeInput(ctx, v.Prompt)
	case plan.Manual:
		return e.executeManual(ctx, problem)
	default:
		return "", fmt.Errorf("executor: unknown plan kind %T", p)
	}
}

// ExecuteLegacy routes untyped/legacy string plans: "agent:" prefix ->
// Delegate, the sentinel "TYPE_ESCALATE" -> Escalate, anything else ->
// Manual (spec.md §4.10).
func (e *Executor) ExecuteLegacy(ctx context.Context, problem, legacyPlan string) (string, error) {
	switch {
	case strings.HasPrefix(legacyPlan, "agent:"):
		target := strings.TrimPrefix(legacyPlan, "agent:")
		return e.Execute(ctx, problem, plan.Delegate{TargetAgent: target})
	case legacyPlan == "TYPE_ESCALATE":
		return e.Execute(ctx, problem, plan.Escalate{Reason: legacyPlan})
	default:
		return e.executeManual(ctx, problem)
	}
}

func (e *Executor) executeCode(ctx context.Context, source string) (string, error) {
	if e.Resources.Coding == nil {
		return "", fmt.Errorf("executor: no coding resource configured")
	}
	cctx, cancel := context.WithTimeout(ctx, defaultCodeTimeoutSeconds*time.Second)
	defer cancel()

	resp, err := e.Resources.Coding.Query(cctx, resource.Request{Prompt: source, Timeout: defaultCodeTimeoutSeconds})
	if err != nil {
		// Transport/timeout failures propagate (spec.md §7); resource-level
		// failures (non-zero exit) are reported as execution output below.
		return "", err
	}
	if !resp.Success {
		return fmt.Sprintf("code execution failed for source:\n%s\nerror: %s", source, resp.Error), nil
	}
	return resp.Content, nil
}

func (e *Executor) executeWorkflow(problem string, v plan.Workflow) (string, error) {
	inst := v.Instance
	if inst == nil {
		var err error
		inst, err = e.Factory.FromYAML(v.YAML)
		if err != nil {
			return "", err
		}
	}
	result := inst.Execute(workflow.Data{Problem: problem}, e.Solver)
	if result.Status != "completed" {
		return "", fmt.Errorf("workflow %q failed: %s", inst.Name, result.Error)
	}
	return fmt.Sprintf("workflow %q completed in state %s", inst.Name, result.FinalState), nil
}

func (e *Executor) executeInput(ctx context.Context, prompt string) (string, error) {
	if e.Resources.Input == nil {
		return "", fmt.Errorf("executor: no input resource configured")
	}
	resp, err := e.Resources.Input.Query(ctx, resource.Request{Prompt: prompt})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("User response is '%s'", resp.Content), nil
}

func (e *Executor) executeManual(ctx context.Context, problem string) (string, error) {
	if e.Resources.LLM == nil {
		return "", fmt.Errorf("executor: no llm resource configured")
	}
	resp, err := e.Resources.LLM.Query(ctx, resource.Request{
		Prompt: fmt.Sprintf("Solve directly: %s", problem),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Manual solution: %s", resp.Content), nil
}

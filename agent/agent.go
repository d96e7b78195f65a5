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

// Package agent implements the Agent Core (C11, spec.md §4.11): the
// component that ties the event bus, conversation memory, resource
// registry, strategy selector, executor, recursion controller, action
// history and promise adapter together behind solve/plan/reason/chat.
//
// Reason, Chat and Solve each have both a synchronous method (runs on
// the caller's frame) and an Async variant returning an *async.Promise,
// in place of spec.md §4.11's "is_sync" boolean — Go return types can't
// multiplex on a runtime bool cleanly, so the boolean is expressed as two
// methods instead of one method with a flag (see DESIGN.md). Input, Plan,
// Remember, Recall, Log and SolveWorkflow are synchronous only and have
// no Async variant.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kadirpekel/axiom/async"
	"github.com/kadirpekel/axiom/axerrors"
	"github.com/kadirpekel/axiom/event"
	"github.com/kadirpekel/axiom/executor"
	"github.com/kadirpekel/axiom/history"
	"github.com/kadirpekel/axiom/internal/metrics"
	"github.com/kadirpekel/axiom/internal/tracing"
	"github.com/kadirpekel/axiom/ipv"
	"github.com/kadirpekel/axiom/memory"
	"github.com/kadirpekel/axiom/plan"
	"github.com/kadirpekel/axiom/problemctx"
	"github.com/kadirpekel/axiom/resource"
	"github.com/kadirpekel/axiom/strategy"
	"github.com/kadirpekel/axiom/workflow"
)

// Missing is the recall() sentinel for an absent key (spec.md §4.11).
const Missing = "missing"

const defaultChatContextTurns = 5

// Config wires an Agent's collaborators. All fields are required except
// IPV and Logger, which default to Passthrough and slog.Default(), and
// Memory, which Acquire creates when it is nil.
type Config struct {
	Name       string
	Memory     *memory.Conversation
	Events     *event.Bus
	Resources  *resource.Registry
	Strategies *strategy.Selector
	Executor   *executor.Executor
	Controller *problemctx.Controller
	History    *history.History
	Pool       *async.Pool
	IPV        ipv.Assembler
	Logger     *slog.Logger
}

// Agent is the Agent Core (spec.md §3 "Agent", §4.11).
type Agent struct {
	name       string
	memory     *memory.Conversation
	events     *event.Bus
	resources  *resource.Registry
	strategies *strategy.Selector
	executor   *executor.Executor
	controller *problemctx.Controller
	history    *history.History
	pool       *async.Pool
	ipvAssembler ipv.Assembler
	logger       *slog.Logger

	kvMu sync.Mutex
	kv   map[string]any

	// stack is the current solve-call recursion stack. Recursive solve
	// re-entry happens synchronously within a single goroutine's call
	// stack (the cooperative-scheduler model of spec.md §5), so no
	// additional locking is required around push/pop.
	stack []problemctx.Context

	metaMu      sync.Mutex
	isRunning   bool
	currentStep string
	startedAt   time.Time
}

// New builds an Agent from cfg.
func New(cfg Config) *Agent {
	ipvImpl := cfg.IPV
	if ipvImpl == nil {
		ipvImpl = ipv.Passthrough{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		name:         cfg.Name,
		memory:       cfg.Memory,
		events:       cfg.Events,
		resources:    cfg.Resources,
		strategies:   cfg.Strategies,
		executor:     cfg.Executor,
		controller:   cfg.Controller,
		history:      cfg.History,
		pool:         cfg.Pool,
		ipvAssembler: ipvImpl,
		logger:       logger,
		kv:           map[string]any{},
	}
}

// Name returns the agent's stable identifier.
func (a *Agent) Name() string { return a.name }

// Events returns the agent's Event Bus, so callers (e.g. the CLI) can
// subscribe for status/error/final-result notifications (spec.md §4.1).
func (a *Agent) Events() *event.Bus { return a.events }

// Acquire initializes conversation memory and the LLM resource, and
// records current_step = "initialized" (spec.md §4.11). Must run before
// any solve/plan/reason/chat call; paired with Release on every exit
// path.
func (a *Agent) Acquire(ctx context.Context) error {
	if a.memory == nil {
		a.memory = memory.New()
	}
	for _, llm := range a.resources.ByCapability(resource.CapabilityLLM) {
		if err := llm.Initialize(ctx); err != nil {
			return axerrors.Wrap(axerrors.ResourceUnavailable, "agent.acquire", "llm resource failed to initialize", err)
		}
	}

	a.metaMu.Lock()
	a.isRunning = true
	a.currentStep = "initialized"
	a.startedAt = time.Now()
	a.metaMu.Unlock()

	metrics.IsRunning.WithLabelValues(a.name).Set(1)
	a.events.Emit(event.Status(a.name, "initialized", ""))
	return nil
}

// Release stops and cleans up the LLM resource, clears conversation and
// key-value memory, and records current_step = "cleaned_up" (spec.md
// §4.11). Idempotent: calling it twice is observationally equivalent to
// calling it once, since every collaborator's Stop/Cleanup is itself
// idempotent.
func (a *Agent) Release(ctx context.Context) error {
	var firstErr error
	for _, llm := range a.resources.ByCapability(resource.CapabilityLLM) {
		if err := llm.Stop(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := llm.Cleanup(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.memory != nil {
		a.memory.Clear()
	}
	a.kvMu.Lock()
	a.kv = map[string]any{}
	a.kvMu.Unlock()

	a.metaMu.Lock()
	a.isRunning = false
	a.currentStep = "cleaned_up"
	elapsed := time.Since(a.startedAt)
	a.metaMu.Unlock()

	metrics.IsRunning.WithLabelValues(a.name).Set(0)
	metrics.ElapsedSeconds.WithLabelValues(a.name).Set(elapsed.Seconds())
	a.events.Emit(event.Status(a.name, "cleaned_up", ""))
	return firstErr
}

// LiveMetrics reports the agent's current live metrics (spec.md §3
// "Agent" (v)).
type LiveMetrics struct {
	IsRunning    bool
	CurrentStep  string
	ElapsedTime  time.Duration
	TokensPerSec float64
}

// Metrics returns the agent's current live metrics.
func (a *Agent) Metrics() LiveMetrics {
	a.metaMu.Lock()
	defer a.metaMu.Unlock()
	var elapsed time.Duration
	if a.isRunning {
		elapsed = time.Since(a.startedAt)
		metrics.ElapsedSeconds.WithLabelValues(a.name).Set(elapsed.Seconds())
	}
	return LiveMetrics{IsRunning: a.isRunning, CurrentStep: a.currentStep, ElapsedTime: elapsed}
}

func (a *Agent) firstLLM() (resource.Handle, error) {
	handles := a.resources.ByCapability(resource.CapabilityLLM)
	if len(handles) == 0 {
		return nil, axerrors.New(axerrors.ResourceUnavailable, "agent.llm", "no llm resource registered")
	}
	return handles[0], nil
}

func (a *Agent) firstInput() (resource.Handle, error) {
	handles := a.resources.ByCapability(resource.CapabilityInput)
	if len(handles) == 0 {
		return nil, axerrors.New(axerrors.ResourceUnavailable, "agent.input", "no input resource registered")
	}
	return handles[0], nil
}

// Remember stores value under key; last write wins (spec.md §4.11).
func (a *Agent) Remember(key string, value any) {
	a.kvMu.Lock()
	defer a.kvMu.Unlock()
	a.kv[key] = value
}

// Recall returns the value stored under key, or Missing if absent
// (spec.md §4.11).
func (a *Agent) Recall(key string) any {
	a.kvMu.Lock()
	defer a.kvMu.Unlock()
	if v, ok := a.kv[key]; ok {
		return v
	}
	return Missing
}

// Log routes message through both the process logger and the Event Bus
// (spec.md §4.11).
func (a *Agent) Log(message string, level event.Level) {
	switch level {
	case event.LevelDebug:
		a.logger.Debug(message)
	case event.LevelWarning:
		a.logger.Warn(message)
	case event.LevelError:
		a.logger.Error(message)
	default:
		level = event.LevelInfo
		a.logger.Info(message)
	}
	a.events.Emit(event.Log(a.name, level, message))
}

// depth returns the recursion depth of the innermost active solve frame,
// or 0 when called outside of one (e.g. directly off Acquire).
func (a *Agent) depth() int {
	if len(a.stack) == 0 {
		return 0
	}
	return a.stack[len(a.stack)-1].Depth
}

// Input defers to the Input resource, blocking until a value is
// produced or ctx is cancelled (spec.md §4.11). Recorded as an "input"
// action so the successful-pattern recognizer's user_interaction flag
// (spec.md §4.13) reflects real usage.
func (a *Agent) Input(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	in, err := a.firstInput()
	if err != nil {
		a.history.Append(history.Action{Type: "input", Description: prompt, Depth: a.depth(), ExecutionTime: time.Since(start), ErrorMessage: err.Error()})
		return "", err
	}
	resp, err := in.Query(ctx, resource.Request{Prompt: prompt})
	if err != nil {
		a.history.Append(history.Action{Type: "input", Description: prompt, Depth: a.depth(), ExecutionTime: time.Since(start), ErrorMessage: err.Error()})
		return "", err
	}
	a.history.Append(history.Action{Type: "input", Description: prompt, Depth: a.depth(), Result: resp.Content, Success: true, ExecutionTime: time.Since(start)})
	return resp.Content, nil
}

// Reason makes a single-shot LLM call with the given system message and
// premise (spec.md §4.11). Recorded as a "reasoning" action so the
// successful-pattern recognizer's reasoning_intensive flag (spec.md
// §4.13) reflects real usage.
func (a *Agent) Reason(premise, system string) (string, error) {
	start := time.Now()
	llm, err := a.firstLLM()
	if err != nil {
		a.history.Append(history.Action{Type: "reasoning", Description: premise, Depth: a.depth(), ExecutionTime: time.Since(start), ErrorMessage: err.Error()})
		return "", err
	}
	resp, err := llm.Query(context.Background(), resource.Request{Prompt: premise, System: system})
	if err != nil {
		a.history.Append(history.Action{Type: "reasoning", Description: premise, Depth: a.depth(), ExecutionTime: time.Since(start), ErrorMessage: err.Error()})
		return "", err
	}
	a.history.Append(history.Action{Type: "reasoning", Description: premise, Depth: a.depth(), Result: resp.Content, Success: true, ExecutionTime: time.Since(start)})
	return resp.Content, nil
}

// ReasonAsync is Reason's is_sync=false counterpart.
func (a *Agent) ReasonAsync(premise, system string, onDeliver async.OnDelivery) *async.Promise {
	return a.pool.New(context.Background(), func(ctx context.Context) (any, error) {
		return a.Reason(premise, system)
	}, onDeliver)
}

// Chat builds a message list from the last defaultChatContextTurns memory turns
// plus message, calls the LLM, and appends the resulting turn to
// conversation memory on delivery (spec.md §4.11).
func (a *Agent) Chat(message string) (string, error) {
	llm, err := a.firstLLM()
	if err != nil {
		return "", err
	}

	var messages []resource.Message
	if a.memory != nil {
		for _, turn := range a.memory.GetRecent(defaultChatContextTurns) {
			messages = append(messages, resource.Message{Role: "user", Content: turn.User})
			messages = append(messages, resource.Message{Role: "assistant", Content: turn.Assistant})
		}
	}
	messages = append(messages, resource.Message{Role: "user", Content: message})

	resp, err := llm.Query(context.Background(), resource.Request{Messages: messages})
	if err != nil {
		return "", err
	}
	if a.memory != nil {
		a.memory.AddTurn(message, resp.Content)
	}
	return resp.Content, nil
}

// ChatAsync is Chat's is_sync=false counterpart.
func (a *Agent) ChatAsync(message string, onDeliver async.OnDelivery) *async.Promise {
	return a.pool.New(context.Background(), func(ctx context.Context) (any, error) {
		return a.Chat(message)
	}, onDeliver)
}

// Plan is the pure dispatcher to the Strategy Selector (spec.md
// §4.8-§4.9, §4.11 "plan(input)").
func (a *Agent) Plan(pc problemctx.Context) (plan.Plan, error) {
	_, span := tracing.StartSpan(context.Background(), "plan", pc.Depth, "agent", a.name)
	defer span.End()

	stratCtx := strategy.Context{
		ProblemStatement: pc.ProblemStatement,
		Objective:        pc.Objective,
		OriginalProblem:  pc.OriginalProblem,
		Depth:            pc.Depth,
		Constraints:      pc.Constraints,
		Assumptions:      pc.Assumptions,
	}
	chosen := a.strategies.Select(pc.ProblemStatement, stratCtx)
	if chosen == nil {
		return nil, axerrors.New(axerrors.InternalError, "agent.plan", "no strategy available")
	}
	return chosen.CreatePlan(pc.ProblemStatement, stratCtx)
}

// Solve is the Agent Core's solve(input) operation (spec.md §4.11):
// input is a problem string. A pre-built workflow is solved via
// SolveWorkflow instead, since Go needs the type to dispatch anyway.
func (a *Agent) Solve(problem string) (string, error) {
	return a.solveProblem(problemctx.Root(problem))
}

// SolveAsync is Solve's is_sync=false counterpart.
func (a *Agent) SolveAsync(problem string, onDeliver async.OnDelivery) *async.Promise {
	return a.pool.New(context.Background(), func(ctx context.Context) (any, error) {
		return a.Solve(problem)
	}, onDeliver)
}

// SolveWorkflow runs a pre-built workflow instance directly, skipping
// strategy selection (spec.md §4.11 step 3, "either returns the passed
// workflow or delegates to the chosen strategy").
func (a *Agent) SolveWorkflow(inst *workflow.Instance) (string, error) {
	start := time.Now()
	result := inst.Execute(workflow.Data{Problem: inst.Name}, a)
	if result.Status != "completed" {
		err := fmt.Errorf("workflow %q failed: %s", inst.Name, result.Error)
		a.history.Append(history.Action{
			Type: "workflow", Description: inst.Name, WorkflowID: inst.ID,
			Success: false, ExecutionTime: time.Since(start), ErrorMessage: result.Error,
		})
		metrics.ActionsTotal.WithLabelValues("workflow", "false").Inc()
		return "", err
	}
	msg := fmt.Sprintf("workflow %q completed in state %s", inst.Name, result.FinalState)
	a.history.Append(history.Action{
		Type: "workflow", Description: inst.Name, WorkflowID: inst.ID,
		Result: msg, Success: true, ExecutionTime: time.Since(start),
	})
	metrics.ActionsTotal.WithLabelValues("workflow", "true").Inc()
	return msg, nil
}

// solveProblem implements spec.md §4.11 steps 1-5 for a single
// ProblemContext frame: enrich via IPV, enforce recursion-controller
// invariants against the current stack top, plan, execute, record.
func (a *Agent) solveProblem(pc problemctx.Context) (string, error) {
	ctx, span := tracing.StartSpan(context.Background(), "solve", pc.Depth, "agent", a.name)
	defer span.End()

	start := time.Now()
	actionType := "solve"
	if len(a.stack) > 0 {
		actionType = "agent_solve_call"

		parent := a.stack[len(a.stack)-1]
		isIdentity, err := a.controller.Check(pc, parent)
		if err != nil {
			msg := a.controller.BaseCaseMessage(pc.ProblemStatement)
			// Record at the parent's depth: the frontier actually reached,
			// since the attempt to go one level deeper was rejected rather
			// than genuinely explored.
			capped := pc
			capped.Depth = parent.Depth
			a.recordAction(actionType, msg, capped, start, true, "")
			return msg, nil
		}
		if isIdentity {
			msg := a.controller.BaseCaseMessage(pc.ProblemStatement)
			a.recordAction(actionType, msg, pc, start, true, "")
			return msg, nil
		}
	}

	a.events.Emit(event.Status(a.name, "solve", pc.ProblemStatement))
	if enriched, err := a.ipvAssembler.Assemble(pc.ProblemStatement, ""); err == nil && enriched != "" {
		pc.ProblemStatement = enriched
	}

	a.stack = append(a.stack, pc)
	defer func() { a.stack = a.stack[:len(a.stack)-1] }()

	p, err := a.Plan(pc)
	if err != nil {
		a.recordAction(actionType, "plan failed", pc, start, false, err.Error())
		return "", err
	}

	result, err := a.executor.Execute(ctx, pc.ProblemStatement, p)
	if err != nil {
		a.recordAction(actionType, "execution failed", pc, start, false, err.Error())
		a.events.Emit(event.Error(a.name, err))
		return "", err
	}

	a.recordAction(actionType, result, pc, start, true, "")
	a.events.Emit(event.FinalResult(a.name, result))
	return result, nil
}

func (a *Agent) recordAction(actionType string, result any, pc problemctx.Context, start time.Time, success bool, errMsg string) {
	a.history.Append(history.Action{
		Type:             actionType,
		Description:      pc.ProblemStatement,
		Depth:            pc.Depth,
		Result:           result,
		ProblemStatement: pc.ProblemStatement,
		Success:          success,
		ExecutionTime:    time.Since(start),
		ErrorMessage:     errMsg,
	})
	metrics.ActionsTotal.WithLabelValues(actionType, fmt.Sprintf("%t", success)).Inc()
}

// SolveAction implements workflow.Solver: each FSM state action
// re-enters solve at depth+1 (spec.md §4.5 step 3, §4.11 step 4).
func (a *Agent) SolveAction(action, objective string, parameters map[string]any) (any, error) {
	var parent problemctx.Context
	if len(a.stack) > 0 {
		parent = a.stack[len(a.stack)-1]
	} else {
		parent = problemctx.Root(objective)
	}
	child := parent.Child(objective, action)
	return a.solveProblem(child)
}

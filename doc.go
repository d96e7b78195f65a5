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

// Package axiom is a planner/executor/workflow agent runtime: a problem
// statement goes in, a Strategy Selector picks how to solve it (direct
// answer, generated code, a declarative multi-step workflow, delegation
// to another agent, escalation to a human, a request for more input, or
// recursive decomposition), and an Executor dispatches the chosen Plan.
//
// The runtime's building blocks live in their own packages: problemctx
// (recursion bookkeeping), strategy (the Strategy Selector and its
// strategies), plan (the Plan tagged union), executor (Plan dispatch),
// workflow (the FSM-driven Workflow Engine), resource (the pluggable
// LLM/coding/input resource contract), event (the synchronous Event
// Bus), async (the Promise/Pool adapter), history (the Action History
// audit log), and agent (the Agent Core tying all of the above
// together behind Solve/Plan/Chat/Reason).
//
// See cmd/axiom for the command-line front end.
package axiom

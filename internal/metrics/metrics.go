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

// Package metrics exposes the Agent's live metrics (spec.md §3:
// is_running, current_step, elapsed_time, tokens_per_sec) as Prometheus
// gauges, one vector per metric labeled by agent name.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// IsRunning is 1 between the named agent's Acquire and Release.
	IsRunning = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "axiom_agent_running",
		Help: "1 if the agent is currently acquired (between Acquire and Release).",
	}, []string{"agent"})

	// ElapsedSeconds is the wall-clock time since the agent's most
	// recent Acquire, as last observed.
	ElapsedSeconds = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "axiom_agent_elapsed_seconds",
		Help: "Elapsed time since the agent's most recent Acquire.",
	}, []string{"agent"})

	// TokensPerSecond is the agent's most recently observed LLM
	// throughput.
	TokensPerSecond = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "axiom_agent_tokens_per_second",
		Help: "Most recently observed LLM token throughput for the agent.",
	}, []string{"agent"})

	// ActionsTotal counts actions appended to the action history, by
	// type and success.
	ActionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "axiom_actions_total",
		Help: "Total actions recorded in the action history.",
	}, []string{"type", "success"})
)

func init() {
	prometheus.MustRegister(IsRunning, ElapsedSeconds, TokensPerSecond, ActionsTotal)
}

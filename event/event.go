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

// Package event implements the per-agent Event Bus (spec.md §4.1, C1):
// synchronous fan-out of typed lifecycle/log events to registered
// observers, with isolated callback failures.
package event

import (
	"fmt"
)

// Kind tags the concrete payload carried by an Event.
type Kind string

const (
	KindLog         Kind = "log"
	KindStatus      Kind = "status"
	KindToken       Kind = "token"
	KindToolStart   Kind = "tool_start"
	KindToolEnd     Kind = "tool_end"
	KindProgress    Kind = "progress"
	KindFinalResult Kind = "final_result"
	KindError       Kind = "error"
	KindDone        Kind = "done"
)

// Level is the severity of a Log event, matching Agent.log's vocabulary.
type Level string

const (
	LevelDebug   Level = "DEBUG"
	LevelInfo    Level = "INFO"
	LevelWarning Level = "WARNING"
	LevelError   Level = "ERROR"
)

// Event is a single typed record broadcast on the bus. Exactly one of the
// payload fields below is meaningful, selected by Kind; this keeps the
// type a flat struct (cheap to construct, easy to switch on) rather than
// an interface hierarchy.
type Event struct {
	AgentName string
	Seq       uint64
	Kind      Kind

	// Log
	Level   Level
	Message string

	// Status
	Step   string
	Detail string

	// Token
	Text string

	// ToolStart / ToolEnd
	ToolName   string
	ToolResult string

	// Progress
	Fraction float64

	// FinalResult
	Value any

	// Error
	Err string
}

func (e Event) String() string {
	switch e.Kind {
	case KindLog:
		return fmt.Sprintf("[%s] %s: %s", e.Level, e.AgentName, e.Message)
	case KindStatus:
		return fmt.Sprintf("%s: status=%s detail=%s", e.AgentName, e.Step, e.Detail)
	case KindToken:
		return fmt.Sprintf("%s: token=%q", e.AgentName, e.Text)
	case KindToolStart:
		return fmt.Sprintf("%s: tool_start=%s", e.AgentName, e.ToolName)
	case KindToolEnd:
		return fmt.Sprintf("%s: tool_end=%s result=%s", e.AgentName, e.ToolName, e.ToolResult)
	case KindProgress:
		return fmt.Sprintf("%s: progress=%.2f", e.AgentName, e.Fraction)
	case KindFinalResult:
		return fmt.Sprintf("%s: final_result=%v", e.AgentName, e.Value)
	case KindError:
		return fmt.Sprintf("%s: error=%s", e.AgentName, e.Err)
	case KindDone:
		return fmt.Sprintf("%s: done", e.AgentName)
	default:
		return fmt.Sprintf("%s: unknown event", e.AgentName)
	}
}

// Log builds a KindLog event.
func Log(agent string, level Level, message string) Event {
	return Event{AgentName: agent, Kind: KindLog, Level: level, Message: message}
}

// Status builds a KindStatus event.
func Status(agent, step, detail string) Event {
	return Event{AgentName: agent, Kind: KindStatus, Step: step, Detail: detail}
}

// Token builds a KindToken event.
func Token(agent, text string) Event {
	return Event{AgentName: agent, Kind: KindToken, Text: text}
}

// ToolStart builds a KindToolStart event.
func ToolStart(agent, tool string) Event {
	return Event{AgentName: agent, Kind: KindToolStart, ToolName: tool}
}

// ToolEnd builds a KindToolEnd event.
func ToolEnd(agent, tool, result string) Event {
	return Event{AgentName: agent, Kind: KindToolEnd, ToolName: tool, ToolResult: result}
}

// Progress builds a KindProgress event.
func Progress(agent string, fraction float64) Event {
	return Event{AgentName: agent, Kind: KindProgress, Fraction: fraction}
}

// FinalResult builds a KindFinalResult event.
func FinalResult(agent string, value any) Event {
	return Event{AgentName: agent, Kind: KindFinalResult, Value: value}
}

// Error builds a KindError event.
func Error(agent string, err error) Event {
	return Event{AgentName: agent, Kind: KindError, Err: err.Error()}
}

// Done builds a KindDone event.
func Done(agent string) Event {
	return Event{AgentName: agent, Kind: KindDone}
}

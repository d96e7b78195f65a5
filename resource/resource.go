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

// Package resource implements the Resource Registry (spec.md §4.3, C3):
// named handles to LLM, code-sandbox, and user-input resources with a
// uniform initialize/query/list-tools/stop/cleanup lifecycle.
package resource

import "context"

// Capability tags what kind of external collaborator a Handle fronts.
type Capability string

const (
	CapabilityLLM    Capability = "llm"
	CapabilityCoding Capability = "coding"
	CapabilityInput  Capability = "input"
	CapabilityCustom Capability = "custom"
)

// Message is one entry in a chat-style request.
type Message struct {
	Role    string
	Content string
}

// Request is the uniform call shape into a resource, per spec.md §6: one
// of {Prompt[,System]}, {Messages}, or {Tool, Arguments}.
type Request struct {
	Prompt    string
	System    string
	Messages  []Message
	Tool      string
	Arguments map[string]any

	// Timeout, if non-zero, bounds how long the resource may take; the
	// coding sandbox defaults to 30s per spec.md §5 when this is zero.
	Timeout int
}

// Response is the uniform result shape from a resource query.
type Response struct {
	Success bool
	Content string
	Error   string
}

// ToolDescriptor describes one tool an LLM resource can call.
type ToolDescriptor struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Handle is the uniform lifecycle+call surface for any resource kind.
type Handle interface {
	// Capability reports which external collaborator this handle fronts.
	Capability() Capability

	// Initialize acquires external dependencies. Must be idempotent:
	// calling it twice has the same effect as calling it once.
	Initialize(ctx context.Context) error

	// Query is the only uniform call into the resource.
	Query(ctx context.Context, req Request) (Response, error)

	// ListTools returns tool-call descriptors, empty for resources that
	// don't support tool calling.
	ListTools(ctx context.Context) ([]ToolDescriptor, error)

	// Stop releases live connections/processes but keeps the handle
	// addressable; Cleanup runs after Stop on teardown.
	Stop(ctx context.Context) error
	Cleanup(ctx context.Context) error
}

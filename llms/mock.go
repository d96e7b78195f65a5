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

// Package llms provides concrete resource.Handle implementations for the
// LLM capability: a deterministic mock (gated by DANA_MOCK_LLM, spec.md
// §6) plus real Anthropic and OpenAI backed providers.
package llms

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kadirpekel/axiom/resource"
)

// Responder lets tests and the mock provider script canned answers by
// matching on substrings of the incoming prompt; the first match wins.
type Responder struct {
	Match    string
	Response string
}

// MockProvider is the deterministic LLM resource returned when
// DANA_MOCK_LLM is true. It never calls out over the network.
type MockProvider struct {
	mu          sync.Mutex
	initialized bool
	responders  []Responder
	fallback    string
	calls       int
}

// NewMockProvider creates a mock LLM resource. fallback is returned when
// no responder matches the prompt.
func NewMockProvider(fallback string, responders ...Responder) *MockProvider {
	if fallback == "" {
		fallback = "plan: DIRECT\nconfidence: 0.9\nreasoning: mock default\nsolution: \"mock answer\"\n"
	}
	return &MockProvider{fallback: fallback, responders: responders}
}

// AddResponder registers an additional canned response, evaluated in
// registration order before the fallback.
func (m *MockProvider) AddResponder(match, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responders = append(m.responders, Responder{Match: match, Response: response})
}

// Calls reports how many queries this provider has served.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockProvider) Capability() resource.Capability { return resource.CapabilityLLM }

func (m *MockProvider) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initialized = true
	return nil
}

func (m *MockProvider) Query(ctx context.Context, req resource.Request) (resource.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return resource.Response{}, fmt.Errorf("mock llm: not initialized")
	}
	m.calls++

	prompt := req.Prompt
	if prompt == "" {
		for _, msg := range req.Messages {
			prompt += msg.Content + "\n"
		}
	}

	for _, r := range m.responders {
		if strings.Contains(prompt, r.Match) {
			return resource.Response{Success: true, Content: r.Response}, nil
		}
	}

	return resource.Response{Success: true, Content: m.fallback}, nil
}

func (m *MockProvider) ListTools(ctx context.Context) ([]resource.ToolDescriptor, error) {
	return nil, nil
}

func (m *MockProvider) Stop(ctx context.Context) error { return nil }

func (m *MockProvider) Cleanup(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initialized = false
	return nil
}

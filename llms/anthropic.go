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

package llms

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/kadirpekel/axiom/resource"
)

// AnthropicConfig configures the real Anthropic-backed LLM resource.
type AnthropicConfig struct {
	APIKey    string
	Model     string
	MaxTokens int64
	BaseURL   string
}

// AnthropicProvider is a resource.Handle fronting the Anthropic Messages
// API via the official SDK. It satisfies the LLM sub-contract in
// spec.md §4.3: accepts {prompt[,system]} or {messages}, returns
// assistant text.
type AnthropicProvider struct {
	cfg         AnthropicConfig
	mu          sync.Mutex
	client      anthropic.Client
	initialized bool
	calls       int64
}

// NewAnthropicProvider creates an uninitialized Anthropic resource; the
// SDK client is built lazily in Initialize so construction never fails
// on a missing API key before the caller has a chance to set one.
func NewAnthropicProvider(cfg AnthropicConfig) *AnthropicProvider {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Model == "" {
		cfg.Model = string(anthropic.ModelClaude3_7SonnetLatest)
	}
	return &AnthropicProvider{cfg: cfg}
}

func (p *AnthropicProvider) Capability() resource.Capability { return resource.CapabilityLLM }

func (p *AnthropicProvider) Initialize(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if p.cfg.APIKey == "" {
		return fmt.Errorf("anthropic: API key required")
	}

	opts := []option.RequestOption{option.WithAPIKey(p.cfg.APIKey)}
	if p.cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(p.cfg.BaseURL))
	}
	p.client = anthropic.NewClient(opts...)
	p.initialized = true
	return nil
}

func (p *AnthropicProvider) Query(ctx context.Context, req resource.Request) (resource.Response, error) {
	p.mu.Lock()
	initialized := p.initialized
	client := p.client
	p.mu.Unlock()

	if !initialized {
		return resource.Response{}, fmt.Errorf("anthropic: resource not initialized")
	}

	messages := toAnthropicMessages(req)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.cfg.Model),
		Messages:  messages,
		MaxTokens: p.cfg.MaxTokens,
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		return resource.Response{Success: false, Error: err.Error()}, err
	}

	atomic.AddInt64(&p.calls, 1)

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return resource.Response{Success: true, Content: text}, nil
}

func toAnthropicMessages(req resource.Request) []anthropic.MessageParam {
	if len(req.Messages) > 0 {
		out := make([]anthropic.MessageParam, 0, len(req.Messages))
		for _, m := range req.Messages {
			if m.Role == "user" {
				out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
			} else {
				out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
			}
		}
		return out
	}
	return []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt))}
}

func (p *AnthropicProvider) ListTools(ctx context.Context) ([]resource.ToolDescriptor, error) {
	return nil, nil
}

func (p *AnthropicProvider) Stop(ctx context.Context) error {
	return nil
}

func (p *AnthropicProvider) Cleanup(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.initialized = false
	return nil
}

// Calls reports how many successful queries this provider has served.
func (p *AnthropicProvider) Calls() int64 {
	return atomic.LoadInt64(&p.calls)
}

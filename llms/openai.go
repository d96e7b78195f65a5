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
	"errors"
	"fmt"
	"sync"

	openailib "github.com/sashabaranov/go-openai"

	"github.com/kadirpekel/axiom/internal/httpclient"
	"github.com/kadirpekel/axiom/resource"
)

// OpenAIConfig configures the secondary OpenAI-backed LLM resource, kept
// alongside Anthropic in the Resource Registry so an agent can run with
// either registered.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}

// OpenAIProvider is a resource.Handle fronting the OpenAI chat completions
// API.
type OpenAIProvider struct {
	cfg         OpenAIConfig
	mu          sync.Mutex
	client      *openailib.Client
	initialized bool
}

// NewOpenAIProvider creates an uninitialized OpenAI resource.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	if cfg.Model == "" {
		cfg.Model = openailib.GPT4oMini
	}
	return &OpenAIProvider{cfg: cfg}
}

func (p *OpenAIProvider) Capability() resource.Capability { return resource.CapabilityLLM }

func (p *OpenAIProvider) Initialize(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if p.cfg.APIKey == "" {
		return fmt.Errorf("openai: API key required")
	}

	clientConfig := openailib.DefaultConfig(p.cfg.APIKey)
	if p.cfg.BaseURL != "" {
		clientConfig.BaseURL = p.cfg.BaseURL
	}
	p.client = openailib.NewClientWithConfig(clientConfig)
	p.initialized = true
	return nil
}

func (p *OpenAIProvider) Query(ctx context.Context, req resource.Request) (resource.Response, error) {
	p.mu.Lock()
	initialized := p.initialized
	client := p.client
	p.mu.Unlock()

	if !initialized {
		return resource.Response{}, fmt.Errorf("openai: resource not initialized")
	}

	messages := toOpenAIMessages(req)

	chatReq := openailib.ChatCompletionRequest{
		Model:       p.cfg.Model,
		Messages:    messages,
		Temperature: p.cfg.Temperature,
	}
	if p.cfg.MaxTokens > 0 {
		chatReq.MaxTokens = p.cfg.MaxTokens
	}

	resp, err := client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		var apiErr *openailib.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
			err = &httpclient.RetryableError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
		}
		return resource.Response{Success: false, Error: err.Error()}, err
	}
	if len(resp.Choices) == 0 {
		return resource.Response{Success: false, Error: "no choices returned"}, fmt.Errorf("openai: empty response")
	}

	return resource.Response{Success: true, Content: resp.Choices[0].Message.Content}, nil
}

func toOpenAIMessages(req resource.Request) []openailib.ChatCompletionMessage {
	var out []openailib.ChatCompletionMessage
	if req.System != "" {
		out = append(out, openailib.ChatCompletionMessage{Role: openailib.ChatMessageRoleSystem, Content: req.System})
	}
	if len(req.Messages) > 0 {
		for _, m := range req.Messages {
			role := openailib.ChatMessageRoleUser
			if m.Role == "assistant" {
				role = openailib.ChatMessageRoleAssistant
			} else if m.Role == "system" {
				role = openailib.ChatMessageRoleSystem
			}
			out = append(out, openailib.ChatCompletionMessage{Role: role, Content: m.Content})
		}
		return out
	}
	out = append(out, openailib.ChatCompletionMessage{Role: openailib.ChatMessageRoleUser, Content: req.Prompt})
	return out
}

func (p *OpenAIProvider) ListTools(ctx context.Context) ([]resource.ToolDescriptor, error) {
	return nil, nil
}

func (p *OpenAIProvider) Stop(ctx context.Context) error { return nil }

func (p *OpenAIProvider) Cleanup(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.initialized = false
	return nil
}

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

package resource

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
)

// StdinInput is the Input provider's concrete implementation: prompt(text)
// returns a user-supplied string, cancellable via ctx (spec.md §4.3, §6).
type StdinInput struct {
	mu          sync.Mutex
	reader      *bufio.Reader
	initialized bool
}

// NewStdinInput wraps r (typically os.Stdin) as an Input resource.
func NewStdinInput(r io.Reader) *StdinInput {
	return &StdinInput{reader: bufio.NewReader(r)}
}

func (s *StdinInput) Capability() Capability { return CapabilityInput }

func (s *StdinInput) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
	return nil
}

// Query reads one line, honoring ctx cancellation via a background
// goroutine so a hung read doesn't block the caller forever.
func (s *StdinInput) Query(ctx context.Context, req Request) (Response, error) {
	s.mu.Lock()
	initialized := s.initialized
	s.mu.Unlock()
	if !initialized {
		return Response{}, fmt.Errorf("stdin input: not initialized")
	}

	type result struct {
		line string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		line, err := s.reader.ReadString('\n')
		done <- result{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return Response{Success: false, Error: "cancelled"}, ctx.Err()
	case r := <-done:
		if r.err != nil && r.err != io.EOF {
			return Response{Success: false, Error: r.err.Error()}, r.err
		}
		return Response{Success: true, Content: trimNewline(r.line)}, nil
	}
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

func (s *StdinInput) ListTools(ctx context.Context) ([]ToolDescriptor, error) {
	return nil, nil
}

func (s *StdinInput) Stop(ctx context.Context) error { return nil }

func (s *StdinInput) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = false
	return nil
}

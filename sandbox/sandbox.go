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

// Package sandbox implements the coding resource's invocation contract
// (spec.md §4.3, §6): execute(source, {timeout}) -> text or typed error.
// It is intentionally NOT a from-scratch Python interpreter (an explicit
// Non-goal); it shells out to a configured interpreter the way the
// teacher's CommandTool shells out to "sh -c", with a hard context
// timeout and no state shared between calls.
package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/kadirpekel/axiom/axerrors"
	"github.com/kadirpekel/axiom/resource"
)

const defaultTimeout = 30 * time.Second

// Config selects the interpreter used to run submitted source.
type Config struct {
	Interpreter string   // e.g. "python3"
	Args        []string // flags prepended before the source-file path
	WorkDir     string
}

// Subprocess is a resource.Handle that runs each Query's source in a
// fresh interpreter subprocess, writing it to a temp file so multi-line
// sources with embedded quotes need no shell escaping.
type Subprocess struct {
	cfg Config
	log hclog.Logger
}

// New creates a coding-sandbox resource. An empty Interpreter defaults to
// "python3".
func New(cfg Config) *Subprocess {
	if cfg.Interpreter == "" {
		cfg.Interpreter = "python3"
	}
	return &Subprocess{cfg: cfg, log: NewSubprocessLogger("sandbox", nil)}
}

func (s *Subprocess) Capability() resource.Capability { return resource.CapabilityCoding }

// Initialize verifies the interpreter is on PATH. Idempotent: repeated
// calls re-check but never accumulate state.
func (s *Subprocess) Initialize(ctx context.Context) error {
	if _, err := exec.LookPath(s.cfg.Interpreter); err != nil {
		return axerrors.Wrap(axerrors.ResourceUnavailable, "sandbox.Subprocess.Initialize",
			fmt.Sprintf("interpreter %q not found", s.cfg.Interpreter), err)
	}
	return nil
}

// Query executes req.Prompt (or the first message's content) as source,
// bounded by req.Timeout seconds (spec default 30s). Each call runs in a
// fresh interpreter process from its own temp file, so no interpreter
// state carries over; every call uses the same working directory
// (cfg.WorkDir) and inherits the parent's environment, and files written
// there persist between calls.
func (s *Subprocess) Query(ctx context.Context, req resource.Request) (resource.Response, error) {
	source := req.Prompt
	if source == "" && len(req.Messages) > 0 {
		source = req.Messages[0].Content
	}
	if source == "" {
		return resource.Response{}, axerrors.New(axerrors.InvalidArgument, "sandbox.Subprocess.Query", "source cannot be empty")
	}

	timeout := defaultTimeout
	if req.Timeout > 0 {
		timeout = time.Duration(req.Timeout) * time.Second
	}

	tmp, err := os.CreateTemp("", "axiom-sandbox-*.py")
	if err != nil {
		return resource.Response{}, axerrors.Wrap(axerrors.InternalError, "sandbox.Subprocess.Query", "create temp file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(source); err != nil {
		tmp.Close()
		return resource.Response{}, axerrors.Wrap(axerrors.InternalError, "sandbox.Subprocess.Query", "write temp file", err)
	}
	tmp.Close()

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string{}, s.cfg.Args...), tmp.Name())
	cmd := exec.CommandContext(execCtx, s.cfg.Interpreter, args...)
	cmd.Dir = s.cfg.WorkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if execCtx.Err() == context.DeadlineExceeded {
		return resource.Response{Success: false, Error: "execution timed out"},
			axerrors.New(axerrors.Timeout, "sandbox.Subprocess.Query", fmt.Sprintf("exceeded %s", timeout))
	}
	if runErr != nil {
		s.log.Debug("subprocess exited non-zero", "interpreter", s.cfg.Interpreter, "error", runErr, "stderr", stderr.String())
		return resource.Response{
			Success: false,
			Content: stdout.String(),
			Error:   fmt.Sprintf("%v: %s", runErr, stderr.String()),
		}, nil
	}

	return resource.Response{Success: true, Content: stdout.String()}, nil
}

func (s *Subprocess) ListTools(ctx context.Context) ([]resource.ToolDescriptor, error) {
	return nil, nil
}

func (s *Subprocess) Stop(ctx context.Context) error    { return nil }
func (s *Subprocess) Cleanup(ctx context.Context) error { return nil }

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

package workflow

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kadirpekel/axiom/axerrors"
	"github.com/kadirpekel/axiom/fsm"
)

// stepSpec is one entry of workflow.steps in the YAML document
// (spec.md §6 "Workflow YAML").
type stepSpec struct {
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	Action     string         `yaml:"action"`
	Objective  string         `yaml:"objective"`
	Parameters map[string]any `yaml:"parameters"`
	Conditions map[string]any `yaml:"conditions"`
	ErrorStep  string         `yaml:"error_step"`
}

type workflowSpec struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []stepSpec     `yaml:"steps"`
	FSM         map[string]any `yaml:"fsm"`
	Metadata    map[string]any `yaml:"metadata"`
}

type documentSpec struct {
	Workflow *workflowSpec `yaml:"workflow"`
}

// Factory compiles Workflow YAML (fenced or raw) into Instance values
// (spec.md §4.6, C6).
type Factory struct{}

// NewFactory returns a Factory. It carries no state; its methods are
// pure functions of their input.
func NewFactory() *Factory { return &Factory{} }

// FromYAML parses text (which may be wrapped in a ```yaml fence) and
// compiles it into a workflow Instance whose FSM links STEP_<id> states
// linearly via "next", wrapped by START/COMPLETE, with an optional
// (STEP_i, "error") -> STEP_j edge per step's error_step.
func (fa *Factory) FromYAML(text string) (*Instance, error) {
	original := text
	raw := ExtractFence(text)

	var doc documentSpec
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, axerrors.Wrap(axerrors.InvalidFormat, "workflow.factory", "could not parse workflow yaml", err)
	}
	if doc.Workflow == nil {
		return nil, axerrors.New(axerrors.InvalidFormat, "workflow.factory", "missing \"workflow\" key")
	}
	w := doc.Workflow
	if strings.TrimSpace(w.Name) == "" {
		return nil, axerrors.New(axerrors.InvalidFormat, "workflow.factory", "workflow.name is required")
	}
	if w.Steps == nil {
		return nil, axerrors.New(axerrors.InvalidFormat, "workflow.factory", "workflow.steps must be a list")
	}

	stateNames := make([]string, 0, len(w.Steps)+2)
	stateNames = append(stateNames, fsm.Start)
	idToState := make(map[string]string, len(w.Steps))
	for idx, s := range w.Steps {
		id := s.ID
		if id == "" {
			id = fmt.Sprintf("step_%d", idx+1)
		}
		state := "STEP_" + id
		idToState[id] = state
		stateNames = append(stateNames, state)
	}
	stateNames = append(stateNames, fsm.Complete)

	f, err := fsm.New(stateNames, fsm.Start)
	if err != nil {
		return nil, axerrors.Wrap(axerrors.InternalError, "workflow.factory", "fsm construction failed", err)
	}

	prev := fsm.Start
	for idx, s := range w.Steps {
		id := s.ID
		if id == "" {
			id = fmt.Sprintf("step_%d", idx+1)
		}
		state := idToState[id]
		if err := f.AddTransition(prev, "next", state); err != nil {
			return nil, axerrors.Wrap(axerrors.InternalError, "workflow.factory", "linking step transition failed", err)
		}
		f.SetStateMetadata(state, fsm.StateMetadata{
			Action:     s.Action,
			Objective:  s.Objective,
			Parameters: s.Parameters,
			Conditions: s.Conditions,
			Status:     fsm.StatusPending,
		})
		if s.ErrorStep != "" {
			target, ok := idToState[s.ErrorStep]
			if !ok {
				return nil, axerrors.New(axerrors.InvalidFormat, "workflow.factory", fmt.Sprintf("error_step %q does not reference a known step id", s.ErrorStep))
			}
			if err := f.AddTransition(state, "error", target); err != nil {
				return nil, axerrors.Wrap(axerrors.InternalError, "workflow.factory", "linking error_step transition failed", err)
			}
		}
		prev = state
	}
	if err := f.AddTransition(prev, "next", fsm.Complete); err != nil {
		return nil, axerrors.Wrap(axerrors.InternalError, "workflow.factory", "linking final transition failed", err)
	}

	inst := New(w.Name, f)
	inst.OriginalYAML = original
	if w.Metadata != nil {
		for k, v := range w.Metadata {
			inst.Metadata[k] = v
		}
	}
	inst.Metadata["description"] = w.Description
	return inst, nil
}

// ExtractFence implements the shared fenced-block extraction algorithm
// used by both the Workflow Factory (C6) and the Plan Parser (C7):
// prefer a ```yaml fence (extracted between the opening fence and the
// LAST closing fence), else a generic fence, else the trimmed full text.
func ExtractFence(text string) string {
	if body, ok := extractNamedFence(text, "yaml"); ok {
		return body
	}
	if body, ok := extractNamedFence(text, ""); ok {
		return body
	}
	return strings.TrimSpace(text)
}

func extractNamedFence(text, tag string) (string, bool) {
	opening := "```" + tag
	start := strings.Index(text, opening)
	if start == -1 {
		return "", false
	}
	bodyStart := start + len(opening)
	// Skip to end of the opening fence's line.
	if nl := strings.IndexByte(text[bodyStart:], '\n'); nl != -1 {
		bodyStart += nl + 1
	}
	end := strings.LastIndex(text[bodyStart:], "```")
	if end == -1 {
		return "", false
	}
	return strings.TrimSpace(text[bodyStart : bodyStart+end]), true
}

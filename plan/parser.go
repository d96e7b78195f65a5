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

package plan

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kadirpekel/axiom/workflow"
)

// Raw is the shape read off LLM output YAML (spec.md §6 "Plan YAML").
type Raw struct {
	PlanField  string
	Solution   string
	Confidence float64
	Reasoning  string
	Details    map[string]any
}

type rawDoc struct {
	Plan       string         `yaml:"plan"`
	Confidence float64        `yaml:"confidence"`
	Reasoning  string         `yaml:"reasoning"`
	Solution   string         `yaml:"solution"`
	Details    map[string]any `yaml:"details"`
}

// Parse implements the Plan Parser (C7, spec.md §4.7). It is total: for
// any input string it returns a Raw value, never an error — a YAML parse
// failure degrades to treating the whole (fenced-extracted) text as the
// "plan" field, which Normalize then resolves to Direct on ambiguity.
func Parse(text string) Raw {
	body := workflow.ExtractFence(text)

	var doc rawDoc
	if err := yaml.Unmarshal([]byte(body), &doc); err != nil || doc.Plan == "" && doc.Solution == "" {
		return Raw{PlanField: body}
	}

	solution := doc.Solution
	if normalize(doc.Plan) == KindCode {
		solution = stripCodeFence(solution)
	}

	return Raw{
		PlanField:  doc.Plan,
		Solution:   solution,
		Confidence: doc.Confidence,
		Reasoning:  doc.Reasoning,
		Details:    doc.Details,
	}
}

// Normalize maps a raw plan-field string to a Kind (spec.md §4.7 step 6):
// case-insensitive, accepting legacy "TYPE_X" prefixes and the synonyms
// python->Code, user->Input, human->Escalate, specialist->Delegate.
// Defaults to Direct on ambiguity.
func normalize(field string) Kind {
	f := strings.ToLower(strings.TrimSpace(field))
	f = strings.TrimPrefix(f, "type_")

	switch f {
	case "direct":
		return KindDirect
	case "code", "python":
		return KindCode
	case "workflow":
		return KindWorkflow
	case "delegate", "specialist":
		return KindDelegate
	case "escalate", "human":
		return KindEscalate
	case "input", "user":
		return KindInput
	case "manual":
		return KindManual
	default:
		return KindDirect
	}
}

// Normalize exports normalize for callers outside the package (C9).
func Normalize(field string) Kind { return normalize(field) }

func stripCodeFence(s string) string {
	return workflow.ExtractFence(s)
}

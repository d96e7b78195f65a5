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

// Package ipv defines the IPV/prompt-optimizer collaborator boundary
// (spec.md §6): an optional problem-enrichment step whose absence must
// never fail the solve pipeline.
package ipv

// Assembler enriches a problem statement against a template before it
// reaches a strategy. Real implementations live outside this module;
// Passthrough is the default when none is configured.
type Assembler interface {
	Assemble(problem, template string) (string, error)
}

// Passthrough returns problem unchanged, ignoring template. It is the
// default Assembler so Agent Core never has to special-case a nil
// collaborator.
type Passthrough struct{}

func (Passthrough) Assemble(problem, template string) (string, error) {
	return problem, nil
}

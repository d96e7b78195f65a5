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

// Package problemctx implements ProblemContext and the Recursion
// Controller (C12) from spec.md §3, §4.12.
package problemctx

import (
	"fmt"
	"strings"

	"github.com/kadirpekel/axiom/axerrors"
)

// Context is a single solve-call stack frame (spec.md §3 "ProblemContext").
type Context struct {
	ProblemStatement string
	Objective        string
	OriginalProblem  string
	Depth            int
	Constraints      map[string]any
	Assumptions      []string
}

// Root builds the top-level ProblemContext for a fresh solve call.
func Root(problem string) Context {
	return Context{
		ProblemStatement: problem,
		OriginalProblem:  problem,
		Depth:            0,
		Constraints:      map[string]any{},
	}
}

// Child derives a sub-context: inherits OriginalProblem, copies
// constraints/assumptions (so the child may extend without mutating the
// parent), and increments depth.
func (c Context) Child(problem, objective string) Context {
	constraints := make(map[string]any, len(c.Constraints))
	for k, v := range c.Constraints {
		constraints[k] = v
	}
	assumptions := make([]string, len(c.Assumptions))
	copy(assumptions, c.Assumptions)

	return Context{
		ProblemStatement: problem,
		Objective:        objective,
		OriginalProblem:  c.OriginalProblem,
		Depth:            c.Depth + 1,
		Constraints:      constraints,
		Assumptions:      assumptions,
	}
}

// Controller enforces the Recursion Controller's invariants: a depth
// cap D_max and identity-loop detection (spec.md §4.12).
type Controller struct {
	DMax int
}

// NewController builds a Controller with the given D_max.
func NewController(dmax int) *Controller {
	return &Controller{DMax: dmax}
}

// BaseCaseMessage is the text returned when a sub-problem must be
// substituted with a base case (spec.md §4.12).
func (c *Controller) BaseCaseMessage(problem string) string {
	return fmt.Sprintf("Base case reached for: %s. Maximum recursion depth (%d) exceeded.", problem, c.DMax)
}

// Check enforces depth ≤ D_max and the identity-loop rule against
// parent's problem statement; returns a DepthExceeded error when the cap
// is hit, or reports isIdentity=true when child repeats its parent
// problem case-insensitively and whitespace-normalized.
func (c *Controller) Check(child Context, parent Context) (isIdentity bool, err error) {
	if child.Depth > c.DMax {
		return false, axerrors.New(axerrors.DepthExceeded, "problemctx.check",
			fmt.Sprintf("depth %d exceeds maximum recursion depth %d", child.Depth, c.DMax))
	}
	return normalize(child.ProblemStatement) == normalize(parent.ProblemStatement), nil
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

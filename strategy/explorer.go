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

package strategy

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kadirpekel/axiom/plan"
	"github.com/kadirpekel/axiom/resource"
)

// maxCandidates bounds Explorer's fan-out, mirroring the original
// parallel-exploration strategy's own cap.
const maxCandidates = 5

var explorerKeywords = []string{"complex", "analysis", "optimize", "design", "research"}

// Explorer is a supplemented strategy (carried over from the original
// parallel-exploration strategy, not present in spec.md): it asks the
// LLM for several independently-worded candidate answers concurrently
// and keeps the longest non-empty one as a cheap stand-in for a quality
// score, since this runtime has no grader resource.
type Explorer struct {
	LLM        resource.Handle
	Candidates int
}

// NewExplorer builds an Explorer strategy over llm with the default
// candidate fan-out.
func NewExplorer(llm resource.Handle) *Explorer {
	return &Explorer{LLM: llm, Candidates: 3}
}

func (e *Explorer) Name() string { return "explorer" }

// Confidence is elevated for problems whose phrasing suggests more than
// one viable approach exists.
func (e *Explorer) Confidence(problem string, ctx Context) float64 {
	lower := strings.ToLower(problem)
	for _, kw := range explorerKeywords {
		if strings.Contains(lower, kw) {
			return 0.5
		}
	}
	return 0
}

func (e *Explorer) fanout() int {
	n := e.Candidates
	if n <= 0 {
		n = 3
	}
	if n > maxCandidates {
		n = maxCandidates
	}
	return n
}

// CreatePlan runs fanout() independent LLM calls concurrently via
// errgroup and keeps the best (longest) response.
func (e *Explorer) CreatePlan(problem string, ctx Context) (plan.Plan, error) {
	n := e.fanout()
	results := make([]string, n)

	g, gctx := errgroup.WithContext(context.Background())
	var mu sync.Mutex
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			prompt := fmt.Sprintf("Candidate approach #%d for this problem:\n\n%s", i+1, problem)
			resp, err := e.LLM.Query(gctx, resource.Request{Prompt: prompt})
			if err != nil {
				return err
			}
			mu.Lock()
			results[i] = strings.TrimSpace(resp.Content)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	best := ""
	for _, r := range results {
		if len(r) > len(best) {
			best = r
		}
	}

	return plan.Direct{
		Content: best,
		Meta:    plan.Meta{Strategy: "explorer", Complexity: plan.ComplexityComplex, EstimatedDuration: "minutes"},
	}, nil
}

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

// Package memory implements per-agent Conversation Memory (spec.md §4.2,
// C2): an append-only ordered turn log with derived statistics. It is
// intentionally unaware of any other agent's memory - ownership is
// exclusive, per spec.md §3.
package memory

import (
	"sync"
	"time"
)

// Turn is a single (user, assistant) exchange.
type Turn struct {
	User      string
	Assistant string
	Timestamp time.Time
}

// Statistics are derived from the turn log, never written directly.
type Statistics struct {
	TotalMessages int
	TotalTurns    int
	ActiveTurns   int
	SummaryCount  int
	SessionCount  int
}

// Conversation is an append-only, per-agent turn log.
type Conversation struct {
	mu    sync.RWMutex
	turns []Turn
}

// New creates an empty conversation memory.
func New() *Conversation {
	return &Conversation{}
}

// AddTurn appends a (user, assistant) pair, timestamped at call time.
func (c *Conversation) AddTurn(userMsg, assistantMsg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, Turn{
		User:      userMsg,
		Assistant: assistantMsg,
		Timestamp: time.Now(),
	})
}

// GetStatistics derives aggregate counters from the current turn log.
// SummaryCount is always 0 and SessionCount always 1 in this in-memory
// implementation (there is no summarization or multi-session storage in
// the core), kept as explicit fields so a richer memory backend can
// populate them without changing the Statistics shape.
func (c *Conversation) GetStatistics() Statistics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Statistics{
		TotalMessages: len(c.turns) * 2,
		TotalTurns:    len(c.turns),
		ActiveTurns:   len(c.turns),
		SummaryCount:  0,
		SessionCount:  1,
	}
}

// GetRecent returns up to the last n turns, oldest first. n <= 0 returns
// the full log.
func (c *Conversation) GetRecent(n int) []Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if n <= 0 || n >= len(c.turns) {
		out := make([]Turn, len(c.turns))
		copy(out, c.turns)
		return out
	}

	start := len(c.turns) - n
	out := make([]Turn, n)
	copy(out, c.turns[start:])
	return out
}

// Clear empties the turn log. Statistics derived afterward reflect zero
// turns.
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = nil
}

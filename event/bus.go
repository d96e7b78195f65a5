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

package event

import (
	"log/slog"
	"reflect"
	"sync"

	"github.com/kadirpekel/axiom/axerrors"
)

// Callback observes emitted events. Implementations must not block the
// bus for long: emit is synchronous from the producer's goroutine.
type Callback func(Event)

// Bus is a per-agent fan-out of events to registered callbacks. Registry
// mutation (On/Unregister) is serialized against Emit, but callback
// invocation never holds the registry lock, so a callback is free to
// register or unregister other callbacks without deadlocking.
type Bus struct {
	mu        sync.Mutex
	callbacks []Callback
	seq       uint64
	logger    *slog.Logger
}

// NewBus creates an empty event bus. A nil logger falls back to
// slog.Default() so callback panics are never silently swallowed.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{logger: logger}
}

// On registers a callback for every emitted event, in registration order.
func (b *Bus) On(cb Callback) error {
	if cb == nil {
		return axerrors.New(axerrors.InvalidArgument, "event.Bus.On", "callback cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.callbacks = append(b.callbacks, cb)
	return nil
}

// Unregister removes cb if present. Unregistering an unknown callback is
// a no-op, per spec.md §4.1. Go has no equality for arbitrary funcs, so
// this method compares by reflect.Value pointer identity, which works for
// named functions and methods but not for two distinct closures with
// identical bodies.
func (b *Bus) Unregister(cb Callback) {
	if cb == nil {
		return
	}
	target := reflect.ValueOf(cb).Pointer()

	b.mu.Lock()
	defer b.mu.Unlock()

	for i, existing := range b.callbacks {
		if reflect.ValueOf(existing).Pointer() == target {
			b.callbacks = append(b.callbacks[:i], b.callbacks[i+1:]...)
			return
		}
	}
}

// Emit dispatches ev to every registered callback, in registration order,
// isolating panics and assigning a monotonic sequence number. Every
// callback registered at call time is invoked exactly once.
func (b *Bus) Emit(ev Event) {
	b.mu.Lock()
	b.seq++
	ev.Seq = b.seq
	cbs := make([]Callback, len(b.callbacks))
	copy(cbs, b.callbacks)
	b.mu.Unlock()

	for _, cb := range cbs {
		b.invoke(cb, ev)
	}
}

func (b *Bus) invoke(cb Callback, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Warn("event callback panicked", "agent", ev.AgentName, "recover", r)
		}
	}()
	cb(ev)
}

// Len reports how many callbacks are currently registered.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.callbacks)
}
